package machine

import "github.com/tylergibbs2/gbcore/internal/types"

// SaveState serializes the entire machine into the spec.md §6
// save-state format: magic, version, then one tagged block per
// subsystem. Each subsystem's own Stater packs its naturally related
// regions together (the PPU's block carries VRAM, OAM and the current
// framebuffer, the MMU's carries WRAM, HRAM and in-flight DMA progress,
// the cartridge's carries MBC state, cartridge RAM and, for MBC3, RTC
// registers)
// rather than one tag per named region, since the container format
// only requires tags to be unique, not one-region-per-tag.
func (m *Machine) SaveState() []byte {
	c := types.NewContainer()

	cpuState := types.NewState()
	m.cpu.Save(cpuState)
	c.Put(types.TagCPU, cpuState.Bytes())

	wramState := types.NewState()
	m.mmu.Save(wramState)
	c.Put(types.TagWRAM, wramState.Bytes())

	ppuState := types.NewState()
	m.ppu.Save(ppuState)
	c.Put(types.TagPPU, ppuState.Bytes())

	timerState := types.NewState()
	m.tim.Save(timerState)
	c.Put(types.TagTimer, timerState.Bytes())

	irqState := types.NewState()
	m.irq.Save(irqState)
	c.Put(types.TagIRQ, irqState.Bytes())

	joypadState := types.NewState()
	m.joy.Save(joypadState)
	c.Put(types.TagJoypad, joypadState.Bytes())

	serialState := types.NewState()
	m.ser.Save(serialState)
	c.Put(types.TagSerial, serialState.Bytes())

	mbcState := types.NewState()
	m.cart.Save(mbcState)
	c.Put(types.TagMBC, mbcState.Bytes())

	return c.Marshal()
}

// LoadState restores a machine from bytes previously produced by
// SaveState. It returns IncompatibleStateVersion/TruncatedState from
// container parsing unchanged; a block missing from raw simply leaves
// that subsystem at whatever state it already had.
func (m *Machine) LoadState(raw []byte) error {
	c, err := types.Unmarshal(raw)
	if err != nil {
		return err
	}

	load := func(tag uint8, target types.Stater) {
		if data := c.Get(tag); data != nil {
			target.Load(types.StateFromBytes(data))
		}
	}

	load(types.TagCPU, m.cpu)
	load(types.TagWRAM, m.mmu)
	load(types.TagPPU, m.ppu)
	load(types.TagTimer, m.tim)
	load(types.TagIRQ, m.irq)
	load(types.TagJoypad, m.joy)
	load(types.TagSerial, m.ser)
	load(types.TagMBC, m.cart)

	return nil
}
