// Package machine is the single owner that wires the cartridge, MMU,
// CPU, PPU, timer, interrupt controller, joypad and serial port
// together and drives them one frame at a time, per spec.md §2 and §5.
// No component holds a reference back to Machine or to any other
// component beyond what it was constructed with; Machine is the only
// thing that knows the whole graph.
package machine

import (
	"github.com/cespare/xxhash"
	"github.com/tylergibbs2/gbcore/internal/cartridge"
	"github.com/tylergibbs2/gbcore/internal/cpu"
	"github.com/tylergibbs2/gbcore/internal/interrupts"
	"github.com/tylergibbs2/gbcore/internal/joypad"
	"github.com/tylergibbs2/gbcore/internal/mmu"
	"github.com/tylergibbs2/gbcore/internal/ppu"
	"github.com/tylergibbs2/gbcore/internal/serial"
	"github.com/tylergibbs2/gbcore/internal/timer"
	"github.com/tylergibbs2/gbcore/internal/types"
)

const (
	ScreenWidth  = ppu.ScreenWidth
	ScreenHeight = ppu.ScreenHeight

	// ClockSpeed is the DMG master clock in Hz, used to pace the MBC3
	// RTC at one tick per elapsed emulated second.
	ClockSpeed = 4194304

	// FrameRate is the nominal DMG refresh rate.
	FrameRate = 60

	// TicksPerFrame is the documented per-frame T-cycle budget of
	// spec.md invariant 2. Machine.Tick does not loop against this
	// directly (it loops until the PPU reports frame completion, which
	// is exact); the constant is exposed for callers that want to
	// reason about pacing or verify the invariant themselves.
	TicksPerFrame = 154 * 456 // 154 scanlines of 456 T-cycles = 70224
)

// Config carries everything Machine.New needs beyond the ROM bytes
// itself, mirroring the teacher's pattern of passing typed
// dependencies into constructors instead of reaching for globals.
type Config struct {
	// Palette remaps the four DMG shade indices to RGB. The zero value
	// means "use the default four-shade-of-green palette".
	Palette ppu.Palette

	// BootROM, if non-empty, must be exactly 256 bytes; it is mapped
	// over 0000-00FF until the CPU writes to FF50, per spec.md §6. When
	// nil, the documented DMG post-boot register state is applied
	// directly instead.
	BootROM []byte

	Logger Logger

	// Battery persists cartridge RAM across power cycles; MBC3 RTC
	// registers are not included. It is consulted once by New (Load) and once by
	// Close (Save); nil disables persistence entirely.
	Battery BatteryStore
}

// Machine is the top-level emulator instance: one cartridge, one
// address space, one CPU sequencing everything else.
type Machine struct {
	cfg Config
	log Logger

	cart *cartridge.Cartridge
	mmu  *mmu.MMU
	cpu  *cpu.CPU
	ppu  *ppu.PPU
	tim  *timer.Controller
	irq  *interrupts.Controller
	joy  *joypad.Controller
	ser  *serial.Controller

	// rtcAccumulator counts T-cycles towards the next MBC3 RTC second.
	rtcAccumulator int

	// lastFrameCycles is the T-cycle cost of the most recently completed
	// Tick, exposed for callers (and tests) verifying spec.md invariant 2.
	lastFrameCycles int
}

// New parses rom, selects its MBC, wires every subsystem, and applies
// either boot-ROM-mapped or direct post-boot CPU/register state. It
// returns InvalidRom/UnsupportedCartridge from cartridge construction
// unchanged (spec.md §8 scenario S1).
func New(rom []byte, cfg Config) (*Machine, error) {
	cart, err := cartridge.New(rom)
	if err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = types.NopLogger{}
	}

	irq := interrupts.NewController()
	tim := timer.NewController(irq)
	joy := joypad.NewController(irq)
	ser := serial.NewController(irq)
	gpu := ppu.NewPPU(irq)
	if cfg.Palette != (ppu.Palette{}) {
		gpu.Palette = cfg.Palette
	}

	bus := mmu.New(cart, gpu, tim, irq, joy, ser, cfg.BootROM)
	c := cpu.New(bus, irq, tim, gpu, ser, joy)

	m := &Machine{
		cfg:  cfg,
		log:  log,
		cart: cart,
		mmu:  bus,
		cpu:  c,
		ppu:  gpu,
		tim:  tim,
		irq:  irq,
		joy:  joy,
		ser:  ser,
	}

	if len(cfg.BootROM) == 0 {
		m.applyPostBootState()
	}

	if cfg.Battery != nil && cart.HasBattery() {
		data, err := cfg.Battery.Load(cart.Header.Title)
		if err != nil {
			log.Warnf("battery load for %q failed: %v", cart.Header.Title, err)
		} else if data != nil {
			cart.LoadRAM(data)
		}
	}

	return m, nil
}

// applyPostBootState sets the documented DMG post-boot register file,
// used whenever no boot ROM is supplied (spec.md §1's boot-ROM-policy
// Non-goal: absent a boot ROM, post-boot state is applied directly).
func (m *Machine) applyPostBootState() {
	m.cpu.PC = 0x0100
	m.cpu.SP = 0xFFFE
	m.cpu.A, m.cpu.F = 0x01, 0xB0
	m.cpu.B, m.cpu.C = 0x00, 0x13
	m.cpu.D, m.cpu.E = 0x00, 0xD8
	m.cpu.H, m.cpu.L = 0x01, 0x4D
}

// Tick advances the machine until the PPU signals the next VBlank
// boundary and returns the completed, palette-applied frame (spec.md
// §2/§6). Because the boundary is LY's entry into line 144 rather than a
// fixed cycle count, only the very first Tick from power-on covers a
// partial frame (LY starts at 0); every Tick after that spans exactly
// one full 70224-T-cycle frame, satisfying spec.md invariant 2 in
// steady state. Ownership of the returned pointer transfers to the
// caller for the duration of one frame, matching the framebuffer
// aliasing rule of spec.md §5.
func (m *Machine) Tick() *[ScreenWidth * ScreenHeight * 4]byte {
	consumed := 0
	for {
		consumed += m.cpu.Step()
		if m.ppu.FrameComplete() {
			break
		}
	}
	m.lastFrameCycles = consumed
	m.tickRTC(consumed)
	return &m.ppu.RGBA
}

// FrameCycles returns the T-cycle cost of the most recently completed
// Tick, per spec.md invariant 2: 70224, moved up by the overshoot of
// the instruction straddling this frame's boundary and down by the
// previous frame's overshoot, each less than one instruction.
func (m *Machine) FrameCycles() int { return m.lastFrameCycles }

// tickRTC advances the cartridge's real-time clock (a no-op for every
// non-MBC3-with-RTC cartridge) once per ClockSpeed T-cycles elapsed,
// i.e. once per emulated second, carrying any remainder forward.
func (m *Machine) tickRTC(consumed int) {
	m.rtcAccumulator += consumed
	for m.rtcAccumulator >= ClockSpeed {
		m.rtcAccumulator -= ClockSpeed
		m.cart.TickRTC()
	}
}

// FrameHash hashes the current RGBA framebuffer with xxhash, used by
// golden-frame regression scenarios (spec.md §8 S2) instead of a
// full SHA-256 comparison.
func (m *Machine) FrameHash() uint64 {
	return xxhash.Sum64(m.ppu.RGBA[:])
}

// SerialOutput returns every byte the running program has written
// through the serial port and completed a transfer for, in order,
// since power-on — used by Blargg-style test-ROM harnesses (spec.md
// §8 S5; §9 "Serial link ASCII capture for test ROMs").
func (m *Machine) SerialOutput() []byte {
	return m.ser.Captured()
}

// Close flushes battery-backed cartridge RAM (RAM bytes only, no MBC3
// RTC state) to the configured BatteryStore. It is a
// no-op if the cartridge has no battery or no store was configured.
func (m *Machine) Close() error {
	if m.cfg.Battery == nil || !m.cart.HasBattery() {
		return nil
	}
	data := m.cart.SaveRAM()
	if data == nil {
		return nil
	}
	if err := m.cfg.Battery.Save(m.cart.Header.Title, data); err != nil {
		m.log.Warnf("battery save for %q failed: %v", m.cart.Header.Title, err)
		return err
	}
	return nil
}

// CartridgeTitle exposes the parsed header title, used by embedders to
// derive save-file names (spec.md §9's battery-RAM-filename feature).
func (m *Machine) CartridgeTitle() string { return m.cart.Header.Title }
