package machine

import (
	"github.com/tylergibbs2/gbcore/internal/joypad"
	"github.com/tylergibbs2/gbcore/internal/types"
)

// JoypadState is a snapshot of all eight logical buttons, the shape an
// InputSource hands back once per tick.
type JoypadState struct {
	Up, Down, Left, Right bool
	A, B, Select, Start   bool
}

// ScreenSink receives a copy of every completed frame. It is an
// optional secondary fan-out (e.g. the websocket broadcaster in
// display/wsframe) driven by an embedder after each Tick; Tick's own
// return value remains the primary way a caller obtains the frame.
type ScreenSink interface {
	PushFrame(rgba *[ScreenWidth * ScreenHeight * 4]byte)
}

// InputSource is polled once per tick by an embedder, not by Machine
// itself, so the core stays free of platform input-decoding concerns.
type InputSource interface {
	Poll() JoypadState
}

// BatteryStore persists and restores a cartridge's external RAM (RAM
// bytes only; MBC3 RTC registers are not included), keyed by cartridge
// title.
type BatteryStore interface {
	Load(cartTitle string) ([]byte, error)
	Save(cartTitle string, data []byte) error
}

// Logger is the diagnostics sink Config accepts; see types.Logger for
// the interface and its NopLogger/StdLogger implementations.
type Logger = types.Logger

// ApplyInput pushes an InputSource snapshot down to the joypad
// controller, raising the Joypad interrupt on every 1->0 transition.
func (m *Machine) ApplyInput(s JoypadState) {
	m.joy.Set(joypad.Up, s.Up)
	m.joy.Set(joypad.Down, s.Down)
	m.joy.Set(joypad.Left, s.Left)
	m.joy.Set(joypad.Right, s.Right)
	m.joy.Set(joypad.A, s.A)
	m.joy.Set(joypad.B, s.B)
	m.joy.Set(joypad.Select, s.Select)
	m.joy.Set(joypad.Start, s.Start)
}

// SetButton injects a single button edge, the direct form of spec.md
// §6's set_button(button, pressed).
func (m *Machine) SetButton(b joypad.Button, pressed bool) {
	m.joy.Set(b, pressed)
}
