// Package buttons implements polled push buttons with a pressed-edge latch.
//
// Call Update once per loop iteration; WasPressed then reports (and consumes)
// a released→pressed transition seen since the previous check.
package buttons

import "time"

// Pin is the minimal input shape: the raw electrical level.
type Pin interface {
	Get() bool
}

// PinFunc adapts a function to Pin.
type PinFunc func() bool

func (f PinFunc) Get() bool { return f() }

type Config struct {
	// Invert is true if pressed == low (pull-up wiring).
	Invert bool
	// Debounce ignores level changes closer than this to the last accepted
	// change. Zero disables debouncing.
	Debounce time.Duration
}

// Button tracks one Pin.
type Button struct {
	pin Pin
	cfg Config

	pressed    bool // logical level after inversion
	lastChange time.Time
	latched    bool
}

// New takes an initial snapshot of the logical level, so a button held down
// at boot does not report a press.
func New(pin Pin, cfg Config) *Button {
	b := &Button{pin: pin, cfg: cfg}
	b.pressed = b.logical()
	return b
}

func (b *Button) logical() bool {
	l := b.pin.Get()
	if b.cfg.Invert {
		return !l
	}
	return l
}

// Update samples the pin at now.
func (b *Button) Update(now time.Time) {
	lvl := b.logical()
	if lvl == b.pressed {
		return
	}
	if !b.lastChange.IsZero() && now.Sub(b.lastChange) < b.cfg.Debounce {
		return
	}
	if lvl && !b.pressed {
		b.latched = true
	}
	b.pressed = lvl
	b.lastChange = now
}

// IsPressed reports the debounced logical level.
func (b *Button) IsPressed() bool { return b.pressed }

// WasPressed reports whether a press edge was seen and clears the latch.
func (b *Button) WasPressed() bool {
	p := b.latched
	b.latched = false
	return p
}

// Pair is the two-button front panel: A starts/stops publishing, B shows the
// display test reading.
type Pair struct {
	A, B *Button
}

// Update samples both buttons.
func (p Pair) Update(now time.Time) {
	p.A.Update(now)
	p.B.Update(now)
}

func (p Pair) APressed() bool { return p.A.WasPressed() }
func (p Pair) BPressed() bool { return p.B.WasPressed() }
