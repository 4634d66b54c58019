// Package platform opens the node's hardware: the sensor I2C bus, the
// screen, the two front-panel buttons and the wireless station.
//
// Open is provided per build: periph.io on host builds, the board's machine
// package on firmware builds. OpenSim is available everywhere and needs no
// hardware at all.
package platform

import (
	"errors"

	"tinygo.org/x/drivers"

	"zonesensor-go/services/hal/buttons"
	"zonesensor-go/services/netlink"
)

// Landscape geometry of the 320x240 panel; framebuffers use the same.
const (
	ScreenWidth  = 320
	ScreenHeight = 240
)

// Board is an opened set of peripherals.
type Board struct {
	Name string

	I2C     drivers.I2C
	I2CName string

	Display drivers.Displayer

	ButtonA buttons.Pin
	ButtonB buttons.Pin
	// ActiveLow is true when a pressed button reads low.
	ActiveLow bool

	Station netlink.Station

	closers []func() error
}

func (b *Board) onClose(f func() error) { b.closers = append(b.closers, f) }

// Close releases what Open acquired, last opened first.
func (b *Board) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
