//go:build !tinygo

package platform

import (
	"fmt"
	"log/slog"
	"os"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"zonesensor-go/services/config"
	"zonesensor-go/services/display"
	"zonesensor-go/services/hal/buttons"
)

// Open initialises periph.io and opens the configured bus and pins. The
// screen is an in-memory framebuffer, optionally snapshotted to PNG. The
// bus name SimBus selects OpenSim fed from stdin instead.
func Open(cfg config.BoardConfig, log *slog.Logger) (*Board, error) {
	if cfg.I2CBus == SimBus {
		return OpenSim(os.Stdin, cfg, log), nil
	}
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("platform: periph init: %w", err)
	}
	for _, f := range state.Failed {
		log.Debug("periph driver failed", "driver", f.D.String(), "error", f.Err)
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("platform: open i2c %q: %w", cfg.I2CBus, err)
	}
	b := &Board{
		Name:      "host",
		I2C:       bus,
		I2CName:   bus.String(),
		ActiveLow: cfg.ActiveLow,
	}
	b.onClose(bus.Close)

	if b.ButtonA, err = openButton(cfg.ButtonA, cfg.ActiveLow); err != nil {
		b.Close()
		return nil, err
	}
	if b.ButtonB, err = openButton(cfg.ButtonB, cfg.ActiveLow); err != nil {
		b.Close()
		return nil, err
	}

	fb := display.NewFramebuffer(ScreenWidth, ScreenHeight)
	fb.SnapshotPath = cfg.Snapshot
	b.Display = fb
	b.Station = NewNetStation(log)

	log.Info("board opened", "board", b.Name, "i2c", b.I2CName, "button_a", cfg.ButtonA, "button_b", cfg.ButtonB)
	return b, nil
}

// openButton configures a GPIO as an input pulled towards its idle level.
func openButton(name string, activeLow bool) (buttons.Pin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("platform: no gpio named %q", name)
	}
	pull := gpio.PullDown
	if activeLow {
		pull = gpio.PullUp
	}
	if err := p.In(pull, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("platform: configure %s: %w", name, err)
	}
	return buttons.PinFunc(func() bool { return p.Read() == gpio.High }), nil
}
