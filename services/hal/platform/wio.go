//go:build tinygo && wioterminal

package platform

import (
	"log/slog"
	"machine"
	"sync/atomic"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ili9341"
	wifi "tinygo.org/x/drivers/netlink"
	"tinygo.org/x/drivers/netlink/probe"

	"zonesensor-go/services/config"
	"zonesensor-go/services/hal/buttons"
)

// Open configures the Wio Terminal: the SHT30 on the left Grove port (i2c0
// at 100 kHz), the built-in ILI9341 panel in landscape, the top keys A and B
// and the RTL8720DN radio. Pin names in cfg are ignored; only SensorAddr
// and Debounce apply.
func Open(cfg config.BoardConfig, log *slog.Logger) (*Board, error) {
	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		Frequency: 100 * machine.KHz,
		SDA:       machine.SDA0_PIN,
		SCL:       machine.SCL0_PIN,
	}); err != nil {
		return nil, err
	}

	disp, err := openDisplay()
	if err != nil {
		return nil, err
	}

	b := &Board{
		Name:      "wioterminal",
		I2C:       i2c,
		I2CName:   "i2c0",
		Display:   disp,
		ButtonA:   inputPin(machine.WIO_KEY_A),
		ButtonB:   inputPin(machine.WIO_KEY_B),
		ActiveLow: true,
		Station:   newWiFiStation(log),
	}
	log.Info("board opened", "board", b.Name, "sensor_addr", cfg.SensorAddr)
	return b, nil
}

func inputPin(p machine.Pin) buttons.Pin {
	p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return buttons.PinFunc(p.Get)
}

func openDisplay() (*ili9341.Device, error) {
	if err := machine.SPI3.Configure(machine.SPIConfig{
		SCK:       machine.LCD_SCK_PIN,
		SDO:       machine.LCD_SDO_PIN,
		SDI:       machine.LCD_SDI_PIN,
		Frequency: 40 * machine.MHz,
	}); err != nil {
		return nil, err
	}
	d := ili9341.NewSPI(machine.SPI3, machine.LCD_DC, machine.LCD_SS_PIN, machine.LCD_RESET)
	d.Configure(ili9341.Config{})
	d.SetRotation(drivers.Rotation270)

	bl := machine.LCD_BACKLIGHT
	bl.Configure(machine.PinConfig{Mode: machine.PinOutput})
	bl.High()
	return d, nil
}

// wifiStation drives the radio through the netlink interface. Link state is
// tracked from the driver's up/down notifications.
type wifiStation struct {
	log  *slog.Logger
	link wifi.Netlinker
	up   atomic.Bool
}

func newWiFiStation(log *slog.Logger) *wifiStation {
	link, _ := probe.Probe()
	s := &wifiStation{log: log, link: link}
	link.NetNotify(func(e wifi.Event) {
		switch e {
		case wifi.EventNetUp:
			s.up.Store(true)
		case wifi.EventNetDown:
			s.up.Store(false)
			s.log.Warn("wifi link down")
		}
	})
	return s
}

func (s *wifiStation) Join(ssid, password string) error {
	err := s.link.NetConnect(&wifi.ConnectParams{Ssid: ssid, Passphrase: password})
	if err != nil {
		return err
	}
	s.up.Store(true)
	return nil
}

func (s *wifiStation) Joined() bool { return s.up.Load() }
