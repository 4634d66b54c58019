// Package sht3x provides a driver for the Sensirion SHT30/31/35
// temperature/humidity sensors.
//
// Measurements use single-shot mode without clock stretching:
//
//	d.Trigger()            // start a measurement (fast)
//	err := d.Collect(&s)   // fetch once the conversion time has passed
//
// For convenience, d.Read() performs trigger + wait + bounded collect retries.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when both
// w and r are provided, without releasing the bus.
//
// The driver avoids floating-point; conversion helpers return milli-°C and
// hundredths of %RH.
package sht3x

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// I2C addresses (ADDR pin low / high).
const (
	AddressA = 0x44
	AddressB = 0x45
)

// Commands (MSB, LSB).
var (
	cmdSingleHigh  = [2]byte{0x24, 0x00} // single shot, high repeatability, no stretching
	cmdSoftReset   = [2]byte{0x30, 0xA2}
	cmdStatus      = [2]byte{0xF3, 0x2D}
	cmdClearStatus = [2]byte{0x30, 0x41}
	cmdHeaterOn    = [2]byte{0x30, 0x6D}
	cmdHeaterOff   = [2]byte{0x30, 0x66}
)

// Errors returned by the driver.
var (
	ErrCRC     = errors.New("sht3x: crc mismatch")
	ErrTimeout = errors.New("sht3x: timeout")
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to AddressA if zero.
	Address uint16
	// MeasureDelay is the wait between Trigger and the first Collect.
	// Default 16 ms (datasheet max 15.5 ms for high repeatability).
	MeasureDelay time.Duration
	// CollectTimeout bounds the total wait in Read(). Default 100 ms.
	CollectTimeout time.Duration
	// RetryInterval is used by Read() between failed Collect attempts.
	// Default 5 ms.
	RetryInterval time.Duration
}

// Device wraps an I2C connection to an SHT3x device.
type Device struct {
	bus     drivers.I2C
	Address uint16

	cfg  Config
	buf  [6]byte
	last Sample
}

// New creates a new SHT3x connection. The I2C bus must already be configured.
// This function only creates the Device object; it does not touch the device.
func New(bus drivers.I2C) Device {
	return Device{
		bus:     bus,
		Address: AddressA,
	}
}

// Configure applies optional config. It does not touch the bus.
func (d *Device) Configure(cfgs ...Config) {
	var c Config
	if len(cfgs) > 0 {
		c = cfgs[0]
	}
	if c.Address != 0 {
		d.Address = c.Address
	}
	c.Address = d.Address
	if c.MeasureDelay <= 0 {
		c.MeasureDelay = 16 * time.Millisecond
	}
	if c.CollectTimeout <= 0 {
		c.CollectTimeout = 100 * time.Millisecond
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = 5 * time.Millisecond
	}
	d.cfg = c
}

func (d *Device) command(c [2]byte) error {
	return d.bus.Tx(d.Address, c[:], nil)
}

// Reset issues a soft reset. Give the device ~2 ms afterwards before using.
func (d *Device) Reset() error { return d.command(cmdSoftReset) }

// ClearStatus clears the alert and reset flags of the status register.
func (d *Device) ClearStatus() error { return d.command(cmdClearStatus) }

// SetHeater switches the internal heater on or off.
func (d *Device) SetHeater(on bool) error {
	if on {
		return d.command(cmdHeaterOn)
	}
	return d.command(cmdHeaterOff)
}

// Status reads the 16-bit status register.
func (d *Device) Status() (uint16, error) {
	data := d.buf[:3]
	if err := d.bus.Tx(d.Address, cmdStatus[:], data); err != nil {
		return 0, err
	}
	if CRC8(data[:2]) != data[2] {
		return 0, ErrCRC
	}
	return uint16(data[0])<<8 | uint16(data[1]), nil
}

// Trigger starts a single-shot measurement. It is a quick command write with
// no blocking; the conversion takes MeasureDelay.
func (d *Device) Trigger() error {
	if d.cfg.MeasureDelay == 0 {
		d.Configure()
	}
	return d.command(cmdSingleHigh)
}

// MeasureDelay returns the nominal conversion time to wait before Collect.
func (d *Device) MeasureDelay() time.Duration {
	if d.cfg.MeasureDelay > 0 {
		return d.cfg.MeasureDelay
	}
	return 16 * time.Millisecond
}

// Collect reads one finished measurement into the device cache and out (if
// non-nil). While the conversion is still running the sensor NACKs the read
// and the bus error is returned as-is.
func (d *Device) Collect(out *Sample) error {
	data := d.buf[:]
	if err := d.bus.Tx(d.Address, nil, data); err != nil {
		return err
	}
	if CRC8(data[0:2]) != data[2] || CRC8(data[3:5]) != data[5] {
		return ErrCRC
	}
	s := Sample{
		RawTemp:     uint16(data[0])<<8 | uint16(data[1]),
		RawHumidity: uint16(data[3])<<8 | uint16(data[4]),
	}
	d.last = s
	if out != nil {
		*out = s
	}
	return nil
}

// Read performs a full measurement cycle: Trigger, wait, then bounded Collect
// retries until success or CollectTimeout. A CRC mismatch is not retried.
func (d *Device) Read() error {
	if err := d.Trigger(); err != nil {
		return err
	}
	time.Sleep(d.cfg.MeasureDelay)
	deadline := time.Now().Add(d.cfg.CollectTimeout)
	for {
		err := d.Collect(nil)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrCRC):
			return err
		case time.Now().After(deadline):
			return ErrTimeout
		}
		time.Sleep(d.cfg.RetryInterval)
	}
}

// ReadTemperatureHumidity runs Read and returns milli-°C and hundredths of %RH.
func (d *Device) ReadTemperatureHumidity() (milliC int32, rhX100 int32, err error) {
	if err = d.Read(); err != nil {
		return 0, 0, err
	}
	return d.last.MilliCelsius(), d.last.RelHumidityX100(), nil
}

// ReadDeci runs Read and returns tenths of °C rounded to nearest, whether the
// temperature is below zero (also when it rounds to 0.0), and hundredths of
// %RH.
func (d *Device) ReadDeci() (deciC int32, belowZero bool, rhX100 int32, err error) {
	if err = d.Read(); err != nil {
		return 0, false, 0, err
	}
	deciC, belowZero = d.last.DeciCelsius()
	return deciC, belowZero, d.last.RelHumidityX100(), nil
}

// Sample holds raw readings.
type Sample struct {
	RawTemp     uint16
	RawHumidity uint16
}

// MilliCelsius converts the raw temperature: T = -45 + 175 * raw / 65535.
func (s Sample) MilliCelsius() int32 {
	return int32(int64(s.RawTemp)*175000/65535) - 45000
}

// DeciCelsius converts the raw temperature straight to tenths of °C, rounded
// half away from zero: round((1750*raw - 450*65535) / 65535).
func (s Sample) DeciCelsius() (deci int32, belowZero bool) {
	n := int64(s.RawTemp)*1750 - 450*65535
	if n < 0 {
		return -int32((-n + 32767) / 65535), true
	}
	return int32((n + 32767) / 65535), false
}

// RelHumidityX100 converts the raw humidity: RH = 100 * raw / 65535.
func (s Sample) RelHumidityX100() int32 {
	return int32(uint32(s.RawHumidity) * 10000 / 65535)
}

// Last returns the most recently collected sample.
func (d *Device) Last() Sample { return d.last }

// CRC8 computes the Sensirion checksum (poly 0x31, init 0xFF) over data.
func CRC8(data []byte) byte {
	crc := byte(0xFF)
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x31
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
