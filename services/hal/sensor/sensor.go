// Package sensor adapts an environmental sensor driver to types.Reading.
package sensor

import (
	"errors"

	"zonesensor-go/drivers/sht3x"
	"zonesensor-go/errcode"
	"zonesensor-go/types"
	"zonesensor-go/x/mathx"

	"tinygo.org/x/drivers"
)

// Driver is the fixed-point read shape of the temperature/humidity drivers:
// tenths of °C rounded from the raw value, a below-zero flag, hundredths of
// %RH.
type Driver interface {
	ReadDeci() (deciC int32, belowZero bool, rhX100 int32, err error)
}

// Sensor reads one Driver and renders results as types.Reading.
type Sensor struct {
	drv  Driver
	info types.SensorInfo
}

func New(drv Driver, info types.SensorInfo) *Sensor {
	return &Sensor{drv: drv, info: info}
}

// NewSHT3x binds an SHT3x driver at addr on an already configured bus.
func NewSHT3x(bus drivers.I2C, addr uint16, busName string) *Sensor {
	d := sht3x.New(bus)
	d.Configure(sht3x.Config{Address: addr})
	return New(&d, types.SensorInfo{Sensor: "sht3x", Addr: d.Address, Bus: busName})
}

func (s *Sensor) Info() types.SensorInfo { return s.info }

// Read queries the sensor. On failure it returns the zero Reading together
// with a sensor_read (or sensor_crc) error; callers still display/publish the
// zero values.
func (s *Sensor) Read() (types.Reading, error) {
	deci, below, rh, err := s.drv.ReadDeci()
	if err != nil {
		code := errcode.SensorRead
		if errors.Is(err, sht3x.ErrCRC) {
			code = errcode.SensorCRC
		}
		return types.Reading{}, errcode.Wrap(code, s.info.Sensor+".Read", err)
	}
	deci = mathx.Clamp(deci, -32768, 32767)
	rh = mathx.Clamp(rh, 0, 10000)
	return types.Reading{DeciC: int16(deci), BelowZero: below, RHx100: uint16(rh), OK: true}, nil
}
