package types

import (
	"zonesensor-go/x/conv"
)

// ------------------------
// Temperature & humidity
// ------------------------

type SensorInfo struct {
	Sensor string `yaml:"sensor"` // "sht30", ...
	Addr   uint16 `yaml:"addr"`   // I2C address
	Bus    string `yaml:"bus"`    // "i2c0", "/dev/i2c-1", ...
}

// Reading is one environmental sample. A failed sensor read yields the zero
// Reading with OK == false; its renderings are 0.0 / " 0%".
type Reading struct {
	// Tenths of °C (e.g. 231 => 23.1°C).
	DeciC int16
	// BelowZero marks a negative measurement, so one that rounds to zero
	// still renders as "-0.0".
	BelowZero bool
	// Hundredths of %RH (0..10000 for 0..100.00%).
	RHx100 uint16
	OK     bool
}

// DemoReading is the fixed test value shown by the display-test button.
var DemoReading = Reading{DeciC: -186, BelowZero: true, RHx100: 4900, OK: true}

// TemperatureText renders the temperature like printf("%2.1f").
func (r Reading) TemperatureText() string {
	var buf [24]byte
	if r.DeciC == 0 && r.BelowZero {
		return "-0.0"
	}
	return conv.PadLeft(string(conv.Deci(buf[:], int64(r.DeciC))), 2)
}

// HumidityText renders the humidity like printf("%2.0f%%").
func (r Reading) HumidityText() string {
	var buf [24]byte
	pct := (uint64(r.RHx100) + 50) / 100
	return conv.PadLeft(string(conv.Utoa(buf[:], pct)), 2) + "%"
}

// Payload renders the outbound message body,
// e.g. "{Temperature: 23.1, Humidity: 49%}".
func (r Reading) Payload() []byte {
	t, h := r.TemperatureText(), r.HumidityText()
	b := make([]byte, 0, 32+len(t)+len(h))
	b = append(b, "{Temperature: "...)
	b = append(b, t...)
	b = append(b, ", Humidity: "...)
	b = append(b, h...)
	b = append(b, '}')
	return b
}

