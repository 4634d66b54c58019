package sensor

import (
	"errors"
	"testing"

	"zonesensor-go/drivers/sht3x"
	"zonesensor-go/errcode"
	"zonesensor-go/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDriver struct {
	deci, rh int32
	below    bool
	err      error
	calls    int
}

func (f *fakeDriver) ReadDeci() (int32, bool, int32, error) {
	f.calls++
	return f.deci, f.below, f.rh, f.err
}

func TestRead_ConvertsAndClamps(t *testing.T) {
	for _, c := range []struct {
		name     string
		deci, rh int32
		below    bool
		want     types.Reading
	}{
		{"nominal", 231, 4870, false, types.Reading{DeciC: 231, RHx100: 4870, OK: true}},
		{"negative", -186, 4900, true, types.Reading{DeciC: -186, BelowZero: true, RHx100: 4900, OK: true}},
		{"negative zero", 0, 4900, true, types.Reading{DeciC: 0, BelowZero: true, RHx100: 4900, OK: true}},
		{"humidity over range", 0, 10250, false, types.Reading{DeciC: 0, RHx100: 10000, OK: true}},
		{"humidity under range", 0, -3, false, types.Reading{DeciC: 0, RHx100: 0, OK: true}},
	} {
		t.Run(c.name, func(t *testing.T) {
			s := New(&fakeDriver{deci: c.deci, below: c.below, rh: c.rh}, types.SensorInfo{Sensor: "fake"})
			got, err := s.Read()
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestRead_FailureYieldsZeroReading(t *testing.T) {
	cause := errors.New("nack")
	s := New(&fakeDriver{deci: 250, rh: 5000, err: cause}, types.SensorInfo{Sensor: "fake"})

	got, err := s.Read()
	require.Error(t, err)
	assert.Equal(t, types.Reading{}, got)
	assert.Equal(t, errcode.SensorRead, errcode.Of(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "0.0", got.TemperatureText())
	assert.Equal(t, " 0%", got.HumidityText())
}

func TestRead_CRCError(t *testing.T) {
	s := New(&fakeDriver{err: sht3x.ErrCRC}, types.SensorInfo{Sensor: "fake"})
	_, err := s.Read()
	assert.Equal(t, errcode.SensorCRC, errcode.Of(err))
}

type scriptedBus struct{}

// Tx answers a single-shot measurement with 25.0 °C / 50.00 %RH.
func (scriptedBus) Tx(addr uint16, w, r []byte) error {
	if len(r) == 6 {
		r[0], r[1] = 0x66, 0x66 // 26214
		r[2] = sht3x.CRC8(r[0:2])
		r[3], r[4] = 0x80, 0x00 // 32768
		r[5] = sht3x.CRC8(r[3:5])
	}
	return nil
}

func TestNewSHT3x(t *testing.T) {
	s := NewSHT3x(scriptedBus{}, sht3x.AddressB, "i2c0")
	assert.Equal(t, types.SensorInfo{Sensor: "sht3x", Addr: sht3x.AddressB, Bus: "i2c0"}, s.Info())

	got, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, types.Reading{DeciC: 250, RHx100: 5000, OK: true}, got)
}

// Tx answers with raw temperature 19 (-44.949 °C) and 16851 (-0.023 °C) on
// alternate reads.
type subZeroBus struct{ n *int }

func (b subZeroBus) Tx(addr uint16, w, r []byte) error {
	if len(r) == 6 {
		raw := uint16(19)
		if *b.n%2 == 1 {
			raw = 16851
		}
		*b.n++
		r[0], r[1] = byte(raw>>8), byte(raw)
		r[2] = sht3x.CRC8(r[0:2])
		r[3], r[4] = 0x80, 0x00
		r[5] = sht3x.CRC8(r[3:5])
	}
	return nil
}

func TestNewSHT3x_SubZeroRounding(t *testing.T) {
	var n int
	s := NewSHT3x(subZeroBus{&n}, sht3x.AddressA, "i2c0")

	got, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, "-44.9", got.TemperatureText())

	got, err = s.Read()
	require.NoError(t, err)
	assert.Equal(t, "-0.0", got.TemperatureText())
}
