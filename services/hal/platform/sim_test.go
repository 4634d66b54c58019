package platform

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zonesensor-go/drivers/sht3x"
	"zonesensor-go/services/config"
	"zonesensor-go/services/hal/buttons"
)

func quietLog() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestSimSHT3x_DriverRoundTrip(t *testing.T) {
	s := NewSimSHT3x(sht3x.AddressA, 23100, 4870)
	d := sht3x.New(s)
	d.Configure(sht3x.Config{MeasureDelay: time.Millisecond})

	mc, rh, err := d.ReadTemperatureHumidity()
	require.NoError(t, err)
	assert.InDelta(t, 23100, mc, 5)
	assert.InDelta(t, 4870, rh, 2)

	s.Set(500000, -3)
	mc, rh, err = d.ReadTemperatureHumidity()
	require.NoError(t, err)
	assert.InDelta(t, 130000, mc, 5)
	assert.Equal(t, int32(0), rh)
}

func TestSimSHT3x_WrongAddressAndFail(t *testing.T) {
	s := NewSimSHT3x(sht3x.AddressA, 0, 0)
	assert.ErrorIs(t, s.Tx(sht3x.AddressB, []byte{0x24, 0x00}, nil), errNACK)

	// Reading without a trigger NACKs.
	assert.ErrorIs(t, s.Tx(sht3x.AddressA, nil, make([]byte, 6)), errNACK)

	s.Fail = true
	d := sht3x.New(s)
	d.Configure(sht3x.Config{MeasureDelay: time.Millisecond})
	_, _, err := d.ReadTemperatureHumidity()
	assert.Error(t, err)
}

func TestPulsePin_DebouncedPresses(t *testing.T) {
	p := &PulsePin{}
	btn := buttons.New(p, buttons.Config{Debounce: 20 * time.Millisecond})
	now := time.Unix(0, 0)
	presses := 0
	poll := func(n int) {
		for i := 0; i < n; i++ {
			now = now.Add(20 * time.Millisecond)
			btn.Update(now)
			if btn.WasPressed() {
				presses++
			}
		}
	}

	poll(5)
	assert.Equal(t, 0, presses)

	p.Press()
	p.Press()
	poll(4 * pulseSamples)
	assert.Equal(t, 2, presses)

	poll(10)
	assert.Equal(t, 2, presses)
	assert.False(t, btn.IsPressed())
}

func TestSimStation(t *testing.T) {
	s := &SimStation{JoinAfter: 2}
	for i := 0; i < 2; i++ {
		require.NoError(t, s.Join("lab", "pw"))
		assert.False(t, s.Joined())
	}
	require.NoError(t, s.Join("lab", "pw"))
	assert.True(t, s.Joined())

	s.Drop()
	assert.False(t, s.Joined())
}

func TestOpenSim_FeedsButtonsFromInput(t *testing.T) {
	cfg := config.Default().Board
	b := OpenSim(strings.NewReader("a\n\nB\nz\n"), cfg, quietLog())
	assert.Equal(t, "sim", b.Name)
	assert.False(t, b.ActiveLow)
	w, h := b.Display.Size()
	assert.Equal(t, int16(ScreenWidth), w)
	assert.Equal(t, int16(ScreenHeight), h)

	// Lines are consumed in the background.
	assert.Eventually(t, func() bool { return b.ButtonA.Get() }, time.Second, time.Millisecond)
	assert.Eventually(t, func() bool { return b.ButtonB.Get() }, time.Second, time.Millisecond)
}

func TestBoardClose_ReverseOrderJoined(t *testing.T) {
	var order []string
	b := &Board{}
	b.onClose(func() error { order = append(order, "bus"); return errors.New("bus busy") })
	b.onClose(func() error { order = append(order, "pin"); return nil })

	err := b.Close()
	assert.EqualError(t, err, "bus busy")
	assert.Equal(t, []string{"pin", "bus"}, order)
	assert.NoError(t, b.Close())
}
