package platform

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"zonesensor-go/drivers/sht3x"
	"zonesensor-go/services/config"
	"zonesensor-go/services/display"
	"zonesensor-go/x/mathx"
)

// SimBus is the board.i2c_bus value that selects the simulated board.
const SimBus = "sim"

var errNACK = errors.New("sim: nack")

// OpenSim returns a board with no hardware behind it: an SHT3x answering on
// cfg.SensorAddr, a framebuffer screen and buttons pressed by typing "a" or
// "b" lines on in. Buttons are active high.
func OpenSim(in io.Reader, cfg config.BoardConfig, log *slog.Logger) *Board {
	sensor := NewSimSHT3x(cfg.SensorAddr, 23100, 4870)
	a, b := &PulsePin{}, &PulsePin{}
	fb := display.NewFramebuffer(ScreenWidth, ScreenHeight)
	fb.SnapshotPath = cfg.Snapshot

	if in != nil {
		go feedButtons(in, a, b, log)
	}
	log.Info("board opened", "board", "sim", "sensor_addr", cfg.SensorAddr)
	return &Board{
		Name:    "sim",
		I2C:     sensor,
		I2CName: SimBus,
		Display: fb,
		ButtonA: a,
		ButtonB: b,
		Station: &SimStation{JoinAfter: 2},
	}
}

func feedButtons(in io.Reader, a, b *PulsePin, log *slog.Logger) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		switch line := strings.ToLower(strings.TrimSpace(sc.Text())); line {
		case "a":
			a.Press()
		case "b":
			b.Press()
		case "":
		default:
			log.Warn("sim: unknown button", "input", line)
		}
	}
}

// -----------------------------------------------------------------------------
// Sensor
// -----------------------------------------------------------------------------

// SimSHT3x answers the SHT3x single-shot protocol for one address.
type SimSHT3x struct {
	Addr uint16

	mu     sync.Mutex
	milliC int32
	rhX100 int32
	armed  bool
	Fail   bool
}

func NewSimSHT3x(addr uint16, milliC, rhX100 int32) *SimSHT3x {
	s := &SimSHT3x{Addr: addr}
	s.Set(milliC, rhX100)
	return s
}

// Set changes the climate reported by the next measurement.
func (s *SimSHT3x) Set(milliC, rhX100 int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.milliC = mathx.Clamp(milliC, -45000, 130000)
	s.rhX100 = mathx.Clamp(rhX100, 0, 10000)
}

func (s *SimSHT3x) Tx(addr uint16, w, r []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if addr != s.Addr || s.Fail {
		return errNACK
	}
	if len(w) == 2 && w[0] == 0x24 {
		s.armed = true
	}
	if len(r) == 0 {
		return nil
	}
	if len(r) != 6 || !s.armed {
		return errNACK
	}
	s.armed = false
	putWord(r[0:3], uint16((int64(s.milliC)+45000)*65535/175000))
	putWord(r[3:6], uint16(int64(s.rhX100)*65535/10000))
	return nil
}

func putWord(b []byte, v uint16) {
	b[0], b[1] = byte(v>>8), byte(v)
	b[2] = sht3x.CRC8(b[:2])
}

// -----------------------------------------------------------------------------
// Buttons
// -----------------------------------------------------------------------------

// pulseSamples is how many reads a press stays high, then low.
const pulseSamples = 3

// PulsePin is a button pin driven by Press calls. Each press reads high for
// pulseSamples Gets followed by pulseSamples low; presses queue.
type PulsePin struct {
	mu     sync.Mutex
	queued int
	high   int
	low    int
}

func (p *PulsePin) Press() {
	p.mu.Lock()
	p.queued++
	p.mu.Unlock()
}

func (p *PulsePin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.high > 0:
		p.high--
		if p.high == 0 {
			p.low = pulseSamples
		}
		return true
	case p.low > 0:
		p.low--
		return false
	case p.queued > 0:
		p.queued--
		p.high = pulseSamples - 1
		return true
	}
	return false
}

// -----------------------------------------------------------------------------
// Station
// -----------------------------------------------------------------------------

// SimStation associates after JoinAfter failed polls.
type SimStation struct {
	JoinAfter int

	mu     sync.Mutex
	polls  int
	joined bool
}

func (s *SimStation) Join(string, string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.polls >= s.JoinAfter {
		s.joined = true
	}
	s.polls++
	return nil
}

func (s *SimStation) Joined() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.joined
}

// Drop simulates losing the link.
func (s *SimStation) Drop() {
	s.mu.Lock()
	s.joined = false
	s.polls = 0
	s.mu.Unlock()
}
