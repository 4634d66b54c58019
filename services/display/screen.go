// Package display lays out the node's screen: a title, a console area for
// bootstrap messages, a running/not-running state label, and the
// temperature/humidity readout.
//
// Rendering goes through tinygo.org/x/drivers.Displayer, so the same layout
// drives the ILI9341 panel on the device and the in-memory Framebuffer on
// host builds.
package display

import (
	"image/color"
	"log/slog"
	"strconv"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	Black = color.RGBA{0, 0, 0, 255}
	White = color.RGBA{255, 255, 255, 255}
	Green = color.RGBA{0, 200, 0, 255}
	Amber = color.RGBA{255, 176, 0, 255}
)

// Layout for a 320x240 landscape panel.
const (
	titleX, titleY = 4, 22

	stateX, stateY, stateW, stateH = 170, 0, 150, 24

	consoleTop, consoleBottom = 30, 230
	consoleLineH              = 10
	consoleX                  = 2

	labelX            = 30
	tempY, humY       = 116, 146
	valueX            = 200
	valueW, valueH    = 110, 24
	readoutTop        = 30
	readoutH          = 190
	consoleMaxColumns = 52
)

var (
	smallFont = &proggy.TinySZ8pt7b
	largeFont = &freemono.Bold12pt7b
)

type filler interface {
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

// State is what the screen currently shows, for logs and tests.
type State struct {
	Title       string
	Status      string
	Temperature string
	Humidity    string
	Console     []string
}

// Screen owns a Displayer. It is not safe for concurrent use; the node loop
// is its only caller.
type Screen struct {
	d    drivers.Displayer
	w, h int16
	log  *slog.Logger

	failing  bool
	failures int

	cursorY int16
	line    []byte
	st      State
}

func NewScreen(d drivers.Displayer, log *slog.Logger) *Screen {
	w, h := d.Size()
	return &Screen{d: d, w: w, h: h, log: log, cursorY: consoleTop}
}

// Failures counts display operations that returned an error.
func (s *Screen) Failures() int { return s.failures }

// check logs the first error of a failing streak and the recovery after it.
func (s *Screen) check(op string, err error) {
	if err == nil {
		if s.failing {
			s.failing = false
			s.log.Info("display recovered", "failures", s.failures)
		}
		return
	}
	s.failures++
	if !s.failing {
		s.failing = true
		s.log.Warn("display error", "op", op, "error", err)
	}
}

func (s *Screen) flush() { s.check("flush", s.d.Display()) }

func (s *Screen) fill(x, y, w, h int16, c color.RGBA) {
	if f, ok := s.d.(filler); ok {
		if err := f.FillRectangle(x, y, w, h, c); err != nil {
			s.check("fill", err)
		}
		return
	}
	for j := y; j < y+h && j < s.h; j++ {
		for i := x; i < x+w && i < s.w; i++ {
			s.d.SetPixel(i, j, c)
		}
	}
}

// Clear blanks the whole panel and resets the console cursor.
func (s *Screen) Clear() {
	s.fill(0, 0, s.w, s.h, Black)
	s.cursorY = consoleTop
	s.line = s.line[:0]
	s.st = State{}
	s.flush()
}

// Title draws "Zone <id>".
func (s *Screen) Title(zone int) {
	s.st.Title = "Zone " + strconv.Itoa(zone)
	s.fill(0, 0, stateX, consoleTop-2, Black)
	tinyfont.WriteLine(s.d, largeFont, titleX, titleY, s.st.Title, White)
	s.flush()
}

// Print appends text to the current console line.
func (s *Screen) Print(text string) {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			s.newline()
			continue
		}
		s.line = append(s.line, text[i])
		if len(s.line) >= consoleMaxColumns {
			s.newline()
		}
	}
	s.drawLine()
	s.flush()
}

// Println prints text and ends the console line.
func (s *Screen) Println(text string) {
	s.Print(text)
	s.newline()
}

func (s *Screen) drawLine() {
	s.fill(0, s.cursorY, s.w, consoleLineH, Black)
	tinyfont.WriteLine(s.d, smallFont, consoleX, s.cursorY+consoleLineH-2, string(s.line), White)
}

func (s *Screen) newline() {
	s.drawLine()
	s.st.Console = append(s.st.Console, string(s.line))
	s.line = s.line[:0]
	s.cursorY += consoleLineH
	if s.cursorY+consoleLineH > consoleBottom {
		// Wrap to the top rather than scroll; panels without hardware
		// scrolling would need a full redraw.
		s.fill(0, consoleTop, s.w, consoleBottom-consoleTop, Black)
		s.cursorY = consoleTop
	}
}

// ShowReadingLabels clears the console area and draws the readout labels.
func (s *Screen) ShowReadingLabels() {
	s.fill(0, readoutTop, s.w, readoutH, Black)
	s.line = s.line[:0]
	s.cursorY = consoleTop
	tinyfont.WriteLine(s.d, largeFont, labelX, tempY, "Temperature:", White)
	tinyfont.WriteLine(s.d, largeFont, labelX, humY, "Humidity:", White)
	s.flush()
}

// ShowReading replaces the displayed values.
func (s *Screen) ShowReading(temperature, humidity string) {
	s.st.Temperature, s.st.Humidity = temperature, humidity
	s.fill(valueX, tempY-valueH+6, valueW, valueH, Black)
	s.fill(valueX, humY-valueH+6, valueW, valueH, Black)
	tinyfont.WriteLine(s.d, largeFont, valueX, tempY, temperature, Green)
	tinyfont.WriteLine(s.d, largeFont, valueX, humY, humidity, Green)
	s.flush()
}

// ShowState draws "Running" or "Not Running" in the top-right corner.
func (s *Screen) ShowState(running bool) {
	text, c := "Not Running", Amber
	if running {
		text, c = "Running", Green
	}
	s.st.Status = text
	s.fill(stateX, stateY, stateW, stateH, Black)
	_, outbox := tinyfont.LineWidth(smallFont, text)
	x := stateX + stateW - int16(outbox) - 4
	tinyfont.WriteLine(s.d, smallFont, x, stateY+consoleLineH+4, text, c)
	s.flush()
}

// State returns a copy of what is on screen.
func (s *Screen) State() State {
	st := s.st
	st.Console = append([]string(nil), s.st.Console...)
	if len(s.line) > 0 {
		st.Console = append(st.Console, string(s.line))
	}
	return st
}
