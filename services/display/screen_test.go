package display

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScreen() (*Screen, *Framebuffer) {
	fb := NewFramebuffer(320, 240)
	s := NewScreen(fb, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Clear()
	return s, fb
}

// brokenPanel fails every flush while err is set.
type brokenPanel struct {
	*Framebuffer
	err error
}

func (p *brokenPanel) Display() error { return p.err }

func TestScreen_DisplayErrorsLoggedOnce(t *testing.T) {
	var logs bytes.Buffer
	p := &brokenPanel{Framebuffer: NewFramebuffer(320, 240), err: errors.New("open /nope/now.png.tmp: permission denied")}
	s := NewScreen(p, slog.New(slog.NewTextHandler(&logs, nil)))

	s.Clear()
	s.Title(1)
	s.Println("Success")
	assert.Equal(t, 3, s.Failures())
	assert.Equal(t, 1, strings.Count(logs.String(), "display error"))
	assert.Contains(t, logs.String(), "permission denied")

	p.err = nil
	s.ShowState(true)
	assert.Contains(t, logs.String(), "display recovered")
	assert.Equal(t, 3, s.Failures())
}

func TestScreen_SnapshotToBadPathIsReported(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	fb := NewFramebuffer(320, 240)
	fb.SnapshotPath = filepath.Join(blocker, "screen.png")

	var logs bytes.Buffer
	s := NewScreen(fb, slog.New(slog.NewTextHandler(&logs, nil)))
	s.Clear()
	assert.Equal(t, 1, s.Failures())
	assert.Contains(t, logs.String(), "display error")
}

func TestScreen_TitleAndConsole(t *testing.T) {
	s, fb := newTestScreen()

	s.Title(3)
	s.Print("Connecting to lab")
	s.Print(".")
	s.Print(".")
	s.Println("")
	s.Println("Success")

	st := s.State()
	assert.Equal(t, "Zone 3", st.Title)
	assert.Equal(t, []string{"Connecting to lab..", "Success"}, st.Console)
	assert.NotZero(t, fb.Lit(image.Rect(0, 0, 160, 28), Black), "title should be drawn")
	assert.NotZero(t, fb.Lit(image.Rect(0, consoleTop, 320, consoleTop+2*consoleLineH), Black), "console lines should be drawn")
}

func TestScreen_ConsoleWrapsToTop(t *testing.T) {
	s, _ := newTestScreen()
	lines := (consoleBottom - consoleTop) / consoleLineH
	for i := 0; i < lines+1; i++ {
		s.Println("x")
	}
	assert.Equal(t, int16(consoleTop+consoleLineH), s.cursorY)
}

func TestScreen_ReadingAndState(t *testing.T) {
	s, fb := newTestScreen()
	s.ShowReadingLabels()
	s.ShowReading("23.1", "49%")
	s.ShowState(true)

	st := s.State()
	assert.Equal(t, "23.1", st.Temperature)
	assert.Equal(t, "49%", st.Humidity)
	assert.Equal(t, "Running", st.Status)

	valueArea := image.Rect(valueX, tempY-valueH, valueX+valueW, tempY+6)
	lit := fb.Lit(valueArea, Black)
	assert.NotZero(t, lit)

	s.ShowReading("-18.6", "49%")
	assert.Equal(t, "-18.6", s.State().Temperature)

	s.ShowState(false)
	assert.Equal(t, "Not Running", s.State().Status)
	assert.NotZero(t, fb.Lit(image.Rect(stateX, stateY, stateX+stateW, stateY+stateH), Black))
}

func TestFramebuffer_Snapshot(t *testing.T) {
	fb := NewFramebuffer(32, 16)
	fb.SnapshotPath = filepath.Join(t.TempDir(), "screen", "now.png")

	require.NoError(t, fb.FillRectangle(0, 0, 8, 8, White))
	require.NoError(t, fb.Display())

	info, err := os.Stat(fb.SnapshotPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
	assert.Equal(t, 64, fb.Lit(fb.Image().Bounds(), color.RGBA{}))
	assert.Equal(t, 1, fb.Flushes)
}

func TestFramebuffer_OutOfBoundsIgnored(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.SetPixel(10, 10, White)
	require.NoError(t, fb.FillRectangle(2, 2, 10, 10, White))
	assert.Equal(t, 4, fb.Lit(fb.Image().Bounds(), color.RGBA{}))
}
