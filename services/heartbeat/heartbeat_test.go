package heartbeat

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBeat_Tick(t *testing.T) {
	var buf bytes.Buffer
	b := New(time.Minute, slog.New(slog.NewTextHandler(&buf, nil)))
	st := func() Status { return Status{Running: true, Published: 7, Connects: 2, LinkUp: true} }
	t0 := time.Unix(1000, 0)

	assert.False(t, b.Tick(t0, st), "first tick starts the clock")
	assert.False(t, b.Tick(t0.Add(59*time.Second), st))
	assert.True(t, b.Tick(t0.Add(61*time.Second), st))
	assert.False(t, b.Tick(t0.Add(90*time.Second), st))
	assert.True(t, b.Tick(t0.Add(121*time.Second), st))
	assert.Equal(t, 2, b.Count())

	out := buf.String()
	assert.Contains(t, out, "msg=heartbeat")
	assert.Contains(t, out, "uptime=1m1s")
	assert.Contains(t, out, "published=7")
	assert.Contains(t, out, "link_up=true")
}

func TestBeat_Disabled(t *testing.T) {
	b := New(0, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	called := false
	st := func() Status { called = true; return Status{} }
	for i := 0; i < 3; i++ {
		assert.False(t, b.Tick(time.Unix(int64(i)*3600, 0), st))
	}
	assert.False(t, called)
}
