// Package heartbeat emits a periodic status line from a polling loop. It
// owns no goroutine or ticker; the loop calls Tick with its own clock.
package heartbeat

import (
	"log/slog"
	"time"
)

// Status is what a beat reports.
type Status struct {
	Running   bool
	Published int
	Connects  int
	LinkUp    bool
}

type Beat struct {
	every time.Duration
	log   *slog.Logger

	start time.Time
	last  time.Time
	count int
}

// New returns a Beat firing every d. A zero or negative d disables it.
func New(d time.Duration, log *slog.Logger) *Beat {
	return &Beat{every: d, log: log}
}

// Tick logs a heartbeat when one is due at now and reports whether it did.
// The first call only starts the clock.
func (b *Beat) Tick(now time.Time, status func() Status) bool {
	if b.every <= 0 {
		return false
	}
	if b.start.IsZero() {
		b.start, b.last = now, now
		return false
	}
	if now.Sub(b.last) < b.every {
		return false
	}
	b.last = now
	b.count++
	st := status()
	b.log.Info("heartbeat",
		"uptime", now.Sub(b.start).Truncate(time.Second),
		"running", st.Running,
		"published", st.Published,
		"connects", st.Connects,
		"link_up", st.LinkUp,
	)
	return true
}

// Count is the number of heartbeats logged.
func (b *Beat) Count() int { return b.count }
