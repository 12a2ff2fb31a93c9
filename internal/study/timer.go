package study

import (
	"fmt"
	"time"

	"github.com/verte-zerg/studybuddy/internal/model"
)

// Timer measures study time against a clock reference. Elapsed time is
// derived from the clock on every read; nothing accumulates per tick.
type Timer struct {
	clock       Clock
	startRef    time.Time
	accumulated time.Duration
	running     bool
}

// NewTimer returns a stopped timer.
func NewTimer(clock Clock) *Timer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Timer{clock: clock}
}

// Start resumes the timer. It reports false when already running.
func (t *Timer) Start() bool {
	if t.running {
		return false
	}
	t.startRef = t.clock.Now()
	t.running = true
	return true
}

// Pause freezes the elapsed time. It reports false when not running.
func (t *Timer) Pause() bool {
	if !t.running {
		return false
	}
	t.accumulated += t.span()
	t.running = false
	t.startRef = time.Time{}
	return true
}

// Reset stops the timer and zeroes elapsed time.
func (t *Timer) Reset() {
	t.accumulated = 0
	t.running = false
	t.startRef = time.Time{}
}

// Toggle starts a paused timer or pauses a running one.
func (t *Timer) Toggle() {
	if t.running {
		t.Pause()
		return
	}
	t.Start()
}

// Running reports whether the timer is counting.
func (t *Timer) Running() bool {
	return t.running
}

// Elapsed returns the total counted time.
func (t *Timer) Elapsed() time.Duration {
	if !t.running {
		return t.accumulated
	}
	return t.accumulated + t.span()
}

// State returns a snapshot of the timer.
func (t *Timer) State() model.TimerState {
	return model.TimerState{
		ElapsedMs: t.Elapsed().Milliseconds(),
		Running:   t.running,
	}
}

func (t *Timer) span() time.Duration {
	d := t.clock.Now().Sub(t.startRef)
	if d < 0 {
		return 0
	}
	return d
}

// FormatElapsed renders milliseconds as zero-padded MM:SS.
func FormatElapsed(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	totalSeconds := ms / 1000
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}
