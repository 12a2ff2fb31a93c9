// Package sink forwards study judgements to the backend without blocking
// the session.
package sink

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/verte-zerg/studybuddy/internal/model"
	"github.com/verte-zerg/studybuddy/internal/study"
)

// Target receives progress and per-card telemetry.
type Target interface {
	SaveProgress(ctx context.Context, report model.ProgressReport) error
	RecordCardStudy(ctx context.Context, cardID int64, correct bool) error
}

// Reporter posts judgements on background goroutines. Failures are logged
// and dropped.
type Reporter struct {
	target  Target
	logger  *slog.Logger
	timeout time.Duration

	wg sync.WaitGroup
}

// NewReporter creates a reporter. A nil target disables posting.
func NewReporter(target Target, logger *slog.Logger, timeout time.Duration) *Reporter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Reporter{target: target, logger: logger, timeout: timeout}
}

// Judged posts the session counters after j and, for cards that belong to a
// backend deck, the per-card result.
func (r *Reporter) Judged(j study.Judgement, elapsedMs int64) {
	if r == nil || r.target == nil {
		return
	}
	report := model.ProgressReport{
		Correct:    j.Stats.Correct,
		Incorrect:  j.Stats.Incorrect,
		Total:      j.Stats.Total,
		DurationMs: elapsedMs,
	}
	r.spawn("save progress", func(ctx context.Context) error {
		return r.target.SaveProgress(ctx, report)
	})

	if !j.Card.HasDeck() {
		return
	}
	cardID, correct := j.Card.ID, j.Correct
	r.spawn("record card study", func(ctx context.Context) error {
		return r.target.RecordCardStudy(ctx, cardID, correct)
	})
}

// Wait blocks until in-flight posts finish.
func (r *Reporter) Wait() {
	if r == nil {
		return
	}
	r.wg.Wait()
}

func (r *Reporter) spawn(op string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			r.logger.Error("failed to post", "op", op, "err", err)
		}
	}()
}
