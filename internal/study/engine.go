// Package study implements the flashcard study session engine: deck
// sequencing, correctness scoring, elapsed-time tracking and chart data.
//
// The engine performs no I/O. A presentation layer calls its operations from
// a single goroutine and reads its queries after each mutation.
package study

import (
	"fmt"
	"time"

	"github.com/verte-zerg/studybuddy/internal/model"
)

// AutoAdvanceDelay is how long a caller waits after a judgement before
// advancing to the next card.
const AutoAdvanceDelay = 500 * time.Millisecond

// Judgement is the outcome of RecordJudgement.
type Judgement struct {
	Card    model.Card
	Correct bool
	Stats   model.SessionStats
	Sample  model.PerformanceSample
	// AdvanceScheduled is set when the judged card was not the last one;
	// the caller should call Advance, after AutoAdvanceDelay or at once.
	AdvanceScheduled bool
	// Complete is set when the judged card was the last one.
	Complete *SessionComplete
}

// SessionComplete carries the final figures of a finished run.
type SessionComplete struct {
	Stats           model.SessionStats
	AccuracyPercent int
	ElapsedMs       int64
}

// Verdict returns an encouragement matching the accuracy.
func (c SessionComplete) Verdict() string {
	switch {
	case c.AccuracyPercent >= 90:
		return "Excellent work!"
	case c.AccuracyPercent >= 70:
		return "Good job!"
	default:
		return "Keep practicing!"
	}
}

// Engine owns one study session.
type Engine struct {
	deck      []model.Card
	cursor    int
	stats     model.SessionStats
	timer     *Timer
	history   []model.PerformanceSample
	src       Source
	listeners []Listener
}

// New constructs an engine with an empty deck.
func New(clock Clock, src Source) *Engine {
	if src == nil {
		src = NewSource(0)
	}
	return &Engine{
		timer: NewTimer(clock),
		src:   src,
	}
}

// LoadDeck replaces the deck and clears position, stats and history.
func (e *Engine) LoadDeck(cards []model.Card) error {
	if len(cards) == 0 {
		return ErrEmptyDeck
	}
	seen := make(map[int64]struct{}, len(cards))
	for _, c := range cards {
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateCard, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	e.deck = append([]model.Card(nil), cards...)
	e.clearProgress()
	e.emit(Event{Kind: EventDeckLoaded})
	return nil
}

// CurrentCard returns the card under the cursor.
func (e *Engine) CurrentCard() (model.Card, error) {
	if len(e.deck) == 0 {
		return model.Card{}, ErrEmptyDeck
	}
	return e.deck[e.cursor], nil
}

// Advance moves to the next card. It does nothing on the last card.
func (e *Engine) Advance() error {
	if len(e.deck) == 0 {
		return ErrEmptyDeck
	}
	if e.cursor >= len(e.deck)-1 {
		return nil
	}
	e.cursor++
	e.emit(Event{Kind: EventCursorMoved})
	return nil
}

// Retreat moves to the previous card. It does nothing on the first card.
func (e *Engine) Retreat() error {
	if len(e.deck) == 0 {
		return ErrEmptyDeck
	}
	if e.cursor == 0 {
		return nil
	}
	e.cursor--
	e.emit(Event{Kind: EventCursorMoved})
	return nil
}

// RecordJudgement scores the current card and appends a performance sample.
func (e *Engine) RecordJudgement(correct bool) (Judgement, error) {
	if len(e.deck) == 0 {
		return Judgement{}, ErrEmptyDeck
	}
	if correct {
		e.stats.Correct++
	} else {
		e.stats.Incorrect++
	}
	e.stats.Total = e.stats.Correct + e.stats.Incorrect

	elapsed := e.timer.Elapsed().Milliseconds()
	sample := model.PerformanceSample{
		CardNumber:      e.stats.Total,
		AccuracyPercent: accuracyPercent(e.stats.Correct, e.stats.Total),
		ElapsedMs:       elapsed,
	}
	e.history = append(e.history, sample)

	j := Judgement{
		Card:    e.deck[e.cursor],
		Correct: correct,
		Stats:   e.stats,
		Sample:  sample,
	}
	if e.cursor < len(e.deck)-1 {
		j.AdvanceScheduled = true
	} else {
		j.Complete = &SessionComplete{
			Stats:           e.stats,
			AccuracyPercent: sample.AccuracyPercent,
			ElapsedMs:       elapsed,
		}
	}

	e.emit(Event{Kind: EventJudged, Judgement: &j})
	if j.Complete != nil {
		e.emit(Event{Kind: EventSessionComplete, Judgement: &j, Complete: j.Complete})
	}
	return j, nil
}

// StartQuiz optionally shuffles the deck and restarts the run.
func (e *Engine) StartQuiz(shuffle bool) error {
	if len(e.deck) == 0 {
		return ErrEmptyDeck
	}
	if shuffle {
		Shuffle(e.deck, e.src)
	}
	e.clearProgress()
	if shuffle {
		e.emit(Event{Kind: EventShuffled})
	} else {
		e.emit(Event{Kind: EventSessionReset})
	}
	return nil
}

// ResetSession restarts the run without reshuffling.
func (e *Engine) ResetSession() error {
	return e.StartQuiz(false)
}

// StartTimer starts the study timer. It does nothing when already running.
func (e *Engine) StartTimer() error {
	if len(e.deck) == 0 {
		return ErrEmptyDeck
	}
	if e.timer.Start() {
		e.emit(Event{Kind: EventTimerChanged})
	}
	return nil
}

// PauseTimer freezes the study timer. It does nothing when paused.
func (e *Engine) PauseTimer() error {
	if len(e.deck) == 0 {
		return ErrEmptyDeck
	}
	if e.timer.Pause() {
		e.emit(Event{Kind: EventTimerChanged})
	}
	return nil
}

// ResetTimer zeroes and stops the study timer.
func (e *Engine) ResetTimer() error {
	if len(e.deck) == 0 {
		return ErrEmptyDeck
	}
	e.timer.Reset()
	e.emit(Event{Kind: EventTimerChanged})
	return nil
}

// ToggleTimer pauses a running timer or starts a paused one.
func (e *Engine) ToggleTimer() error {
	if len(e.deck) == 0 {
		return ErrEmptyDeck
	}
	e.timer.Toggle()
	e.emit(Event{Kind: EventTimerChanged})
	return nil
}

// TimerState returns the current timer snapshot.
func (e *Engine) TimerState() model.TimerState {
	return e.timer.State()
}

// SnapshotChartData projects the session for chart rendering.
func (e *Engine) SnapshotChartData() (model.ChartData, error) {
	if len(e.deck) == 0 {
		return model.ChartData{}, ErrEmptyDeck
	}
	remaining := len(e.deck) - e.stats.Total
	if remaining < 0 {
		remaining = 0
	}
	return model.ChartData{
		Progress: model.Progress{
			Correct:   e.stats.Correct,
			Incorrect: e.stats.Incorrect,
			Remaining: remaining,
		},
		PerformanceSeries: e.History(),
	}, nil
}

// Stats returns the correctness counters.
func (e *Engine) Stats() model.SessionStats {
	return e.stats
}

// History returns a copy of the performance samples.
func (e *Engine) History() []model.PerformanceSample {
	return append([]model.PerformanceSample(nil), e.history...)
}

// Len returns the deck size.
func (e *Engine) Len() int {
	return len(e.deck)
}

// Position returns the zero-based cursor.
func (e *Engine) Position() int {
	return e.cursor
}

// AtFirst reports whether the cursor is on the first card.
func (e *Engine) AtFirst() bool {
	return e.cursor == 0
}

// AtLast reports whether the cursor is on the last card.
func (e *Engine) AtLast() bool {
	return len(e.deck) == 0 || e.cursor == len(e.deck)-1
}

// ProgressPercent returns how far through the deck the cursor is.
func (e *Engine) ProgressPercent() int {
	if len(e.deck) == 0 {
		return 0
	}
	return accuracyPercent(e.cursor+1, len(e.deck))
}

func (e *Engine) clearProgress() {
	e.cursor = 0
	e.stats = model.SessionStats{}
	e.history = nil
}

// accuracyPercent rounds 100*part/whole half up.
func accuracyPercent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return (200*part + whole) / (2 * whole)
}
