// Package model defines shared data structures.
package model

import "time"

// Card is a single flashcard as served by the backend.
type Card struct {
	ID         int64  `json:"id" yaml:"id"`
	Question   string `json:"question" yaml:"question"`
	Answer     string `json:"answer" yaml:"answer"`
	DeckID     *int64 `json:"deck_id,omitempty" yaml:"-"`
	Category   string `json:"category,omitempty" yaml:"category"`
	Difficulty string `json:"difficulty,omitempty" yaml:"difficulty"`
	Hint       string `json:"hint,omitempty" yaml:"hint"`
}

// HasDeck reports whether the card belongs to a backend deck.
func (c Card) HasDeck() bool {
	return c.DeckID != nil
}

// DeckInfo describes a remote flashcard deck.
type DeckInfo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	CardCount   int    `json:"card_count"`
	IsPublic    bool   `json:"is_public"`
}

// Config defines study settings.
type Config struct {
	Server      string
	Token       string
	Timeout     time.Duration
	DeckID      *int64
	DeckFile    string
	Quiz        bool
	Seed        int64
	AutoAdvance time.Duration
	FocusWeak   bool
	WeakTop     int
	WeakWindow  int
	NoSync      bool
	Theme       string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Deck        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionStats holds the correctness counters of a study session.
// Total always equals Correct+Incorrect.
type SessionStats struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Total     int `json:"total"`
}

// TimerState is a read-only view of the study timer.
type TimerState struct {
	ElapsedMs int64
	Running   bool
}

// PerformanceSample is one point of the accuracy-over-time series.
type PerformanceSample struct {
	CardNumber      int   `json:"card_number"`
	AccuracyPercent int   `json:"accuracy_percent"`
	ElapsedMs       int64 `json:"elapsed_ms"`
}

// Progress is the correct/incorrect/remaining split of a deck.
type Progress struct {
	Correct   int
	Incorrect int
	Remaining int
}

// ChartData is the projection consumed by chart rendering.
type ChartData struct {
	Progress          Progress
	PerformanceSeries []PerformanceSample
}

// ProgressReport is the payload posted after each judgement.
type ProgressReport struct {
	Correct    int   `json:"correct"`
	Incorrect  int   `json:"incorrect"`
	Total      int   `json:"total"`
	DurationMs int64 `json:"duration_ms"`
}

// SessionRecord captures a finished study session for local history.
type SessionRecord struct {
	ClientID   string
	StartedAt  time.Time
	EndedAt    time.Time
	DeckKey    string
	Quiz       bool
	DeckSize   int
	Correct    int
	Incorrect  int
	DurationMs int64
}

// CardStats stores per-card judgements for a session.
type CardStats struct {
	CardID    int64
	Question  string
	Correct   int
	Incorrect int
}

// CardAggregate aggregates card stats across sessions.
type CardAggregate struct {
	CardID    int64
	Question  string
	Correct   int
	Incorrect int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	DeckKey    string
	Correct    int
	Incorrect  int
	DurationMs int64
}

// ChatMessage is one stored exchange from the chat history.
type ChatMessage struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
}

// ChatReply is the backend answer to a chat message.
type ChatReply struct {
	Response  string `json:"response"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// AIStatus reports whether the backend AI is reachable.
type AIStatus struct {
	AIAvailable bool   `json:"ai_available"`
	AIType      string `json:"ai_type"`
}

// PracticeQuestion is a generated study question.
type PracticeQuestion struct {
	Question string `json:"question"`
	Topic    string `json:"topic"`
	Type     string `json:"type"`
}

// UserStats aggregates a user's study history on the backend.
type UserStats struct {
	TotalSessions  int     `json:"total_sessions"`
	CardsStudied   int     `json:"cards_studied"`
	Accuracy       float64 `json:"accuracy"`
	Streak         int     `json:"streak"`
	TotalCorrect   int     `json:"total_correct"`
	TotalIncorrect int     `json:"total_incorrect"`
}
