// Package store keeps local study history in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/studybuddy/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout keeps every timestamp the same width so text comparison in SQL
// matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for study sessions.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			client_id TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			deck_key TEXT NOT NULL,
			quiz INTEGER NOT NULL,
			deck_size INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_card_stats (
			session_id INTEGER NOT NULL,
			card_id INTEGER NOT NULL,
			question TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			PRIMARY KEY (session_id, card_id)
		);`,
		`CREATE TABLE IF NOT EXISTS session_samples (
			session_id INTEGER NOT NULL,
			card_number INTEGER NOT NULL,
			accuracy_percent INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			PRIMARY KEY (session_id, card_number)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_deck_key ON sessions(deck_key);`,
		`CREATE INDEX IF NOT EXISTS idx_session_card_stats_card ON session_card_stats(card_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a session with its per-card stats and performance
// samples. An empty ClientID is filled with a random UUID.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord, cards []model.CardStats, samples []model.PerformanceSample) (id int64, err error) {
	if rec.ClientID == "" {
		rec.ClientID = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (client_id, started_at, ended_at, deck_key, quiz, deck_size, correct, incorrect, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ClientID,
		rec.StartedAt.UTC().Format(timeLayout),
		rec.EndedAt.UTC().Format(timeLayout),
		rec.DeckKey,
		boolToInt(rec.Quiz),
		rec.DeckSize,
		rec.Correct,
		rec.Incorrect,
		rec.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err = insertEach(ctx, tx,
		`INSERT INTO session_card_stats (session_id, card_id, question, correct, incorrect) VALUES (?, ?, ?, ?, ?)`,
		len(cards), func(i int) []any {
			cs := cards[i]
			return []any{id, cs.CardID, cs.Question, cs.Correct, cs.Incorrect}
		}); err != nil {
		return 0, err
	}
	if err = insertEach(ctx, tx,
		`INSERT INTO session_samples (session_id, card_number, accuracy_percent, elapsed_ms) VALUES (?, ?, ?, ?)`,
		len(samples), func(i int) []any {
			sm := samples[i]
			return []any{id, sm.CardNumber, sm.AccuracyPercent, sm.ElapsedMs}
		}); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func insertEach(ctx context.Context, tx *sql.Tx, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return err
		}
	}
	return nil
}

// GetWeakCards aggregates card stats over the most recent sessions of a deck.
// An empty deckKey spans every deck.
func (s *Store) GetWeakCards(ctx context.Context, window int, deckKey string) ([]model.CardAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id FROM sessions
		WHERE (? = '' OR deck_key = ?)
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT cs.card_id, MAX(cs.question), SUM(cs.correct) AS correct, SUM(cs.incorrect) AS incorrect
	FROM session_card_stats cs
	JOIN recent_sessions r ON r.id = cs.session_id
	GROUP BY cs.card_id`

	rows, err := s.db.QueryContext(ctx, query, deckKey, deckKey, window)
	if err != nil {
		return nil, err
	}
	return scanCardAggregates(rows)
}

// ListSessions returns session aggregates filtered by stats config, oldest
// first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Deck != "" {
		clauses = append(clauses, "deck_key = ?")
		args = append(args, cfg.Deck)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, deck_key, correct, incorrect, duration_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.DeckKey, &agg.Correct, &agg.Incorrect, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListCardAggregatesForSessions aggregates per-card stats across sessions.
func (s *Store) ListCardAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.CardAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(sessionIDs)
	query := fmt.Sprintf(`SELECT card_id, question, SUM(correct) AS correct, SUM(incorrect) AS incorrect
		FROM session_card_stats
		WHERE session_id IN (%s)
		GROUP BY card_id, question`, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanCardAggregates(rows)
}

// ListSamplesForSession returns the performance samples of one session in
// card order.
func (s *Store) ListSamplesForSession(ctx context.Context, sessionID int64) ([]model.PerformanceSample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT card_number, accuracy_percent, elapsed_ms
		 FROM session_samples
		 WHERE session_id = ?
		 ORDER BY card_number ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var samples []model.PerformanceSample
	for rows.Next() {
		var sm model.PerformanceSample
		if err := rows.Scan(&sm.CardNumber, &sm.AccuracyPercent, &sm.ElapsedMs); err != nil {
			return nil, err
		}
		samples = append(samples, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

func scanCardAggregates(rows *sql.Rows) ([]model.CardAggregate, error) {
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CardAggregate
	for rows.Next() {
		var agg model.CardAggregate
		if err := rows.Scan(&agg.CardID, &agg.Question, &agg.Correct, &agg.Incorrect); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func inClause(ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ","), args
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
