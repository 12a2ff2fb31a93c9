package deck

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/verte-zerg/studybuddy/internal/client"
	"github.com/verte-zerg/studybuddy/internal/model"
)

// Deck keys group local history by where the cards came from.
const (
	KeyAll      = "all"
	KeyFallback = "fallback"
)

// KeyForDeck returns the history key of a backend deck.
func KeyForDeck(id int64) string {
	return fmt.Sprintf("deck:%d", id)
}

// KeyForFile returns the history key of a local deck file.
func KeyForFile(path string) string {
	return "file:" + path
}

// ParseKey normalizes a user-supplied deck filter. A bare number names a
// backend deck.
func ParseKey(s string) string {
	s = strings.TrimSpace(s)
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return KeyForDeck(id)
	}
	return s
}

// CardSource fetches cards from the backend.
type CardSource interface {
	FetchCards(ctx context.Context, deckID *int64) ([]model.Card, error)
}

// Result is a resolved deck.
type Result struct {
	Cards        []model.Card
	Key          string
	FromFallback bool
}

// Load fetches the cards of deckID (all cards when nil). A transport
// failure is logged and answered with the fallback deck. An empty fetch is
// returned unchanged.
func Load(ctx context.Context, source CardSource, deckID *int64, logger *slog.Logger) (Result, error) {
	key := KeyAll
	if deckID != nil {
		key = KeyForDeck(*deckID)
	}
	cards, err := source.FetchCards(ctx, deckID)
	if err != nil {
		if !client.IsTransport(err) {
			return Result{}, err
		}
		if logger != nil {
			logger.Warn("card fetch failed, using fallback deck", "deck", key, "err", err)
		}
		return FallbackResult(), nil
	}
	return Result{Cards: Normalize(cards), Key: key}, nil
}

// FallbackResult wraps the built-in deck.
func FallbackResult() Result {
	return Result{Cards: Fallback(), Key: KeyFallback, FromFallback: true}
}

// Normalize trims card text and drops incomplete cards and repeated ids.
func Normalize(cards []model.Card) []model.Card {
	out := make([]model.Card, 0, len(cards))
	seen := make(map[int64]struct{}, len(cards))
	for _, c := range cards {
		c.Question = strings.TrimSpace(c.Question)
		c.Answer = strings.TrimSpace(c.Answer)
		if c.Question == "" || c.Answer == "" {
			continue
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}

// FilterWeak keeps the cards whose ids are in weakIDs, preserving order.
// The full deck is returned when no card matches.
func FilterWeak(cards []model.Card, weakIDs []int64) []model.Card {
	if len(weakIDs) == 0 {
		return cards
	}
	weak := make(map[int64]struct{}, len(weakIDs))
	for _, id := range weakIDs {
		weak[id] = struct{}{}
	}
	var out []model.Card
	for _, c := range cards {
		if _, ok := weak[c.ID]; ok {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return cards
	}
	return out
}
