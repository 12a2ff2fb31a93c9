package study

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/studybuddy/internal/model"
)

// Source draws uniform integers in [0, n).
type Source interface {
	Intn(n int) int
}

// NewSource returns a seeded source. A zero seed uses the current time.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Shuffle permutes cards in place with Fisher-Yates.
func Shuffle(cards []model.Card, src Source) {
	for i := len(cards) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
