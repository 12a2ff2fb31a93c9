package stats

import (
	"sort"

	"github.com/verte-zerg/studybuddy/internal/model"
)

// TopCardsByAttempts returns the n most judged cards.
func TopCardsByAttempts(aggs []model.CardAggregate, n int) []model.CardAggregate {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.CardAggregate, len(aggs))
	copy(items, aggs)
	sort.Slice(items, func(i, j int) bool {
		ti := items[i].Correct + items[i].Incorrect
		tj := items[j].Correct + items[j].Incorrect
		if ti == tj {
			return items[i].CardID < items[j].CardID
		}
		return ti > tj
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
