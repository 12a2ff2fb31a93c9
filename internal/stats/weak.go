package stats

import (
	"sort"

	"github.com/verte-zerg/studybuddy/internal/model"
)

// SelectWeakCards returns the ids of the top lowest-accuracy cards. Cards
// that were never missed are not weak.
func SelectWeakCards(aggs []model.CardAggregate, top int) []int64 {
	candidates := make([]model.CardAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Incorrect > 0 {
			candidates = append(candidates, agg)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai, aj := cardAccuracy(candidates[i]), cardAccuracy(candidates[j])
		if ai == aj {
			return candidates[i].CardID < candidates[j].CardID
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	ids := make([]int64, 0, top)
	for _, agg := range candidates[:top] {
		ids = append(ids, agg.CardID)
	}
	return ids
}
