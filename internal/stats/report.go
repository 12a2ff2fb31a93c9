package stats

import (
	"context"

	"github.com/verte-zerg/studybuddy/internal/model"
	"github.com/verte-zerg/studybuddy/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions         []model.SessionAggregate
	WindowSessionIDs []int64
	CardAggsAll      []model.CardAggregate
	CardAggsWindow   []model.CardAggregate
	// LastSamples is the performance series of the latest session.
	LastSamples []model.PerformanceSample
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	allIDs := sessionIDs(sessions)
	windowIDs := lastSessionIDs(sessions, cfg.CurveWindow)
	aggsAll, err := st.ListCardAggregatesForSessions(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	aggsWindow, err := st.ListCardAggregatesForSessions(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	var samples []model.PerformanceSample
	if len(sessions) > 0 {
		samples, err = st.ListSamplesForSession(ctx, sessions[len(sessions)-1].SessionID)
		if err != nil {
			return Report{}, err
		}
	}

	return Report{
		Sessions:         sessions,
		WindowSessionIDs: windowIDs,
		CardAggsAll:      aggsAll,
		CardAggsWindow:   aggsWindow,
		LastSamples:      samples,
	}, nil
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []int64 {
	if window <= 0 || len(sessions) <= window {
		return sessionIDs(sessions)
	}
	return sessionIDs(sessions[len(sessions)-window:])
}
