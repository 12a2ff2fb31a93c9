package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/studybuddy/internal/model"
	"github.com/verte-zerg/studybuddy/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		rec := model.SessionRecord{
			StartedAt:  start,
			EndedAt:    end,
			DeckKey:    "deck:1",
			DeckSize:   2,
			Correct:    1,
			Incorrect:  1,
			DurationMs: end.Sub(start).Milliseconds(),
		}
		cards := []model.CardStats{
			{CardID: 1, Question: "q1", Correct: 1},
			{CardID: 2, Question: "q2", Incorrect: 1},
		}
		samples := []model.PerformanceSample{
			{CardNumber: 1, AccuracyPercent: 100, ElapsedMs: 1000},
			{CardNumber: 2, AccuracyPercent: 50, ElapsedMs: int64(2000 + i)},
		}
		id, err := st.InsertSession(ctx, rec, cards, samples)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{Deck: "deck:1", Last: 2, CurveWindow: 1})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if len(report.WindowSessionIDs) != 1 || report.WindowSessionIDs[0] != ids[2] {
		t.Fatalf("unexpected window ids %v", report.WindowSessionIDs)
	}
	if len(report.CardAggsAll) != 2 || len(report.CardAggsWindow) != 2 {
		t.Fatalf("expected card aggregates, got %+v / %+v", report.CardAggsAll, report.CardAggsWindow)
	}
	for _, agg := range report.CardAggsAll {
		if agg.Correct+agg.Incorrect != 2 {
			t.Fatalf("expected aggregates over 2 sessions, got %+v", agg)
		}
	}
	if len(report.LastSamples) != 2 || report.LastSamples[1].ElapsedMs != 2002 {
		t.Fatalf("expected samples of the latest session, got %+v", report.LastSamples)
	}
}

func TestBuildReportEmpty(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	report, err := BuildReport(context.Background(), st, model.StatsConfig{})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 0 || report.LastSamples != nil {
		t.Fatalf("expected empty report, got %+v", report)
	}
}
