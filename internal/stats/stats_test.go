package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/studybuddy/internal/model"
)

func TestSessionMetrics(t *testing.T) {
	cpm, acc := SessionMetrics(6, 2, 120000)
	if math.Abs(cpm-4) > 1e-9 || math.Abs(acc-0.75) > 1e-9 {
		t.Fatalf("unexpected metrics cpm=%v acc=%v", cpm, acc)
	}
	cpm, acc = SessionMetrics(1, 1, 0)
	if cpm != 0 || acc != 0.5 {
		t.Fatalf("zero duration should keep accuracy, got cpm=%v acc=%v", cpm, acc)
	}
}

func TestAccuracyPercent(t *testing.T) {
	if got := AccuracyPercent(1, 2); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
	if got := AccuracyPercent(2, 3); got != 67 {
		t.Fatalf("expected 67, got %d", got)
	}
	if got := AccuracyPercent(0, 0); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestMastery(t *testing.T) {
	cases := []struct {
		correct, incorrect int
		want               Level
	}{
		{0, 0, Beginner},
		{1, 0, Beginner},
		{2, 0, Intermediate},
		{3, 2, Intermediate},
		{3, 0, Advanced},
		{3, 1, Advanced},
		{4, 0, Advanced},
		{5, 0, Mastered},
		{9, 1, Mastered},
		{8, 2, Advanced},
		{1, 1, Beginner},
	}
	for _, tc := range cases {
		if got := Mastery(tc.correct, tc.incorrect); got != tc.want {
			t.Errorf("Mastery(%d, %d) = %s, want %s", tc.correct, tc.incorrect, got, tc.want)
		}
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected moving average %v", got)
		}
	}
	if got := MovingAverage([]float64{1, 2}, 0); got[1] != 2 {
		t.Fatalf("window 0 should copy values, got %v", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 100}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{5, 5, 5}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestRenderSummaryAndCardTable(t *testing.T) {
	var buf bytes.Buffer
	sessions := []model.SessionAggregate{
		{SessionID: 1, EndedAt: time.Unix(0, 0), Correct: 3, Incorrect: 1, DurationMs: 60000},
		{SessionID: 2, EndedAt: time.Unix(60, 0), Correct: 4, Incorrect: 0, DurationMs: 60000},
	}
	if err := RenderSummary(&buf, sessions); err != nil {
		t.Fatalf("summary: %v", err)
	}
	for _, want := range []string{"Sessions: 2", "Cards judged: 8", "Study time: 2m00s", "Avg accuracy: 87.50%", "Best accuracy: 100.00%"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("summary missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	aggs := []model.CardAggregate{
		{CardID: 1, Question: "What is Go?", Correct: 5},
		{CardID: 2, Question: "What is a channel?", Correct: 1, Incorrect: 2},
	}
	if err := RenderCardTable(&buf, aggs); err != nil {
		t.Fatalf("card table: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 4 || !strings.Contains(lines[2], "What is a channel?") || !strings.Contains(lines[3], "Mastered") {
		t.Fatalf("unexpected card table:\n%s", buf.String())
	}

	buf.Reset()
	if err := RenderSummary(&buf, nil); err != nil || !strings.Contains(buf.String(), "No sessions found.") {
		t.Fatalf("unexpected empty summary %q (%v)", buf.String(), err)
	}
}
