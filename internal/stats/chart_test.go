package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/studybuddy/internal/model"
)

func TestProgressSegments(t *testing.T) {
	cases := []struct {
		p       model.Progress
		width   int
		c, i, r int
	}{
		{model.Progress{Correct: 1, Incorrect: 1, Remaining: 2}, 20, 5, 5, 10},
		{model.Progress{Remaining: 6}, 12, 0, 0, 12},
		{model.Progress{Correct: 1, Remaining: 99}, 10, 1, 0, 9},
		{model.Progress{}, 8, 0, 0, 8},
	}
	for _, tc := range cases {
		c, i, r := ProgressSegments(tc.p, tc.width)
		if c != tc.c || i != tc.i || r != tc.r {
			t.Errorf("ProgressSegments(%+v, %d) = %d/%d/%d, want %d/%d/%d", tc.p, tc.width, c, i, r, tc.c, tc.i, tc.r)
		}
		if c+i+r != tc.width {
			t.Errorf("segments for %+v do not fill width %d", tc.p, tc.width)
		}
	}
}

func TestProgressBar(t *testing.T) {
	bar := ProgressBar(model.Progress{Correct: 1, Incorrect: 1, Remaining: 0}, 4)
	if bar != "██▓▓ 1/1/0" {
		t.Fatalf("unexpected bar %q", bar)
	}
}

func TestRenderPerformance(t *testing.T) {
	var buf bytes.Buffer
	samples := []model.PerformanceSample{
		{CardNumber: 1, AccuracyPercent: 100},
		{CardNumber: 2, AccuracyPercent: 50},
		{CardNumber: 3, AccuracyPercent: 67},
	}
	if err := RenderPerformance(&buf, samples, 20, 4, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Performance (cards 1-3)") {
		t.Fatalf("missing title:\n%s", buf.String())
	}

	buf.Reset()
	if err := RenderPerformance(&buf, nil, 20, 4, false); err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if !strings.Contains(buf.String(), "No cards judged yet.") {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}
