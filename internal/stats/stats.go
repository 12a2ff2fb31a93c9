// Package stats contains study statistics, text charts and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/studybuddy/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes judged cards per minute and accuracy (0..1).
func SessionMetrics(correct, incorrect int, durationMs int64) (cardsPerMinute, accuracy float64) {
	total := correct + incorrect
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}
	if durationMs <= 0 {
		return 0, accuracy
	}
	minutes := float64(durationMs) / 60000.0
	return float64(total) / minutes, accuracy
}

// AccuracyPercent returns 100*correct/total rounded half up, or 0 for an
// empty total.
func AccuracyPercent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := valueRange(values)
	if math.Abs(hi-lo) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(last)))
		idx = max(0, min(idx, last))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints headline numbers for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalCPM, totalAcc, bestAcc float64
	var cards, studyMs int64
	for _, s := range sessions {
		cpm, acc := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		totalCPM += cpm
		totalAcc += acc
		bestAcc = math.Max(bestAcc, acc)
		cards += int64(s.Correct + s.Incorrect)
		studyMs += s.DurationMs
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Cards judged: %d", cards),
		fmt.Sprintf("Study time: %s", FormatDuration(studyMs)),
		fmt.Sprintf("Avg cards/min: %.2f", totalCPM/count),
		fmt.Sprintf("Avg accuracy: %.2f%%", totalAcc/count*100),
		fmt.Sprintf("Best accuracy: %.2f%%", bestAcc*100),
		fmt.Sprintf("Accuracy trend: %s", Sparkline(sessionAccuracies(sessions))),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints learning curves for accuracy and pace.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	return RenderCurvesWithSize(w, sessions, window, 0, 10, false)
}

// RenderCurvesWithSize prints learning curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	paces := make([]float64, len(sessions))
	for i, s := range sessions {
		paces[i], _ = SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Learning Curves", []Series{
		{Name: "Accuracy %", Values: MovingAverage(sessionAccuracies(sessions), window)},
		{Name: "Cards/min", Values: MovingAverage(paces, window)},
	}, width, height, useColor)
}

// RenderCardTable prints per-card aggregates, weakest first.
func RenderCardTable(w io.Writer, aggs []model.CardAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No card stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Card (Windowed)"); err != nil {
		return err
	}
	lines := FormatTable(CardTableHeaders, CardTableRows(aggs, questionColumnWidth), map[int]bool{0: true, 2: true, 3: true, 4: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

const questionColumnWidth = 48

// CardTableHeaders names the columns of CardTableRows.
var CardTableHeaders = []string{"Card", "Question", "Accuracy", "Correct", "Incorrect", "Mastery"}

// CardTableRows sorts aggregates by accuracy, lowest first, and formats them
// as table cells. Questions are truncated to questionWidth cells.
func CardTableRows(aggs []model.CardAggregate, questionWidth int) [][]string {
	sorted := make([]model.CardAggregate, len(aggs))
	copy(sorted, aggs)
	sort.SliceStable(sorted, func(i, j int) bool {
		ai, aj := cardAccuracy(sorted[i]), cardAccuracy(sorted[j])
		if ai == aj {
			return sorted[i].CardID < sorted[j].CardID
		}
		return ai < aj
	})
	rows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		rows = append(rows, []string{
			fmt.Sprintf("%d", agg.CardID),
			truncateCell(agg.Question, questionWidth),
			fmt.Sprintf("%d%%", AccuracyPercent(agg.Correct, agg.Correct+agg.Incorrect)),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Incorrect),
			Mastery(agg.Correct, agg.Incorrect).String(),
		})
	}
	return rows
}

func sessionAccuracies(sessions []model.SessionAggregate) []float64 {
	out := make([]float64, len(sessions))
	for i, s := range sessions {
		_, acc := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		out[i] = acc * 100
	}
	return out
}

func valueRange(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// FormatDuration renders a study duration as minutes and seconds, or hours
// and minutes past an hour.
func FormatDuration(ms int64) string {
	secs := ms / 1000
	if secs >= 3600 {
		return fmt.Sprintf("%dh%02dm", secs/3600, secs%3600/60)
	}
	return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
}
