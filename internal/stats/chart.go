package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/studybuddy/internal/model"
)

// Progress bar glyphs for correct, incorrect and remaining cards.
const (
	GlyphCorrect   = "█"
	GlyphIncorrect = "▓"
	GlyphRemaining = "░"
)

// RenderPerformance plots accuracy per judged card on a 0..100 scale.
func RenderPerformance(w io.Writer, samples []model.PerformanceSample, width, height int, forceColor bool) error {
	if len(samples) == 0 {
		_, err := fmt.Fprintln(w, "No cards judged yet.")
		return err
	}
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = float64(s.AccuracyPercent)
	}
	title := fmt.Sprintf("Performance (cards 1-%d)", samples[len(samples)-1].CardNumber)
	return PlotPercentSeries(w, title, []Series{{Name: "Accuracy %", Values: values}}, width, height, forceColor)
}

// ProgressSegments splits width cells between correct, incorrect and
// remaining cards. Any non-zero part gets at least one cell when room allows.
func ProgressSegments(p model.Progress, width int) (correct, incorrect, remaining int) {
	total := p.Correct + p.Incorrect + p.Remaining
	if total <= 0 || width <= 0 {
		return 0, 0, max(width, 0)
	}
	parts := []int{p.Correct, p.Incorrect, p.Remaining}
	cells := make([]int, 3)
	used := 0
	for i, v := range parts {
		cells[i] = v * width / total
		if v > 0 && cells[i] == 0 {
			cells[i] = 1
		}
		used += cells[i]
	}
	// Hand the rounding difference to the largest part.
	largest := 0
	for i := range parts {
		if parts[i] > parts[largest] {
			largest = i
		}
	}
	cells[largest] = max(cells[largest]+width-used, 0)
	return cells[0], cells[1], cells[2]
}

// ProgressBar renders the correct/incorrect/remaining split as a bar with a
// trailing count.
func ProgressBar(p model.Progress, width int) string {
	c, i, r := ProgressSegments(p, width)
	return fmt.Sprintf("%s%s%s %d/%d/%d",
		strings.Repeat(GlyphCorrect, c),
		strings.Repeat(GlyphIncorrect, i),
		strings.Repeat(GlyphRemaining, r),
		p.Correct, p.Incorrect, p.Remaining)
}
