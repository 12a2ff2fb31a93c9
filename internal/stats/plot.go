package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 4
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

// dash patterns let overlapping series stay distinguishable without color.
var dashPatterns = []struct {
	name   string
	period int
	on     int
}{
	{"solid", 1, 1},
	{"dashed", 6, 3},
	{"dotted", 4, 1},
	{"dashdot", 8, 3},
}

var seriesColors = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
	"\x1b[34m", // blue
}

type yScale struct {
	fixed  bool
	lo, hi float64
}

var percentScale = yScale{fixed: true, lo: 0, hi: 100}

// PlotSeries renders a braille line chart, scaling each series to its own
// range.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return plot(w, title, series, width, height, false, yScale{})
}

// PlotSeriesWithColor is PlotSeries with optional forced color output.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	return plot(w, title, series, width, height, forceColor, yScale{})
}

// PlotPercentSeries renders series on a shared 0..100 scale.
func PlotPercentSeries(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	return plot(w, title, series, width, height, forceColor, percentScale)
}

func plot(w io.Writer, title string, series []Series, width, height int, forceColor bool, scale yScale) error {
	series = nonEmptySeries(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)

	layers := make([]*canvas, len(series))
	ranges := make([]yScale, len(series))
	for i, s := range series {
		values := resampleSeries(s.Values, width)
		ranges[i] = scale
		if !scale.fixed {
			lo, hi := valueRange(values)
			if math.Abs(hi-lo) < 1e-9 {
				lo, hi = lo-1, hi+1
			}
			ranges[i] = yScale{lo: lo, hi: hi}
		}
		layers[i] = newCanvas(width, height)
		layers[i].polyline(values, ranges[i], i)
	}

	useColor := shouldUseColor(w, forceColor)
	var out []string
	if title != "" {
		out = append(out, title)
	}
	if scale.fixed {
		out = append(out, fmt.Sprintf("Scale: %.0f to %.0f", scale.lo, scale.hi))
	} else {
		out = append(out, "Scaled per series; see min/max below.")
		for i, s := range series {
			out = append(out, fmt.Sprintf("%s: min=%.2f max=%.2f", s.Name, ranges[i].lo, ranges[i].hi))
		}
	}
	labels := axisLabels(height, scale)
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", axisLabelWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			mask, owner := composeCell(layers, x, y)
			ch := rune(0x2800 + int(mask))
			if useColor && owner >= 0 {
				row.WriteString(seriesColors[owner%len(seriesColors)])
				row.WriteRune(ch)
				row.WriteString(colorReset)
				continue
			}
			row.WriteRune(ch)
		}
		out = append(out, row.String())
	}
	out = append(out, legend(series, useColor), "")
	for _, line := range out {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-axisLabelWidth-utf8.RuneCountInString(axisSeparator), minPlotWidth)
}

func nonEmptySeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func axisLabels(height int, scale yScale) []string {
	labels := make([]string, height)
	top, mid, bottom := "max", "", "min"
	if scale.fixed {
		top = fmt.Sprintf("%.0f", scale.hi)
		mid = fmt.Sprintf("%.0f", (scale.lo+scale.hi)/2)
		bottom = fmt.Sprintf("%.0f", scale.lo)
	}
	labels[0] = top
	if height > 2 {
		labels[height/2] = mid
	}
	if height > 1 {
		labels[height-1] = bottom
	}
	return labels
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("⠁ %s (%s)", s.Name, dashPatterns[i%len(dashPatterns)].name)
		if useColor {
			label = seriesColors[i%len(seriesColors)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// resampleSeries stretches or bins values to exactly width points.
func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	switch {
	case len(values) == width:
		copy(out, values)
	case len(values) > width:
		// Average each bin.
		for i := range out {
			start := i * len(values) / width
			end := max((i+1)*len(values)/width, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		// Linear interpolation between neighbours.
		step := float64(len(values)-1) / float64(width-1)
		for i := range out {
			pos := float64(i) * step
			idx := int(pos)
			if idx >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}
