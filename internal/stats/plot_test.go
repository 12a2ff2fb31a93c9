package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1, 1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4, 4, 3, 2, 1, 1}},
	}, 10, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Test Plot", "Scaled per series", "A: min=1.00 max=3.00", "Legend:", "(dashed)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if expected := 1 + 1 + 2 + 4 + 1; len(lines) != expected {
		t.Fatalf("expected %d lines of output, got %d", expected, len(lines))
	}
}

func TestPlotPercentSeriesUsesFixedAxis(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotPercentSeries(&buf, "", []Series{{Name: "Acc", Values: []float64{50, 50}}}, 10, 5, false); err != nil {
		t.Fatalf("plot: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[0] != "Scale: 0 to 100" {
		t.Fatalf("unexpected scale line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], " 100 │ ") || !strings.HasPrefix(lines[5], "   0 │ ") {
		t.Fatalf("unexpected axis labels:\n%s", buf.String())
	}
	// 50% of a 20-dot column lands in the middle row.
	if strings.Trim(strings.TrimPrefix(lines[3], "  50 │ "), "⠀") == "" {
		t.Fatalf("expected dots on the middle row:\n%s", buf.String())
	}
}

func TestPlotSkipsEmptySeries(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Empty", []Series{{Name: "none"}}, 10, 4); err != nil {
		t.Fatalf("plot: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 80-axisLabelWidth-3 {
		t.Fatalf("unexpected width %d", got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
	if got := PlotWidthFor(12); got != minPlotWidth {
		t.Fatalf("expected min width for narrow terminals, got %d", got)
	}
}

func TestResampleSeries(t *testing.T) {
	down := resampleSeries([]float64{1, 3, 5, 7}, 2)
	if len(down) != 2 || down[0] != 2 || down[1] != 6 {
		t.Fatalf("unexpected downsample %v", down)
	}
	up := resampleSeries([]float64{0, 10}, 3)
	if len(up) != 3 || up[1] != 5 {
		t.Fatalf("unexpected upsample %v", up)
	}
	flat := resampleSeries([]float64{4}, 3)
	if flat[0] != 4 || flat[2] != 4 {
		t.Fatalf("unexpected single-value resample %v", flat)
	}
}

func TestDotBit(t *testing.T) {
	want := map[[2]int]uint8{
		{0, 0}: 0x01, {0, 1}: 0x02, {0, 2}: 0x04, {0, 3}: 0x40,
		{1, 0}: 0x08, {1, 1}: 0x10, {1, 2}: 0x20, {1, 3}: 0x80,
	}
	for pos, bit := range want {
		if got := dotBit(pos[0], pos[1]); got != bit {
			t.Errorf("dotBit(%d, %d) = %#x, want %#x", pos[0], pos[1], got, bit)
		}
	}
}
