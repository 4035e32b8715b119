package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashflow90/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline scaled between the series extremes.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	lo, hi := bounds(values)
	span := hi - lo

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkBlocks)-1))
		}
		buf.WriteRune(sparkBlocks[min(max(idx, 0), len(sparkBlocks)-1)])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// Series is one line of a LineChart.
type Series struct {
	Name   string
	Values []float64
	Color  lipgloss.Color
}

// LineChart plots one or more balance series on a shared y axis. Later
// series draw over earlier ones. A dotted zero line is drawn when the
// range crosses zero. labels, when present, annotate the first and last
// columns.
func LineChart(series []Series, labels []string, width, height int) string {
	n := 0
	var all []float64
	for _, s := range series {
		n = max(n, len(s.Values))
		all = append(all, s.Values...)
	}
	if n == 0 {
		return ""
	}
	if width < 20 || height < 3 {
		return Sparkline(series[0].Values, series[0].Color)
	}

	t := theme.Active
	lo, hi := bounds(all)
	step := chartTickStep(hi - lo)
	lo = math.Floor(lo/step) * step
	hi = math.Ceil(hi/step) * step
	if hi == lo {
		hi = lo + step
	}

	yLabelW := max(len(formatChartLabel(hi)), len(formatChartLabel(lo)), 4) + 1
	plotW := min(n, max(width-yLabelW-1, 5))
	rows := height

	rowOf := func(v float64) int {
		r := int(math.Round((v - lo) / (hi - lo) * float64(rows-1)))
		return rows - 1 - min(max(r, 0), rows-1)
	}

	type cell struct {
		r     rune
		color lipgloss.Color
	}
	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, plotW)
	}

	zeroRow := -1
	if lo < 0 && hi > 0 {
		zeroRow = rowOf(0)
		for c := range grid[zeroRow] {
			grid[zeroRow][c] = cell{'┄', t.TextDim}
		}
	}

	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		for c := 0; c < plotW; c++ {
			v := s.Values[sampleIndex(c, plotW, len(s.Values))]
			grid[rowOf(v)][c] = cell{'•', s.Color}
		}
	}

	yLabels := map[int]string{0: formatChartLabel(hi), rows - 1: formatChartLabel(lo)}
	if zeroRow > 0 && zeroRow < rows-1 {
		yLabels[zeroRow] = "0"
	}

	bg := lipgloss.NewStyle().Background(t.Surface)
	axisStyle := bg.Foreground(t.TextDim)

	var b strings.Builder
	for r, line := range grid {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, yLabels[r])))
		b.WriteString(axisStyle.Render("│"))
		for _, c := range line {
			if c.r == 0 {
				b.WriteString(bg.Render(" "))
				continue
			}
			b.WriteString(bg.Foreground(c.color).Render(string(c.r)))
		}
		b.WriteString("\n")
	}
	b.WriteString(axisStyle.Render(strings.Repeat(" ", yLabelW) + "└" + strings.Repeat("─", plotW)))

	if len(labels) > 0 {
		first, last := labels[0], labels[len(labels)-1]
		gap := max(plotW-len(first)-len(last), 1)
		b.WriteString("\n")
		b.WriteString(axisStyle.Render(strings.Repeat(" ", yLabelW+1) + first + strings.Repeat(" ", gap) + last))
	}

	if len(series) > 1 {
		b.WriteString("\n")
		b.WriteString(bg.Render(strings.Repeat(" ", yLabelW+1)))
		for i, s := range series {
			if i > 0 {
				b.WriteString(bg.Render("  "))
			}
			b.WriteString(bg.Foreground(s.Color).Render("• " + s.Name))
		}
	}

	return b.String()
}

// sampleIndex maps plot column c of w onto a series of length n.
func sampleIndex(c, w, n int) int {
	if w <= 1 || n <= 1 {
		return 0
	}
	return min(c*(n-1)/(w-1), n-1)
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(span float64) float64 {
	if span <= 0 {
		return 1
	}
	rough := span / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	if v < 0 {
		return "-" + formatChartLabel(-v)
	}
	switch {
	case v >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("%.0fM", v/1e6)
		}
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
