package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/cashflow90/internal/model"
	"github.com/theirongolddev/cashflow90/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, tc := range []struct{ total, n int }{{100, 3}, {81, 4}, {7, 7}, {10, 1}} {
		sum := 0
		for _, w := range LayoutRow(tc.total, tc.n) {
			sum += w
		}
		if sum != tc.total {
			t.Fatalf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow with n=0 should be nil")
	}
}

func TestCardRowPadsShorterCards(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "", "Content", 22)
	tallCard := ContentCard("Tall", "", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("line %d has no ANSI background styling", i)
		}
		if w := lipgloss.Width(lines[i]); w != 44 {
			t.Errorf("line %d width = %d, want 44", i, w)
		}
	}
}

func TestContentCardBadge(t *testing.T) {
	card := ContentCard("Forecast", ProvenanceBadge(model.ProvenanceSynthetic), "body", 40)
	if !strings.Contains(card, "synthetic") {
		t.Fatal("badge missing from card header")
	}
	if w := lipgloss.Width(card); w != 40 {
		t.Fatalf("card width = %d, want 40", w)
	}
}

func TestSparklineScalesNegatives(t *testing.T) {
	plain := stripANSI(Sparkline([]float64{-50, 0, 50}, theme.Active.Accent))
	if got := []rune(plain); len(got) != 3 || got[0] != '▁' || got[2] != '█' {
		t.Fatalf("sparkline = %q", plain)
	}
}

func TestLineChartDrawsZeroLine(t *testing.T) {
	chart := LineChart([]Series{
		{Name: "base", Values: []float64{10_000, 0, -10_000}, Color: theme.Active.Accent},
		{Name: "worst", Values: []float64{5_000, -5_000, -20_000}, Color: theme.Active.Red},
	}, []string{"Jun 1", "Jun 3"}, 40, 8)

	plain := stripANSI(chart)
	for _, want := range []string{"┄", "•", "Jun 1", "Jun 3", "• base", "• worst", "10k", "-20k"} {
		if !strings.Contains(plain, want) {
			t.Errorf("chart missing %q:\n%s", want, plain)
		}
	}
}

func TestLineChartEmpty(t *testing.T) {
	if LineChart(nil, nil, 40, 8) != "" {
		t.Fatal("empty chart should render nothing")
	}
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	for active := range Tabs {
		bar := RenderTabBar(active, 0)
		want := 0
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		want += len(Tabs) - 1
		if got := lipgloss.Width(bar); got != want {
			t.Fatalf("active=%d: tab bar width = %d, want %d", active, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if TabIdxByKey('w') != 2 {
		t.Fatal("w should select Working Capital")
	}
	if TabIdxByKey('z') != -1 {
		t.Fatal("unknown key should return -1")
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
