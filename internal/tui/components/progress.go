package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashflow90/internal/cli"
	"github.com/theirongolddev/cashflow90/internal/tui/theme"
)

// ColorForAge returns green/yellow/orange/red from the youngest to the oldest
// aging bucket.
func ColorForAge(bucket int) lipgloss.Color {
	t := theme.Active
	switch bucket {
	case 0:
		return t.Green
	case 1:
		return t.Yellow
	case 2:
		return t.Orange
	default:
		return t.Red
	}
}

// ShareBar renders a labeled bar showing value as a share of total,
// followed by the amount and percentage.
func ShareBar(label string, value, total float64, color lipgloss.Color, labelW, barWidth int) string {
	t := theme.Active

	pct := 0.0
	if total > 0 {
		pct = min(max(value/total, 0), 1)
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	amountStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		amountStyle.Render(fmt.Sprintf("%10s", cli.FormatCurrency(value))) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%4.0f%%", pct*100))
}
