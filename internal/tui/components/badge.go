package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashflow90/internal/model"
	"github.com/theirongolddev/cashflow90/internal/tui/theme"
)

// ProvenanceBadge renders a compact data-source label for card headers.
func ProvenanceBadge(p model.Provenance) string {
	t := theme.Active
	return lipgloss.NewStyle().
		Foreground(t.Provenance(p)).
		Background(t.Surface).
		Render("● " + string(p))
}

// SeverityBadge renders an alert severity tag.
func SeverityBadge(s model.Severity) string {
	t := theme.Active
	return lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Severity(s)).
		Bold(true).
		Padding(0, 1).
		Render(string(s))
}
