package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashflow90/internal/tui/theme"
)

// StatusInfo is what the bottom bar reports about the current load.
type StatusInfo struct {
	CompanyID   string
	DataAge     string
	Notice      string
	Refreshing  bool
	AutoRefresh bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	notice := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)

	left := base.Render(" [?]help  [r]efresh  [q]uit")
	if info.Notice != "" {
		left += base.Render("  ") + notice.Render(info.Notice)
	}

	right := ""
	switch {
	case info.Refreshing:
		right = accent.Render("refreshing… ")
	case info.DataAge != "":
		right = base.Render("loaded in " + info.DataAge + " ")
	}
	if info.AutoRefresh {
		right = accent.Render("auto ") + right
	}
	if info.CompanyID != "" {
		right = base.Render(info.CompanyID+"  ") + right
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return lipgloss.NewStyle().Background(t.Surface).Width(width).
		Render(left + base.Render(strings.Repeat(" ", padding)) + right)
}
