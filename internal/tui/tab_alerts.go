package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashflow90/internal/model"
	"github.com/theirongolddev/cashflow90/internal/tui/components"
	"github.com/theirongolddev/cashflow90/internal/tui/theme"
)

func (a App) renderAlertsTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	alerts := sortedAlerts(a.dash.Alerts.Data)
	inner := components.CardInnerWidth(cw)

	var b strings.Builder
	if len(alerts) == 0 {
		b.WriteString(muted.Render("No alerts. Cash position looks steady."))
	}
	for i, al := range alerts {
		if i > 0 {
			b.WriteString("\n")
		}
		badge := components.SeverityBadge(al.Severity)
		when := al.CreatedAt.Format("Jan 2 15:04")
		head := badge + muted.Render(" "+al.AlertType)
		gap := max(inner-lipgloss.Width(head)-len(when), 1)
		b.WriteString(head + muted.Render(strings.Repeat(" ", gap)) + dim.Render(when))
		b.WriteString("\n")
		b.WriteString(text.Render("  " + truncStr(al.Message, inner-2)))
		b.WriteString("\n")
	}

	return components.ContentCard("Alerts", components.ProvenanceBadge(a.dash.Alerts.Provenance), b.String(), cw)
}

// sortedAlerts orders by severity, most severe first, then newest first.
func sortedAlerts(in []model.AlertEvent) []model.AlertEvent {
	out := make([]model.AlertEvent, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		if ri, rj := out[i].Severity.Rank(), out[j].Severity.Rank(); ri != rj {
			return ri > rj
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
