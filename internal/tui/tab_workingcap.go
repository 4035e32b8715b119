package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashflow90/internal/cli"
	"github.com/theirongolddev/cashflow90/internal/tui/components"
	"github.com/theirongolddev/cashflow90/internal/tui/theme"
)

var agingLabels = []string{"0-30", "31-60", "61-90", "90+"}

func (a App) renderWorkingCapitalTab(cw int) string {
	t := theme.Active
	wc := a.dash.WorkingCapital.Data
	nwc := wc.NetWorkingCapital()

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Receivables", Value: cli.FormatCurrency(wc.ARTotal), Tone: t.Green},
		{Label: "Payables", Value: cli.FormatCurrency(wc.APTotal), Tone: t.Orange},
		{Label: "Net Working Capital", Value: cli.FormatCurrency(nwc), Tone: t.Amount(nwc),
			Note: "as of " + wc.AsOfDate.Format("Jan 2, 2006")},
	}, cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	ar := []float64{wc.AR0To30, wc.AR31To60, wc.AR61To90, wc.AR90Plus}
	ap := []float64{wc.AP0To30, wc.AP31To60, wc.AP61To90, wc.AP90Plus}
	badge := components.ProvenanceBadge(a.dash.WorkingCapital.Provenance)

	b.WriteString(components.CardRow([]string{
		components.ContentCard("Receivables Aging", badge, agingBars(ar, wc.ARTotal, halves[0]), halves[0]),
		components.ContentCard("Payables Aging", badge, agingBars(ap, wc.APTotal, halves[1]), halves[1]),
	}))
	return b.String()
}

func agingBars(buckets []float64, total float64, outer int) string {
	t := theme.Active
	barW := max(components.CardInnerWidth(outer)-25, 5)
	lines := make([]string, 0, len(buckets)+2)
	for i, v := range buckets {
		lines = append(lines, components.ShareBar(agingLabels[i], v, total, components.ColorForAge(i), 6, barW))
	}
	overdue := 0.0
	for _, v := range buckets[1:] {
		overdue += v
	}
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	lines = append(lines, "", muted.Render("older than 30 days: "+cli.FormatCurrency(overdue)))
	return strings.Join(lines, "\n")
}
