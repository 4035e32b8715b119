package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashflow90/internal/cli"
	"github.com/theirongolddev/cashflow90/internal/model"
	"github.com/theirongolddev/cashflow90/internal/tui/components"
	"github.com/theirongolddev/cashflow90/internal/tui/theme"
)

const scenarioListWidth = 36

func (a App) renderScenariosTab(cw int) string {
	t := theme.Active

	listW := min(scenarioListWidth, cw/3)
	detailW := cw - listW

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selected := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	pending := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)

	inner := components.CardInnerWidth(listW)
	var list strings.Builder
	if len(a.scenarios.Data) == 0 {
		list.WriteString(muted.Render("No scenarios yet"))
	}
	for i, sc := range a.scenarios.Data {
		name := truncStr(sc.Name, inner-4)
		if i == a.cursor {
			list.WriteString(selected.Render(fmt.Sprintf("▸ %-*s", inner-2, name)))
		} else {
			list.WriteString(row.Render("  " + name))
		}
		if sc.Pending {
			list.WriteString(pending.Render(" …"))
		}
		list.WriteString("\n")
	}
	list.WriteString("\n")
	list.WriteString(muted.Render("[n] new  [j/k] select"))

	left := components.ContentCard("Scenarios", components.ProvenanceBadge(a.scenarios.Provenance), list.String(), listW)
	right := components.ContentCard(a.scenarioTitle(), "", a.renderComparison(detailW), detailW)
	return components.CardRow([]string{left, right})
}

func (a App) scenarioTitle() string {
	if a.cursor < len(a.scenarios.Data) {
		return "Baseline vs " + a.scenarios.Data[a.cursor].Name
	}
	return "Baseline vs Scenario"
}

func (a App) renderComparison(outer int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	if a.cursor >= len(a.scenarios.Data) {
		return muted.Render("Select a scenario to compare.")
	}
	sc := a.scenarios.Data[a.cursor]

	var b strings.Builder
	keys := make([]string, 0, len(sc.Parameters))
	for k := range sc.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(muted.Render(fmt.Sprintf("%-20s ", k)))
		b.WriteString(value.Render(cli.FormatParameter(sc.Parameters[k])))
		b.WriteString("\n")
	}
	if sc.Pending {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface).
			Render("Simulation triggered; results appear after the next refresh."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if a.compareID != sc.ID || len(a.comparison) == 0 {
		b.WriteString(a.spinner.View())
		b.WriteString(muted.Render(" loading comparison…"))
		return b.String()
	}

	baseline, scenario, labels := comparisonSeries(a.comparison)
	b.WriteString(components.LineChart([]components.Series{
		{Name: "baseline", Values: baseline, Color: t.Accent},
		{Name: "scenario", Values: scenario, Color: t.Magenta},
	}, labels, components.CardInnerWidth(outer), 10))

	if n := len(baseline); n > 0 && len(scenario) == n {
		diff := scenario[n-1] - baseline[n-1]
		b.WriteString("\n\n")
		b.WriteString(muted.Render("Impact at horizon: "))
		b.WriteString(lipgloss.NewStyle().Foreground(t.Amount(diff)).Background(t.Surface).Bold(true).
			Render(cli.FormatSignedCurrency(diff)))
	}
	return b.String()
}

// comparisonSeries splits paired points into chart series, keeping only
// dates where both sides are present.
func comparisonSeries(points []model.ScenarioPoint) (baseline, scenario []float64, labels []string) {
	var first, last model.Date
	for _, p := range points {
		if p.Scenario == nil {
			continue
		}
		if first.IsZero() {
			first = p.Date
		}
		last = p.Date
		baseline = append(baseline, p.Baseline)
		scenario = append(scenario, *p.Scenario)
	}
	if len(baseline) > 0 {
		labels = []string{first.Format("Jan 2"), last.Format("Jan 2")}
	}
	return baseline, scenario, labels
}
