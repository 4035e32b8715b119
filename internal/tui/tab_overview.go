package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashflow90/internal/cli"
	"github.com/theirongolddev/cashflow90/internal/model"
	"github.com/theirongolddev/cashflow90/internal/tui/components"
	"github.com/theirongolddev/cashflow90/internal/tui/theme"
)

// runwayWarnDays colors a runway card orange below this many days.
const runwayWarnDays = 60

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	k := a.dash.KPIs
	var b strings.Builder

	nwc := components.Metric{Label: "Net Working Capital", Value: cli.FormatOptionalCurrency(k.NetWorkingCapital)}
	if k.NetWorkingCapital != nil {
		nwc.Tone = t.Amount(*k.NetWorkingCapital)
		nwc.Note = "AR " + cli.FormatCompact(a.dash.WorkingCapital.Data.ARTotal) +
			" · AP " + cli.FormatCompact(a.dash.WorkingCapital.Data.APTotal)
	}

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Current Cash", Value: cli.FormatCurrency(k.CurrentCash), Note: a.lastActualNote()},
		{Label: "Runway (base)", Value: cli.FormatRunway(k.RunwayBase), Tone: runwayTone(k.RunwayBase)},
		{Label: "Runway (worst)", Value: cli.FormatRunway(k.RunwayWorst), Tone: runwayTone(k.RunwayWorst)},
		{Label: "Next 30 Days", Value: cli.FormatSignedCurrency(k.Next30DayNet), Tone: t.Amount(k.Next30DayNet), Note: "base net cash"},
		nwc,
	}, cw))
	b.WriteString("\n")

	fc := a.dash.Forecast.Data
	if len(fc) > 0 {
		series := make([]components.Series, 0, 3)
		for _, band := range []model.Band{model.BandBase, model.BandBest, model.BandWorst} {
			vals := make([]float64, len(fc))
			for i, f := range fc {
				vals[i] = f.Closing(band)
			}
			series = append(series, components.Series{Name: string(band), Values: vals, Color: t.Band(band)})
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("%d-Day Forecast · closing balance", len(fc)),
			components.ProvenanceBadge(a.dash.Forecast.Provenance),
			components.LineChart(series, forecastLabels(fc), components.CardInnerWidth(cw), 10),
			cw,
		))
		b.WriteString("\n")
	}

	actuals := a.dash.Actuals.Data
	if len(actuals) > 0 {
		closing := make([]float64, len(actuals))
		net := make([]float64, len(actuals))
		for i, d := range actuals {
			closing[i] = d.ClosingBalance
			net[i] = d.NetCash
		}
		halves := components.LayoutRow(cw, 2)
		left := components.ContentCard(
			fmt.Sprintf("History · %d days", len(actuals)),
			components.ProvenanceBadge(a.dash.Actuals.Provenance),
			components.LineChart([]components.Series{{Name: "closing", Values: closing, Color: t.Blue}},
				[]string{actuals[0].Date.Format("Jan 2"), actuals[len(actuals)-1].Date.Format("Jan 2")},
				components.CardInnerWidth(halves[0]), 6),
			halves[0],
		)
		right := components.ContentCard("Daily Net Cash", "", a.renderNetSummary(net, halves[1]), halves[1])
		b.WriteString(components.CardRow([]string{left, right}))
	}

	return b.String()
}

func (a App) renderNetSummary(net []float64, outer int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var in, out float64
	for _, v := range net {
		if v > 0 {
			in += v
		} else {
			out -= v
		}
	}

	var b strings.Builder
	b.WriteString(components.Sparkline(net, t.Accent))
	b.WriteString("\n\n")
	b.WriteString(components.ShareBar("In", in, in+out, t.Green, 4, max(components.CardInnerWidth(outer)-24, 5)))
	b.WriteString("\n")
	b.WriteString(components.ShareBar("Out", out, in+out, t.Red, 4, max(components.CardInnerWidth(outer)-24, 5)))
	b.WriteString("\n")
	b.WriteString(muted.Render("net " + cli.FormatSignedCurrency(in-out)))
	return b.String()
}

func (a App) lastActualNote() string {
	d := a.dash.Actuals.Data
	if len(d) == 0 {
		return "no history"
	}
	return "as of " + d[len(d)-1].Date.Format("Jan 2")
}

func runwayTone(r model.Runway) lipgloss.Color {
	t := theme.Active
	switch {
	case r.Beyond:
		return t.Green
	case r.Days < runwayWarnDays/2:
		return t.Red
	case r.Days < runwayWarnDays:
		return t.Orange
	default:
		return t.TextPrimary
	}
}

func forecastLabels(fc []model.DailyForecast) []string {
	if len(fc) == 0 {
		return nil
	}
	return []string{fc[0].Date.Format("Jan 2"), fc[len(fc)-1].Date.Format("Jan 2")}
}
