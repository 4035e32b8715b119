package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashflow90/internal/model"
	"github.com/theirongolddev/cashflow90/internal/tui/theme"
)

// scenarioValues holds form-bound values for a new scenario.
type scenarioValues struct {
	name    string
	growth  string
	payroll string
}

func (v scenarioValues) request() (model.ScenarioRequest, error) {
	growth, err := parseAdjustment(v.growth)
	if err != nil {
		return model.ScenarioRequest{}, fmt.Errorf("growth: %w", err)
	}
	payroll, err := parseAdjustment(v.payroll)
	if err != nil {
		return model.ScenarioRequest{}, fmt.Errorf("payroll: %w", err)
	}
	return model.ScenarioRequest{
		Name:              strings.TrimSpace(v.name),
		GrowthAdjustment:  growth,
		PayrollAdjustment: payroll,
	}, nil
}

func parseAdjustment(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func validateAdjustment(s string) error {
	if _, err := parseAdjustment(s); err != nil {
		return fmt.Errorf("enter a number")
	}
	return nil
}

func newScenarioForm(vals *scenarioValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Scenario name").
				Placeholder("Hire 2 engineers in Q3").
				CharLimit(120).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}).
				Value(&vals.name),

			huh.NewInput().
				Title("Revenue growth adjustment (%)").
				Description("Percent change applied to projected inflows.").
				Placeholder("0").
				Validate(validateAdjustment).
				Value(&vals.growth),

			huh.NewInput().
				Title("Payroll adjustment (headcount)").
				Description("Net hires (+) or departures (-).").
				Placeholder("0").
				Validate(validateAdjustment).
				Value(&vals.payroll),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(true)
}

func (a App) openScenarioForm() (tea.Model, tea.Cmd) {
	a.formVals = scenarioValues{}
	a.form = newScenarioForm(&a.formVals)
	if a.width > 0 {
		a.form = a.form.WithWidth(min(a.width, 72))
	}
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		a.form = nil
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a.form = nil
		req, err := a.formVals.request()
		if err != nil {
			a.notice = err.Error()
			return a, nil
		}
		a.creating = true
		return a, tea.Batch(a.createCmd(req), a.spinner.Tick)
	case huh.StateAborted:
		a.form = nil
		return a, nil
	}
	return a, cmd
}

func (a App) createCmd(req model.ScenarioRequest) tea.Cmd {
	loader, opts, company := a.opts.Loader, a.opts, a.companyLabel()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opts.LoadTimeout)
		defer cancel()
		sc, err := loader.CreateScenario(ctx, company, req)
		return ScenarioCreatedMsg{Scenario: sc, Err: err}
	}
}

func (a App) viewForm() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2).
		Render(a.form.View())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}
