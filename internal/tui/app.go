// Package tui provides the interactive Bubble Tea cash-flow dashboard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashflow90/internal/dataservice"
	"github.com/theirongolddev/cashflow90/internal/model"
	"github.com/theirongolddev/cashflow90/internal/tui/components"
	"github.com/theirongolddev/cashflow90/internal/tui/theme"
)

// Loader is the data surface the dashboard reads from.
type Loader interface {
	Dashboard(ctx context.Context, companyID string, days int) dataservice.Dashboard
	Scenarios(ctx context.Context, companyID string) dataservice.Result[[]model.Scenario]
	ScenarioComparison(ctx context.Context, companyID, scenarioID string) []model.ScenarioPoint
	CreateScenario(ctx context.Context, companyID string, req model.ScenarioRequest) (model.Scenario, error)
}

// Options configures a new App.
type Options struct {
	Loader          Loader
	CompanyID       string
	Days            int
	AutoRefresh     bool
	RefreshInterval time.Duration
	LoadTimeout     time.Duration
}

// DataLoadedMsg is sent when the dashboard and scenario list finish loading.
type DataLoadedMsg struct {
	Dashboard dataservice.Dashboard
	Scenarios dataservice.Result[[]model.Scenario]
	LoadTime  time.Duration
}

// ComparisonMsg carries the baseline-vs-scenario series for one scenario.
type ComparisonMsg struct {
	ScenarioID string
	Points     []model.ScenarioPoint
}

// ScenarioCreatedMsg reports the outcome of a scenario trigger.
type ScenarioCreatedMsg struct {
	Scenario model.Scenario
	Err      error
}

type tickMsg struct{}

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	dash       dataservice.Dashboard
	scenarios  dataservice.Result[[]model.Scenario]
	comparison []model.ScenarioPoint
	compareID  string
	loaded     bool
	loadTime   time.Duration

	// Refresh state
	lastRefresh time.Time
	refreshing  bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	cursor    int // selected scenario
	notice    string

	// New-scenario form
	form     *huh.Form
	formVals scenarioValues
	creating bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5

	defaultRefreshInterval = 5 * time.Minute
	defaultLoadTimeout     = 30 * time.Second
)

// Tab indexes.
const (
	tabOverview = iota
	tabScenarios
	tabWorkingCapital
	tabAlerts
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	if opts.RefreshInterval < 10*time.Second {
		opts.RefreshInterval = defaultRefreshInterval
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = defaultLoadTimeout
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{opts: opts, spinner: sp}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.loadCmd(),
		a.spinner.Tick,
		tickCmd(),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(min(msg.Width, 72))
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.form != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabScenarios {
				return a.moveCursor(-1)
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabScenarios {
				return a.moveCursor(1)
			}
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					return a.switchTab(tab)
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.dash = msg.Dashboard
		a.loadTime = msg.LoadTime
		a.lastRefresh = time.Now()
		a.refreshing = false
		a.loaded = true
		a.mergeScenarios(msg.Scenarios)
		if a.activeTab == tabScenarios {
			return a, a.comparisonCmd()
		}
		return a, nil

	case ComparisonMsg:
		if id := a.selectedScenarioID(); id == msg.ScenarioID {
			a.compareID = msg.ScenarioID
			a.comparison = msg.Points
		}
		return a, nil

	case ScenarioCreatedMsg:
		a.creating = false
		if msg.Err != nil {
			a.notice = "scenario not started: " + msg.Err.Error()
			return a, nil
		}
		a.scenarios.Data = append([]model.Scenario{msg.Scenario}, a.scenarios.Data...)
		a.cursor = 0
		a.notice = fmt.Sprintf("simulating %q", msg.Scenario.Name)
		return a, a.comparisonCmd()

	case spinner.TickMsg:
		if !a.loaded || a.refreshing || a.creating {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.opts.AutoRefresh && !a.refreshing && time.Since(a.lastRefresh) >= a.opts.RefreshInterval {
			a.refreshing = true
			cmds = append(cmds, a.loadCmd(), a.spinner.Tick)
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages to the form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}
	if a.form != nil {
		return a.updateForm(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	a.notice = ""

	if a.activeTab == tabScenarios {
		switch key {
		case "j", "down":
			return a.moveCursor(1)
		case "k", "up":
			return a.moveCursor(-1)
		case "n":
			return a.openScenarioForm()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, tea.Batch(a.loadCmd(), a.spinner.Tick)
		}
		return a, nil
	case "R":
		a.opts.AutoRefresh = !a.opts.AutoRefresh
		return a, nil
	case "left":
		return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
	case "right", "tab":
		return a.switchTab((a.activeTab + 1) % len(components.Tabs))
	}

	if len(key) == 1 {
		if tab := components.TabIdxByKey(rune(key[0])); tab >= 0 {
			return a.switchTab(tab)
		}
	}
	return a, nil
}

func (a App) switchTab(tab int) (tea.Model, tea.Cmd) {
	a.activeTab = tab
	if tab == tabScenarios && a.compareID != a.selectedScenarioID() {
		return a, a.comparisonCmd()
	}
	return a, nil
}

func (a App) moveCursor(delta int) (tea.Model, tea.Cmd) {
	n := len(a.scenarios.Data)
	if n == 0 {
		return a, nil
	}
	next := min(max(a.cursor+delta, 0), n-1)
	if next == a.cursor {
		return a, nil
	}
	a.cursor = next
	return a, a.comparisonCmd()
}

// mergeScenarios replaces the scenario list with a fresh load, keeping any
// optimistic entries that the store has not reported yet.
func (a *App) mergeScenarios(fresh dataservice.Result[[]model.Scenario]) {
	seen := make(map[string]bool, len(fresh.Data))
	for _, sc := range fresh.Data {
		seen[sc.Name] = true
	}
	var pending []model.Scenario
	for _, sc := range a.scenarios.Data {
		if sc.Pending && !seen[sc.Name] {
			pending = append(pending, sc)
		}
	}
	a.scenarios = fresh
	a.scenarios.Data = append(pending, fresh.Data...)
	if a.cursor >= len(a.scenarios.Data) {
		a.cursor = max(len(a.scenarios.Data)-1, 0)
	}
}

func (a App) selectedScenarioID() string {
	if a.cursor < 0 || a.cursor >= len(a.scenarios.Data) {
		return ""
	}
	return a.scenarios.Data[a.cursor].ID
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.form != nil {
		return a.viewForm()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  cashflow90 needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ cashflow90"))
	b.WriteString(subtitleStyle.Render(" · 90-day cash outlook"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(fmt.Sprintf(" Resolving %s…", a.companyLabel())))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	bindings := []struct{ key, desc string }{
		{"o s w a", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Select scenario"},
		{"n", "New scenario"},
		{"r", "Refresh data"},
		{"R", "Toggle auto-refresh"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)
	status := components.StatusInfo{
		CompanyID:   a.companyLabel(),
		DataAge:     fmt.Sprintf("%.1fs", a.loadTime.Seconds()),
		Notice:      a.notice,
		Refreshing:  a.refreshing || a.creating,
		AutoRefresh: a.opts.AutoRefresh,
	}
	statusBar := components.RenderStatusBar(w, status)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabScenarios:
		content = a.renderScenariosTab(cw)
	case tabWorkingCapital:
		content = a.renderWorkingCapitalTab(cw)
	case tabAlerts:
		content = a.renderAlertsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) companyLabel() string {
	if a.dash.CompanyID != "" {
		return a.dash.CompanyID
	}
	if a.opts.CompanyID != "" {
		return a.opts.CompanyID
	}
	return dataservice.DefaultCompanyID
}

// ─── Commands ───────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadCmd resolves the dashboard and the scenario list.
func (a App) loadCmd() tea.Cmd {
	loader, opts := a.opts.Loader, a.opts
	return func() tea.Msg {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), opts.LoadTimeout)
		defer cancel()

		d := loader.Dashboard(ctx, opts.CompanyID, opts.Days)
		return DataLoadedMsg{
			Dashboard: d,
			Scenarios: loader.Scenarios(ctx, d.CompanyID),
			LoadTime:  time.Since(start),
		}
	}
}

func (a App) comparisonCmd() tea.Cmd {
	id := a.selectedScenarioID()
	if id == "" {
		return nil
	}
	loader, opts, company := a.opts.Loader, a.opts, a.companyLabel()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opts.LoadTimeout)
		defer cancel()
		return ComparisonMsg{ScenarioID: id, Points: loader.ScenarioComparison(ctx, company, id)}
	}
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1 // separator
	}
	return -1
}

// ─── Layout Helpers ─────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
