package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashflow90/internal/tui"
	"github.com/theirongolddev/cashflow90/internal/tui/theme"
)

var (
	tuiTheme   string
	tuiRefresh time.Duration
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive cash-flow dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiTheme, "theme", "", "Color theme: flexoki-dark, catppuccin-mocha, terminal")
	tuiCmd.Flags().DurationVar(&tuiRefresh, "refresh", 0, "Auto-refresh interval, 0 disables")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	name := appCfg.Appearance.Theme
	if tuiTheme != "" {
		name = tuiTheme
	}
	theme.SetActive(name)

	// Themes carry true-color hex values; without this lipgloss
	// downsamples them on terminals that under-report support.
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Log lines on stderr would tear the alt-screen.
	if appLog.IsLevelEnabled(logrus.InfoLevel) {
		appLog.SetLevel(logrus.WarnLevel)
	}

	svc, closeSrc := newService(cmd.Context())
	defer closeSrc()

	app := tui.NewApp(tui.Options{
		Loader:          svc,
		CompanyID:       appCfg.General.CompanyID,
		Days:            appCfg.General.Days,
		AutoRefresh:     tuiRefresh > 0,
		RefreshInterval: tuiRefresh,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
