package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashflow90/internal/config"
	"github.com/theirongolddev/cashflow90/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	// Runs without the shared pre-run so a broken config can be repaired.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	days := strconv.Itoa(cfg.General.Days)
	backend := cfg.Source.Backend
	themeName := cfg.Appearance.Theme
	conn := connectionFor(cfg)

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to cashflow90").
				Description("Stored data is used when present. Missing data is derived or synthesized."),
			huh.NewInput().
				Title("Company ID").
				Value(&cfg.General.CompanyID).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("company ID is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Default history window").
				Options(
					huh.NewOption("30 days", "30"),
					huh.NewOption("60 days", "60"),
					huh.NewOption("90 days", "90"),
				).
				Value(&days),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Data source").
				Options(
					huh.NewOption("Local SQLite file", config.BackendSQLite),
					huh.NewOption("Postgres", config.BackendPostgres),
					huh.NewOption("REST (PostgREST / Supabase)", config.BackendREST),
					huh.NewOption("None (synthetic only)", config.BackendNone),
				).
				Value(&backend),
			huh.NewInput().
				Title("Connection").
				Description("SQLite path, Postgres URL, or REST base URL. Leave empty for defaults.").
				Value(&conn),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&themeName),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	cfg.General.CompanyID = strings.TrimSpace(cfg.General.CompanyID)
	if n, err := strconv.Atoi(days); err == nil {
		cfg.General.Days = n
	}
	cfg.Source.Backend = backend
	applyConnection(&cfg, strings.TrimSpace(conn))
	cfg.Appearance.Theme = themeName

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `cashflow90 setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func connectionFor(cfg config.Config) string {
	switch cfg.Source.Backend {
	case config.BackendSQLite:
		return cfg.Source.SQLitePath
	case config.BackendPostgres:
		return cfg.Source.PostgresURL
	case config.BackendREST:
		return cfg.Source.RESTURL
	}
	return ""
}

func applyConnection(cfg *config.Config, conn string) {
	switch cfg.Source.Backend {
	case config.BackendSQLite:
		cfg.Source.SQLitePath = conn
	case config.BackendPostgres:
		cfg.Source.PostgresURL = conn
	case config.BackendREST:
		cfg.Source.RESTURL = conn
	}
}
