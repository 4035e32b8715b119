package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashflow90/internal/cli"
	"github.com/theirongolddev/cashflow90/internal/config"
	"github.com/theirongolddev/cashflow90/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Company:       %s\n", cfg.General.CompanyID)
	fmt.Printf("    History days:  %d\n", cfg.General.Days)
	fmt.Printf("    Horizon days:  %d\n", cfg.General.HorizonDays)
	fmt.Printf("    Seed balance:  $%.0f\n", cfg.General.SeedBalance)
	fmt.Println()

	fmt.Println("  [Source]")
	fmt.Printf("    Backend:       %s\n", cfg.Source.Backend)
	switch cfg.Source.Backend {
	case config.BackendSQLite:
		fmt.Printf("    SQLite path:   %s\n", config.GetSQLitePath(cfg))
		printStoreCounts(cmd.Context(), config.GetSQLitePath(cfg))
	case config.BackendPostgres:
		fmt.Printf("    Postgres URL:  %s\n", maskSecret(config.GetPostgresURL(cfg)))
	case config.BackendREST:
		fmt.Printf("    REST URL:      %s\n", config.GetRESTURL(cfg))
		fmt.Printf("    REST key:      %s\n", maskSecret(config.GetRESTKey(cfg)))
	}
	fmt.Println()

	fmt.Println("  [Automation]")
	if url := config.GetWebhookURL(cfg); url != "" {
		fmt.Printf("    Webhook:       %s\n", maskSecret(url))
	} else {
		fmt.Printf("    Webhook:       not configured (simulated, %dms)\n", cfg.Automation.SimulatedDelayMS)
	}
	fmt.Printf("    Timeout:       %ds\n", cfg.Automation.TimeoutSec)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Refresh:       %s\n", cfg.Server.RefreshSchedule)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:         %s\n", cfg.Appearance.Theme)
	fmt.Printf("    Log level:     %s\n", config.GetLogLevel(cfg))
	fmt.Println()

	fmt.Println("  Run `cashflow90 setup` to reconfigure.")
	return nil
}

func printStoreCounts(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		fmt.Println("    Rows:          database not created yet")
		return
	}
	st, err := store.Open(path)
	if err != nil {
		appLog.WithError(err).Warn("opening store")
		return
	}
	defer func() { _ = st.Close() }()

	counts, err := st.Counts(ctx)
	if err != nil {
		appLog.WithError(err).Warn("counting rows")
		return
	}
	tables := make([]string, 0, len(counts))
	for t := range counts {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		fmt.Printf("      %-26s %s\n", t, cli.FormatNumber(int64(counts[t])))
	}
}
