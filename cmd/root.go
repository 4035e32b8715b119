// Package cmd implements the cashflow90 CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashflow90/internal/automation"
	"github.com/theirongolddev/cashflow90/internal/config"
	"github.com/theirongolddev/cashflow90/internal/dataservice"
	"github.com/theirongolddev/cashflow90/internal/logging"
	"github.com/theirongolddev/cashflow90/internal/postgres"
	"github.com/theirongolddev/cashflow90/internal/rest"
	"github.com/theirongolddev/cashflow90/internal/source"
	"github.com/theirongolddev/cashflow90/internal/store"
	"github.com/theirongolddev/cashflow90/internal/synth"
)

var (
	flagCompany string
	flagDays    int
	flagSource  string
	flagJSON    bool
	flagQuiet   bool
	flagSeed    uint64
)

// Resolved once per invocation by the persistent pre-run hook.
var (
	appCfg config.Config
	appLog *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:               "cashflow90",
	Short:             "90-day cash-flow dashboard",
	Long:              "Cash position, runway, forecasts, scenarios, and working capital for one company.\nFalls back to derived and then synthetic data when stored data is missing.",
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagCompany, "company", "c", "", "Company ID (default from config)")
	rootCmd.PersistentFlags().IntVarP(&flagDays, "days", "n", 0, "History window in days (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "Data source: sqlite, postgres, rest, none")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print JSON instead of tables")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress diagnostic logging")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "Seed for synthetic data (default from config)")
}

func loadRuntime(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagSource != "" {
		cfg.Source.Backend = flagSource
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if flagCompany != "" {
		cfg.General.CompanyID = flagCompany
	} else {
		cfg.General.CompanyID = config.GetCompanyID(cfg)
	}
	if cmd.Flags().Changed("days") {
		if flagDays < 1 {
			return fmt.Errorf("--days must be positive, got %d", flagDays)
		}
		cfg.General.Days = flagDays
	}
	if cmd.Flags().Changed("seed") {
		cfg.Synthetic.Seed = flagSeed
	}

	log := logging.Quiet()
	if !flagQuiet {
		if log, err = logging.New(config.GetLogLevel(cfg), cfg.Log.Format, os.Stderr); err != nil {
			return err
		}
	}

	appCfg, appLog = cfg, log
	return nil
}

// openSource connects the configured backend. The returned close func is
// always non-nil.
func openSource(ctx context.Context, cfg config.Config) (source.Source, func(), error) {
	noop := func() {}
	switch cfg.Source.Backend {
	case config.BackendSQLite:
		st, err := store.Open(config.GetSQLitePath(cfg))
		if err != nil {
			return nil, noop, err
		}
		return st, func() { _ = st.Close() }, nil

	case config.BackendPostgres:
		pool, err := postgres.Connect(ctx, config.GetPostgresURL(cfg))
		if err != nil {
			return nil, noop, err
		}
		return postgres.New(pool), pool.Close, nil

	case config.BackendREST:
		c := rest.NewClient(config.GetRESTURL(cfg), config.GetRESTKey(cfg))
		if c == nil {
			return nil, noop, errors.New("rest source: set SUPABASE_URL or source.rest_url")
		}
		return c, noop, nil

	default:
		return source.Empty{}, noop, nil
	}
}

func newTrigger(cfg config.Config) automation.Trigger {
	if url := config.GetWebhookURL(cfg); url != "" {
		return automation.NewWebhook(url, time.Duration(cfg.Automation.TimeoutSec)*time.Second)
	}
	return automation.Simulated{Delay: time.Duration(cfg.Automation.SimulatedDelayMS) * time.Millisecond}
}

// newService wires config into a data service. A source that cannot be
// opened is logged and replaced by the empty source, so commands still
// answer from synthetic data.
func newService(ctx context.Context) (*dataservice.Service, func()) {
	src, closeSrc, err := openSource(ctx, appCfg)
	if err != nil {
		appLog.WithError(err).WithField("backend", appCfg.Source.Backend).Warn("data source unavailable, using synthetic data")
		src = source.Empty{}
	}

	svc := dataservice.New(dataservice.Options{
		Source:      src,
		Trigger:     newTrigger(appCfg),
		Synth:       synth.New(appCfg.Synthetic.Seed, nil),
		Logger:      appLog,
		SeedBalance: appCfg.General.SeedBalance,
	})
	return svc, closeSrc
}

// withService runs fn with a service and a signal-aware context.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc *dataservice.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, closeSrc := newService(ctx)
	defer closeSrc()
	return fn(ctx, svc)
}
