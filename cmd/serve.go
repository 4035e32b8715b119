package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashflow90/internal/dataservice"
	"github.com/theirongolddev/cashflow90/internal/server"
)

var (
	serveAddr     string
	serveSchedule string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard JSON API and KPI event stream",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().StringVar(&serveSchedule, "schedule", "", "Cron schedule for KPI refresh (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withService(cmd, func(_ context.Context, svc *dataservice.Service) error {
		cfg := server.Config{
			CompanyID:    appCfg.General.CompanyID,
			Days:         appCfg.General.Days,
			Addr:         appCfg.Server.Addr,
			Schedule:     appCfg.Server.RefreshSchedule,
			EventsBuffer: appCfg.Server.EventsBuffer,
			PollTimeout:  time.Duration(appCfg.Automation.TimeoutSec) * time.Second,
		}
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		if serveSchedule != "" {
			cfg.Schedule = serveSchedule
		}
		return server.New(cfg, svc, appLog).Run(ctx)
	})
}
