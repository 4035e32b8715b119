package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashflow90/internal/dataservice"
	"github.com/theirongolddev/cashflow90/internal/report"
)

var exportCmd = &cobra.Command{
	Use:   "export [file.xlsx]",
	Short: "Write actuals, forecast, and working capital to an Excel workbook",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	return withService(cmd, func(ctx context.Context, svc *dataservice.Service) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			path = fmt.Sprintf("cashflow90-%s.xlsx", time.Now().Format("2006-01-02"))
		}

		d := svc.Dashboard(ctx, appCfg.General.CompanyID, appCfg.General.Days)

		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := report.Write(f, d); err != nil {
			_ = f.Close()
			return fmt.Errorf("writing workbook: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}

		fmt.Printf("  Wrote %s\n", path)
		printProvenance("actuals", d.Actuals.Provenance)
		printProvenance("forecast", d.Forecast.Provenance)
		printProvenance("working capital", d.WorkingCapital.Provenance)
		return nil
	})
}
