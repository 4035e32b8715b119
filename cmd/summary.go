package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashflow90/internal/cli"
	"github.com/theirongolddev/cashflow90/internal/dataservice"
	"github.com/theirongolddev/cashflow90/internal/model"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Cash position, runway, and working capital at a glance",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	return withService(cmd, func(ctx context.Context, svc *dataservice.Service) error {
		d := svc.Dashboard(ctx, appCfg.General.CompanyID, appCfg.General.Days)
		if flagJSON {
			return printJSON(d)
		}
		printSummary(d)
		return nil
	})
}

func printSummary(d dataservice.Dashboard) {
	k := d.KPIs

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CASHFLOW90  %s", d.CompanyID)))
	fmt.Println()

	fmt.Println(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Current cash", cli.FormatCurrency(k.CurrentCash)},
			{"Runway (base)", cli.FormatRunway(k.RunwayBase)},
			{"Runway (worst)", cli.FormatRunway(k.RunwayWorst)},
			{"Next 30 days net", cli.FormatSignedCurrency(k.Next30DayNet)},
			{"Net working capital", cli.FormatOptionalCurrency(k.NetWorkingCapital)},
		},
	}))

	closings := make([]float64, len(d.Actuals.Data))
	for i, a := range d.Actuals.Data {
		closings[i] = a.ClosingBalance
	}
	if len(closings) > 0 {
		fmt.Printf("  Cash history  %s\n", cli.RenderSparkline(closings))
	}

	base := make([]float64, len(d.Forecast.Data))
	for i, f := range d.Forecast.Data {
		base[i] = f.Closing(model.BandBase)
	}
	if len(base) > 0 {
		fmt.Printf("  Base forecast %s\n", cli.RenderSparkline(base))
	}

	fmt.Println()
	printProvenance("actuals", d.Actuals.Provenance)
	printProvenance("forecast", d.Forecast.Provenance)
	printProvenance("alerts", d.Alerts.Provenance)
	printProvenance("working capital", d.WorkingCapital.Provenance)

	if n := len(d.Alerts.Data); n > 0 {
		fmt.Println()
		for _, a := range d.Alerts.Data {
			fmt.Printf("  %s %s\n", cli.RenderSeverity(a.Severity), a.Message)
		}
	}
	fmt.Println()
}
