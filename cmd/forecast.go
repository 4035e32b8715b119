package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashflow90/internal/cli"
	"github.com/theirongolddev/cashflow90/internal/dataservice"
	"github.com/theirongolddev/cashflow90/internal/model"
)

var forecastAll bool

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "90-day forecast with base, best, and worst bands",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().BoolVar(&forecastAll, "all", false, "Show every day instead of weekly rows")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
	return withService(cmd, func(ctx context.Context, svc *dataservice.Service) error {
		res := svc.LatestForecast(ctx, appCfg.General.CompanyID)
		if flagJSON {
			return printJSON(res)
		}

		step := 7
		if forecastAll {
			step = 1
		}
		var rows [][]string
		for _, i := range everyNth(len(res.Data), step) {
			f := res.Data[i]
			rows = append(rows, []string{
				f.Date.String(),
				cli.RenderAmount(f.Net(model.BandBase)),
				cli.FormatCurrency(f.Closing(model.BandWorst)),
				cli.FormatCurrency(f.Closing(model.BandBase)),
				cli.FormatCurrency(f.Closing(model.BandBest)),
			})
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("FORECAST  %d days", len(res.Data))))
		fmt.Println()
		fmt.Println(cli.RenderTable(cli.Table{
			Headers: []string{"Date", "Base net", "Worst", "Base", "Best"},
			Rows:    rows,
		}))
		printProvenance("forecast", res.Provenance)
		fmt.Println()
		return nil
	})
}
