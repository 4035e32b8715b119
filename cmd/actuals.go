package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashflow90/internal/cli"
	"github.com/theirongolddev/cashflow90/internal/dataservice"
)

var actualsCmd = &cobra.Command{
	Use:   "actuals",
	Short: "Daily cash history",
	RunE:  runActuals,
}

func init() {
	rootCmd.AddCommand(actualsCmd)
}

func runActuals(cmd *cobra.Command, _ []string) error {
	return withService(cmd, func(ctx context.Context, svc *dataservice.Service) error {
		res := svc.DailyActuals(ctx, appCfg.General.CompanyID, appCfg.General.Days)
		if flagJSON {
			return printJSON(res)
		}

		rows := make([][]string, 0, len(res.Data))
		for _, a := range res.Data {
			rows = append(rows, []string{
				a.Date.String(),
				cli.FormatCurrency(a.OpeningBalance),
				cli.FormatCurrency(a.CashIn),
				cli.FormatCurrency(a.CashOut),
				cli.RenderAmount(a.NetCash),
				cli.FormatCurrency(a.ClosingBalance),
			})
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("ACTUALS  %d days", len(res.Data))))
		fmt.Println()
		fmt.Println(cli.RenderTable(cli.Table{
			Headers: []string{"Date", "Opening", "In", "Out", "Net", "Closing"},
			Rows:    rows,
		}))
		printProvenance("actuals", res.Provenance)
		fmt.Println()
		return nil
	})
}
