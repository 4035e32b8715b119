package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashflow90/internal/cli"
	"github.com/theirongolddev/cashflow90/internal/dataservice"
)

var wcCmd = &cobra.Command{
	Use:     "wc",
	Aliases: []string{"working-capital"},
	Short:   "Receivables and payables aging",
	RunE:    runWorkingCapital,
}

func init() {
	rootCmd.AddCommand(wcCmd)
}

func runWorkingCapital(cmd *cobra.Command, _ []string) error {
	return withService(cmd, func(ctx context.Context, svc *dataservice.Service) error {
		res := svc.WorkingCapital(ctx, appCfg.General.CompanyID)
		if flagJSON {
			return printJSON(res)
		}
		w := res.Data

		fmt.Println()
		fmt.Println(cli.RenderTable(cli.Table{
			Title:   "Working Capital",
			Headers: []string{"Bucket", "Receivables", "Payables"},
			Rows: [][]string{
				{"0-30", cli.FormatCurrency(w.AR0To30), cli.FormatCurrency(w.AP0To30)},
				{"31-60", cli.FormatCurrency(w.AR31To60), cli.FormatCurrency(w.AP31To60)},
				{"61-90", cli.FormatCurrency(w.AR61To90), cli.FormatCurrency(w.AP61To90)},
				{"90+", cli.FormatCurrency(w.AR90Plus), cli.FormatCurrency(w.AP90Plus)},
				{"Total", cli.FormatCurrency(w.ARTotal), cli.FormatCurrency(w.APTotal)},
			},
		}))

		maxV := max(w.ARTotal, w.APTotal)
		fmt.Println(cli.RenderHorizontalBar("AR", w.ARTotal, maxV, 30))
		fmt.Println(cli.RenderHorizontalBar("AP", w.APTotal, maxV, 30))
		fmt.Printf("\n  Net working capital  %s\n", cli.RenderAmount(w.NetWorkingCapital()))
		printProvenance("working capital", res.Provenance)
		fmt.Println()
		return nil
	})
}
