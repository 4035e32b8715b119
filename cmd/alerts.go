package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashflow90/internal/cli"
	"github.com/theirongolddev/cashflow90/internal/dataservice"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Recent forecast alerts, newest first",
	RunE:  runAlerts,
}

func init() {
	rootCmd.AddCommand(alertsCmd)
}

func runAlerts(cmd *cobra.Command, _ []string) error {
	return withService(cmd, func(ctx context.Context, svc *dataservice.Service) error {
		res := svc.Alerts(ctx, appCfg.General.CompanyID)
		if flagJSON {
			return printJSON(res)
		}

		rows := make([][]string, 0, len(res.Data))
		for _, a := range res.Data {
			rows = append(rows, []string{
				cli.RenderSeverity(a.Severity),
				a.CreatedAt.Local().Format("2006-01-02 15:04"),
				a.AlertType,
				a.Message,
			})
		}

		fmt.Println()
		if len(rows) == 0 {
			fmt.Println("  No alerts.")
		} else {
			fmt.Println(cli.RenderTable(cli.Table{
				Title:   "Alerts",
				Headers: []string{"", "Created", "Type", "Message"},
				Rows:    rows,
			}))
		}
		printProvenance("alerts", res.Provenance)
		fmt.Println()
		return nil
	})
}
