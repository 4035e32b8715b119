package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashflow90/internal/cli"
	"github.com/theirongolddev/cashflow90/internal/dataservice"
	"github.com/theirongolddev/cashflow90/internal/model"
)

var (
	createGrowth  float64
	createPayroll float64
)

var scenariosCmd = &cobra.Command{
	Use:     "scenarios",
	Aliases: []string{"scenario"},
	Short:   "List, compare, and create what-if scenarios",
	RunE:    runScenarioList,
}

var scenarioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scenarios",
	RunE:  runScenarioList,
}

var scenarioShowCmd = &cobra.Command{
	Use:   "show <scenario-id>",
	Short: "Compare a scenario forecast against the baseline",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarioShow,
}

var scenarioCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Request a new scenario run from the automation backend",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScenarioCreate,
}

func init() {
	scenarioCreateCmd.Flags().Float64Var(&createGrowth, "growth", 0, "Revenue growth adjustment in percent")
	scenarioCreateCmd.Flags().Float64Var(&createPayroll, "payroll", 0, "Payroll adjustment per month")
	scenariosCmd.AddCommand(scenarioListCmd, scenarioShowCmd, scenarioCreateCmd)
	rootCmd.AddCommand(scenariosCmd)
}

func runScenarioList(cmd *cobra.Command, _ []string) error {
	return withService(cmd, func(ctx context.Context, svc *dataservice.Service) error {
		res := svc.Scenarios(ctx, appCfg.General.CompanyID)
		if flagJSON {
			return printJSON(res)
		}

		rows := make([][]string, 0, len(res.Data))
		for _, sc := range res.Data {
			def := ""
			if sc.IsDefault {
				def = "yes"
			}
			rows = append(rows, []string{sc.ID, sc.Name, formatParameters(sc.Parameters), def})
		}

		fmt.Println()
		fmt.Println(cli.RenderTable(cli.Table{
			Title:   "Scenarios",
			Headers: []string{"ID", "Name", "Parameters", "Default"},
			Rows:    rows,
		}))
		printProvenance("scenarios", res.Provenance)
		fmt.Println()
		return nil
	})
}

func runScenarioShow(cmd *cobra.Command, args []string) error {
	return withService(cmd, func(ctx context.Context, svc *dataservice.Service) error {
		id := args[0]
		points := svc.ScenarioComparison(ctx, appCfg.General.CompanyID, id)
		if flagJSON {
			return printJSON(points)
		}

		var rows [][]string
		for _, i := range everyNth(len(points), 7) {
			p := points[i]
			scen, diff := "n/a", "n/a"
			if p.Scenario != nil {
				scen = cli.FormatCurrency(*p.Scenario)
				diff = cli.RenderAmount(*p.Scenario - p.Baseline)
			}
			rows = append(rows, []string{p.Date.String(), cli.FormatCurrency(p.Baseline), scen, diff})
		}

		fmt.Println()
		fmt.Println(cli.RenderTable(cli.Table{
			Title:   "Scenario " + id,
			Headers: []string{"Date", "Baseline", "Scenario", "Difference"},
			Rows:    rows,
		}))
		fmt.Println()
		return nil
	})
}

func runScenarioCreate(cmd *cobra.Command, args []string) error {
	return withService(cmd, func(ctx context.Context, svc *dataservice.Service) error {
		req := model.ScenarioRequest{
			Name:              strings.Join(args, " "),
			GrowthAdjustment:  createGrowth,
			PayrollAdjustment: createPayroll,
		}
		sc, err := svc.CreateScenario(ctx, appCfg.General.CompanyID, req)
		if err != nil {
			return fmt.Errorf("creating scenario: %w", err)
		}
		if flagJSON {
			return printJSON(sc)
		}
		fmt.Printf("  Scenario %q queued as %s. Results appear once the forecast run completes.\n", sc.Name, sc.ID)
		return nil
	})
}

func formatParameters(p map[string]float64) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + cli.FormatParameter(p[k])
	}
	return strings.Join(parts, " ")
}
