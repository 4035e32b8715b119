package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashflow90/internal/config"
	"github.com/theirongolddev/cashflow90/internal/ingest"
	"github.com/theirongolddev/cashflow90/internal/source"
	"github.com/theirongolddev/cashflow90/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load CSV exports into the local SQLite store",
}

func init() {
	importCmd.AddCommand(
		importSubcommand("transactions", "Bank transactions (transaction_date, amount, ...)",
			func(ctx context.Context, st *store.Store, r io.Reader) (int, error) {
				txns, err := ingest.Transactions(r, appCfg.General.CompanyID)
				if err != nil {
					return 0, err
				}
				return store.InsertAll(ctx, st, source.TableBankTransactions, txns)
			}),
		importSubcommand("invoices", "Receivables (issue_date, due_date, amount, status, ...)",
			func(ctx context.Context, st *store.Store, r io.Reader) (int, error) {
				inv, err := ingest.Invoices(r, appCfg.General.CompanyID)
				if err != nil {
					return 0, err
				}
				return store.InsertAll(ctx, st, source.TableInvoicesAR, inv)
			}),
		importSubcommand("bills", "Payables (issue_date, due_date, amount, status, ...)",
			func(ctx context.Context, st *store.Store, r io.Reader) (int, error) {
				bills, err := ingest.Bills(r, appCfg.General.CompanyID)
				if err != nil {
					return 0, err
				}
				return store.InsertAll(ctx, st, source.TableBillsAP, bills)
			}),
	)
	rootCmd.AddCommand(importCmd)
}

type importFunc func(ctx context.Context, st *store.Store, r io.Reader) (int, error)

func importSubcommand(name, short string, fn importFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <file.csv>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if appCfg.Source.Backend != config.BackendSQLite {
				return errors.New("import writes to the sqlite backend only; pass --source sqlite")
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			st, err := store.Open(config.GetSQLitePath(appCfg))
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			n, err := fn(cmd.Context(), st, f)
			if err != nil {
				return fmt.Errorf("importing %s: %w", args[0], err)
			}
			appLog.WithFields(logrus.Fields{"table": name, "rows": n}).Info("import complete")
			fmt.Printf("  Imported %d %s into %s\n", n, name, config.GetSQLitePath(appCfg))
			return nil
		},
	}
}
