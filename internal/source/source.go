// Package source describes the upstream tabular data capability the
// dashboard reads from and decodes its rows into model types.
package source

import (
	"context"
	"errors"
	"fmt"
)

// Tables and views the dashboard reads.
const (
	TableDailyActuals      = "daily_actuals"
	TableBankTransactions  = "bank_transactions"
	TableForecastRuns      = "forecast_runs"
	TableDailyForecasts    = "daily_forecasts"
	TableAlertEvents       = "alert_events"
	TableScenarios         = "scenarios"
	TableInvoicesAR        = "invoices_ar"
	TableBillsAP           = "bills_ap"
	ViewWorkingCapital     = "vw_working_capital_summary"
	TableWorkingCapitalRaw = "working_capital_snapshots"
)

var knownTables = map[string]bool{
	TableDailyActuals:      true,
	TableBankTransactions:  true,
	TableForecastRuns:      true,
	TableDailyForecasts:    true,
	TableAlertEvents:       true,
	TableScenarios:         true,
	TableInvoicesAR:        true,
	TableBillsAP:           true,
	ViewWorkingCapital:     true,
	TableWorkingCapitalRaw: true,
}

var (
	// ErrUnknownTable is returned for queries against tables outside the dashboard schema.
	ErrUnknownTable = errors.New("source: unknown table")
	// ErrMultipleRows is returned by FetchOne when the query matched more than one row.
	ErrMultipleRows = errors.New("source: query returned more than one row")
)

// Row is one record keyed by column name.
type Row map[string]any

// Source fetches rows matching a query. Implementations must be safe for
// concurrent use.
type Source interface {
	Fetch(ctx context.Context, q Query) ([]Row, error)
}

// KnownTable reports whether name is part of the dashboard schema.
func KnownTable(name string) bool {
	return knownTables[name]
}

// Empty is a Source with no data. Every query succeeds with zero rows.
type Empty struct{}

func (Empty) Fetch(_ context.Context, q Query) ([]Row, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return nil, nil
}

// Fetch runs q and decodes every row into T.
func Fetch[T any](ctx context.Context, src Source, q Query) ([]T, error) {
	rows, err := src.Fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", q.Table, err)
	}
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		var v T
		if err := Decode(row, &v); err != nil {
			return nil, fmt.Errorf("decoding %s row %d: %w", q.Table, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// FetchOne runs q and decodes at most one row. It returns nil when nothing matched.
func FetchOne[T any](ctx context.Context, src Source, q Query) (*T, error) {
	q.Single = true
	rows, err := src.Fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", q.Table, err)
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		var v T
		if err := Decode(rows[0], &v); err != nil {
			return nil, fmt.Errorf("decoding %s row: %w", q.Table, err)
		}
		return &v, nil
	default:
		return nil, ErrMultipleRows
	}
}
