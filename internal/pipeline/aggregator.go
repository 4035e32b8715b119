// Package pipeline turns raw ledger data into daily series, projections,
// aging buckets, and dashboard KPIs.
package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cashflow90/internal/model"
)

// DefaultSeedBalance is the opening balance assumed before the first
// transaction when no stored balance exists.
const DefaultSeedBalance = 50000.0

// DefaultWindowDays is the trailing window returned for daily actuals.
const DefaultWindowDays = 90

type dayFlow struct {
	in  decimal.Decimal
	out decimal.Decimal
}

// AggregateTransactions builds one DailyActual per calendar day from the
// earliest transaction through today, inclusive. Days without activity carry
// the previous closing balance. Transactions dated after today are ignored.
// The result is empty when txs is empty or every transaction is in the future.
func AggregateTransactions(companyID string, txs []model.BankTransaction, seed float64, today model.Date) []model.DailyActual {
	if len(txs) == 0 {
		return nil
	}

	dayMap := make(map[string]*dayFlow)
	start := txs[0].TransactionDate
	for _, tx := range txs {
		if tx.TransactionDate.Before(start) {
			start = tx.TransactionDate
		}
		key := tx.TransactionDate.String()
		df, ok := dayMap[key]
		if !ok {
			df = &dayFlow{}
			dayMap[key] = df
		}
		amt := decimal.NewFromFloat(tx.Amount)
		if amt.IsNegative() {
			df.out = df.out.Add(amt.Abs())
		} else {
			df.in = df.in.Add(amt)
		}
	}

	var days []model.DailyActual
	balance := decimal.NewFromFloat(seed)
	for day := start; !day.After(today); day = day.AddDays(1) {
		da := model.DailyActual{
			CompanyID:      companyID,
			Date:           day,
			OpeningBalance: balance.InexactFloat64(),
		}
		if df, ok := dayMap[day.String()]; ok {
			net := df.in.Sub(df.out)
			balance = balance.Add(net)
			da.CashIn = df.in.InexactFloat64()
			da.CashOut = df.out.InexactFloat64()
			da.NetCash = net.InexactFloat64()
		}
		da.ClosingBalance = balance.InexactFloat64()
		days = append(days, da)
	}

	return days
}

// TailDays returns the last n entries of series. A non-positive n, or one
// larger than the series, returns the whole series.
func TailDays[T any](series []T, n int) []T {
	if n <= 0 || n >= len(series) {
		return series
	}
	return series[len(series)-n:]
}
