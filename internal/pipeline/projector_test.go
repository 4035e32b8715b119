package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/cashflow90/internal/model"
)

func flatActuals(today model.Date, n int, closing, net float64) []model.DailyActual {
	out := make([]model.DailyActual, n)
	for i := range out {
		out[i] = model.DailyActual{
			CompanyID:      "acme",
			Date:           today.AddDays(i - n + 1),
			OpeningBalance: closing - net,
			NetCash:        net,
			ClosingBalance: closing,
		}
	}
	return out
}

func TestProject_FirstDay(t *testing.T) {
	today := model.NewDate(2025, 4, 1)
	got := Project("acme", flatActuals(today, 30, 100000, -500), today)
	require.Len(t, got, ForecastHorizonDays)

	d1 := got[0]
	assert.Equal(t, "2025-04-02", d1.Date.String())
	assert.Equal(t, GeneratedRunID, d1.RunID)
	assert.Equal(t, "acme", d1.CompanyID)
	assert.InDelta(t, 99500, d1.BaseClosingBalance, 1e-6)
	assert.InDelta(t, 99997.5, d1.BestClosingBalance, 1e-6)
	assert.InDelta(t, 99002.5, d1.WorstClosingBalance, 1e-6)
	assert.InDelta(t, -500, d1.BaseNetCash, 1e-9)
	assert.InDelta(t, 500, d1.BaseOutflows, 1e-9)
	assert.Zero(t, d1.BaseInflows)
	assert.InDelta(t, -500, d1.BestNetCash, 1e-9)
	assert.InDelta(t, -500, d1.WorstNetCash, 1e-9)

	last := got[len(got)-1]
	assert.Equal(t, "2025-06-30", last.Date.String())
	assert.InDelta(t, 100000-500*90, last.BaseClosingBalance, 1e-6)
}

func TestProject_BurnUsesTrailing30(t *testing.T) {
	today := model.NewDate(2025, 4, 1)
	actuals := flatActuals(today, 40, 1000, 10)
	for i := 0; i < 10; i++ {
		actuals[i].NetCash = -99999
	}
	assert.InDelta(t, 10, AverageBurn(actuals), 1e-9)
	assert.Zero(t, AverageBurn(nil))
}

func TestProject_NoActuals(t *testing.T) {
	today := model.NewDate(2025, 4, 1)
	got := Project("acme", nil, today)
	require.Len(t, got, ForecastHorizonDays)
	for _, f := range got {
		assert.Zero(t, f.BaseClosingBalance)
		assert.Zero(t, f.BestClosingBalance)
		assert.Zero(t, f.WorstClosingBalance)
	}
}

func TestProject_BandsAroundNegativeBalance(t *testing.T) {
	today := model.NewDate(2025, 4, 1)
	got := Project("acme", flatActuals(today, 5, -1000, -100), today)
	for i, f := range got {
		assert.GreaterOrEqual(t, f.BestClosingBalance, f.BaseClosingBalance, "day %d", i+1)
		assert.LessOrEqual(t, f.WorstClosingBalance, f.BaseClosingBalance, "day %d", i+1)
	}
}
