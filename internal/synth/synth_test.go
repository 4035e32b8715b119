package synth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/cashflow90/internal/model"
)

var fixedNow = time.Date(2025, 7, 14, 10, 30, 0, 0, time.UTC)

func fixed() time.Time { return fixedNow }

func TestActualsShapeAndContinuity(t *testing.T) {
	g := New(7, fixed)
	got := g.Actuals()
	require.Len(t, got, PastDays)

	today := model.DateOf(fixedNow)
	assert.Equal(t, today.AddDays(-PastDays), got[0].Date)
	assert.Equal(t, today.AddDays(-1), got[len(got)-1].Date)
	assert.Equal(t, startingBalance, got[0].OpeningBalance)

	for i, d := range got {
		assert.Equal(t, CompanyID, d.CompanyID)
		assert.InDelta(t, d.OpeningBalance+d.NetCash, d.ClosingBalance, 1e-6)
		assert.InDelta(t, d.CashIn-d.CashOut, d.NetCash, 1e-6)
		if i > 0 {
			assert.Equal(t, got[i-1].ClosingBalance, d.OpeningBalance)
		}
		if d.Date.Day() == 15 {
			assert.Less(t, d.NetCash, -40000.0)
		}
	}
}

func TestDeterministicPerSeedAndDay(t *testing.T) {
	a := New(7, fixed).Actuals()
	b := New(7, fixed).Actuals()
	c := New(8, fixed).Actuals()
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	g := New(7, fixed)
	assert.Equal(t, g.Actuals(), g.Actuals())
}

func TestForecastsAnchorAndBands(t *testing.T) {
	g := New(7, fixed)
	actuals := g.Actuals()
	got := g.Forecasts()
	require.Len(t, got, FutureDays)

	today := model.DateOf(fixedNow)
	assert.Equal(t, today.AddDays(1), got[0].Date)
	assert.Equal(t, RunID, got[0].RunID)
	assert.InDelta(t, actuals[len(actuals)-1].ClosingBalance, got[0].BaseClosingBalance, 1e-6)

	for _, f := range got {
		assert.LessOrEqual(t, f.WorstClosingBalance, f.BaseClosingBalance)
		assert.GreaterOrEqual(t, f.BestClosingBalance, f.BaseClosingBalance)
		assert.Equal(t, f.BaseNetCash+1000, f.BestNetCash)
		assert.Equal(t, f.BaseNetCash-1000, f.WorstNetCash)
		assert.InDelta(t, f.BaseInflows-f.BaseOutflows, f.BaseNetCash, 1e-9)
		if f.Date.Day() == 1 {
			assert.Equal(t, 67500.0, f.BaseNetCash)
		}
	}
}

func TestScenarioForecastsDrag(t *testing.T) {
	g := New(7, fixed)
	base := g.Forecasts()
	sc := g.ScenarioForecasts()
	require.Len(t, sc, len(base))

	// days 1..30 are untouched, day 31 is the first affected
	assert.Equal(t, base[29].BaseClosingBalance, sc[29].BaseClosingBalance)
	assert.InDelta(t, base[30].BaseClosingBalance-1500, sc[30].BaseClosingBalance, 1e-6)
	assert.InDelta(t, base[89].BaseClosingBalance-60*1500, sc[89].BaseClosingBalance, 1e-6)
}

func TestCannedFixtures(t *testing.T) {
	g := New(0, fixed)

	alerts := g.Alerts()
	require.Len(t, alerts, 3)
	assert.Equal(t, model.SeverityWarning, alerts[0].Severity)
	assert.Equal(t, fixedNow, alerts[0].CreatedAt)
	assert.True(t, alerts[1].CreatedAt.After(alerts[2].CreatedAt))

	wc := g.WorkingCapital()
	assert.Equal(t, wc.AR0To30+wc.AR31To60+wc.AR61To90+wc.AR90Plus, wc.ARTotal)
	assert.Equal(t, wc.AP0To30+wc.AP31To60+wc.AP61To90+wc.AP90Plus, wc.APTotal)
	assert.Equal(t, 94300.0, wc.NetWorkingCapital())

	sc := g.Scenarios()
	require.Len(t, sc, 3)
	assert.Equal(t, "Delayed Series B", sc[2].Name)
}

func TestZeroValueGenerator(t *testing.T) {
	var g Generator
	assert.Len(t, g.Actuals(), PastDays)
	assert.Len(t, g.Forecasts(), FutureDays)
}
