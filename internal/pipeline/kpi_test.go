package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/cashflow90/internal/model"
)

func TestComputeKPIs(t *testing.T) {
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	today := model.DateOf(now)
	actuals := flatActuals(today, 30, 10000, -500)
	forecasts := Project("acme", actuals, today)

	k := ComputeKPIs(actuals, forecasts, nil, now)
	assert.Equal(t, 10000.0, k.CurrentCash)
	// 10000 / 500 = day 20 reaches exactly zero
	assert.Equal(t, model.Runway{Days: 20}, k.RunwayBase)
	// the worst band narrows to the base as the balance approaches zero
	assert.Equal(t, model.Runway{Days: 20}, k.RunwayWorst)
	assert.InDelta(t, -15000, k.Next30DayNet, 1e-6)
	assert.Nil(t, k.NetWorkingCapital)

	wc := &model.WorkingCapitalSummary{ARTotal: 300, APTotal: 500}
	k = ComputeKPIs(actuals, forecasts, wc, now)
	require.NotNil(t, k.NetWorkingCapital)
	assert.Equal(t, -200.0, *k.NetWorkingCapital)
}

func TestRunwayBeyondHorizon(t *testing.T) {
	today := model.NewDate(2025, 4, 1)
	forecasts := Project("acme", flatActuals(today, 30, 10000, 100), today)
	r := RunwayFor(forecasts, model.BandBase, today)
	assert.True(t, r.Beyond)
	assert.Equal(t, "90+", r.String())

	assert.True(t, RunwayFor(nil, model.BandBase, today).Beyond)
}

func TestCurrentCashEmpty(t *testing.T) {
	assert.Zero(t, CurrentCash(nil))
	assert.Zero(t, NetNext(nil, 30))
}

func TestCompareScenario(t *testing.T) {
	today := model.NewDate(2025, 4, 1)
	baseline := Project("acme", flatActuals(today, 3, 1000, 0), today)[:3]
	scenario := []model.DailyForecast{{BaseClosingBalance: 1}, {BaseClosingBalance: 2}}

	points := CompareScenario(baseline, scenario)
	require.Len(t, points, 3)
	assert.Equal(t, baseline[0].Date, points[0].Date)
	assert.Equal(t, 1000.0, points[0].Baseline)
	require.NotNil(t, points[1].Scenario)
	assert.Equal(t, 2.0, *points[1].Scenario)
	assert.Nil(t, points[2].Scenario)

	assert.Len(t, CompareScenario(baseline, nil), 3)
}
