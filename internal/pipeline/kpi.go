package pipeline

import (
	"time"

	"github.com/theirongolddev/cashflow90/internal/model"
)

// Next30Days is the window summed for the near-term net cash KPI.
const Next30Days = 30

// CurrentCash is the last actual closing balance, or zero without actuals.
func CurrentCash(actuals []model.DailyActual) float64 {
	if len(actuals) == 0 {
		return 0
	}
	return actuals[len(actuals)-1].ClosingBalance
}

// RunwayFor counts calendar days from today to the first forecast day whose
// closing balance in band is at or below zero. When no day crosses zero the
// runway is reported as beyond the horizon covered by forecasts.
func RunwayFor(forecasts []model.DailyForecast, band model.Band, today model.Date) model.Runway {
	for _, f := range forecasts {
		if f.Closing(band) <= 0 {
			days := today.DaysUntil(f.Date)
			if days < 0 {
				days = 0
			}
			return model.Runway{Days: days}
		}
	}
	horizon := ForecastHorizonDays
	if n := len(forecasts); n > 0 {
		horizon = today.DaysUntil(forecasts[n-1].Date)
	}
	return model.Runway{Days: horizon, Beyond: true}
}

// NetNext sums base net cash over the first n forecast days.
func NetNext(forecasts []model.DailyForecast, n int) float64 {
	var sum float64
	if n <= 0 {
		return 0
	}
	for _, f := range forecasts[:min(n, len(forecasts))] {
		sum += f.BaseNetCash
	}
	return sum
}

// ComputeKPIs derives the dashboard headline numbers. wc may be nil.
func ComputeKPIs(actuals []model.DailyActual, forecasts []model.DailyForecast, wc *model.WorkingCapitalSummary, now time.Time) model.DashboardKPIs {
	today := model.DateOf(now)
	k := model.DashboardKPIs{
		CurrentCash:  CurrentCash(actuals),
		RunwayBase:   RunwayFor(forecasts, model.BandBase, today),
		RunwayWorst:  RunwayFor(forecasts, model.BandWorst, today),
		Next30DayNet: NetNext(forecasts, Next30Days),
		ComputedAt:   now,
	}
	if wc != nil {
		nwc := wc.NetWorkingCapital()
		k.NetWorkingCapital = &nwc
	}
	return k
}

// CompareScenario pairs baseline and scenario base closing balances by
// position. Dates come from the baseline. Scenario is nil past its end.
func CompareScenario(baseline, scenario []model.DailyForecast) []model.ScenarioPoint {
	points := make([]model.ScenarioPoint, 0, len(baseline))
	for i, b := range baseline {
		p := model.ScenarioPoint{Date: b.Date, Baseline: b.BaseClosingBalance}
		if i < len(scenario) {
			v := scenario[i].BaseClosingBalance
			p.Scenario = &v
		}
		points = append(points, p)
	}
	return points
}
