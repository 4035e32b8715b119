package pipeline

import (
	"math"

	"github.com/theirongolddev/cashflow90/internal/model"
)

const (
	// ForecastHorizonDays is how far ahead the projector runs.
	ForecastHorizonDays = 90
	// BurnWindowDays is the trailing window averaged into the daily burn.
	BurnWindowDays = 30
	// VolatilityRate scales the band width relative to the balance.
	VolatilityRate = 0.05
	// GeneratedRunID tags projections that were not read from storage.
	GeneratedRunID = "generated"
)

// AverageBurn is the mean net cash over the last BurnWindowDays actuals, or
// zero when there are none.
func AverageBurn(actuals []model.DailyActual) float64 {
	window := TailDays(actuals, BurnWindowDays)
	if len(window) == 0 {
		return 0
	}
	var sum float64
	for _, a := range window {
		sum += a.NetCash
	}
	return sum / float64(len(window))
}

// Project extrapolates the average burn forward from the last closing
// balance for ForecastHorizonDays, starting the day after today.
//
// Best and worst closings widen symmetrically around the base by
// |balance| * VolatilityRate * day/10. Once the base goes negative the
// widening still uses the magnitude, so the bands keep best above worst but
// both drift with the base; no sign-aware correction is applied.
func Project(companyID string, actuals []model.DailyActual, today model.Date) []model.DailyForecast {
	var balance float64
	if n := len(actuals); n > 0 {
		balance = actuals[n-1].ClosingBalance
	}
	burn := AverageBurn(actuals)

	out := make([]model.DailyForecast, 0, ForecastHorizonDays)
	for i := 1; i <= ForecastHorizonDays; i++ {
		balance += burn
		spread := math.Abs(balance*VolatilityRate) * (float64(i) / 10)

		out = append(out, model.DailyForecast{
			RunID:     GeneratedRunID,
			CompanyID: companyID,
			Date:      today.AddDays(i),

			BaseInflows:        0,
			BaseOutflows:       math.Abs(burn),
			BaseNetCash:        burn,
			BaseClosingBalance: balance,

			BestNetCash:        burn,
			BestClosingBalance: balance + spread,

			WorstNetCash:        burn,
			WorstClosingBalance: balance - spread,
		})
	}
	return out
}
