// Package synth generates the canned demo dataset shown when no upstream
// data exists. Output depends only on the seed and the current day.
package synth

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/theirongolddev/cashflow90/internal/model"
)

const (
	// CompanyID tags every synthetic record.
	CompanyID = "demo-co"
	// DefaultSeed is used when no seed is configured.
	DefaultSeed uint64 = 90

	PastDays   = 90
	FutureDays = 90

	// RunID tags synthetic forecast rows.
	RunID = "run-mock-1"

	startingBalance = 120000.0
	dailyDrift      = 400.0
	scenarioLagDays = 30
	scenarioDrag    = -1500.0
)

// Generator produces the demo dataset. The zero value is usable and behaves
// like New(DefaultSeed, nil).
type Generator struct {
	seed uint64
	now  func() time.Time
}

// New returns a generator. A nil clock means time.Now.
func New(seed uint64, now func() time.Time) *Generator {
	return &Generator{seed: seed, now: now}
}

func (g *Generator) clock() time.Time {
	if g == nil || g.now == nil {
		return time.Now()
	}
	return g.now()
}

func (g *Generator) today() model.Date {
	return model.DateOf(g.clock())
}

// rng is rebuilt per call so repeated calls within a day agree.
func (g *Generator) rng() *rand.Rand {
	seed := DefaultSeed
	if g != nil && g.seed != 0 {
		seed = g.seed
	}
	day := uint64(g.today().Unix() / 86400)
	return rand.New(rand.NewPCG(seed, day))
}

// Actuals returns PastDays of history ending yesterday: monthly revenue
// payouts on the 1st and 2nd, payroll on the 15th and 30th, infrastructure on
// the 5th, noise of up to ±1000 a day, and an upward drift. Each day opens on
// the previous close.
func (g *Generator) Actuals() []model.DailyActual {
	r := g.rng()
	today := g.today()

	out := make([]model.DailyActual, 0, PastDays)
	balance := startingBalance
	for i := 0; i < PastDays; i++ {
		date := today.AddDays(-PastDays + i)
		flow := r.Float64()*2000 - 1000 + dailyDrift

		switch date.Day() {
		case 15, 30:
			flow -= 45000
		case 1, 2:
			flow += 65000
		case 5:
			flow -= 8000
		}

		da := model.DailyActual{
			CompanyID:      CompanyID,
			Date:           date,
			OpeningBalance: balance,
			NetCash:        flow,
		}
		if flow > 0 {
			da.CashIn = flow
		} else {
			da.CashOut = -flow
		}
		balance += flow
		da.ClosingBalance = balance
		out = append(out, da)
	}
	return out
}

// Forecasts returns FutureDays of projection starting tomorrow, anchored on
// the last synthetic closing balance.
func (g *Generator) Forecasts() []model.DailyForecast {
	actuals := g.Actuals()
	anchor := actuals[len(actuals)-1].ClosingBalance
	today := g.today()

	out := make([]model.DailyForecast, 0, FutureDays)
	for i := 0; i < FutureDays; i++ {
		date := today.AddDays(i + 1)

		net := -500.0
		switch date.Day() {
		case 15, 30:
			net -= 45000
		case 1:
			net += 68000
		case 5:
			net -= 8000
		}

		fi := float64(i)
		projected := anchor + fi*200

		f := model.DailyForecast{
			RunID:     RunID,
			CompanyID: CompanyID,
			Date:      date,

			BaseNetCash:        net,
			BaseClosingBalance: projected + math.Sin(fi*0.5)*5000,

			BestNetCash:        net + 1000,
			BestClosingBalance: projected + fi*500 + 10000,

			WorstNetCash:        net - 1000,
			WorstClosingBalance: projected - fi*800 - 5000,
		}
		if net > 0 {
			f.BaseInflows = net
		} else {
			f.BaseOutflows = -net
		}
		out = append(out, f)
	}
	return out
}

// ScenarioForecasts is Forecasts with a hiring drag: from day 31 on, every
// day lowers the base closing balance by a further 1500.
func (g *Generator) ScenarioForecasts() []model.DailyForecast {
	today := g.today()
	out := g.Forecasts()
	for i := range out {
		if diff := today.DaysUntil(out[i].Date); diff > scenarioLagDays {
			out[i].BaseClosingBalance += float64(diff-scenarioLagDays) * scenarioDrag
		}
	}
	return out
}

// Alerts returns three canned alerts, newest first.
func (g *Generator) Alerts() []model.AlertEvent {
	now := g.clock()
	today := g.today()
	return []model.AlertEvent{
		{
			ID:            "1",
			CompanyID:     CompanyID,
			ForecastRunID: "run-1",
			AlertType:     model.AlertRunwayBelowThreshold,
			Severity:      model.SeverityWarning,
			Message:       "Runway forecast dips below 60 days in Worst Case scenario.",
			CreatedAt:     now,
		},
		{
			ID:            "2",
			CompanyID:     CompanyID,
			ForecastRunID: "run-1",
			AlertType:     model.AlertLargeExpense,
			Severity:      model.SeverityInfo,
			Message:       "Large tax payment ($45k) scheduled for next week.",
			CreatedAt:     today.AddDays(-2).Time,
		},
		{
			ID:            "3",
			CompanyID:     CompanyID,
			ForecastRunID: "run-1",
			AlertType:     model.AlertInfo,
			Severity:      model.SeverityInfo,
			Message:       "Stripe connection re-synced successfully.",
			CreatedAt:     today.AddDays(-5).Time,
		},
	}
}

// WorkingCapital returns a fixed aged AR/AP position as of now.
func (g *Generator) WorkingCapital() model.WorkingCapitalSummary {
	return model.WorkingCapitalSummary{
		CompanyID: CompanyID,
		AsOfDate:  g.clock(),
		ARTotal:   142500,
		APTotal:   48200,
		AR0To30:   95000,
		AR31To60:  32000,
		AR61To90:  10500,
		AR90Plus:  5000,
		AP0To30:   38000,
		AP31To60:  8200,
		AP61To90:  2000,
		AP90Plus:  0,
	}
}

// Scenarios returns three example what-if scenarios.
func (g *Generator) Scenarios() []model.Scenario {
	return []model.Scenario{
		{ID: "sc-1", CompanyID: CompanyID, Name: "Hire 5 Engineers (Q3)", Parameters: map[string]float64{"burn_increase": 75000}},
		{ID: "sc-2", CompanyID: CompanyID, Name: "Reduce Marketing 50%", Parameters: map[string]float64{"cost_reduction": 0.5}},
		{ID: "sc-3", CompanyID: CompanyID, Name: "Delayed Series B", Parameters: map[string]float64{"cash_infusion_delay": 90}},
	}
}
