package dataservice

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/cashflow90/internal/model"
	"github.com/theirongolddev/cashflow90/internal/pipeline"
)

// Dashboard is everything the overview screen shows, loaded together.
type Dashboard struct {
	CompanyID      string                              `json:"company_id"`
	Actuals        Result[[]model.DailyActual]         `json:"actuals"`
	Forecast       Result[[]model.DailyForecast]       `json:"forecast"`
	Alerts         Result[[]model.AlertEvent]          `json:"alerts"`
	WorkingCapital Result[model.WorkingCapitalSummary] `json:"working_capital"`
	KPIs           model.DashboardKPIs                 `json:"kpis"`
}

// Dashboard resolves actuals, forecast, alerts, and working capital
// concurrently and derives the KPIs from them.
func (s *Service) Dashboard(ctx context.Context, companyID string, days int) Dashboard {
	companyID = company(companyID)
	d := Dashboard{CompanyID: companyID}

	var g errgroup.Group
	g.Go(func() error {
		d.Actuals = s.DailyActuals(ctx, companyID, days)
		return nil
	})
	g.Go(func() error {
		d.Forecast = s.LatestForecast(ctx, companyID)
		return nil
	})
	g.Go(func() error {
		d.Alerts = s.Alerts(ctx, companyID)
		return nil
	})
	g.Go(func() error {
		d.WorkingCapital = s.WorkingCapital(ctx, companyID)
		return nil
	})
	_ = g.Wait()

	d.KPIs = pipeline.ComputeKPIs(d.Actuals.Data, d.Forecast.Data, &d.WorkingCapital.Data, s.now())
	return d
}

// ScenarioComparison pairs the baseline forecast with a scenario forecast.
func (s *Service) ScenarioComparison(ctx context.Context, companyID, scenarioID string) []model.ScenarioPoint {
	var baseline, scenario Result[[]model.DailyForecast]
	var g errgroup.Group
	g.Go(func() error {
		baseline = s.LatestForecast(ctx, companyID)
		return nil
	})
	g.Go(func() error {
		scenario = s.ScenarioForecast(ctx, companyID, scenarioID)
		return nil
	})
	_ = g.Wait()
	return pipeline.CompareScenario(baseline.Data, scenario.Data)
}
