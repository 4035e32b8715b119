// Package dataservice resolves every dashboard query through an ordered
// chain of tiers: stored data, data derived from raw records, and finally
// the synthetic demo dataset. Queries never fail.
package dataservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/cashflow90/internal/automation"
	"github.com/theirongolddev/cashflow90/internal/model"
	"github.com/theirongolddev/cashflow90/internal/pipeline"
	"github.com/theirongolddev/cashflow90/internal/source"
	"github.com/theirongolddev/cashflow90/internal/synth"
)

const (
	// DefaultCompanyID is used when the caller names no company.
	DefaultCompanyID = "11111111-1111-1111-1111-111111111111"
	// AlertLimit caps the alert list.
	AlertLimit = 10
)

// ErrInvalidScenario wraps validation failures of a scenario request.
var ErrInvalidScenario = errors.New("invalid scenario request")

var validate = validator.New()

// Options configures a Service. Zero fields get working defaults.
type Options struct {
	Source      source.Source
	Trigger     automation.Trigger
	Synth       *synth.Generator
	Logger      *logrus.Logger
	Now         func() time.Time
	SeedBalance float64
}

// Service is the data resolution orchestrator.
type Service struct {
	src         source.Source
	trigger     automation.Trigger
	synth       *synth.Generator
	log         *logrus.Logger
	now         func() time.Time
	seedBalance float64
}

// New creates a Service.
func New(opts Options) *Service {
	s := &Service{
		src:         opts.Source,
		trigger:     opts.Trigger,
		synth:       opts.Synth,
		log:         opts.Logger,
		now:         opts.Now,
		seedBalance: opts.SeedBalance,
	}
	if s.src == nil {
		s.src = source.Empty{}
	}
	if s.trigger == nil {
		s.trigger = automation.Simulated{Delay: automation.DefaultSimulatedDelay}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.synth == nil {
		s.synth = synth.New(synth.DefaultSeed, s.now)
	}
	if s.log == nil {
		s.log = logrus.New()
		s.log.SetOutput(io.Discard)
	}
	if s.seedBalance == 0 {
		s.seedBalance = pipeline.DefaultSeedBalance
	}
	return s
}

func (s *Service) entry(op, companyID string) *logrus.Entry {
	return s.log.WithFields(logrus.Fields{"op": op, "company_id": companyID})
}

func company(id string) string {
	if id == "" {
		return DefaultCompanyID
	}
	return id
}

// DailyActuals returns the company's daily cash history: stored actuals in
// full, else the last days of a series rebuilt from bank transactions, else
// the synthetic history. A non-positive days means the default window.
func (s *Service) DailyActuals(ctx context.Context, companyID string, days int) Result[[]model.DailyActual] {
	companyID = company(companyID)
	if days <= 0 {
		days = pipeline.DefaultWindowDays
	}

	return resolveTiers(ctx, s.entry("daily_actuals", companyID),
		tier[[]model.DailyActual]{
			name:       source.TableDailyActuals,
			provenance: model.ProvenanceDB,
			resolve: func(ctx context.Context) ([]model.DailyActual, bool, error) {
				return nonEmpty(source.Fetch[model.DailyActual](ctx, s.src,
					source.From(source.TableDailyActuals).Eq("company_id", companyID).Asc("date")))
			},
		},
		tier[[]model.DailyActual]{
			name:       source.TableBankTransactions,
			provenance: model.ProvenanceDerived,
			resolve: func(ctx context.Context) ([]model.DailyActual, bool, error) {
				txs, err := source.Fetch[model.BankTransaction](ctx, s.src,
					source.From(source.TableBankTransactions).Eq("company_id", companyID).Asc("transaction_date"))
				if err != nil || len(txs) == 0 {
					return nil, false, err
				}
				series := pipeline.AggregateTransactions(companyID, txs, s.seedBalance, model.DateOf(s.now()))
				return nonEmpty(pipeline.TailDays(series, days), nil)
			},
		},
		always("synthetic", s.synth.Actuals),
	)
}

// LatestForecast returns the newest stored baseline run, else a projection
// from the resolved actuals, else the synthetic forecast. Synthetic actuals
// always pair with the synthetic forecast so the two series line up.
func (s *Service) LatestForecast(ctx context.Context, companyID string) Result[[]model.DailyForecast] {
	companyID = company(companyID)

	var (
		once    sync.Once
		actuals Result[[]model.DailyActual]
	)
	loadActuals := func(ctx context.Context) Result[[]model.DailyActual] {
		once.Do(func() { actuals = s.DailyActuals(ctx, companyID, pipeline.DefaultWindowDays) })
		return actuals
	}

	return resolveTiers(ctx, s.entry("latest_forecast", companyID),
		tier[[]model.DailyForecast]{
			name:       source.TableForecastRuns,
			provenance: model.ProvenanceDB,
			resolve: func(ctx context.Context) ([]model.DailyForecast, bool, error) {
				run, err := source.FetchOne[model.ForecastRun](ctx, s.src, source.From(source.TableForecastRuns).
					Eq("company_id", companyID).
					Eq("run_label", model.BaselineRunLabel).
					Desc("run_at").
					Limit(1))
				if err != nil || run == nil {
					return nil, false, err
				}
				return nonEmpty(source.Fetch[model.DailyForecast](ctx, s.src,
					source.From(source.TableDailyForecasts).Eq("run_id", run.ID).Asc("date")))
			},
		},
		tier[[]model.DailyForecast]{
			name:       "synthetic_actuals",
			provenance: model.ProvenanceSynthetic,
			resolve: func(ctx context.Context) ([]model.DailyForecast, bool, error) {
				if !loadActuals(ctx).Synthetic() {
					return nil, false, nil
				}
				return s.synth.Forecasts(), true, nil
			},
		},
		tier[[]model.DailyForecast]{
			name:       "projection",
			provenance: model.ProvenanceDerived,
			resolve: func(ctx context.Context) ([]model.DailyForecast, bool, error) {
				a := loadActuals(ctx)
				if len(a.Data) == 0 {
					return nil, false, nil
				}
				return pipeline.Project(companyID, a.Data, model.DateOf(s.now())), true, nil
			},
		},
		always("synthetic", s.synth.Forecasts),
	)
}

// ScenarioForecast returns the forecast under a scenario. Scenario runs are
// produced by the external engine and not read back, so this is always the
// synthetic scenario series.
func (s *Service) ScenarioForecast(ctx context.Context, companyID, scenarioID string) Result[[]model.DailyForecast] {
	companyID = company(companyID)
	return resolveTiers(ctx, s.entry("scenario_forecast", companyID).WithField("scenario_id", scenarioID),
		always("synthetic", s.synth.ScenarioForecasts),
	)
}

// Alerts returns up to AlertLimit alerts, newest first.
func (s *Service) Alerts(ctx context.Context, companyID string) Result[[]model.AlertEvent] {
	companyID = company(companyID)
	return resolveTiers(ctx, s.entry("alerts", companyID),
		tier[[]model.AlertEvent]{
			name:       source.TableAlertEvents,
			provenance: model.ProvenanceDB,
			resolve: func(ctx context.Context) ([]model.AlertEvent, bool, error) {
				return nonEmpty(source.Fetch[model.AlertEvent](ctx, s.src, source.From(source.TableAlertEvents).
					Eq("company_id", companyID).
					Desc("created_at").
					Limit(AlertLimit)))
			},
		},
		always("synthetic", s.synth.Alerts),
	)
}

// WorkingCapital returns the summary view row, else an aging of open
// receivables and payables, else the synthetic summary. Aging runs only when
// there is at least one open receivable; a failed payables read counts as none.
func (s *Service) WorkingCapital(ctx context.Context, companyID string) Result[model.WorkingCapitalSummary] {
	companyID = company(companyID)
	log := s.entry("working_capital", companyID)

	return resolveTiers(ctx, log,
		tier[model.WorkingCapitalSummary]{
			name:       source.ViewWorkingCapital,
			provenance: model.ProvenanceDB,
			resolve: func(ctx context.Context) (model.WorkingCapitalSummary, bool, error) {
				wc, err := source.FetchOne[model.WorkingCapitalSummary](ctx, s.src,
					source.From(source.ViewWorkingCapital).Eq("company_id", companyID).Limit(1))
				if err != nil || wc == nil {
					return model.WorkingCapitalSummary{}, false, err
				}
				return *wc, true, nil
			},
		},
		tier[model.WorkingCapitalSummary]{
			name:       "aging",
			provenance: model.ProvenanceDerived,
			resolve: func(ctx context.Context) (model.WorkingCapitalSummary, bool, error) {
				var (
					ar []model.InvoiceAR
					ap []model.BillAP
				)
				g, gctx := errgroup.WithContext(ctx)
				g.Go(func() error {
					var err error
					ar, err = source.Fetch[model.InvoiceAR](gctx, s.src, openDocuments(source.TableInvoicesAR, companyID))
					return err
				})
				g.Go(func() error {
					var err error
					ap, err = source.Fetch[model.BillAP](gctx, s.src, openDocuments(source.TableBillsAP, companyID))
					if err != nil {
						log.WithError(err).Warn("payables unavailable, aging receivables only")
						ap = nil
					}
					return nil
				})
				if err := g.Wait(); err != nil {
					return model.WorkingCapitalSummary{}, false, err
				}
				if len(ar) == 0 {
					return model.WorkingCapitalSummary{}, false, nil
				}
				return pipeline.SummarizeAging(companyID, ar, ap, s.now()), true, nil
			},
		},
		always("synthetic", s.synth.WorkingCapital),
	)
}

func openDocuments(table, companyID string) source.Query {
	return source.From(table).
		Eq("company_id", companyID).
		Neq("status", string(model.StatusPaid)).
		Neq("status", string(model.StatusVoid))
}

// Scenarios lists the company's stored scenarios, else the examples.
func (s *Service) Scenarios(ctx context.Context, companyID string) Result[[]model.Scenario] {
	companyID = company(companyID)
	return resolveTiers(ctx, s.entry("scenarios", companyID),
		tier[[]model.Scenario]{
			name:       source.TableScenarios,
			provenance: model.ProvenanceDB,
			resolve: func(ctx context.Context) ([]model.Scenario, bool, error) {
				return nonEmpty(source.Fetch[model.Scenario](ctx, s.src,
					source.From(source.TableScenarios).Eq("company_id", companyID).Asc("name")))
			},
		},
		always("synthetic", s.synth.Scenarios),
	)
}

// CreateScenario validates req and hands it to the automation trigger. On
// success it returns a provisional scenario record for the caller to show
// until the engine writes the real one.
func (s *Service) CreateScenario(ctx context.Context, companyID string, req model.ScenarioRequest) (model.Scenario, error) {
	companyID = company(companyID)
	log := s.entry("create_scenario", companyID).WithField("name", req.Name)

	if err := validate.Struct(req); err != nil {
		return model.Scenario{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := s.trigger.TriggerScenario(ctx, req); err != nil {
		log.WithError(err).Error("scenario trigger failed")
		return model.Scenario{}, fmt.Errorf("triggering scenario: %w", err)
	}
	log.Info("scenario simulation triggered")

	return model.Scenario{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		Name:      req.Name,
		Parameters: map[string]float64{
			model.ParamGrowth:  req.GrowthAdjustment,
			model.ParamPayroll: req.PayrollAdjustment,
		},
		IsDefault: false,
		Pending:   true,
	}, nil
}
