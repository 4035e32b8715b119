package dataservice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/cashflow90/internal/model"
	"github.com/theirongolddev/cashflow90/internal/pipeline"
	"github.com/theirongolddev/cashflow90/internal/source"
	"github.com/theirongolddev/cashflow90/internal/synth"
)

const acme = "acme"

var fixedNow = time.Date(2025, 5, 20, 14, 0, 0, 0, time.UTC)

type recordingTrigger struct {
	mu   sync.Mutex
	reqs []model.ScenarioRequest
	err  error
}

func (r *recordingTrigger) TriggerScenario(_ context.Context, req model.ScenarioRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
	return r.err
}

type fixture struct {
	svc  *Service
	mem  *source.Memory
	trig *recordingTrigger
	logs *logtest.Hook
	gen  *synth.Generator
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	mem := source.NewMemory()
	trig := &recordingTrigger{}
	gen := synth.New(42, func() time.Time { return fixedNow })
	svc := New(Options{
		Source:  mem,
		Trigger: trig,
		Synth:   gen,
		Logger:  logger,
		Now:     func() time.Time { return fixedNow },
	})
	return fixture{svc: svc, mem: mem, trig: trig, logs: hook, gen: gen}
}

func today() model.Date { return model.DateOf(fixedNow) }

func TestEmptySourceFallsBackToSynthetic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	actuals := f.svc.DailyActuals(ctx, acme, 90)
	assert.Equal(t, model.ProvenanceSynthetic, actuals.Provenance)
	assert.Equal(t, f.gen.Actuals(), actuals.Data)

	forecast := f.svc.LatestForecast(ctx, acme)
	assert.Equal(t, model.ProvenanceSynthetic, forecast.Provenance)
	assert.Equal(t, f.gen.Forecasts(), forecast.Data)

	assert.Equal(t, f.gen.Alerts(), f.svc.Alerts(ctx, acme).Data)
	assert.Equal(t, f.gen.WorkingCapital(), f.svc.WorkingCapital(ctx, acme).Data)
	assert.Equal(t, f.gen.Scenarios(), f.svc.Scenarios(ctx, acme).Data)
	assert.Equal(t, f.gen.ScenarioForecasts(), f.svc.ScenarioForecast(ctx, acme, "sc-1").Data)
}

func TestEverythingFailingStillResolves(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("connection refused")
	for _, table := range []string{
		source.TableDailyActuals, source.TableBankTransactions, source.TableForecastRuns,
		source.TableAlertEvents, source.ViewWorkingCapital, source.TableInvoicesAR,
		source.TableBillsAP, source.TableScenarios,
	} {
		f.mem.Fail(table, boom)
	}
	ctx := context.Background()

	d := f.svc.Dashboard(ctx, acme, 90)
	assert.Equal(t, model.ProvenanceSynthetic, d.Actuals.Provenance)
	assert.Equal(t, model.ProvenanceSynthetic, d.Forecast.Provenance)
	assert.Equal(t, model.ProvenanceSynthetic, d.Alerts.Provenance)
	assert.Equal(t, model.ProvenanceSynthetic, d.WorkingCapital.Provenance)
	assert.NotEmpty(t, d.Actuals.Data)

	var warned bool
	for _, e := range f.logs.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["tier"] == source.TableDailyActuals {
			warned = true
			assert.Equal(t, acme, e.Data["company_id"])
			assert.ErrorIs(t, e.Data[logrus.ErrorKey].(error), boom)
		}
	}
	assert.True(t, warned, "expected a warning for the failed daily_actuals tier")
}

func TestDailyActualsStoredReturnedAsIs(t *testing.T) {
	f := newFixture(t)
	stored := make([]model.DailyActual, 120)
	for i := range stored {
		stored[i] = model.DailyActual{CompanyID: acme, Date: today().AddDays(i - 120), ClosingBalance: float64(i)}
	}
	require.NoError(t, source.PutAll(f.mem, source.TableDailyActuals, stored))
	require.NoError(t, source.PutAll(f.mem, source.TableBankTransactions, []model.BankTransaction{
		{ID: "t", CompanyID: acme, TransactionDate: today(), Amount: 1},
	}))

	got := f.svc.DailyActuals(context.Background(), acme, 30)
	assert.Equal(t, model.ProvenanceDB, got.Provenance)
	assert.Len(t, got.Data, 120, "stored actuals are not trimmed to the window")
	assert.Equal(t, []string{source.TableDailyActuals}, f.mem.QueriedTables())
}

func TestDailyActualsFromTransactions(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, source.PutAll(f.mem, source.TableBankTransactions, []model.BankTransaction{
		{ID: "1", CompanyID: acme, TransactionDate: today().AddDays(-200), Amount: 1000},
		{ID: "2", CompanyID: acme, TransactionDate: today().AddDays(-3), Amount: -400},
		{ID: "3", CompanyID: "someone-else", TransactionDate: today(), Amount: 1e9},
	}))

	got := f.svc.DailyActuals(context.Background(), acme, 90)
	assert.Equal(t, model.ProvenanceDerived, got.Provenance)
	require.Len(t, got.Data, 90)
	last := got.Data[len(got.Data)-1]
	assert.True(t, last.Date.Equal(today()))
	assert.InDelta(t, pipeline.DefaultSeedBalance+600, last.ClosingBalance, 1e-9)

	def := f.svc.DailyActuals(context.Background(), acme, 0)
	assert.Len(t, def.Data, pipeline.DefaultWindowDays)
}

func TestDailyActualsErrorFallsToTransactions(t *testing.T) {
	f := newFixture(t)
	f.mem.Fail(source.TableDailyActuals, errors.New("timeout"))
	require.NoError(t, source.PutAll(f.mem, source.TableBankTransactions, []model.BankTransaction{
		{ID: "1", CompanyID: acme, TransactionDate: today().AddDays(-1), Amount: 10},
	}))

	got := f.svc.DailyActuals(context.Background(), acme, 90)
	assert.Equal(t, model.ProvenanceDerived, got.Provenance)
	assert.Len(t, got.Data, 2)
}

func TestLatestForecastStoredRun(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, source.PutAll(f.mem, source.TableForecastRuns, []model.ForecastRun{
		{ID: "old", CompanyID: acme, RunLabel: model.BaselineRunLabel, RunAt: fixedNow.Add(-48 * time.Hour)},
		{ID: "new", CompanyID: acme, RunLabel: model.BaselineRunLabel, RunAt: fixedNow.Add(-time.Hour)},
		{ID: "scen", CompanyID: acme, RunLabel: "scenario", RunAt: fixedNow},
	}))
	require.NoError(t, source.PutAll(f.mem, source.TableDailyForecasts, []model.DailyForecast{
		{RunID: "old", CompanyID: acme, Date: today().AddDays(1), BaseClosingBalance: -1},
		{RunID: "new", CompanyID: acme, Date: today().AddDays(2), BaseClosingBalance: 2},
		{RunID: "new", CompanyID: acme, Date: today().AddDays(1), BaseClosingBalance: 1},
		{RunID: "scen", CompanyID: acme, Date: today().AddDays(1), BaseClosingBalance: 99},
	}))

	got := f.svc.LatestForecast(context.Background(), acme)
	assert.Equal(t, model.ProvenanceDB, got.Provenance)
	require.Len(t, got.Data, 2)
	assert.Equal(t, 1.0, got.Data[0].BaseClosingBalance)
	assert.Equal(t, 2.0, got.Data[1].BaseClosingBalance)
}

func TestLatestForecastProjectsFromActuals(t *testing.T) {
	f := newFixture(t)
	// a run with no rows falls through to projection
	require.NoError(t, source.PutAll(f.mem, source.TableForecastRuns, []model.ForecastRun{
		{ID: "empty", CompanyID: acme, RunLabel: model.BaselineRunLabel, RunAt: fixedNow},
	}))
	actuals := make([]model.DailyActual, 30)
	for i := range actuals {
		actuals[i] = model.DailyActual{CompanyID: acme, Date: today().AddDays(i - 30), NetCash: -500, ClosingBalance: 100000}
	}
	require.NoError(t, source.PutAll(f.mem, source.TableDailyActuals, actuals))

	got := f.svc.LatestForecast(context.Background(), acme)
	assert.Equal(t, model.ProvenanceDerived, got.Provenance)
	require.Len(t, got.Data, pipeline.ForecastHorizonDays)
	first := got.Data[0]
	assert.Equal(t, pipeline.GeneratedRunID, first.RunID)
	assert.Equal(t, acme, first.CompanyID)
	assert.True(t, first.Date.Equal(today().AddDays(1)))
	assert.InDelta(t, 99500, first.BaseClosingBalance, 1e-6)
	assert.InDelta(t, 99997.5, first.BestClosingBalance, 1e-6)
	assert.InDelta(t, 99002.5, first.WorstClosingBalance, 1e-6)
}

func TestLatestForecastPairsSyntheticActuals(t *testing.T) {
	f := newFixture(t)
	f.mem.Fail(source.TableForecastRuns, errors.New("down"))

	got := f.svc.LatestForecast(context.Background(), acme)
	assert.Equal(t, model.ProvenanceSynthetic, got.Provenance)
	assert.Equal(t, synth.RunID, got.Data[0].RunID)
}

func TestAlertsNewestFirstLimited(t *testing.T) {
	f := newFixture(t)
	alerts := make([]model.AlertEvent, 15)
	for i := range alerts {
		alerts[i] = model.AlertEvent{
			ID: string(rune('a' + i)), CompanyID: acme, AlertType: model.AlertInfo,
			Severity: model.SeverityInfo, Message: "m", CreatedAt: fixedNow.Add(time.Duration(i) * time.Minute),
		}
	}
	require.NoError(t, source.PutAll(f.mem, source.TableAlertEvents, alerts))

	got := f.svc.Alerts(context.Background(), acme)
	assert.Equal(t, model.ProvenanceDB, got.Provenance)
	require.Len(t, got.Data, AlertLimit)
	assert.Equal(t, "o", got.Data[0].ID)
	for i := 1; i < len(got.Data); i++ {
		assert.True(t, got.Data[i-1].CreatedAt.After(got.Data[i].CreatedAt))
	}
}

func TestWorkingCapitalFromView(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, source.PutAll(f.mem, source.ViewWorkingCapital, []model.WorkingCapitalSummary{
		{CompanyID: acme, AsOfDate: fixedNow, ARTotal: 10, APTotal: 4},
	}))
	got := f.svc.WorkingCapital(context.Background(), acme)
	assert.Equal(t, model.ProvenanceDB, got.Provenance)
	assert.Equal(t, 6.0, got.Data.NetWorkingCapital())
}

func TestWorkingCapitalFromAging(t *testing.T) {
	f := newFixture(t)
	issued := today().AddDays(-40)
	require.NoError(t, source.PutAll(f.mem, source.TableInvoicesAR, []model.InvoiceAR{
		{ID: "1", CompanyID: acme, IssueDate: &issued, Amount: 500, Status: model.StatusOpen},
		{ID: "2", CompanyID: acme, Amount: 250, Status: model.StatusOpen},
		{ID: "3", CompanyID: acme, Amount: 9999, Status: model.StatusPaid},
		{ID: "4", CompanyID: acme, Amount: 9999, Status: model.StatusVoid},
	}))
	require.NoError(t, source.PutAll(f.mem, source.TableBillsAP, []model.BillAP{
		{ID: "b", CompanyID: acme, Amount: 100, Status: model.StatusOpen},
	}))

	got := f.svc.WorkingCapital(context.Background(), acme)
	assert.Equal(t, model.ProvenanceDerived, got.Provenance)
	assert.Equal(t, 750.0, got.Data.ARTotal)
	assert.Equal(t, 500.0, got.Data.AR31To60)
	assert.Equal(t, 250.0, got.Data.AR0To30)
	assert.Equal(t, 100.0, got.Data.APTotal)
	assert.Equal(t, fixedNow, got.Data.AsOfDate)
}

func TestWorkingCapitalPayablesFailureTreatedAsEmpty(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, source.PutAll(f.mem, source.TableInvoicesAR, []model.InvoiceAR{
		{ID: "1", CompanyID: acme, Amount: 500, Status: model.StatusOpen},
	}))
	f.mem.Fail(source.TableBillsAP, errors.New("permission denied"))

	got := f.svc.WorkingCapital(context.Background(), acme)
	assert.Equal(t, model.ProvenanceDerived, got.Provenance)
	assert.Equal(t, 500.0, got.Data.ARTotal)
	assert.Zero(t, got.Data.APTotal)
}

func TestWorkingCapitalWithoutReceivablesIsSynthetic(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, source.PutAll(f.mem, source.TableBillsAP, []model.BillAP{
		{ID: "b", CompanyID: acme, Amount: 100, Status: model.StatusOpen},
	}))
	got := f.svc.WorkingCapital(context.Background(), acme)
	assert.Equal(t, model.ProvenanceSynthetic, got.Provenance)
}

func TestScenariosStored(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, source.PutAll(f.mem, source.TableScenarios, []model.Scenario{
		{ID: "s", CompanyID: acme, Name: "Cut costs", Parameters: map[string]float64{"growth": 0}},
	}))
	got := f.svc.Scenarios(context.Background(), acme)
	assert.Equal(t, model.ProvenanceDB, got.Provenance)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "Cut costs", got.Data[0].Name)
}

func TestCreateScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sc, err := f.svc.CreateScenario(ctx, acme, model.ScenarioRequest{Name: "Hire 3", GrowthAdjustment: 12.5, PayrollAdjustment: 3})
	require.NoError(t, err)
	assert.NotEmpty(t, sc.ID)
	assert.Equal(t, acme, sc.CompanyID)
	assert.Equal(t, "Hire 3", sc.Name)
	assert.False(t, sc.IsDefault)
	assert.True(t, sc.Pending)
	assert.Equal(t, map[string]float64{"growth": 12.5, "payroll": 3}, sc.Parameters)
	require.Len(t, f.trig.reqs, 1)
	assert.Equal(t, "Hire 3", f.trig.reqs[0].Name)

	_, err = f.svc.CreateScenario(ctx, acme, model.ScenarioRequest{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidScenario)
	assert.Len(t, f.trig.reqs, 1, "invalid requests never reach the trigger")

	f.trig.err = errors.New("runner offline")
	_, err = f.svc.CreateScenario(ctx, acme, model.ScenarioRequest{Name: "x"})
	assert.ErrorIs(t, err, f.trig.err)
}

func TestCreateScenarioPassesLargeAdjustments(t *testing.T) {
	f := newFixture(t)
	req := model.ScenarioRequest{Name: "Hire 5 Engineers", GrowthAdjustment: -250, PayrollAdjustment: 75000}

	sc, err := f.svc.CreateScenario(context.Background(), acme, req)
	if err != nil {
		t.Fatalf("CreateScenario() error = %v", err)
	}
	if len(f.trig.reqs) != 1 {
		t.Fatalf("trigger calls = %d, want 1", len(f.trig.reqs))
	}
	if got := f.trig.reqs[0]; got != req {
		t.Errorf("trigger request = %+v, want %+v", got, req)
	}
	if sc.Parameters[model.ParamPayroll] != 75000 {
		t.Errorf("payroll parameter = %v, want 75000", sc.Parameters[model.ParamPayroll])
	}
}

func TestDefaultCompany(t *testing.T) {
	f := newFixture(t)
	f.svc.Alerts(context.Background(), "")
	qs := f.mem.Queries()
	require.Len(t, qs, 1)
	assert.Equal(t, DefaultCompanyID, qs[0].Filters[0].Value)
}

func TestDashboardKPIs(t *testing.T) {
	f := newFixture(t)
	actuals := make([]model.DailyActual, 30)
	for i := range actuals {
		actuals[i] = model.DailyActual{CompanyID: acme, Date: today().AddDays(i - 30), NetCash: -1000, ClosingBalance: 45000}
	}
	require.NoError(t, source.PutAll(f.mem, source.TableDailyActuals, actuals))

	d := f.svc.Dashboard(context.Background(), acme, 90)
	assert.Equal(t, acme, d.CompanyID)
	assert.Equal(t, model.ProvenanceDerived, d.Forecast.Provenance)
	assert.Equal(t, 45000.0, d.KPIs.CurrentCash)
	assert.Equal(t, model.Runway{Days: 45}, d.KPIs.RunwayBase)
	assert.InDelta(t, -30000, d.KPIs.Next30DayNet, 1e-6)
	require.NotNil(t, d.KPIs.NetWorkingCapital)
	assert.Equal(t, 94300.0, *d.KPIs.NetWorkingCapital)
}

func TestScenarioComparison(t *testing.T) {
	f := newFixture(t)
	points := f.svc.ScenarioComparison(context.Background(), acme, "sc-1")
	require.Len(t, points, synth.FutureDays)
	require.NotNil(t, points[89].Scenario)
	assert.Less(t, *points[89].Scenario, points[89].Baseline)
}
