package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/cashflow90/internal/model"
)

func TestQuerySQL(t *testing.T) {
	q := From(TableAlertEvents).
		Eq("company_id", "acme").
		Neq("severity", model.SeverityInfo).
		Desc("created_at").
		Limit(10)

	sql, args, err := q.SQL(Dollar)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "alert_events" WHERE "company_id" = $1 AND "severity" <> $2 ORDER BY "created_at" DESC LIMIT 10`, sql)
	assert.Equal(t, []any{"acme", model.SeverityInfo}, args)

	sql, _, err = From(TableDailyActuals).Asc("date").SQL(QuestionMark)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "daily_actuals" ORDER BY "date" ASC`, sql)
}

func TestQuerySingleCapsLimit(t *testing.T) {
	q := From(ViewWorkingCapital).Eq("company_id", "acme")
	q.Single = true
	sql, _, err := q.SQL(QuestionMark)
	require.NoError(t, err)
	assert.Contains(t, sql, "LIMIT 2")

	sql, _, err = q.Limit(1).SQL(QuestionMark)
	require.NoError(t, err)
	assert.Contains(t, sql, "LIMIT 1")
}

func TestQueryBindsDates(t *testing.T) {
	_, args, err := From(TableDailyActuals).Eq("date", model.NewDate(2025, 4, 1)).SQL(QuestionMark)
	require.NoError(t, err)
	assert.Equal(t, []any{"2025-04-01"}, args)
}

func TestQueryValidate(t *testing.T) {
	_, _, err := From("users").SQL(QuestionMark)
	assert.ErrorIs(t, err, ErrUnknownTable)

	_, _, err = From(TableScenarios).Eq("name; drop table x", 1).SQL(QuestionMark)
	assert.Error(t, err)

	_, _, err = From(TableScenarios).Asc("Name").SQL(QuestionMark)
	assert.Error(t, err)
}

func TestBuilderDoesNotAlias(t *testing.T) {
	base := From(TableScenarios).Eq("company_id", "a")
	one := base.Eq("id", "1")
	two := base.Eq("id", "2")
	assert.Len(t, base.Filters, 1)
	assert.Equal(t, "1", one.Filters[1].Value)
	assert.Equal(t, "2", two.Filters[1].Value)
}

func TestDecodeForecastRow(t *testing.T) {
	row := Row{
		"run_id":               "r1",
		"company_id":           "acme",
		"date":                 "2025-05-02",
		"base_net_cash":        int64(-500),
		"base_closing_balance": "99500.5",
		"metadata":             `{"source":"engine"}`,
		"unknown_column":       true,
	}
	var f model.DailyForecast
	require.NoError(t, Decode(row, &f))
	assert.Equal(t, "2025-05-02", f.Date.String())
	assert.InDelta(t, -500, f.BaseNetCash, 1e-9)
	assert.InDelta(t, 99500.5, f.BaseClosingBalance, 1e-9)
	assert.Equal(t, "engine", f.Metadata["source"])
}

func TestDecodeNullableDatesAndTimes(t *testing.T) {
	var inv model.InvoiceAR
	require.NoError(t, Decode(Row{"id": "i1", "issue_date": nil, "amount": 10.0, "status": "open"}, &inv))
	assert.Nil(t, inv.IssueDate)

	require.NoError(t, Decode(Row{"id": "i2", "issue_date": "2025-01-10T00:00:00Z"}, &inv))
	require.NotNil(t, inv.IssueDate)
	assert.Equal(t, "2025-01-10", inv.IssueDate.String())

	var a model.AlertEvent
	require.NoError(t, Decode(Row{"created_at": "2025-01-10 08:30:00", "details": map[string]any{"k": 1}}, &a))
	assert.Equal(t, time.Date(2025, 1, 10, 8, 30, 0, 0, time.UTC), a.CreatedAt)
	assert.Equal(t, 1, a.Details["k"])

	var sc model.Scenario
	require.NoError(t, Decode(Row{"parameters": `{"growth": 10, "payroll": -2}`, "is_default": int64(1)}, &sc))
	assert.Equal(t, map[string]float64{"growth": 10, "payroll": -2}, sc.Parameters)
	assert.True(t, sc.IsDefault)
}

func TestEncodeRoundTripsThroughMemory(t *testing.T) {
	mem := NewMemory()
	actuals := []model.DailyActual{
		{CompanyID: "acme", Date: model.NewDate(2025, 1, 2), ClosingBalance: 2},
		{CompanyID: "acme", Date: model.NewDate(2025, 1, 1), ClosingBalance: 1},
		{CompanyID: "other", Date: model.NewDate(2025, 1, 1), ClosingBalance: 9},
	}
	require.NoError(t, PutAll(mem, TableDailyActuals, actuals))

	got, err := Fetch[model.DailyActual](context.Background(), mem,
		From(TableDailyActuals).Eq("company_id", "acme").Asc("date"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-01-01", got[0].Date.String())
	assert.Equal(t, 2.0, got[1].ClosingBalance)
	assert.Equal(t, []string{TableDailyActuals}, mem.QueriedTables())
}

func TestFetchOne(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	got, err := FetchOne[model.Scenario](ctx, mem, From(TableScenarios))
	require.NoError(t, err)
	assert.Nil(t, got)

	mem.Put(TableScenarios, Row{"id": "a"}, Row{"id": "b"})
	_, err = FetchOne[model.Scenario](ctx, mem, From(TableScenarios))
	assert.ErrorIs(t, err, ErrMultipleRows)

	got, err = FetchOne[model.Scenario](ctx, mem, From(TableScenarios).Eq("id", "b"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "b", got.ID)
}

func TestMemoryFailureAndNullFilters(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	mem.Put(TableInvoicesAR, Row{"id": "1", "status": "open"}, Row{"id": "2", "status": nil}, Row{"id": "3", "status": "paid"})

	rows, err := mem.Fetch(ctx, From(TableInvoicesAR).Neq("status", "paid"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["id"])

	boom := errors.New("boom")
	mem.Fail(TableInvoicesAR, boom)
	_, err = Fetch[model.InvoiceAR](ctx, mem, From(TableInvoicesAR))
	assert.ErrorIs(t, err, boom)
}

func TestEmptySource(t *testing.T) {
	rows, err := Empty{}.Fetch(context.Background(), From(TableScenarios))
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = Empty{}.Fetch(context.Background(), From("nope"))
	assert.ErrorIs(t, err, ErrUnknownTable)
}
