package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/cashflow90/internal/dataservice"
	"github.com/theirongolddev/cashflow90/internal/model"
)

func sampleDashboard() dataservice.Dashboard {
	day := model.NewDate(2025, 6, 1)
	return dataservice.Dashboard{
		CompanyID: "acme",
		Actuals: dataservice.Result[[]model.DailyActual]{
			Provenance: model.ProvenanceDerived,
			Data: []model.DailyActual{
				{CompanyID: "acme", Date: day, OpeningBalance: 50000, CashIn: 1200, NetCash: 1200, ClosingBalance: 51200},
				{CompanyID: "acme", Date: day.AddDays(1), OpeningBalance: 51200, CashOut: 200, NetCash: -200, ClosingBalance: 51000},
			},
		},
		Forecast: dataservice.Result[[]model.DailyForecast]{
			Provenance: model.ProvenanceSynthetic,
			Data: []model.DailyForecast{
				{Date: day.AddDays(2), BaseNetCash: -500, BaseClosingBalance: 50500, WorstClosingBalance: 48000},
			},
		},
		WorkingCapital: dataservice.Result[model.WorkingCapitalSummary]{
			Provenance: model.ProvenanceDB,
			Data:       model.WorkingCapitalSummary{CompanyID: "acme", ARTotal: 1000, AR0To30: 1000, APTotal: 400, AP90Plus: 400},
		},
	}
}

func raw(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleDashboard()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetActuals, SheetForecast, SheetWorkingCapital}, f.GetSheetList())

	assert.Equal(t, "acme", raw(t, f, SheetActuals, "B1"))
	assert.Equal(t, "derived", raw(t, f, SheetActuals, "B2"))
	assert.Equal(t, "Date", raw(t, f, SheetActuals, "A3"))
	assert.Equal(t, "2025-06-01", raw(t, f, SheetActuals, "A4"))
	assert.Equal(t, "51200", raw(t, f, SheetActuals, "F4"))
	assert.Equal(t, "-200", raw(t, f, SheetActuals, "E5"))

	assert.Equal(t, "synthetic", raw(t, f, SheetForecast, "B2"))
	assert.Equal(t, "2025-06-03", raw(t, f, SheetForecast, "A4"))
	assert.Equal(t, "50500", raw(t, f, SheetForecast, "C4"))
	assert.Equal(t, "48000", raw(t, f, SheetForecast, "G4"))

	assert.Equal(t, "db", raw(t, f, SheetWorkingCapital, "B2"))
	assert.Equal(t, "1000", raw(t, f, SheetWorkingCapital, "B4"))
	assert.Equal(t, "400", raw(t, f, SheetWorkingCapital, "C7"))
	assert.Equal(t, "Net working capital", raw(t, f, SheetWorkingCapital, "A9"))
	assert.Equal(t, "600", raw(t, f, SheetWorkingCapital, "B9"))
}

func TestWriteEmptySeries(t *testing.T) {
	d := sampleDashboard()
	d.Actuals.Data = nil
	d.Forecast.Data = nil

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, d))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetActuals)
	require.NoError(t, err)
	assert.Len(t, rows, headerRow)
}
