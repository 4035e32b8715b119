// Package report writes resolved dashboard data to an XLSX workbook.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/cashflow90/internal/dataservice"
	"github.com/theirongolddev/cashflow90/internal/model"
)

// Sheet names.
const (
	SheetActuals        = "Actuals"
	SheetForecast       = "Forecast"
	SheetWorkingCapital = "Working Capital"
)

// headerRow is the first row of column headers; the rows above it carry
// the provenance label.
const headerRow = 3

const numFmtMoney = 4 // #,##0.00

var (
	actualsHeader = []any{"Date", "Opening", "Cash In", "Cash Out", "Net", "Closing"}

	forecastHeader = []any{
		"Date",
		"Base Net", "Base Closing",
		"Best Net", "Best Closing",
		"Worst Net", "Worst Closing",
	}
)

// Write renders the dashboard's actuals, forecast, and working capital as
// three sheets and writes the workbook to w.
func Write(w io.Writer, d dataservice.Dashboard) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	b, err := newBook(f)
	if err != nil {
		return err
	}
	if err := f.SetSheetName("Sheet1", SheetActuals); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := b.actuals(d.CompanyID, d.Actuals); err != nil {
		return err
	}
	if err := b.forecast(d.CompanyID, d.Forecast); err != nil {
		return err
	}
	if err := b.workingCapital(d.CompanyID, d.WorkingCapital); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

type book struct {
	f      *excelize.File
	bold   int
	money  int
	header int
}

func newBook(f *excelize.File) (*book, error) {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("bold style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return nil, fmt.Errorf("money style: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"3AA99F"}},
		Border: []excelize.Border{{Type: "bottom", Color: "282726", Style: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	return &book{f: f, bold: bold, money: money, header: header}, nil
}

// preamble writes the company and provenance labels and the column header,
// creating the sheet when needed.
func (b *book) preamble(sheet, companyID string, prov model.Provenance, header []any) error {
	if idx, _ := b.f.GetSheetIndex(sheet); idx < 0 {
		if _, err := b.f.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating sheet %s: %w", sheet, err)
		}
	}
	if err := b.f.SetSheetRow(sheet, "A1", &[]any{"Company", companyID}); err != nil {
		return err
	}
	if err := b.f.SetSheetRow(sheet, "A2", &[]any{"Provenance", string(prov)}); err != nil {
		return err
	}
	if err := b.f.SetCellStyle(sheet, "A1", "A2", b.bold); err != nil {
		return err
	}
	if header == nil {
		return nil
	}

	start := cell(1, headerRow)
	if err := b.f.SetSheetRow(sheet, start, &header); err != nil {
		return err
	}
	if err := b.f.SetCellStyle(sheet, start, cell(len(header), headerRow), b.header); err != nil {
		return err
	}
	return b.f.SetColWidth(sheet, "A", columnName(len(header)), 15)
}

func (b *book) moneyRows(sheet string, rows [][]any) error {
	for i, row := range rows {
		r := headerRow + 1 + i
		if err := b.f.SetSheetRow(sheet, cell(1, r), &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, r, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last := headerRow + len(rows)
	return b.f.SetCellStyle(sheet, cell(2, headerRow+1), cell(len(rows[0]), last), b.money)
}

func (b *book) actuals(companyID string, res dataservice.Result[[]model.DailyActual]) error {
	if err := b.preamble(SheetActuals, companyID, res.Provenance, actualsHeader); err != nil {
		return err
	}
	rows := make([][]any, len(res.Data))
	for i, a := range res.Data {
		rows[i] = []any{a.Date.String(), a.OpeningBalance, a.CashIn, a.CashOut, a.NetCash, a.ClosingBalance}
	}
	return b.moneyRows(SheetActuals, rows)
}

func (b *book) forecast(companyID string, res dataservice.Result[[]model.DailyForecast]) error {
	if err := b.preamble(SheetForecast, companyID, res.Provenance, forecastHeader); err != nil {
		return err
	}
	rows := make([][]any, len(res.Data))
	for i, f := range res.Data {
		rows[i] = []any{
			f.Date.String(),
			f.BaseNetCash, f.BaseClosingBalance,
			f.BestNetCash, f.BestClosingBalance,
			f.WorstNetCash, f.WorstClosingBalance,
		}
	}
	return b.moneyRows(SheetForecast, rows)
}

func (b *book) workingCapital(companyID string, res dataservice.Result[model.WorkingCapitalSummary]) error {
	if err := b.preamble(SheetWorkingCapital, companyID, res.Provenance, []any{"Bucket", "Receivable", "Payable"}); err != nil {
		return err
	}
	wc := res.Data
	rows := [][]any{
		{"0-30", wc.AR0To30, wc.AP0To30},
		{"31-60", wc.AR31To60, wc.AP31To60},
		{"61-90", wc.AR61To90, wc.AP61To90},
		{"90+", wc.AR90Plus, wc.AP90Plus},
		{"Total", wc.ARTotal, wc.APTotal},
		{"Net working capital", wc.NetWorkingCapital(), nil},
	}
	if err := b.moneyRows(SheetWorkingCapital, rows); err != nil {
		return err
	}
	total := headerRow + 5
	return b.f.SetCellStyle(SheetWorkingCapital, cell(1, total), cell(1, total+1), b.bold)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func columnName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}
