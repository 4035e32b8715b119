// Package ingest parses CSV exports of bank transactions, receivables, and
// payables into model records ready for the store.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/theirongolddev/cashflow90/internal/model"
)

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing column")

// RowError locates a parse failure in the input.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d, %s: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// header maps lower-cased column names to their index.
type header map[string]int

func (h header) require(cols ...string) error {
	for _, c := range cols {
		if _, ok := h[c]; !ok {
			return fmt.Errorf("%w %q", ErrMissingColumn, c)
		}
	}
	return nil
}

// record is one CSV row with its line number for error reporting.
type record struct {
	h      header
	fields []string
	line   int
}

func (r record) str(col string) string {
	i, ok := r.h[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r record) amount(col string) (float64, error) {
	raw := strings.NewReplacer(",", "", "$", "").Replace(r.str(col))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &RowError{Line: r.line, Column: col, Err: err}
	}
	return v, nil
}

func (r record) date(col string) (model.Date, error) {
	d, err := model.ParseDate(r.str(col))
	if err != nil {
		return model.Date{}, &RowError{Line: r.line, Column: col, Err: err}
	}
	return d, nil
}

// optionalDate returns nil for an empty cell.
func (r record) optionalDate(col string) (*model.Date, error) {
	if r.str(col) == "" {
		return nil, nil
	}
	d, err := r.date(col)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r record) id() string {
	if id := r.str("id"); id != "" {
		return id
	}
	return uuid.NewString()
}

// each reads the header and calls fn for every data row.
func each(rd io.Reader, required []string, fn func(record) error) error {
	cr := csv.NewReader(rd)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty input", ErrMissingColumn)
		}
		return fmt.Errorf("reading header: %w", err)
	}
	h := make(header, len(first))
	for i, name := range first {
		h[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	if err := h.require(required...); err != nil {
		return err
	}

	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if isBlank(fields) {
			continue
		}
		if err := fn(record{h: h, fields: fields, line: line}); err != nil {
			return err
		}
	}
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Transactions parses transaction_date,amount,description,category rows.
// Amounts are signed; direction is derived from the sign.
func Transactions(rd io.Reader, companyID string) ([]model.BankTransaction, error) {
	var out []model.BankTransaction
	err := each(rd, []string{"transaction_date", "amount"}, func(r record) error {
		day, err := r.date("transaction_date")
		if err != nil {
			return err
		}
		amt, err := r.amount("amount")
		if err != nil {
			return err
		}
		dir := model.DirectionCredit
		if amt < 0 {
			dir = model.DirectionDebit
		}
		out = append(out, model.BankTransaction{
			ID:              r.id(),
			CompanyID:       companyID,
			TransactionDate: day,
			Amount:          amt,
			Direction:       dir,
			Description:     r.str("description"),
			Category:        r.str("category"),
		})
		return nil
	})
	return out, err
}

// document holds the columns shared by invoices and bills.
type document struct {
	id           string
	issue, due   *model.Date
	amount       float64
	status       model.DocStatus
	counterparty string
}

func parseDocument(r record) (document, error) {
	issue, err := r.optionalDate("issue_date")
	if err != nil {
		return document{}, err
	}
	due, err := r.optionalDate("due_date")
	if err != nil {
		return document{}, err
	}
	amt, err := r.amount("amount")
	if err != nil {
		return document{}, err
	}
	status := model.DocStatus(strings.ToLower(r.str("status")))
	if status == "" {
		status = model.StatusOpen
	}
	if !status.Valid() {
		return document{}, &RowError{Line: r.line, Column: "status", Err: fmt.Errorf("unknown status %q", status)}
	}
	return document{
		id:           r.id(),
		issue:        issue,
		due:          due,
		amount:       amt,
		status:       status,
		counterparty: r.str("counterparty"),
	}, nil
}

// Invoices parses id?,issue_date,due_date,amount,status,counterparty rows.
func Invoices(rd io.Reader, companyID string) ([]model.InvoiceAR, error) {
	var out []model.InvoiceAR
	err := each(rd, []string{"issue_date", "amount"}, func(r record) error {
		d, err := parseDocument(r)
		if err != nil {
			return err
		}
		out = append(out, model.InvoiceAR{
			ID:           d.id,
			CompanyID:    companyID,
			CustomerName: d.counterparty,
			IssueDate:    d.issue,
			DueDate:      d.due,
			Amount:       d.amount,
			Status:       d.status,
		})
		return nil
	})
	return out, err
}

// Bills parses id?,issue_date,due_date,amount,status,counterparty rows.
func Bills(rd io.Reader, companyID string) ([]model.BillAP, error) {
	var out []model.BillAP
	err := each(rd, []string{"issue_date", "amount"}, func(r record) error {
		d, err := parseDocument(r)
		if err != nil {
			return err
		}
		out = append(out, model.BillAP{
			ID:         d.id,
			CompanyID:  companyID,
			VendorName: d.counterparty,
			IssueDate:  d.issue,
			DueDate:    d.due,
			Amount:     d.amount,
			Status:     d.status,
		})
		return nil
	})
	return out, err
}
