package model

import "time"

// DocStatus is the lifecycle state of an invoice or bill.
type DocStatus string

const (
	StatusDraft     DocStatus = "draft"
	StatusOpen      DocStatus = "open"
	StatusPaid      DocStatus = "paid"
	StatusVoid      DocStatus = "void"
	StatusOverdue   DocStatus = "overdue"
	StatusCancelled DocStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s DocStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusOpen, StatusPaid, StatusVoid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// Outstanding reports whether the document takes part in aging. Only paid
// and void documents are excluded; cancelled and draft ones still count.
func (s DocStatus) Outstanding() bool {
	return s != StatusPaid && s != StatusVoid
}

// InvoiceAR is a receivable. A nil IssueDate ages as current.
type InvoiceAR struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	CustomerName string    `json:"customer_name,omitempty"`
	IssueDate    *Date     `json:"issue_date"`
	DueDate      *Date     `json:"due_date,omitempty"`
	Amount       float64   `json:"amount"`
	Status       DocStatus `json:"status"`
}

// BillAP is a payable. A nil IssueDate ages as current.
type BillAP struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"company_id"`
	VendorName string    `json:"vendor_name,omitempty"`
	IssueDate  *Date     `json:"issue_date"`
	DueDate    *Date     `json:"due_date,omitempty"`
	Amount     float64   `json:"amount"`
	Status     DocStatus `json:"status"`
}

// WorkingCapitalSummary is the aged AR/AP position at a point in time.
type WorkingCapitalSummary struct {
	CompanyID string    `json:"company_id"`
	AsOfDate  time.Time `json:"as_of_date"`

	ARTotal  float64 `json:"ar_total"`
	APTotal  float64 `json:"ap_total"`
	AR0To30  float64 `json:"ar_0_30"`
	AR31To60 float64 `json:"ar_31_60"`
	AR61To90 float64 `json:"ar_61_90"`
	AR90Plus float64 `json:"ar_90_plus"`
	AP0To30  float64 `json:"ap_0_30"`
	AP31To60 float64 `json:"ap_31_60"`
	AP61To90 float64 `json:"ap_61_90"`
	AP90Plus float64 `json:"ap_90_plus"`
}

// NetWorkingCapital is receivables minus payables.
func (w WorkingCapitalSummary) NetWorkingCapital() float64 {
	return w.ARTotal - w.APTotal
}
