package model

import "time"

// Direction of a bank transaction as reported by the bank feed.
const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

// BankTransaction is a raw ledger entry. Positive amounts are inflows.
type BankTransaction struct {
	ID              string  `json:"id"`
	CompanyID       string  `json:"company_id"`
	TransactionDate Date    `json:"transaction_date"`
	Amount          float64 `json:"amount"`
	Direction       string  `json:"direction,omitempty"`
	Description     string  `json:"description,omitempty"`
	Category        string  `json:"category,omitempty"`
}

// DailyActual is one day of realized cash movement.
// ClosingBalance = OpeningBalance + NetCash and NetCash = CashIn - CashOut.
type DailyActual struct {
	CompanyID      string  `json:"company_id"`
	Date           Date    `json:"date"`
	OpeningBalance float64 `json:"opening_balance"`
	CashIn         float64 `json:"cash_in"`
	CashOut        float64 `json:"cash_out"`
	NetCash        float64 `json:"net_cash"`
	ClosingBalance float64 `json:"closing_balance"`
}

// ForecastRun is the header of a stored projection.
type ForecastRun struct {
	ID           string         `json:"id"`
	CompanyID    string         `json:"company_id"`
	ScenarioID   *string        `json:"scenario_id,omitempty"`
	ParametersID *string        `json:"parameters_id,omitempty"`
	RunLabel     string         `json:"run_label"`
	RunAt        time.Time      `json:"run_at"`
	Assumptions  map[string]any `json:"assumptions,omitempty"`
}

// BaselineRunLabel marks the forecast run used for the dashboard.
const BaselineRunLabel = "baseline"

// DailyForecast is one projected day under three bands.
type DailyForecast struct {
	RunID     string `json:"run_id"`
	CompanyID string `json:"company_id"`
	Date      Date   `json:"date"`

	BaseInflows        float64 `json:"base_inflows"`
	BaseOutflows       float64 `json:"base_outflows"`
	BaseNetCash        float64 `json:"base_net_cash"`
	BaseClosingBalance float64 `json:"base_closing_balance"`

	BestInflows        float64 `json:"best_inflows"`
	BestOutflows       float64 `json:"best_outflows"`
	BestNetCash        float64 `json:"best_net_cash"`
	BestClosingBalance float64 `json:"best_closing_balance"`

	WorstInflows        float64 `json:"worst_inflows"`
	WorstOutflows       float64 `json:"worst_outflows"`
	WorstNetCash        float64 `json:"worst_net_cash"`
	WorstClosingBalance float64 `json:"worst_closing_balance"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// Band selects one of the three forecast bands.
type Band string

const (
	BandBase  Band = "base"
	BandBest  Band = "best"
	BandWorst Band = "worst"
)

// Closing returns the closing balance of the given band.
func (f DailyForecast) Closing(b Band) float64 {
	switch b {
	case BandBest:
		return f.BestClosingBalance
	case BandWorst:
		return f.WorstClosingBalance
	default:
		return f.BaseClosingBalance
	}
}

// Net returns the net cash of the given band.
func (f DailyForecast) Net(b Band) float64 {
	switch b {
	case BandBest:
		return f.BestNetCash
	case BandWorst:
		return f.WorstNetCash
	default:
		return f.BaseNetCash
	}
}
