package model

import "time"

// Severity of an alert event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Rank orders severities so that critical sorts highest.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Alert types raised by the forecasting backend.
const (
	AlertRunwayBelowThreshold = "runway_below_threshold"
	AlertLargeExpense         = "large_expense"
	AlertInfo                 = "info"
)

// AlertEvent is a notification derived from a forecast run.
type AlertEvent struct {
	ID            string         `json:"id"`
	CompanyID     string         `json:"company_id"`
	ForecastRunID string         `json:"forecast_run_id,omitempty"`
	AlertType     string         `json:"alert_type"`
	Severity      Severity       `json:"severity"`
	Message       string         `json:"message"`
	Details       map[string]any `json:"details,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}
