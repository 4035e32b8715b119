package model

import (
	"fmt"
	"time"
)

// Provenance records which resolution tier produced a result.
type Provenance string

const (
	ProvenanceDB        Provenance = "db"
	ProvenanceDerived   Provenance = "derived"
	ProvenanceSynthetic Provenance = "synthetic"
)

// Runway is the number of days until a forecast band first reaches zero.
// Beyond is set when the band stays positive for the whole horizon.
type Runway struct {
	Days   int  `json:"days"`
	Beyond bool `json:"beyond"`
}

func (r Runway) String() string {
	if r.Beyond {
		return fmt.Sprintf("%d+", r.Days)
	}
	return fmt.Sprintf("%d", r.Days)
}

// DashboardKPIs holds the headline numbers shown above the charts.
type DashboardKPIs struct {
	CurrentCash       float64   `json:"current_cash"`
	RunwayBase        Runway    `json:"runway_base"`
	RunwayWorst       Runway    `json:"runway_worst"`
	Next30DayNet      float64   `json:"next_30_day_net"`
	NetWorkingCapital *float64  `json:"net_working_capital,omitempty"`
	ComputedAt        time.Time `json:"computed_at"`
}

// ScenarioPoint pairs the baseline and scenario closing balance for a day.
// Scenario is nil when the scenario series has no value for that index.
type ScenarioPoint struct {
	Date     Date     `json:"date"`
	Baseline float64  `json:"baseline"`
	Scenario *float64 `json:"scenario"`
}
