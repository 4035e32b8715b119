package model

// Scenario is a named what-if configuration.
type Scenario struct {
	ID         string             `json:"id"`
	CompanyID  string             `json:"company_id"`
	Name       string             `json:"name"`
	Parameters map[string]float64 `json:"parameters"`
	IsDefault  bool               `json:"is_default"`

	// Pending marks a scenario that was triggered from this client and has
	// not been read back from the store yet.
	Pending bool `json:"pending,omitempty"`
}

// Parameter keys written by scenario creation.
const (
	ParamGrowth  = "growth"
	ParamPayroll = "payroll"
)

// ScenarioRequest is the payload sent to the external automation trigger.
type ScenarioRequest struct {
	Name              string  `json:"name" validate:"required,max=120"`
	GrowthAdjustment  float64 `json:"growth_adjustment"`
	PayrollAdjustment float64 `json:"payroll_adjustment"`
}
