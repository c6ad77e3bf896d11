package models

import "battery-savings/internal/model"

// AnalyzeRequest is the body of POST /api/v1/uploads/:id/analyze
type AnalyzeRequest struct {
	// Preset ID from GET /api/v1/batteries, e.g. "2_home_10kwh".
	// Fields set in Battery override the preset.
	BatteryFile string        `json:"battery_file,omitempty"`
	Battery     BatteryConfig `json:"battery"`
	// Omitted prices keep their defaults.
	Prices  model.Prices   `json:"prices"`
	Options AnalyzeOptions `json:"options,omitempty"`
}

// BatteryConfig defines battery parameters. Omitted fields fall back to the
// preset, then to the defaults listed by GET /api/v1/parameters.
type BatteryConfig struct {
	Name             string   `json:"name,omitempty"`
	CapacityKWh      *float64 `json:"capacity_kwh,omitempty"`
	ReservePct       *float64 `json:"reserve_pct,omitempty"`
	ChargePowerKW    *float64 `json:"charge_power_kw,omitempty"`
	DischargePowerKW *float64 `json:"discharge_power_kw,omitempty"`
	Investment       *float64 `json:"investment,omitempty"`
}

// AnalyzeOptions contains optional analysis parameters
type AnalyzeOptions struct {
	IncludeLedger bool `json:"include_ledger,omitempty"` // default: false
}
