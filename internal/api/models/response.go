package models

import (
	"time"

	"battery-savings/internal/backtest"
	"battery-savings/internal/report"
)

// UploadResponse describes an accepted meter file
type UploadResponse struct {
	ID        string         `json:"id"`
	Filename  string         `json:"filename"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
	Dataset   report.Dataset `json:"dataset"`
}

// AnalyzeResponse is the result of one analysis run
type AnalyzeResponse struct {
	UploadID string               `json:"upload_id"`
	Report   *report.Report       `json:"report"`
	Ledger   []backtest.LedgerRow `json:"ledger,omitempty"`
}

// BatteryInfo represents information about a battery preset
type BatteryInfo struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Specs BatterySpecs `json:"specs"`
}

// BatterySpecs contains battery specifications
type BatterySpecs struct {
	CapacityKWh      float64  `json:"capacity_kwh"`
	ReservePct       *float64 `json:"reserve_pct,omitempty"`
	ChargePowerKW    float64  `json:"charge_power_kw"`
	DischargePowerKW float64  `json:"discharge_power_kw"`
	Investment       float64  `json:"investment,omitempty"`
}

// ParameterGroup lists the inputs of one part of an analysis request
type ParameterGroup struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes an analysis parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "bool", "string"
	Unit        string      `json:"unit,omitempty"`
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
