package backtest

import (
	"time"

	"battery-savings/internal/model"
)

// LedgerRow is one row of per-quarter output.
// This is the primary artifact for "what happened" in a simulation.
type LedgerRow struct {
	Index     int       `json:"index"`
	Timestamp time.Time `json:"timestamp"`

	Action model.Action `json:"action"`

	ImportKWh    float64 `json:"import_kwh"`
	ExportKWh    float64 `json:"export_kwh"`
	NewImportKWh float64 `json:"new_import_kwh"`
	NewExportKWh float64 `json:"new_export_kwh"`

	ChargeKWh    float64 `json:"charge_kwh"`
	DischargeKWh float64 `json:"discharge_kwh"`

	SOCStartKWh float64 `json:"soc_start_kwh"`
	SOCEndKWh   float64 `json:"soc_end_kwh"`
}

// Result holds the totals of a simulation run. Original* are the metered
// values (negatives clamped to 0), New* the values with the battery.
type Result struct {
	Ledger []LedgerRow

	OriginalImportKWh float64
	OriginalExportKWh float64
	NewImportKWh      float64
	NewExportKWh      float64

	ChargedKWh    float64
	DischargedKWh float64

	ReserveKWh float64
	InitialSOC float64 // kWh
	FinalSOC   float64 // kWh
}

// PerQuarter returns the before/after import of every quarter, in order.
func (r *Result) PerQuarter() []model.QuarterImport {
	out := make([]model.QuarterImport, len(r.Ledger))
	for i, row := range r.Ledger {
		out[i] = model.QuarterImport{
			Timestamp:         row.Timestamp,
			OriginalImportKWh: row.ImportKWh,
			NewImportKWh:      row.NewImportKWh,
		}
	}
	return out
}
