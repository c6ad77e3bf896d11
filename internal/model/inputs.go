package model

import "math"

// Prices are the tariff inputs of an analysis.
// Units:
// - ImportPerKWh, ExportPerKWh: currency/kWh
// - CapacityRatePerKWYear: currency per kW of averaged monthly peak, per year (incl. tax)
type Prices struct {
	ImportPerKWh          float64 `json:"import_per_kwh" yaml:"import_per_kwh"`
	ExportPerKWh          float64 `json:"export_per_kwh" yaml:"export_per_kwh"`
	CapacityRatePerKWYear float64 `json:"capacity_rate_per_kw_year" yaml:"capacity_rate_per_kw_year"`
}

// AnalysisInputs bundles everything a run needs besides the metered series.
type AnalysisInputs struct {
	Battery    BatteryParams
	Prices     Prices
	Investment float64 // battery purchase price, currency
}

// Validate rejects prices that are not finite numbers. Negative prices are
// allowed.
func (p Prices) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"prices.import_per_kwh", p.ImportPerKWh},
		{"prices.export_per_kwh", p.ExportPerKWh},
		{"prices.capacity_rate_per_kw_year", p.CapacityRatePerKWYear},
	} {
		if !finite(f.value) {
			return invalid(f.name, "price must be a finite number")
		}
	}
	return nil
}

// Validate checks the battery, the prices and the investment.
func (in AnalysisInputs) Validate() error {
	if err := in.Battery.Validate(); err != nil {
		return err
	}
	if err := in.Prices.Validate(); err != nil {
		return err
	}
	if !finite(in.Investment) {
		return invalid("investment", "investment must be a finite number")
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
