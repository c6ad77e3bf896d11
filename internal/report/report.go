// Package report runs the full savings pipeline over an aggregated series and
// assembles the result record shown to users.
package report

import (
	"math"
	"time"

	"battery-savings/internal/analysis"
	"battery-savings/internal/backtest"
	"battery-savings/internal/metrics"
	"battery-savings/internal/model"
)

type Status string

const (
	StatusCompleted Status = "completed"
	// StatusEmpty means the input held no usable quarter; nothing was simulated.
	StatusEmpty Status = "empty"
)

const (
	notePartialYear = "Less than 12 months of data: the rolling 12-month peak average is approximated with the months available."
	noteFullYear    = "The rolling 12-month peak average uses full 12-month windows once available."
)

// Dataset describes an aggregated meter series.
type Dataset struct {
	Quarters int       `json:"quarters"`
	Skipped  int       `json:"skipped_rows"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Days     float64   `json:"days"`
	Months   int       `json:"months,omitempty"`
}

// Describe summarises a series; skipped is the aggregator's skip count.
func Describe(series []model.QuarterRecord, skipped int) Dataset {
	ds := Dataset{Quarters: len(series), Skipped: skipped}
	if len(series) == 0 {
		return ds
	}
	ds.From = series[0].Timestamp
	ds.To = series[len(series)-1].Timestamp
	ds.Days = ds.To.Sub(ds.From).Hours() / 24
	return ds
}

// Summary holds the headline figures.
type Summary struct {
	TotalSaving    float64           `json:"total_saving"`
	EnergySaving   float64           `json:"energy_saving"`
	CapacitySaving float64           `json:"capacity_saving"`
	PaybackYears   model.NullFloat64 `json:"payback_years"`

	ImportReductionKWh float64 `json:"import_reduction_kwh"`
	ExportReductionKWh float64 `json:"export_reduction_kwh"`

	PeakBeforeKW float64 `json:"peak_before_kw"`
	PeakAfterKW  float64 `json:"peak_after_kw"`

	Months      int    `json:"months"`
	PartialYear bool   `json:"partial_year"`
	Note        string `json:"note"`
}

// Report is the outcome of one analysis run.
type Report struct {
	Status   Status                       `json:"status"`
	Dataset  Dataset                      `json:"dataset"`
	Summary  *Summary                     `json:"summary,omitempty"`
	Capacity *analysis.CapacityComparison `json:"capacity,omitempty"`
	Debug    *Debug                       `json:"debug,omitempty"`

	Ledger []backtest.LedgerRow `json:"-"`
}

// Analyze simulates the battery over series and prices the outcome.
// An empty series yields a StatusEmpty report and a nil error. Invalid
// inputs, or inputs whose result overflows, yield a *model.ValidationError.
func Analyze(series []model.QuarterRecord, skipped int, in model.AnalysisInputs) (*Report, error) {
	start := time.Now()
	rep, err := analyze(series, skipped, in)
	switch {
	case err != nil:
		metrics.ObserveAnalysis(metrics.ResultInvalid, time.Since(start))
	case rep.Status == StatusEmpty:
		metrics.ObserveAnalysis(metrics.ResultEmpty, time.Since(start))
	default:
		metrics.ObserveAnalysis(metrics.ResultCompleted, time.Since(start))
	}
	return rep, err
}

func analyze(series []model.QuarterRecord, skipped int, in model.AnalysisInputs) (*Report, error) {
	ds := Describe(series, skipped)
	if len(series) == 0 {
		return &Report{Status: StatusEmpty, Dataset: ds}, nil
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	sim, err := backtest.New().Run(series, in.Battery)
	if err != nil {
		return nil, err
	}

	capacity := analysis.CompareCapacity(sim.PerQuarter(), in.Prices.CapacityRatePerKWYear)
	ds.Months = capacity.MonthsCount()

	orig := analysis.EnergyTotals{ImportKWh: sim.OriginalImportKWh, ExportKWh: sim.OriginalExportKWh}
	next := analysis.EnergyTotals{ImportKWh: sim.NewImportKWh, ExportKWh: sim.NewExportKWh}
	money := analysis.ComputeSavings(orig, next, capacity, in.Prices, in.Investment)
	if !allFinite(
		sim.OriginalImportKWh, sim.OriginalExportKWh, sim.NewImportKWh, sim.NewExportKWh,
		capacity.Original.MaxMonthPeakKW, capacity.New.MaxMonthPeakKW,
		money.EnergyCostOriginal, money.EnergyCostNew,
		money.CapacityCostOriginal, money.CapacityCostNew, money.TotalSaving,
	) {
		return nil, &model.ValidationError{
			Field:   "prices",
			Message: "the result is out of range: prices or metered volumes are too large",
		}
	}

	note := noteFullYear
	if capacity.PartialYear {
		note = notePartialYear
	}

	return &Report{
		Status:  StatusCompleted,
		Dataset: ds,
		Summary: &Summary{
			TotalSaving:        money.TotalSaving,
			EnergySaving:       money.EnergySaving,
			CapacitySaving:     money.CapacitySaving,
			PaybackYears:       money.PaybackYears,
			ImportReductionKWh: sim.OriginalImportKWh - sim.NewImportKWh,
			ExportReductionKWh: sim.OriginalExportKWh - sim.NewExportKWh,
			PeakBeforeKW:       capacity.Original.MaxMonthPeakKW,
			PeakAfterKW:        capacity.New.MaxMonthPeakKW,
			Months:             capacity.MonthsCount(),
			PartialYear:        capacity.PartialYear,
			Note:               note,
		},
		Capacity: &capacity,
		Debug:    newDebug(ds, in, sim, capacity, money),
		Ledger:   sim.Ledger,
	}, nil
}

func allFinite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
