package report

import (
	"time"

	"battery-savings/internal/analysis"
	"battery-savings/internal/backtest"
	"battery-savings/internal/model"
)

// Debug exposes every intermediate figure of a run, so a result can be
// checked by hand.
type Debug struct {
	Dataset    DebugDataset     `json:"dataset"`
	Battery    DebugBattery     `json:"battery"`
	Prices     model.Prices     `json:"prices"`
	Totals     DebugTotals      `json:"totals_kwh"`
	Money      analysis.Savings `json:"money"`
	PeaksKW    DebugPeaks       `json:"peaks_kw"`
	Investment float64          `json:"investment"`
}

type DebugDataset struct {
	Quarters int       `json:"quarters"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Months   int       `json:"months"`
}

type DebugBattery struct {
	CapacityKWh      float64 `json:"capacity_kwh"`
	ReservePct       float64 `json:"reserve_pct"`
	ReserveKWh       float64 `json:"reserve_kwh"`
	ChargePowerKW    float64 `json:"charge_power_kw"`
	DischargePowerKW float64 `json:"discharge_power_kw"`
	InitialSOCKWh    float64 `json:"initial_soc_kwh"`
	FinalSOCKWh      float64 `json:"final_soc_kwh"`
}

type DebugTotals struct {
	ImportOriginal float64 `json:"import_original"`
	ExportOriginal float64 `json:"export_original"`
	ImportNew      float64 `json:"import_new"`
	ExportNew      float64 `json:"export_new"`
	Charged        float64 `json:"charged"`
	Discharged     float64 `json:"discharged"`
}

type DebugPeaks struct {
	MaxMonthPeakOriginal float64 `json:"max_month_peak_original"`
	MaxMonthPeakNew      float64 `json:"max_month_peak_new"`
}

func newDebug(ds Dataset, in model.AnalysisInputs, sim *backtest.Result, capacity analysis.CapacityComparison, money analysis.Savings) *Debug {
	return &Debug{
		Dataset: DebugDataset{
			Quarters: ds.Quarters,
			From:     ds.From,
			To:       ds.To,
			Months:   capacity.MonthsCount(),
		},
		Battery: DebugBattery{
			CapacityKWh:      in.Battery.CapacityKWh,
			ReservePct:       in.Battery.ReservePct,
			ReserveKWh:       sim.ReserveKWh,
			ChargePowerKW:    in.Battery.ChargePowerKW,
			DischargePowerKW: in.Battery.DischargePowerKW,
			InitialSOCKWh:    sim.InitialSOC,
			FinalSOCKWh:      sim.FinalSOC,
		},
		Prices: in.Prices,
		Totals: DebugTotals{
			ImportOriginal: sim.OriginalImportKWh,
			ExportOriginal: sim.OriginalExportKWh,
			ImportNew:      sim.NewImportKWh,
			ExportNew:      sim.NewExportKWh,
			Charged:        sim.ChargedKWh,
			Discharged:     sim.DischargedKWh,
		},
		Money: money,
		PeaksKW: DebugPeaks{
			MaxMonthPeakOriginal: capacity.Original.MaxMonthPeakKW,
			MaxMonthPeakNew:      capacity.New.MaxMonthPeakKW,
		},
		Investment: in.Investment,
	}
}
