package analysis

import (
	"battery-savings/internal/model"
)

// EnergyTotals are the yearly energy flows of one scenario, in kWh.
type EnergyTotals struct {
	ImportKWh float64
	ExportKWh float64
}

// EnergyCost is what the flows cost: import billed, export credited.
func (e EnergyTotals) EnergyCost(p model.Prices) float64 {
	return e.ImportKWh*p.ImportPerKWh - e.ExportKWh*p.ExportPerKWh
}

// Savings is the money side of adding a battery.
type Savings struct {
	EnergyCostOriginal float64 `json:"energy_cost_original"`
	EnergyCostNew      float64 `json:"energy_cost_new"`
	EnergySaving       float64 `json:"energy_saving"`

	CapacityCostOriginal float64 `json:"capacity_cost_original"`
	CapacityCostNew      float64 `json:"capacity_cost_new"`
	CapacitySaving       float64 `json:"capacity_saving"`

	TotalSaving  float64           `json:"total_saving"`
	PaybackYears model.NullFloat64 `json:"payback_years"`
}

// ComputeSavings combines the energy and capacity deltas.
func ComputeSavings(original, withBattery EnergyTotals, capacity CapacityComparison, prices model.Prices, investment float64) Savings {
	s := Savings{
		EnergyCostOriginal:   original.EnergyCost(prices),
		EnergyCostNew:        withBattery.EnergyCost(prices),
		CapacityCostOriginal: capacity.Original.AnnualCost,
		CapacityCostNew:      capacity.New.AnnualCost,
	}
	s.EnergySaving = s.EnergyCostOriginal - s.EnergyCostNew
	s.CapacitySaving = s.CapacityCostOriginal - s.CapacityCostNew
	s.TotalSaving = s.EnergySaving + s.CapacitySaving
	s.PaybackYears = Payback(investment, s.TotalSaving)
	return s
}

// Payback is the number of years the saving needs to repay the investment.
// It is unavailable unless both are positive.
func Payback(investment, yearlySaving float64) model.NullFloat64 {
	if investment > 0 && yearlySaving > 0 {
		return model.Finite(investment / yearlySaving)
	}
	return model.NullFloat64{}
}
