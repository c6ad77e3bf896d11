package analysis

import (
	"testing"

	"battery-savings/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestComputeSavings(t *testing.T) {
	prices := model.Prices{ImportPerKWh: 0.30, ExportPerKWh: 0.05, CapacityRatePerKWYear: 50}
	orig := EnergyTotals{ImportKWh: 4000, ExportKWh: 3000}
	next := EnergyTotals{ImportKWh: 2500, ExportKWh: 1400}
	capacity := CapacityComparison{
		Original: CapacityTariff{AnnualCost: 300},
		New:      CapacityTariff{AnnualCost: 180},
	}

	s := ComputeSavings(orig, next, capacity, prices, 4600)

	assert.InDelta(t, 4000*0.30-3000*0.05, s.EnergyCostOriginal, 1e-9)
	assert.InDelta(t, 2500*0.30-1400*0.05, s.EnergyCostNew, 1e-9)
	assert.InDelta(t, 1050-680, s.EnergySaving, 1e-9)
	assert.InDelta(t, 120, s.CapacitySaving, 1e-9)
	assert.InDelta(t, 490, s.TotalSaving, 1e-9)
	assert.True(t, s.PaybackYears.Valid)
	assert.InDelta(t, 4600.0/490, s.PaybackYears.Float64, 1e-9)
}

func TestPayback(t *testing.T) {
	tests := []struct {
		name       string
		investment float64
		saving     float64
		valid      bool
		want       float64
	}{
		{"positive", 5000, 500, true, 10},
		{"zero investment", 0, 500, false, 0},
		{"negative investment", -10, 500, false, 0},
		{"zero saving", 5000, 0, false, 0},
		{"negative saving", 5000, -20, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Payback(tt.investment, tt.saving)
			assert.Equal(t, tt.valid, got.Valid)
			assert.InDelta(t, tt.want, got.Float64, 1e-9)
		})
	}
}
