package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var homeBattery = BatteryParams{
	CapacityKWh:      10,
	ReservePct:       20,
	ChargePowerKW:    5,
	DischargePowerKW: 5,
}

func TestBatteryParams_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, homeBattery.Validate())
	})

	tests := []struct {
		name  string
		mod   func(p *BatteryParams)
		field string
	}{
		{"zero capacity", func(p *BatteryParams) { p.CapacityKWh = 0 }, "capacity_kwh"},
		{"negative capacity", func(p *BatteryParams) { p.CapacityKWh = -1 }, "capacity_kwh"},
		{"NaN capacity", func(p *BatteryParams) { p.CapacityKWh = math.NaN() }, "capacity_kwh"},
		{"infinite capacity", func(p *BatteryParams) { p.CapacityKWh = math.Inf(1) }, "capacity_kwh"},
		{"infinite charge power", func(p *BatteryParams) { p.ChargePowerKW = math.Inf(1) }, "charge_power_kw"},
		{"zero charge power", func(p *BatteryParams) { p.ChargePowerKW = 0 }, "charge_power_kw"},
		{"zero discharge power", func(p *BatteryParams) { p.DischargePowerKW = 0 }, "discharge_power_kw"},
		{"negative reserve", func(p *BatteryParams) { p.ReservePct = -0.1 }, "reserve_pct"},
		{"reserve 100", func(p *BatteryParams) { p.ReservePct = 100 }, "reserve_pct"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := homeBattery
			tt.mod(&p)
			err := p.Validate()
			require.Error(t, err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	t.Run("reserve just below 100", func(t *testing.T) {
		p := homeBattery
		p.ReservePct = 99.9
		assert.NoError(t, p.Validate())
	})
}

func TestNewBattery_StartsAtMidpoint(t *testing.T) {
	b, err := NewBattery(homeBattery)
	require.NoError(t, err)
	// reserve 2 kWh, usable 8 kWh => 2 + 4
	assert.InDelta(t, 2.0, homeBattery.ReserveKWh(), 1e-9)
	assert.InDelta(t, 6.0, b.State.SOCKWh, 1e-9)

	_, err = NewBattery(BatteryParams{})
	assert.Error(t, err)
}

func TestBattery_ChargeOnExport(t *testing.T) {
	b, err := NewBattery(homeBattery)
	require.NoError(t, err)

	// min(2, 5*0.25, 10-6) = 1.25
	r := b.ApplyQuarter(0, 2)
	assert.InDelta(t, 1.25, r.ChargeKWh, 1e-9)
	assert.InDelta(t, 0.75, r.NewExportKWh, 1e-9)
	assert.InDelta(t, 0, r.NewImportKWh, 1e-9)
	assert.InDelta(t, 6.0, r.SOCStartKWh, 1e-9)
	assert.InDelta(t, 7.25, r.SOCEndKWh, 1e-9)
	assert.InDelta(t, 7.25, b.State.SOCKWh, 1e-9)
}

func TestBattery_ExportTakesPriorityOverImport(t *testing.T) {
	b, err := NewBattery(homeBattery)
	require.NoError(t, err)

	r := b.ApplyQuarter(0.5, 0.2)
	assert.InDelta(t, 0.2, r.ChargeKWh, 1e-9)
	assert.InDelta(t, 0, r.DischargeKWh, 1e-9)
	assert.InDelta(t, 0.5, r.NewImportKWh, 1e-9, "import untouched in a surplus quarter")
	assert.InDelta(t, 0, r.NewExportKWh, 1e-9)
}

func TestBattery_DischargeOnImport(t *testing.T) {
	b, err := NewBattery(homeBattery)
	require.NoError(t, err)

	r := b.ApplyQuarter(0.8, 0)
	assert.InDelta(t, 0.8, r.DischargeKWh, 1e-9)
	assert.InDelta(t, 0, r.NewImportKWh, 1e-9)
	assert.InDelta(t, 5.2, b.State.SOCKWh, 1e-9)

	// power-limited
	r = b.ApplyQuarter(3, 0)
	assert.InDelta(t, 1.25, r.DischargeKWh, 1e-9)
	assert.InDelta(t, 1.75, r.NewImportKWh, 1e-9)
}

func TestBattery_ReserveFloor(t *testing.T) {
	b, err := NewBattery(homeBattery)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		b.ApplyQuarter(2, 0)
	}
	assert.InDelta(t, 2.0, b.State.SOCKWh, 1e-9)

	r := b.ApplyQuarter(1, 0)
	assert.InDelta(t, 0, r.DischargeKWh, 1e-9)
	assert.InDelta(t, 1, r.NewImportKWh, 1e-9)
}

func TestBattery_CapacityCeiling(t *testing.T) {
	b, err := NewBattery(homeBattery)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		b.ApplyQuarter(0, 2)
	}
	assert.InDelta(t, 10.0, b.State.SOCKWh, 1e-9)

	r := b.ApplyQuarter(0, 1)
	assert.InDelta(t, 0, r.ChargeKWh, 1e-9)
	assert.InDelta(t, 1, r.NewExportKWh, 1e-9)
}

func TestBattery_NegativeReadingsClamped(t *testing.T) {
	b, err := NewBattery(homeBattery)
	require.NoError(t, err)

	r := b.ApplyQuarter(-1, -2)
	assert.Equal(t, 0.0, r.ImportKWh)
	assert.Equal(t, 0.0, r.ExportKWh)
	assert.Equal(t, 0.0, r.NewImportKWh)
	assert.Equal(t, 0.0, r.NewExportKWh)
	assert.InDelta(t, 6.0, b.State.SOCKWh, 1e-9)
}

func TestBattery_InvariantsHoldOverMixedSeries(t *testing.T) {
	params := []BatteryParams{
		homeBattery,
		{CapacityKWh: 5, ReservePct: 0, ChargePowerKW: 10, DischargePowerKW: 2},
		{CapacityKWh: 20, ReservePct: 95, ChargePowerKW: 1, DischargePowerKW: 30},
	}
	readings := [][2]float64{{1.2, 0}, {0, 3.1}, {0, 0}, {4, 0}, {0, 0.1}, {-0.3, 2}, {2.5, 0}, {0, 9}, {7, 0}}

	for _, p := range params {
		b, err := NewBattery(p)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			for _, rd := range readings {
				r := b.ApplyQuarter(rd[0], rd[1])
				assert.GreaterOrEqual(t, r.SOCEndKWh, p.ReserveKWh())
				assert.LessOrEqual(t, r.SOCEndKWh, p.CapacityKWh)
				assert.GreaterOrEqual(t, r.NewImportKWh, 0.0)
				assert.GreaterOrEqual(t, r.NewExportKWh, 0.0)
				assert.LessOrEqual(t, r.NewImportKWh, r.ImportKWh)
				assert.LessOrEqual(t, r.NewExportKWh, r.ExportKWh)
			}
		}
	}
}

func TestActionFromEnergy(t *testing.T) {
	assert.Equal(t, ActionCharging, ActionFromEnergy(0.1, 0))
	assert.Equal(t, ActionDischarging, ActionFromEnergy(0, 0.1))
	assert.Equal(t, ActionIdle, ActionFromEnergy(0, 0))
}

func TestNullFloat64(t *testing.T) {
	b, err := Finite(2.5).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "2.5", string(b))

	b, err = Finite(math.Inf(1)).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	assert.False(t, Finite(math.NaN()).Valid)
	assert.Equal(t, "—", NullFloat64{}.Format(1))
	assert.Equal(t, "4.2", Finite(4.2).Format(1))

	var n NullFloat64
	require.NoError(t, n.UnmarshalJSON([]byte("null")))
	assert.False(t, n.Valid)
	require.NoError(t, n.UnmarshalJSON([]byte("3")))
	assert.Equal(t, NullFloat64{Float64: 3, Valid: true}, n)
}
