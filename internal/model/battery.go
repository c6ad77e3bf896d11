package model

import (
	"math"
)

// BatteryParams defines the physical parameters of a home battery.
// Units:
// - CapacityKWh: kWh
// - ReservePct: percent of capacity kept as a floor, 0 <= x < 100
// - ChargePowerKW, DischargePowerKW: kW
type BatteryParams struct {
	CapacityKWh      float64
	ReservePct       float64
	ChargePowerKW    float64
	DischargePowerKW float64
}

// Validate rejects parameters the simulation cannot run with.
// NaN fails every check.
func (p BatteryParams) Validate() error {
	if !(p.CapacityKWh > 0) || math.IsInf(p.CapacityKWh, 1) {
		return invalid("capacity_kwh", "capacity must be a finite number greater than 0")
	}
	if !(p.ChargePowerKW > 0) || math.IsInf(p.ChargePowerKW, 1) {
		return invalid("charge_power_kw", "charge power must be a finite number greater than 0")
	}
	if !(p.DischargePowerKW > 0) || math.IsInf(p.DischargePowerKW, 1) {
		return invalid("discharge_power_kw", "discharge power must be a finite number greater than 0")
	}
	if !(p.ReservePct >= 0 && p.ReservePct < 100) {
		return invalid("reserve_pct", "reserve must be at least 0 and below 100 percent")
	}
	return nil
}

// ReserveKWh is the energy the battery never discharges below.
func (p BatteryParams) ReserveKWh() float64 {
	return p.CapacityKWh * p.ReservePct / 100
}

// InitialSOCKWh is the midpoint of the usable range [reserve, capacity].
// There is no history before the first quarter, so the battery is assumed to
// start half full.
func (p BatteryParams) InitialSOCKWh() float64 {
	reserve := p.ReserveKWh()
	return reserve + 0.5*math.Max(0, p.CapacityKWh-reserve)
}

// BatteryState captures mutable state.
type BatteryState struct {
	// SOCKWh is the stored energy, always within [ReserveKWh, CapacityKWh].
	SOCKWh float64
}

// Battery is a convenience wrapper bundling params + state.
type Battery struct {
	Params BatteryParams
	State  BatteryState
}

// NewBattery validates params and returns a battery at its initial SoC.
func NewBattery(params BatteryParams) (*Battery, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Battery{
		Params: params,
		State:  BatteryState{SOCKWh: params.InitialSOCKWh()},
	}, nil
}

// QuarterResult captures what happened in one quarter.
type QuarterResult struct {
	ImportKWh    float64 // metered import, clamped to >= 0
	ExportKWh    float64 // metered export, clamped to >= 0
	NewImportKWh float64 // import left after discharging
	NewExportKWh float64 // export left after charging
	ChargeKWh    float64
	DischargeKWh float64
	SOCStartKWh  float64
	SOCEndKWh    float64
}

// ApplyQuarter runs the self-consumption policy for one quarter:
// - surplus (export > 0) charges the battery, never discharging in the same quarter
// - otherwise demand (import > 0) is served from the battery down to the reserve
// - otherwise the battery idles
//
// Charge and discharge are limited by power over one quarter-hour and by the
// room left between the reserve and the capacity.
func (b *Battery) ApplyQuarter(importKWh, exportKWh float64) QuarterResult {
	imp := math.Max(0, importKWh)
	exp := math.Max(0, exportKWh)

	res := QuarterResult{
		ImportKWh:    imp,
		ExportKWh:    exp,
		NewImportKWh: imp,
		NewExportKWh: exp,
		SOCStartKWh:  b.State.SOCKWh,
	}

	switch {
	case exp > 0:
		charge := math.Min(exp, math.Min(b.maxChargeKWh(), b.storableKWh()))
		res.ChargeKWh = charge
		res.NewExportKWh = exp - charge
		b.State.SOCKWh = math.Min(b.Params.CapacityKWh, b.State.SOCKWh+charge)
	case imp > 0:
		discharge := math.Min(imp, math.Min(b.maxDischargeKWh(), b.withdrawableKWh()))
		res.DischargeKWh = discharge
		res.NewImportKWh = imp - discharge
		b.State.SOCKWh = math.Max(b.Params.ReserveKWh(), b.State.SOCKWh-discharge)
	}

	res.SOCEndKWh = b.State.SOCKWh
	return res
}

func (b *Battery) maxChargeKWh() float64 {
	return b.Params.ChargePowerKW * QuarterHours
}

func (b *Battery) maxDischargeKWh() float64 {
	return b.Params.DischargePowerKW * QuarterHours
}

func (b *Battery) storableKWh() float64 {
	return math.Max(0, b.Params.CapacityKWh-b.State.SOCKWh)
}

func (b *Battery) withdrawableKWh() float64 {
	return math.Max(0, b.State.SOCKWh-b.Params.ReserveKWh())
}
