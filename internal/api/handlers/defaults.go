package handlers

import (
	"battery-savings/internal/api/models"
	"battery-savings/internal/config"
	"battery-savings/internal/model"
)

// Values an analyze request falls back to. GET /api/v1/parameters lists them
// as the defaults.
var (
	defaultBattery = config.BatteryConfig{
		CapacityKWh:      10,
		ReservePct:       float64Ptr(10),
		ChargePowerKW:    5,
		DischargePowerKW: 5,
	}
	defaultPrices = model.Prices{
		ImportPerKWh:          0.30,
		ExportPerKWh:          0.04,
		CapacityRatePerKWYear: 53,
	}
)

func float64Ptr(v float64) *float64 { return &v }

// overlayBattery applies the fields a request sets, explicit zeros included,
// on top of base.
func overlayBattery(base config.BatteryConfig, req models.BatteryConfig) config.BatteryConfig {
	out := base
	if req.Name != "" {
		out.Name = req.Name
	}
	if req.CapacityKWh != nil {
		out.CapacityKWh = *req.CapacityKWh
	}
	if req.ReservePct != nil {
		out.ReservePct = float64Ptr(*req.ReservePct)
	}
	if req.ChargePowerKW != nil {
		out.ChargePowerKW = *req.ChargePowerKW
	}
	if req.DischargePowerKW != nil {
		out.DischargePowerKW = *req.DischargePowerKW
	}
	if req.Investment != nil {
		out.Investment = *req.Investment
	}
	return out
}
