package handlers

import (
	"net/http"
	"strconv"

	"battery-savings/internal/analysis"
	"battery-savings/internal/api/models"

	"github.com/gin-gonic/gin"
)

// ParameterHandler describes the inputs of an analysis
type ParameterHandler struct{}

// NewParameterHandler creates a new parameter handler
func NewParameterHandler() *ParameterHandler {
	return &ParameterHandler{}
}

// ListParameters handles GET /api/v1/parameters
func (h *ParameterHandler) ListParameters(c *gin.Context) {
	groups := []models.ParameterGroup{
		{
			Name:        "battery",
			Description: "Home battery simulated with a self-consumption policy: surplus solar export charges it, grid import discharges it.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "capacity_kwh",
					Type:        "float",
					Unit:        "kWh",
					Description: "Usable storage capacity. Must be greater than 0.",
					Default:     defaultBattery.CapacityKWh,
				},
				{
					Name:        "reserve_pct",
					Type:        "float",
					Unit:        "%",
					Description: "Share of capacity never discharged, at least 0 and below 100. The battery starts halfway between reserve and full.",
					Default:     *defaultBattery.ReservePct,
				},
				{
					Name:        "charge_power_kw",
					Type:        "float",
					Unit:        "kW",
					Description: "Maximum charge power. Limits charging to a quarter of this value in kWh per quarter-hour.",
					Default:     defaultBattery.ChargePowerKW,
				},
				{
					Name:        "discharge_power_kw",
					Type:        "float",
					Unit:        "kW",
					Description: "Maximum discharge power.",
					Default:     defaultBattery.DischargePowerKW,
				},
				{
					Name:        "investment",
					Type:        "float",
					Unit:        "EUR",
					Description: "Purchase price of the battery, used for the payback period. 0 leaves payback unavailable.",
					Default:     defaultBattery.Investment,
				},
			},
		},
		{
			Name:        "prices",
			Description: "Tariff applied to the metered and simulated energy.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "import_per_kwh",
					Type:        "float",
					Unit:        "EUR/kWh",
					Description: "Price paid per kWh taken from the grid.",
					Default:     defaultPrices.ImportPerKWh,
				},
				{
					Name:        "export_per_kwh",
					Type:        "float",
					Unit:        "EUR/kWh",
					Description: "Compensation received per kWh fed into the grid.",
					Default:     defaultPrices.ExportPerKWh,
				},
				{
					Name:        "capacity_rate_per_kw_year",
					Type:        "float",
					Unit:        "EUR/kW/year",
					Description: "Capacity tariff on the rolling 12-month average of monthly quarter-hour peaks, which are billed at least " + formatKW(analysis.MinBillablePeakKW) + ".",
					Default:     defaultPrices.CapacityRatePerKWYear,
				},
			},
		},
		{
			Name:        "options",
			Description: "Response shaping.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "include_ledger",
					Type:        "bool",
					Description: "Return the per-quarter ledger with the report. Use ?format=xlsx on the analyze route for a workbook instead.",
					Default:     false,
				},
			},
		},
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func formatKW(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " kW"
}
