package handlers

import (
	"net/http"

	"battery-savings/internal/api/models"
	"battery-savings/internal/config"
	"battery-savings/internal/log"

	"github.com/gin-gonic/gin"
)

// BatteryHandler handles battery-related requests
type BatteryHandler struct {
	batteryDir string
}

// NewBatteryHandler creates a new battery handler
func NewBatteryHandler(batteryDir string) *BatteryHandler {
	return &BatteryHandler{batteryDir: batteryDir}
}

// ListBatteries handles GET /api/v1/batteries
func (h *BatteryHandler) ListBatteries(c *gin.Context) {
	logger := log.Ctx(c.Request.Context())
	batteries := []models.BatteryInfo{}

	presets, skipped, err := config.ListPresets(h.batteryDir)
	if err != nil {
		// A missing preset directory is not fatal: callers can still send
		// explicit battery parameters.
		logger.Warn("failed to read battery directory", "dir", h.batteryDir, "error", err)
		c.JSON(http.StatusOK, gin.H{"batteries": batteries})
		return
	}
	for name, err := range skipped {
		logger.Warn("skipping invalid battery file", "file", name, "error", err)
	}

	for _, p := range presets {
		batteries = append(batteries, models.BatteryInfo{
			ID:   p.ID,
			Name: p.Battery.Name,
			Specs: models.BatterySpecs{
				CapacityKWh:      p.Battery.CapacityKWh,
				ReservePct:       p.Battery.ReservePct,
				ChargePowerKW:    p.Battery.ChargePowerKW,
				DischargePowerKW: p.Battery.DischargePowerKW,
				Investment:       p.Battery.Investment,
			},
		})
	}
	logger.Debug("listed battery presets", "count", len(batteries))

	c.JSON(http.StatusOK, gin.H{"batteries": batteries})
}
