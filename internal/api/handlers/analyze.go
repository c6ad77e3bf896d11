package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"battery-savings/internal/api/models"
	"battery-savings/internal/config"
	"battery-savings/internal/data"
	"battery-savings/internal/log"
	"battery-savings/internal/model"
	"battery-savings/internal/report"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AnalyzeHandler runs the savings analysis on a cached upload
type AnalyzeHandler struct {
	cache      *data.UploadCache
	batteryDir string
}

// NewAnalyzeHandler creates a new analyze handler. Presets named in requests
// are looked up in batteryDir.
func NewAnalyzeHandler(cache *data.UploadCache, batteryDir string) *AnalyzeHandler {
	return &AnalyzeHandler{cache: cache, batteryDir: batteryDir}
}

// Analyze handles POST /api/v1/uploads/:id/analyze
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	ctx := c.Request.Context()

	u, err := h.cache.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "UPLOAD_NOT_FOUND", err.Error(), nil)
		return
	}

	req := models.AnalyzeRequest{Prices: defaultPrices}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	in, err := h.buildInputs(req)
	if err != nil {
		invalidConfig(c, err)
		return
	}

	rep, err := report.Analyze(u.Series, u.Skipped, in)
	if err != nil {
		invalidConfig(c, err)
		return
	}
	log.Ctx(ctx).Info("analysis finished",
		"upload_id", u.ID,
		"status", rep.Status,
		"quarters", rep.Dataset.Quarters,
	)

	if strings.EqualFold(c.Query("format"), "xlsx") {
		b, err := report.BuildXLSX(rep)
		if err != nil {
			abortWithError(c, http.StatusUnprocessableEntity, "EXPORT_ERROR", err.Error(), nil)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "battery-savings-"+u.ID+".xlsx"))
		c.Data(http.StatusOK, xlsxContentType, b)
		return
	}

	resp := models.AnalyzeResponse{UploadID: u.ID, Report: rep}
	if req.Options.IncludeLedger {
		resp.Ledger = rep.Ledger
	}
	c.JSON(http.StatusOK, resp)
}

// buildInputs layers the request's battery fields over the named preset, and
// both over the defaults.
func (h *AnalyzeHandler) buildInputs(req models.AnalyzeRequest) (model.AnalysisInputs, error) {
	battery := defaultBattery
	// battery_file is a preset ID, always resolved inside the preset directory
	if req.BatteryFile != "" {
		preset, err := config.LoadPreset(h.batteryDir, req.BatteryFile)
		if err != nil {
			return model.AnalysisInputs{}, err
		}
		battery = config.MergeBattery(battery, preset)
	}
	cfg := &config.Config{
		BatteryFile: req.BatteryFile,
		Battery:     overlayBattery(battery, req.Battery),
		Prices:      req.Prices,
	}
	return cfg.Inputs(), nil
}

func invalidConfig(c *gin.Context, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		abortWithError(c, http.StatusBadRequest, "INVALID_CONFIG", verr.Message, map[string]interface{}{
			"field": verr.Field,
		})
	case errors.Is(err, config.ErrPresetNotFound):
		abortWithError(c, http.StatusBadRequest, "INVALID_CONFIG", err.Error(), map[string]interface{}{
			"field": "battery_file",
		})
	default:
		abortWithError(c, http.StatusInternalServerError, "ANALYSIS_ERROR", err.Error(), nil)
	}
}
