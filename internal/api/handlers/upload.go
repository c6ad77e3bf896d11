package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"battery-savings/internal/api/models"
	"battery-savings/internal/data"
	"battery-savings/internal/log"
	"battery-savings/internal/meter"
	"battery-savings/internal/metrics"
	"battery-savings/internal/report"

	"github.com/gin-gonic/gin"
)

// multipartOverhead is the room left above the file size limit for the
// multipart boundaries and part headers of a request.
const multipartOverhead = 64 << 10

// UploadHandler accepts meter exports and keeps their aggregated series
type UploadHandler struct {
	cache    *data.UploadCache
	location *time.Location
	maxBytes int64
}

// NewUploadHandler creates a new upload handler. Meter times are read in loc.
func NewUploadHandler(cache *data.UploadCache, loc *time.Location, maxBytes int64) *UploadHandler {
	return &UploadHandler{cache: cache, location: loc, maxBytes: maxBytes}
}

// Upload handles POST /api/v1/uploads
func (h *UploadHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	}
	fh, err := c.FormFile("file")
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		h.fileTooLarge(c)
		return
	case err != nil:
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "multipart field \"file\" is required", nil)
		return
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		h.fileTooLarge(c)
		return
	}
	format, err := data.DetectFormat(fh.Filename)
	if err != nil {
		metrics.ObserveUpload("unknown", err, 0, 0)
		abortWithError(c, http.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT", "upload a .csv or .xlsx meter export", nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	defer f.Close()

	rows, err := data.ReadMeter(f, fh.Filename)
	if err != nil {
		metrics.ObserveUpload(string(format), err, 0, 0)
		if errors.Is(err, data.ErrMissingColumn) {
			abortWithError(c, http.StatusUnprocessableEntity, "MISSING_COLUMN", err.Error(), nil)
			return
		}
		abortWithError(c, http.StatusBadRequest, "PARSE_ERROR", err.Error(), nil)
		return
	}

	series, skipped := meter.Aggregator{Location: h.location}.Aggregate(rows)
	if len(series) == 0 {
		err := errors.New("no usable quarter-hours")
		metrics.ObserveUpload(string(format), err, 0, skipped)
		abortWithError(c, http.StatusUnprocessableEntity, "NO_QUARTERS",
			"the file contains no rows with a readable date", map[string]interface{}{
				"rows":         len(rows),
				"skipped_rows": skipped,
			})
		return
	}
	metrics.ObserveUpload(string(format), nil, len(series), skipped)

	u := h.cache.Put(fh.Filename, series, skipped)
	log.Ctx(ctx).Info("upload accepted",
		"upload_id", u.ID,
		"filename", fh.Filename,
		"rows", len(rows),
		"quarters", len(series),
		"skipped_rows", skipped,
	)
	c.JSON(http.StatusCreated, uploadResponse(u))
}

func (h *UploadHandler) fileTooLarge(c *gin.Context) {
	abortWithError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
		fmt.Sprintf("file exceeds %d MB", h.maxBytes>>20), nil)
}

// GetUpload handles GET /api/v1/uploads/:id
func (h *UploadHandler) GetUpload(c *gin.Context) {
	u, err := h.cache.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "UPLOAD_NOT_FOUND", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, uploadResponse(u))
}

func uploadResponse(u *data.Upload) models.UploadResponse {
	return models.UploadResponse{
		ID:        u.ID,
		Filename:  u.Filename,
		CreatedAt: u.CreatedAt,
		ExpiresAt: u.ExpiresAt,
		Dataset:   report.Describe(u.Series, u.Skipped),
	}
}
