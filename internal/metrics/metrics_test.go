package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveBeforeInitIsNoop(t *testing.T) {
	if analysisTotal != nil {
		t.Skip("already initialised")
	}
	assert.NotPanics(t, func() {
		ObserveAnalysis(ResultEmpty, time.Millisecond)
		ObserveUpload("csv", nil, 10, 1)
		IncExport("xlsx", nil)
	})
}

func TestCounters(t *testing.T) {
	Init()
	Init()

	before := testutil.ToFloat64(analysisTotal.WithLabelValues(ResultCompleted))
	ObserveAnalysis("", 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(analysisTotal.WithLabelValues(ResultCompleted)))

	skippedBefore := testutil.ToFloat64(uploadSkippedRows)
	ObserveUpload("csv", nil, 96, 3)
	assert.Equal(t, skippedBefore+3, testutil.ToFloat64(uploadSkippedRows))

	// an upload rejected because every row was skipped still counts its rows
	ObserveUpload("csv", errors.New("no usable quarter-hours"), 0, 5)
	assert.Equal(t, skippedBefore+8, testutil.ToFloat64(uploadSkippedRows))
	assert.GreaterOrEqual(t, testutil.ToFloat64(uploadsTotal.WithLabelValues("csv", resultError)), 1.0)

	IncExport("xlsx", nil)
	assert.GreaterOrEqual(t, testutil.ToFloat64(exportTotal.WithLabelValues("xlsx", resultSuccess)), 1.0)
}

func TestHandlerServesMetrics(t *testing.T) {
	Init()
	ObserveAnalysis(ResultCompleted, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "battery_savings_analysis_total")
}
