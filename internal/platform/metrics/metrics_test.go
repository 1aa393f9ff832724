package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MichalMitros/market-tracker/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.Transition("pending", "failed")
	m.Transition("pending", "failed")
	m.Select("retry", 3)
	m.Fetch("success")
	m.Aggregation("insufficient")

	assert.InDelta(t, 2, testutil.ToFloat64(m.Transitions.WithLabelValues("pending", "failed")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.Selected.WithLabelValues("retry")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Fetches.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Aggregations.WithLabelValues("insufficient")), 0)
}

func TestUnitNilMetrics(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.Transition("pending", "scraped")
		m.Select("new", 1)
		m.Fetch("failure")
		m.Aggregation("computed")
	}, "nil metrics should record nothing")
}

func TestUnitHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewMetrics(reg).Select("refresh", 2)

	recorder := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, recorder.Code, "should return OK status")
	assert.Contains(t, recorder.Body.String(), `tracker_selected_total{reason="refresh"} 2`, "should expose counters")
}
