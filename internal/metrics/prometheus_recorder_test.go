package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.ObserveCommand("assign_todo", 10*time.Millisecond, OutcomeApplied)
	r.ObserveCommand("assign_todo", 5*time.Millisecond, OutcomeConflict)
	r.ObserveCommand("assign_todo", 5*time.Millisecond, OutcomeConflict)
	r.IncStaleRetry("mark_done_todo")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.commandResults.WithLabelValues("assign_todo", OutcomeApplied)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.commandResults.WithLabelValues("assign_todo", OutcomeConflict)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.staleRetries.WithLabelValues("mark_done_todo")))
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).ObserveCommand("create_todo", time.Millisecond, OutcomeApplied)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `todoassign_command_results_total{command="create_todo",outcome="applied"} 1`)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveCommand("x", time.Second, OutcomeError)
	r.IncStaleRetry("x")
}
