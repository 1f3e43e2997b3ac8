package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	commandDuration *prom.HistogramVec
	commandResults  *prom.CounterVec
	staleRetries    *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the command metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	pr := &PrometheusRecorder{
		commandDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "todoassign",
			Name:      "command_duration_seconds",
			Help:      "Duration of todo and user commands",
			Buckets:   prom.DefBuckets,
		}, []string{"command"}),
		commandResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "todoassign",
			Name:      "command_results_total",
			Help:      "Command result counts by outcome",
		}, []string{"command", "outcome"}),
		staleRetries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "todoassign",
			Name:      "status_stale_retries_total",
			Help:      "Lifecycle transitions retried after a concurrent status change",
		}, []string{"command"}),
	}
	reg.MustRegister(pr.commandDuration, pr.commandResults, pr.staleRetries)
	return pr
}

func (p *PrometheusRecorder) ObserveCommand(command string, d time.Duration, outcome string) {
	p.commandDuration.WithLabelValues(command).Observe(d.Seconds())
	p.commandResults.WithLabelValues(command, outcome).Inc()
}

func (p *PrometheusRecorder) IncStaleRetry(command string) {
	p.staleRetries.WithLabelValues(command).Inc()
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for the provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
