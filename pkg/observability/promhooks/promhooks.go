// Package promhooks implements the observability hooks with Prometheus
// collectors.
package promhooks

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/rfdraw/pkg/errors"
	"github.com/matzehuels/rfdraw/pkg/observability"
)

const namespace = "rfdraw"

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.ServerHooks   = (*Hooks)(nil)
)

// Hooks records pipeline and server events as Prometheus metrics.
type Hooks struct {
	stageDuration *prometheus.HistogramVec
	stageTotal    *prometheus.CounterVec
	rows          *prometheus.CounterVec
	inflight      prometheus.Gauge

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		// Labels: stage (read, compile, render), status (ok or an error code)
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"stage", "status"}),
		stageTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_total",
			Help:      "Total pipeline stage runs by outcome",
		}, []string{"stage", "status"}),
		// Labels: kind (node, edge), outcome (emitted, skipped)
		rows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "compile",
			Name:      "rows_total",
			Help:      "Rows seen by the compiler",
		}, []string{"kind", "outcome"}),
		inflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "inflight",
			Help:      "Renderer processes currently running",
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func status(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "error"
}

func (h *Hooks) observe(stage string, d time.Duration, err error) {
	s := status(err)
	h.stageDuration.WithLabelValues(stage, s).Observe(d.Seconds())
	h.stageTotal.WithLabelValues(stage, s).Inc()
}

func (h *Hooks) OnReadStart(context.Context, string) {}

func (h *Hooks) OnReadComplete(_ context.Context, _ string, _, _ int, d time.Duration, err error) {
	h.observe("read", d, err)
}

func (h *Hooks) OnCompileComplete(_ context.Context, nodes, edges, skippedNodes, skippedEdges int, d time.Duration) {
	h.observe("compile", d, nil)
	h.rows.WithLabelValues("node", "emitted").Add(float64(nodes))
	h.rows.WithLabelValues("edge", "emitted").Add(float64(edges))
	h.rows.WithLabelValues("node", "skipped").Add(float64(skippedNodes))
	h.rows.WithLabelValues("edge", "skipped").Add(float64(skippedEdges))
}

func (h *Hooks) OnRenderStart(context.Context, string) {
	h.inflight.Inc()
}

func (h *Hooks) OnRenderComplete(_ context.Context, _ string, d time.Duration, err error) {
	h.inflight.Dec()
	h.observe("render", d, err)
}

func (h *Hooks) OnRequest(context.Context, string, string) {}

func (h *Hooks) OnResponse(_ context.Context, method, route string, statusCode int, d time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	h.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
