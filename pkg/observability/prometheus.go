package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus implements every hook interface with Prometheus collectors.
type Prometheus struct {
	gatherer prometheus.Gatherer

	assemblies        *prometheus.CounterVec
	assemblyDuration  prometheus.Histogram
	assemblyResources prometheus.Histogram
	phaseDuration     *prometheus.HistogramVec
	exports           *prometheus.CounterVec
	exportDuration    *prometheus.HistogramVec
	cacheRequests     *prometheus.CounterVec
	cacheBytes        *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	httpErrors        *prometheus.CounterVec
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg *prometheus.Registry) *Prometheus {
	p := &Prometheus{
		gatherer: reg,
		assemblies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lyphgraph_assemblies_total",
				Help: "Total number of model assemblies by diagnostic status",
			},
			[]string{"status"},
		),
		assemblyDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lyphgraph_assembly_duration_seconds",
				Help:    "Duration of model assemblies in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		assemblyResources: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lyphgraph_assembly_resources",
				Help:    "Number of resources in assembled models",
				Buckets: prometheus.ExponentialBuckets(10, 4, 8),
			},
		),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lyphgraph_phase_duration_seconds",
				Help:    "Duration of expansion phases in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"phase"},
		),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lyphgraph_exports_total",
				Help: "Total number of exports by format and result",
			},
			[]string{"format", "result"},
		),
		exportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lyphgraph_export_duration_seconds",
				Help:    "Duration of exports in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		),
		cacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lyphgraph_cache_requests_total",
				Help: "Total number of cache lookups by key type and result",
			},
			[]string{"key_type", "result"},
		),
		cacheBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lyphgraph_cache_written_bytes_total",
				Help: "Total number of bytes written to the cache",
			},
			[]string{"key_type"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lyphgraph_http_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"method", "route", "code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lyphgraph_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		httpErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lyphgraph_http_errors_total",
				Help: "Total number of failed HTTP requests",
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(
		p.assemblies,
		p.assemblyDuration,
		p.assemblyResources,
		p.phaseDuration,
		p.exports,
		p.exportDuration,
		p.cacheRequests,
		p.cacheBytes,
		p.httpRequests,
		p.httpDuration,
		p.httpErrors,
	)
	return p
}

// Install registers p for every hook category.
func Install(p *Prometheus) {
	SetPipelineHooks(p)
	SetCacheHooks(p)
	SetHTTPHooks(p)
}

// Handler serves the collected metrics.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

func (p *Prometheus) OnAssembleStart(context.Context, string) {}

func (p *Prometheus) OnPhase(_ context.Context, phase string, d time.Duration) {
	p.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (p *Prometheus) OnAssembleComplete(_ context.Context, _ string, resources int, status string, d time.Duration, err error) {
	if err != nil {
		status = "FAILED"
	}
	p.assemblies.WithLabelValues(status).Inc()
	p.assemblyDuration.Observe(d.Seconds())
	if err == nil {
		p.assemblyResources.Observe(float64(resources))
	}
}

func (p *Prometheus) OnExportStart(context.Context, string) {}

func (p *Prometheus) OnExportComplete(_ context.Context, format string, d time.Duration, err error) {
	p.exports.WithLabelValues(format, result(err)).Inc()
	p.exportDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *Prometheus) OnRequest(context.Context, string, string) {}

func (p *Prometheus) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (p *Prometheus) OnError(_ context.Context, method, route string, _ error) {
	p.httpErrors.WithLabelValues(method, route).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ HTTPHooks     = (*Prometheus)(nil)
)
