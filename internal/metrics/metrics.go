// Package metrics exports boardview's observability hooks as Prometheus
// metrics.
//
// A [Registry] implements every hook interface of pkg/observability.
// [Registry.Install] registers it globally; [Registry.Handler] serves the
// collected metrics for GET /metrics.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/boardview/pkg/observability"
)

const namespace = "boardview"

// Registry holds all metrics of one process.
type Registry struct {
	// Pipeline
	LoadsTotal      *prometheus.CounterVec
	LoadDuration    prometheus.Histogram
	ModulesLoaded   prometheus.Gauge
	RendersTotal    *prometheus.CounterVec
	RenderDuration  *prometheus.HistogramVec
	RenderSizeBytes *prometheus.HistogramVec

	// Layout and routing
	LayoutDuration     prometheus.Histogram
	VisibleModules     prometheus.Histogram
	RouteDuration      prometheus.Histogram
	EdgesRouted        prometheus.Histogram
	ConnectionsDropped *prometheus.CounterVec

	// Interaction
	InteractionsTotal *prometheus.CounterVec
	ZoomRejected      prometheus.Counter
	ViewsActive       prometheus.Gauge

	// Cache
	CacheRequests *prometheus.CounterVec
	CacheSetBytes prometheus.Counter

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric registered, plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r := &Registry{registry: reg}
	f := promauto.With(reg)

	r.LoadsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "loads_total",
		Help: "Module tree loads by status",
	}, []string{"status"})
	r.LoadDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "load_duration_seconds",
		Help: "Module tree load latency in seconds", Buckets: prometheus.DefBuckets,
	})
	r.ModulesLoaded = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "modules_loaded",
		Help: "Modules in the most recently loaded tree",
	})
	r.RendersTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "renders_total",
		Help: "Rendered artifacts by format and status",
	}, []string{"format", "status"})
	r.RenderDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "render_duration_seconds",
		Help: "Render latency in seconds", Buckets: prometheus.DefBuckets,
	}, []string{"format"})
	r.RenderSizeBytes = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "render_size_bytes",
		Help:    "Rendered artifact size in bytes",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	}, []string{"format"})

	r.LayoutDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "layout_duration_seconds",
		Help:    "Layout pass latency in seconds",
		Buckets: prometheus.ExponentialBuckets(1e-5, 4, 8),
	})
	r.VisibleModules = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "layout_visible_modules",
		Help:    "Visible modules per layout pass",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
	r.RouteDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "route_duration_seconds",
		Help:    "Routing pass latency in seconds",
		Buckets: prometheus.ExponentialBuckets(1e-5, 4, 8),
	})
	r.EdgesRouted = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "route_edges",
		Help:    "Aggregated edges per routing pass",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
	r.ConnectionsDropped = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "route_connections_dropped_total",
		Help: "Declared connections left out of routing passes by reason",
	}, []string{"reason"})

	r.InteractionsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "interactions_total",
		Help: "Controller operations by op and whether they changed the view",
	}, []string{"op", "changed"})
	r.ZoomRejected = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "zoom_rejected_total",
		Help: "Zoom requests refused at the zoom bounds",
	})
	r.ViewsActive = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "views_active",
		Help: "Views held by the HTTP server",
	})

	r.CacheRequests = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "cache_requests_total",
		Help: "Cache lookups by result",
	}, []string{"result"})
	r.CacheSetBytes = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "cache_set_bytes_total",
		Help: "Bytes written to the cache",
	})

	r.HTTPRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})
	r.HTTPRequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "http_request_duration_seconds",
		Help: "HTTP request latency in seconds", Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	return r
}

// Install registers r for every hook category.
func (r *Registry) Install() {
	observability.SetPipelineHooks(r)
	observability.SetLayoutHooks(r)
	observability.SetInteractionHooks(r)
	observability.SetCacheHooks(r)
	observability.SetHTTPHooks(r)
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// =============================================================================
// Hook implementations
// =============================================================================

// OnLoadComplete implements observability.PipelineHooks.
func (r *Registry) OnLoadComplete(_ context.Context, _ string, modules, _ int, d time.Duration, err error) {
	r.LoadsTotal.WithLabelValues(status(err)).Inc()
	r.LoadDuration.Observe(d.Seconds())
	if err == nil {
		r.ModulesLoaded.Set(float64(modules))
	}
}

// OnRenderComplete implements observability.PipelineHooks.
func (r *Registry) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	r.RendersTotal.WithLabelValues(format, status(err)).Inc()
	r.RenderDuration.WithLabelValues(format).Observe(d.Seconds())
	if err == nil {
		r.RenderSizeBytes.WithLabelValues(format).Observe(float64(size))
	}
}

// OnLayout implements observability.LayoutHooks.
func (r *Registry) OnLayout(visible int, d time.Duration) {
	r.LayoutDuration.Observe(d.Seconds())
	r.VisibleModules.Observe(float64(visible))
}

// OnRoute implements observability.LayoutHooks.
func (r *Registry) OnRoute(edges, unresolved, selfLoops int, d time.Duration) {
	r.RouteDuration.Observe(d.Seconds())
	r.EdgesRouted.Observe(float64(edges))
	r.ConnectionsDropped.WithLabelValues("unresolved").Add(float64(unresolved))
	r.ConnectionsDropped.WithLabelValues("self_loop").Add(float64(selfLoops))
}

// OnInteraction implements observability.InteractionHooks.
func (r *Registry) OnInteraction(op string, changed bool) {
	r.InteractionsTotal.WithLabelValues(op, strconv.FormatBool(changed)).Inc()
}

// OnZoomRejected implements observability.InteractionHooks.
func (r *Registry) OnZoomRejected(float64) {
	r.ZoomRejected.Inc()
}

// OnCacheHit implements observability.CacheHooks.
func (r *Registry) OnCacheHit(context.Context, string) {
	r.CacheRequests.WithLabelValues("hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (r *Registry) OnCacheMiss(context.Context, string) {
	r.CacheRequests.WithLabelValues("miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (r *Registry) OnCacheSet(_ context.Context, _ string, size int) {
	r.CacheSetBytes.Add(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (r *Registry) OnRequest(_ context.Context, method, route string, code int, d time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// SetViews records the number of views held by the server.
func (r *Registry) SetViews(n int) {
	r.ViewsActive.Set(float64(n))
}

var (
	_ observability.PipelineHooks    = (*Registry)(nil)
	_ observability.LayoutHooks      = (*Registry)(nil)
	_ observability.InteractionHooks = (*Registry)(nil)
	_ observability.CacheHooks       = (*Registry)(nil)
	_ observability.HTTPHooks        = (*Registry)(nil)
)
