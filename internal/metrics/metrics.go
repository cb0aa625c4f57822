package metrics

import (
	"net/http"
	"time"

	"github.com/unet360/unet360/backend/pkg/audit"
	"github.com/unet360/unet360/backend/pkg/graph"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics of a server instance.
type Registry struct {
	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Graph
	GraphNodes           prometheus.Gauge
	GraphEdges           prometheus.Gauge
	GraphRecords         prometheus.Gauge
	GraphRefreshDuration prometheus.Histogram
	GraphRefreshesTotal  *prometheus.CounterVec
	GraphLastRefresh     prometheus.Gauge
	PathQueriesTotal     *prometheus.CounterVec

	// Audit
	AuditNodes   *prometheus.GaugeVec
	AuditTenants *prometheus.GaugeVec

	// Events
	GraphEventsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{registry: reg}
	r.initHTTPMetrics()
	r.initGraphMetrics()
	return r
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "unet360_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "unet360_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "unet360_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
}

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "unet360_graph_nodes",
		Help: "Number of nodes in the installed graph",
	})
	r.GraphEdges = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "unet360_graph_edges",
		Help: "Number of edges in the installed graph",
	})
	r.GraphRecords = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "unet360_graph_source_records",
		Help: "Number of node records the installed graph was built from",
	})
	r.GraphRefreshDuration = promauto.With(r.registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "unet360_graph_refresh_duration_seconds",
		Help:    "Time spent loading and building the graph",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
	r.GraphRefreshesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "unet360_graph_refreshes_total",
			Help: "Graph refresh attempts by trigger and status",
		},
		[]string{"trigger", "status"},
	)
	r.GraphLastRefresh = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "unet360_graph_last_refresh_timestamp_seconds",
		Help: "Unix time of the last installed graph",
	})
	r.PathQueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "unet360_path_queries_total",
			Help: "Shortest path queries by result",
		},
		[]string{"result"},
	)
	r.AuditNodes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "unet360_audit_nodes",
			Help: "Nodes per status in the last audit",
		},
		[]string{"status"},
	)
	r.AuditTenants = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "unet360_audit_tenants",
			Help: "Tenants per status in the last tenant audit",
		},
		[]string{"status"},
	)
	r.GraphEventsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "unet360_graph_events_total",
			Help: "Graph change events received by outcome",
		},
		[]string{"outcome"},
	)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveRefresh is installed as the navigator refresh hook.
func (r *Registry) ObserveRefresh(stats graph.RefreshStats) {
	r.GraphNodes.Set(float64(stats.Nodes))
	r.GraphEdges.Set(float64(stats.Edges))
	r.GraphRecords.Set(float64(stats.Records))
	r.GraphRefreshDuration.Observe(stats.Duration.Seconds())
	r.GraphLastRefresh.SetToCurrentTime()
}

func (r *Registry) RecordRefresh(trigger string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.GraphRefreshesTotal.WithLabelValues(trigger, status).Inc()
}

// RecordPathQuery counts a shortest path query by its outcome.
func (r *Registry) RecordPathQuery(result string) {
	r.PathQueriesTotal.WithLabelValues(result).Inc()
}

func (r *Registry) RecordAudit(statuses []audit.NodeStatus) {
	for status, n := range audit.Counts(statuses) {
		r.AuditNodes.WithLabelValues(string(status)).Set(float64(n))
	}
}

func (r *Registry) RecordTenantAudit(statuses []audit.TenantStatus) {
	for status, n := range audit.TenantCounts(statuses) {
		r.AuditTenants.WithLabelValues(string(status)).Set(float64(n))
	}
}

func (r *Registry) RecordGraphEvent(outcome string) {
	r.GraphEventsTotal.WithLabelValues(outcome).Inc()
}
