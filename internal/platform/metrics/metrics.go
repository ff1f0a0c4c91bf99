// Package metrics defines the Prometheus metrics of the library services. It
// is the single source of truth for metric names, labels and help strings.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "library"

// Replication results.
const (
	ResultDelivered = "delivered"
	ResultFailed    = "failed"
	ResultDropped   = "dropped"
)

// Borrow results.
const (
	BorrowSucceeded   = "succeeded"
	BorrowUnavailable = "unavailable"
	BorrowNotFound    = "not_found"
	BorrowInvalid     = "invalid"
	BorrowError       = "error"
)

// Metrics holds every collector of a process. Build it once with New and pass
// it to the components that record into it.
type Metrics struct {
	registry *prometheus.Registry

	// ReplicationEventsTotal counts outbound replication events.
	// Labels:
	//   - kind: event kind, e.g. "book.upserted"
	//   - result: "delivered", "failed" or "dropped"
	ReplicationEventsTotal *prometheus.CounterVec

	// ReplicationDuration measures one delivery attempt to the peer.
	ReplicationDuration *prometheus.HistogramVec

	// ReplicationQueueDepth tracks pending events per notifier worker.
	ReplicationQueueDepth *prometheus.GaugeVec

	// BorrowsTotal counts borrow attempts by outcome.
	BorrowsTotal *prometheus.CounterVec

	// IngestedTotal counts replication payloads applied on the receiving side.
	// Labels:
	//   - kind: event kind
	IngestedTotal *prometheus.CounterVec

	// HTTPRequestsTotal and HTTPRequestDuration instrument the gin engine.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ReplicationEventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replication_events_total",
			Help:      "Total number of replication events, by kind and result.",
		}, []string{"kind", "result"}),
		ReplicationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "replication_duration_seconds",
			Help:      "Duration of a single replication delivery attempt.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		ReplicationQueueDepth: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "replication_queue_depth",
			Help:      "Current number of events pending in each notifier worker channel.",
		}, []string{"worker_id"}),
		BorrowsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "borrows_total",
			Help:      "Total number of borrow attempts, by result.",
		}, []string{"result"}),
		IngestedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replication_ingested_total",
			Help:      "Total number of replication payloads applied, by kind.",
		}, []string{"kind"}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests, by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
