package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Storage engine metrics
	StorageTxnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helixdb_storage_txns_total",
			Help: "Total number of storage transactions by kind and outcome",
		},
		[]string{"kind", "outcome"}, // kind: read|write, outcome: committed|rolled_back
	)

	StorageTxnDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "helixdb_storage_txn_duration_seconds",
			Help:    "Storage transaction duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	NodesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "helixdb_nodes_total",
			Help: "Total number of nodes currently stored",
		},
	)

	EdgesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "helixdb_edges_total",
			Help: "Total number of edges currently stored",
		},
	)

	VectorsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "helixdb_vectors_total",
			Help: "Total number of vectors currently stored by label",
		},
		[]string{"label"},
	)

	// HNSW metrics
	HNSWInsertDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "helixdb_hnsw_insert_duration_seconds",
			Help:    "Time taken to insert a vector into the HNSW index",
			Buckets: prometheus.DefBuckets,
		},
	)

	HNSWSearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "helixdb_hnsw_search_duration_seconds",
			Help:    "Time taken to run an HNSW nearest-neighbor search",
			Buckets: prometheus.DefBuckets,
		},
	)

	HNSWSearchCandidatesVisited = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "helixdb_hnsw_search_candidates_visited",
			Help:    "Number of candidate nodes visited per HNSW search",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500},
		},
	)

	// BM25 metrics
	BM25QueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "helixdb_bm25_query_duration_seconds",
			Help:    "Time taken to evaluate a BM25 full-text query",
			Buckets: prometheus.DefBuckets,
		},
	)

	BM25PostingsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "helixdb_bm25_postings_total",
			Help: "Total number of distinct terms in the BM25 postings index",
		},
	)

	// Traversal / query execution metrics
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "helixdb_query_duration_seconds",
			Help:    "Compiled query handler execution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	QueryErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helixdb_query_errors_total",
			Help: "Total number of query handler invocations that returned an error",
		},
		[]string{"query", "kind"},
	)

	// Gateway metrics
	GatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helixdb_gateway_requests_total",
			Help: "Total number of gateway requests by route and status",
		},
		[]string{"route", "status"},
	)

	GatewayRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "helixdb_gateway_request_duration_seconds",
			Help:    "Gateway request duration in seconds, end to end",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	GatewayQueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "helixdb_gateway_queue_depth",
			Help: "Current depth of the gateway worker queues",
		},
		[]string{"queue"}, // queue: read|write
	)

	GatewayWorkersBusy = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "helixdb_gateway_workers_busy",
			Help: "Number of pinned worker goroutines currently executing a request",
		},
	)

	MCPConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "helixdb_mcp_connections_active",
			Help: "Number of active MCP tool-call connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		StorageTxnsTotal,
		StorageTxnDuration,
		NodesTotal,
		EdgesTotal,
		VectorsTotal,
		HNSWInsertDuration,
		HNSWSearchDuration,
		HNSWSearchCandidatesVisited,
		BM25QueryDuration,
		BM25PostingsTotal,
		QueryDuration,
		QueryErrorsTotal,
		GatewayRequestsTotal,
		GatewayRequestDuration,
		GatewayQueueDepth,
		GatewayWorkersBusy,
		MCPConnectionsActive,
	)
}

// Handler returns the Prometheus HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations and observing them into a
// histogram once the operation completes.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer, starting now.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the elapsed duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
