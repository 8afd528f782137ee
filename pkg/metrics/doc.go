/*
Package metrics defines and registers HelixDB's Prometheus metrics and
exposes them over /metrics via promhttp, plus simple JSON health/readiness
endpoints.

Metric families:

  - Storage: helixdb_storage_txns_total, helixdb_storage_txn_duration_seconds,
    helixdb_nodes_total, helixdb_edges_total, helixdb_vectors_total.
  - HNSW: helixdb_hnsw_insert_duration_seconds,
    helixdb_hnsw_search_duration_seconds, helixdb_hnsw_search_candidates_visited.
  - BM25: helixdb_bm25_query_duration_seconds, helixdb_bm25_postings_total.
  - Query execution: helixdb_query_duration_seconds{query},
    helixdb_query_errors_total{query,kind}.
  - Gateway: helixdb_gateway_requests_total{route,status},
    helixdb_gateway_request_duration_seconds{route},
    helixdb_gateway_queue_depth{queue}, helixdb_gateway_workers_busy,
    helixdb_mcp_connections_active.

The storage transaction counter and timer are registered here, but nothing
in pkg/storage observes them; a Collector samples the gauge-shaped totals
(node/edge/vector/term counts) on a 15-second tick since those require a
bucket-wide stat rather than a per-call increment:

	c := metrics.NewCollector(engine)
	c.Start()
	defer c.Stop()

HealthHandler, ReadyHandler, and LivenessHandler serve /health, /ready, and
/live respectively; RegisterComponent/UpdateComponent let the storage engine
and gateway report their own health, and readiness requires "storage" and
"gateway" to both be registered healthy.
*/
package metrics
