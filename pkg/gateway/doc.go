// Package gateway is the request gateway & worker pool of spec.md §4.H: an
// HTTP front door (github.com/go-chi/chi/v5, following the router shape
// _examples/other_examples' vecdex cmd/vecdex main.go wires up) that
// dispatches each request onto a pinned-thread worker pool, modeled on
// cuemby-warren's pkg/worker.Worker goroutine/stopCh/select lifecycle, and
// an MCP connection table holding resumable traversal.Seq snapshots built
// on Go's iter.Pull.
package gateway
