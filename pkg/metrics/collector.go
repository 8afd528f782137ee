package metrics

import "time"

// StatsSource is implemented by the storage engine. The collector depends
// only on this narrow interface rather than importing pkg/storage directly,
// so pkg/storage is free to import pkg/metrics for its own timers without a
// cycle.
type StatsSource interface {
	NodeCount() (uint64, error)
	EdgeCount() (uint64, error)
	VectorCountByLabel() (map[string]uint64, error)
	BM25TermCount() (uint64, error)
}

// Collector periodically samples gauge-shaped storage statistics that
// aren't convenient to update inline on every write (total counts require a
// bucket-wide stat, not a per-call increment).
type Collector struct {
	source StatsSource
	stopCh chan struct{}
}

// NewCollector creates a new metrics collector over the given storage engine.
func NewCollector(source StatsSource) *Collector {
	return &Collector{
		source: source,
		stopCh: make(chan struct{}),
	}
}

// Start begins collecting metrics every 15 seconds until Stop is called.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	if n, err := c.source.NodeCount(); err == nil {
		NodesTotal.Set(float64(n))
	}
	if n, err := c.source.EdgeCount(); err == nil {
		EdgesTotal.Set(float64(n))
	}
	if byLabel, err := c.source.VectorCountByLabel(); err == nil {
		for label, count := range byLabel {
			VectorsTotal.WithLabelValues(label).Set(float64(count))
		}
	}
	if n, err := c.source.BM25TermCount(); err == nil {
		BM25PostingsTotal.Set(float64(n))
	}
}
