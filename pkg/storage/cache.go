package storage

import (
	"container/list"
	"sync"

	"github.com/cuemby/helixdb/pkg/types"
)

// nodeDecodeCache is a small LRU in front of node decoding, fronting the
// degree scan in GetNodesByCardinality: that operation re-decodes the same
// hot nodes repeatedly while walking adjacency, and decode cost (not disk
// I/O, since everything is memory-mapped) dominates a one-shot scan.
type nodeDecodeCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[types.ID]*list.Element
}

type cacheEntry struct {
	id   types.ID
	node *types.Node
}

func newNodeDecodeCache(capacity int) *nodeDecodeCache {
	return &nodeDecodeCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[types.ID]*list.Element),
	}
}

func (c *nodeDecodeCache) get(id types.ID) (*types.Node, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[id]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*cacheEntry).node, true
}

func (c *nodeDecodeCache) put(id types.ID, n *types.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[id]; ok {
		c.ll.MoveToFront(el)
		el.Value.(*cacheEntry).node = n
		return
	}
	el := c.ll.PushFront(&cacheEntry{id: id, node: n})
	c.items[id] = el
	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).id)
		}
	}
}
