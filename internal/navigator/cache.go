package navigator

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lgbarn/pgntree/internal/chess"
	"github.com/lgbarn/pgntree/internal/rules"
	"github.com/lgbarn/pgntree/internal/stats"
)

// DefaultCacheSize is the number of node positions kept per navigator.
const DefaultCacheSize = 256

// positionCache maps nodes to the position after their move. Positions depend
// only on the moves from the root, so entries stay valid until the node
// leaves the tree.
type positionCache struct {
	cache *lru.Cache[*chess.Node, rules.Position]
	stats stats.Collector
}

func newPositionCache(size int, st stats.Collector) (*positionCache, error) {
	c, err := lru.New[*chess.Node, rules.Position](size)
	if err != nil {
		return nil, err
	}
	return &positionCache{cache: c, stats: st}, nil
}

// get looks a node up and records the hit or miss.
func (c *positionCache) get(n *chess.Node) (rules.Position, bool) {
	pos, ok := c.cache.Get(n)
	if ok {
		c.stats.IncCounter(stats.MetricCacheHits, 1)
	} else {
		c.stats.IncCounter(stats.MetricCacheMisses, 1)
	}
	return pos, ok
}

// peek looks a node up without touching recency or metrics.
func (c *positionCache) peek(n *chess.Node) (rules.Position, bool) {
	return c.cache.Peek(n)
}

func (c *positionCache) add(n *chess.Node, pos rules.Position) {
	c.cache.Add(n, pos)
}

// purge drops every node of subtree.
func (c *positionCache) purge(subtree *chess.Node) int {
	removed := 0
	subtree.Walk(func(n *chess.Node) bool {
		if c.cache.Remove(n) {
			removed++
		}
		return true
	})
	return removed
}

func (c *positionCache) len() int {
	return c.cache.Len()
}
