package tilecache

import (
	"fmt"
	"time"

	"github.com/tdoa-platform/core/internal/cache"
)

// Index tracks the last-served time of recently accessed tiles. The tile
// server records each hit here; Store.Sweep does not consult it and ages
// tiles out by file modification time.
type Index struct {
	lru *cache.LRUCache
}

// NewIndex builds an Index holding up to capacity entries with no
// expiry beyond LRU eviction.
func NewIndex(capacity int) *Index {
	return &Index{lru: cache.NewLRUCache(capacity, 0)}
}

func indexKey(z, x, y int) string {
	return fmt.Sprintf("%d/%d/%d", z, x, y)
}

// Touch records that a tile was served at the given time.
func (i *Index) Touch(z, x, y int, at time.Time) {
	i.lru.Add(indexKey(z, x, y), at)
}

// LastServed returns the last time a tile was served, if it is still
// tracked in the index.
func (i *Index) LastServed(z, x, y int) (time.Time, bool) {
	return i.lru.Get(indexKey(z, x, y))
}

// Len returns the number of tracked entries.
func (i *Index) Len() int {
	return i.lru.Len()
}
