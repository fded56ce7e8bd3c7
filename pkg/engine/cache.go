package engine

import (
	"sync"

	"github.com/lexvane/lexvane/pkg/store"
)

// infoCache holds the attribute rows of the most recent search batch.
// Invalidation is always wholesale: dropping everything at defined
// points removes any need for fine-grained entry locking, and readers
// only contend on one RWMutex.
type infoCache struct {
	mu sync.RWMutex
	m  map[string]store.WordInfo
}

func newInfoCache() *infoCache {
	return &infoCache{m: make(map[string]store.WordInfo)}
}

func (c *infoCache) get(word string) (store.WordInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.m[word]
	return info, ok
}

func (c *infoCache) put(info store.WordInfo) {
	c.mu.Lock()
	c.m[info.Word] = info
	c.mu.Unlock()
}

func (c *infoCache) putAll(infos []store.WordInfo) {
	c.mu.Lock()
	for _, info := range infos {
		c.m[info.Word] = info
	}
	c.mu.Unlock()
}

func (c *infoCache) invalidate() {
	c.mu.Lock()
	c.m = make(map[string]store.WordInfo)
	c.mu.Unlock()
}
