// Package cache memoizes (question, context) answers so repeated questions
// skip model invocation entirely.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/lexsight/clauselens/internal/model"
)

// DefaultMaxEntries bounds the cache when no size is configured.
const DefaultMaxEntries = 1000

// ResultCache is a bounded in-memory map from a content hash of
// (question, context) to a finished QA result. Eviction is strictly
// insertion-order: when full, the single oldest-inserted entry is removed
// before the new one goes in. A cache hit does not refresh an entry's
// position. Entries live for the process lifetime; nothing is persisted.
type ResultCache struct {
	mu      sync.RWMutex
	max     int
	entries map[string]*model.QAResult
	order   *list.List // front = oldest inserted, values are keys
}

// New creates a ResultCache holding at most max entries. Non-positive max
// falls back to DefaultMaxEntries.
func New(max int) *ResultCache {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	return &ResultCache{
		max:     max,
		entries: make(map[string]*model.QAResult, max),
		order:   list.New(),
	}
}

// Key derives the deterministic cache key for a question and context pair.
func Key(question, context string) string {
	h := sha256.New()
	h.Write([]byte(question))
	h.Write([]byte{0})
	h.Write([]byte(context))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached result for (question, context), or nil when absent.
func (c *ResultCache) Get(question, context string) *model.QAResult {
	key := Key(question, context)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[key]
}

// Put stores a result, evicting the oldest-inserted entry first when full.
// Re-inserting an existing key overwrites the value without changing its
// insertion position.
func (c *ResultCache) Put(question, context string, result *model.QAResult) {
	key := Key(question, context)
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = result
		return
	}

	if len(c.entries) >= c.max {
		if oldest := c.order.Front(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(string))
		}
	}

	c.entries[key] = result
	c.order.PushBack(key)
}

// Len reports the number of cached entries.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear empties the cache.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*model.QAResult, c.max)
	c.order.Init()
}
