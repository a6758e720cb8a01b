// Package graph discovers every document reachable from a root OpenAPI
// document and caches the result.
//
// The Walker performs the only I/O in the engine beyond the initial root
// load: it drives the loader for each referenced document exactly once,
// guarded by a visited set so mutual and self-referencing document cycles
// terminate. The resulting Cache is write-once per identity during
// discovery and strictly read-only afterwards, so the resolution and
// validation phases need no locking.
package graph

import (
	"sync"

	"github.com/erraggy/oasgraph/document"
)

// Cache is a process-scoped table from absolute document identity to its
// parsed tree. Documents live in an arena in discovery order; identities
// (physical, plus the logical $self alias when a document declares one)
// index into the arena, so a document reachable under two identities still
// appears exactly once.
type Cache struct {
	mu         sync.RWMutex
	docs       []*document.Document
	byIdentity map[string]int
}

func newCache() *Cache {
	return &Cache{byIdentity: make(map[string]int)}
}

// Lookup returns the document cached under the given absolute identity.
func (c *Cache) Lookup(identity string) (*document.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx, ok := c.byIdentity[identity]
	if !ok {
		return nil, false
	}
	return c.docs[idx], true
}

// Root returns the first discovered document: the graph's root.
func (c *Cache) Root() *document.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.docs) == 0 {
		return nil
	}
	return c.docs[0]
}

// Len returns the number of distinct documents in the cache.
// Alias identities do not count twice.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// Documents returns the cached documents in discovery order.
func (c *Cache) Documents() []*document.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*document.Document, len(c.docs))
	copy(out, c.docs)
	return out
}

// insert records a document under its physical identity.
// Inserting an identity twice is a no-op: keys are write-once.
func (c *Cache) insert(identity string, doc *document.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.byIdentity[identity]; exists {
		return
	}
	c.docs = append(c.docs, doc)
	c.byIdentity[identity] = len(c.docs) - 1
}

// alias indexes an already-inserted document under an additional identity
// (its logical $self address). The alias never displaces an existing entry.
func (c *Cache) alias(identity string, doc *document.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.byIdentity[identity]; exists {
		return
	}
	for i, d := range c.docs {
		if d == doc {
			c.byIdentity[identity] = i
			return
		}
	}
}
