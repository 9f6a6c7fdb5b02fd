package policy

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/atelier-store/atelier/internal/domain/user"
)

// lruEntry is a doubly-linked list node for the LRU cache.
type lruEntry struct {
	key      uint64
	decision Decision
	prev     *lruEntry
	next     *lruEntry
}

// DecisionCache provides bounded LRU caching for rule table evaluations.
// Thread-safe with Mutex (both Get and Put mutate LRU order).
type DecisionCache struct {
	mu      sync.Mutex
	entries map[uint64]*lruEntry
	head    *lruEntry // most recently used
	tail    *lruEntry // least recently used
	maxSize int
}

// NewDecisionCache creates a new LRU cache with the given max size.
func NewDecisionCache(maxSize int) *DecisionCache {
	return &DecisionCache{
		entries: make(map[uint64]*lruEntry, maxSize),
		maxSize: maxSize,
	}
}

// cacheKey hashes the inputs that determine a decision. The role stands in
// for the whole identity: two users with the same role always decide alike,
// and the empty role is reserved for anonymous callers.
func cacheKey(method, path string, role user.Role) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(method)
	_, _ = h.Write([]byte{0}) // separator
	_, _ = h.WriteString(path)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(string(role))
	return h.Sum64()
}

// Get retrieves a cached decision. On hit, the entry is promoted to the head.
func (c *DecisionCache) Get(key uint64) (Decision, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		c.moveToHeadLocked(e)
		return e.decision, true
	}
	return Permit, false
}

// Put stores a decision. At capacity, the least recently used entry is evicted.
func (c *DecisionCache) Put(key uint64, decision Decision) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.decision = decision
		c.moveToHeadLocked(e)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictTailLocked()
	}

	e := &lruEntry{key: key, decision: decision}
	c.entries[key] = e
	c.pushHeadLocked(e)
}

// Size returns the current cache size.
func (c *DecisionCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// moveToHeadLocked moves an existing entry to the head. Lock must be held.
func (c *DecisionCache) moveToHeadLocked(e *lruEntry) {
	if c.head == e {
		return
	}
	c.unlinkLocked(e)
	c.pushHeadLocked(e)
}

// pushHeadLocked inserts an entry at the head. Lock must be held.
func (c *DecisionCache) pushHeadLocked(e *lruEntry) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

// unlinkLocked removes an entry from the linked list. Lock must be held.
func (c *DecisionCache) unlinkLocked(e *lruEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}

// evictTailLocked removes the least recently used entry. Lock must be held.
func (c *DecisionCache) evictTailLocked() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.unlinkLocked(c.tail)
}
