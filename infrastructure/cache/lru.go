// Package cache keeps recently rendered QR images in memory, grouped by
// namespace so a whole family (one export format, the preview) can be dropped
// at once.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// NamespaceLRU is a namespace-based LRU cache. A capacity of zero or less
// disables caching: Set is a no-op and Get always misses.
type NamespaceLRU[V any] struct {
	capacity int
	items    map[string]*list.Element
	queue    *list.List
	hits     uint64
	misses   uint64
	mutex    sync.Mutex
}

type entry[V any] struct {
	namespace string
	key       string
	value     V
}

// Stats is a point-in-time view of cache usage.
type Stats struct {
	Size   int    `json:"size"`
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// NewNamespaceLRU creates a new namespace-based LRU cache with specified capacity
func NewNamespaceLRU[V any](capacity int) *NamespaceLRU[V] {
	return &NamespaceLRU[V]{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		queue:    list.New(),
	}
}

// Fingerprint hashes parts into a fixed-size cache key.
func Fingerprint(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func compositeKey(namespace, key string) string {
	return namespace + ":" + key
}

// Set adds or updates a value under namespace and key
func (c *NamespaceLRU[V]) Set(namespace, key string, value V) {
	if c.capacity <= 0 {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	ck := compositeKey(namespace, key)
	if element, exists := c.items[ck]; exists {
		c.queue.MoveToFront(element)
		element.Value.(*entry[V]).value = value
		return
	}

	element := c.queue.PushFront(&entry[V]{
		namespace: namespace,
		key:       key,
		value:     value,
	})
	c.items[ck] = element

	for c.queue.Len() > c.capacity {
		c.evict()
	}
}

// Get retrieves a value and marks it as recently used. Get takes the write
// lock because it reorders the queue.
func (c *NamespaceLRU[V]) Get(namespace, key string) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	element, exists := c.items[compositeKey(namespace, key)]
	if !exists {
		c.misses++
		var zero V
		return zero, false
	}

	c.hits++
	c.queue.MoveToFront(element)
	return element.Value.(*entry[V]).value, true
}

// Invalidate removes an item from the cache by namespace and key
func (c *NamespaceLRU[V]) Invalidate(namespace, key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	ck := compositeKey(namespace, key)
	if element, exists := c.items[ck]; exists {
		c.queue.Remove(element)
		delete(c.items, ck)
	}
}

// InvalidateNamespace removes all items from the specified namespace
func (c *NamespaceLRU[V]) InvalidateNamespace(namespace string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for ck, element := range c.items {
		if element.Value.(*entry[V]).namespace == namespace {
			c.queue.Remove(element)
			delete(c.items, ck)
		}
	}
}

// Clear empties the cache
func (c *NamespaceLRU[V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items = make(map[string]*list.Element)
	c.queue = list.New()
}

// Stats returns the current size and hit counters
func (c *NamespaceLRU[V]) Stats() Stats {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return Stats{Size: c.queue.Len(), Hits: c.hits, Misses: c.misses}
}

// evict removes the least recently used item from the cache
func (c *NamespaceLRU[V]) evict() {
	element := c.queue.Back()
	if element == nil {
		return
	}
	c.queue.Remove(element)

	e := element.Value.(*entry[V])
	delete(c.items, compositeKey(e.namespace, e.key))
}
