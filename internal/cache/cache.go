// Package cache implements an in-memory LRU cache with per-entry TTL,
// used to avoid re-fetching catalog provider detail records.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is the minimal caching interface.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	Delete(key string)
	Clear()
}

// Item is one cache entry.
type Item struct {
	Key        string
	Value      interface{}
	Expiration time.Time
}

// LRUCache evicts the least recently used entry once capacity is reached.
type LRUCache struct {
	capacity  int
	items     map[string]*list.Element
	evictList *list.List
	mu        sync.RWMutex
	ttl       time.Duration
}

// New creates an LRU cache with the given capacity and entry TTL.
func New(capacity int, ttl time.Duration) *LRUCache {
	return &LRUCache{
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
		ttl:       ttl,
	}
}

// Get returns the cached value for key, expiring stale entries on access.
func (c *LRUCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		item := elem.Value.(*Item)

		if time.Now().After(item.Expiration) {
			c.removeElement(elem)
			return nil, false
		}

		c.evictList.MoveToFront(elem)
		return item.Value, true
	}

	return nil, false
}

// Set stores a value, refreshing its TTL and recency.
func (c *LRUCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiration := time.Now().Add(c.ttl)

	if elem, ok := c.items[key]; ok {
		item := elem.Value.(*Item)
		item.Value = value
		item.Expiration = expiration
		c.evictList.MoveToFront(elem)
		return
	}

	item := &Item{
		Key:        key,
		Value:      value,
		Expiration: expiration,
	}

	elem := c.evictList.PushFront(item)
	c.items[key] = elem

	if c.evictList.Len() > c.capacity {
		c.removeOldest()
	}
}

// Delete removes a single entry.
func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// Clear drops all entries.
func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.evictList.Init()
}

// Len returns the number of cached entries, including not-yet-expired ones.
func (c *LRUCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.evictList.Len()
}

// CleanExpired removes all expired entries. Intended to be called
// periodically from a background goroutine.
func (c *LRUCache) CleanExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for elem := c.evictList.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*Item).Expiration) {
			c.removeElement(elem)
		}
		elem = prev
	}
}

func (c *LRUCache) removeOldest() {
	if elem := c.evictList.Back(); elem != nil {
		c.removeElement(elem)
	}
}

func (c *LRUCache) removeElement(elem *list.Element) {
	c.evictList.Remove(elem)
	delete(c.items, elem.Value.(*Item).Key)
}
