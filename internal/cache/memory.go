package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/iwvelando/mortgage-visualizer/pkg/mortgage"
)

// Memory is an LRU cache with TTL and size-based eviction. Schedules are
// copied on the way in and out so callers never share records with it.
type Memory struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
	now     func() time.Time
}

type memoryItem struct {
	key       string
	schedule  mortgage.Schedule
	expiresAt time.Time
}

// NewMemory creates a new LRU cache with TTL
func NewMemory(maxSize int, ttl time.Duration) *Memory {
	return &Memory{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
}

// Get retrieves a schedule from the cache
func (c *Memory) Get(_ context.Context, key string) (mortgage.Schedule, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.items[key]
	if !exists {
		return nil, false
	}

	item := elem.Value.(*memoryItem)
	if c.now().After(item.expiresAt) {
		c.removeElement(elem)
		return nil, false
	}

	// Move to front (most recently used)
	c.lru.MoveToFront(elem)
	return item.schedule.Clone(), true
}

// Set stores a schedule in the cache
func (c *Memory) Set(_ context.Context, key string, schedule mortgage.Schedule) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &memoryItem{
		key:       key,
		schedule:  schedule.Clone(),
		expiresAt: c.now().Add(c.ttl),
	}

	if elem, exists := c.items[key]; exists {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return nil
	}

	c.items[key] = c.lru.PushFront(item)

	// Evict if over capacity
	for c.lru.Len() > c.maxSize {
		c.removeElement(c.lru.Back())
	}
	return nil
}

// CleanExpired removes all expired entries and returns count of removed items
func (c *Memory) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for elem := c.lru.Front(); elem != nil; {
		next := elem.Next()
		if now.After(elem.Value.(*memoryItem).expiresAt) {
			c.removeElement(elem)
			removed++
		}
		elem = next
	}
	return removed
}

// Len returns the current number of entries.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Memory) Close() error { return nil }

func (c *Memory) removeElement(elem *list.Element) {
	item := elem.Value.(*memoryItem)
	delete(c.items, item.key)
	c.lru.Remove(elem)
}
