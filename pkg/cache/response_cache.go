package cache

import (
	"container/list"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"portfolio-be/pkg/llm"
)

const (
	DefaultTTL      = time.Hour
	DefaultCapacity = 100
	// historyKeyLen is how many trailing history messages take part in the key.
	historyKeyLen = 5
)

type cacheItem struct {
	key      string
	value    string
	insertAt time.Time
}

// ResponseCache is a bounded LRU with per-entry TTL for assistant replies.
type ResponseCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	order    *list.List // front = oldest
	items    map[string]*list.Element
	now      func() time.Time
}

func NewResponseCache(ttl time.Duration, capacity int) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ResponseCache{
		ttl:      ttl,
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element),
		now:      time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (c *ResponseCache) WithClock(now func() time.Time) *ResponseCache {
	c.now = now
	return c
}

// Key hashes the query together with the last five history messages.
func Key(query string, history []llm.Message) string {
	if len(history) > historyKeyLen {
		history = history[len(history)-historyKeyLen:]
	}
	var b strings.Builder
	b.WriteString(query)
	b.WriteString("|")
	for _, m := range history {
		fmt.Fprintf(&b, "[%s:%q]", m.Role, m.Content)
	}
	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached value. Expired entries are evicted on access.
func (c *ResponseCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return "", false
	}
	item := el.Value.(*cacheItem)
	if c.now().Sub(item.insertAt) > c.ttl {
		c.order.Remove(el)
		delete(c.items, key)
		return "", false
	}
	return item.value, true
}

// Set stores value, evicting the oldest insert when the cache is full.
func (c *ResponseCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		item := el.Value.(*cacheItem)
		item.value = value
		item.insertAt = c.now()
		c.order.MoveToBack(el)
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Front(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheItem).key)
		}
	}
	c.items[key] = c.order.PushBack(&cacheItem{key: key, value: value, insertAt: c.now()})
}

func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element)
}
