package cache

import (
	"container/list"
	"encoding/json"
	"sync"
	"time"

	"github.com/avemuri/CaseDocAPI/pkg/logger_i"
)

const fallbackEntrySize = 256

type entry struct {
	key            string
	value          any
	size           int
	createdAt      time.Time
	expiresAt      time.Time
	accessCount    int64
	lastAccessedAt time.Time
	elem           *list.Element
}

type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
	Items     int   `json:"items"`
}

// Cache is a bounded key/value store with per-entry TTL and LRU eviction.
// It is advisory only: a miss costs a recompute, never correctness, so
// callers may drop or swap instances freely.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	recency    *list.List //front = most recently used
	maxSize    int
	defaultTTL time.Duration
	size       int
	hits       int64
	misses     int64
	evictions  int64
	now        func() time.Time
	logger     *logger_i.Logger
}

func New(name string, maxSize int, defaultTTL time.Duration) *Cache {
	return &Cache{
		entries:    make(map[string]*entry),
		recency:    list.New(),
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		now:        time.Now,
		logger:     logger_i.NewLogger("Cache " + name),
	}
}

// NewWithClock is for tests that need deterministic expiry.
func NewWithClock(name string, maxSize int, defaultTTL time.Duration, clock func() time.Time) *Cache {
	c := New(name, maxSize, defaultTTL)
	c.now = clock
	return c
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		//lazy expiry: an expired entry is absent even while resident
		c.remove(e)
		c.misses++
		return nil, false
	}
	e.accessCount++
	e.lastAccessedAt = c.now()
	c.recency.MoveToFront(e.elem)
	c.hits++
	return e.value, true
}

func (c *Cache) Set(key string, value any) {
	c.SetTTL(key, value, c.defaultTTL)
}

func (c *Cache) SetTTL(key string, value any, ttl time.Duration) {
	size := estimateSize(value)
	if size > c.maxSize {
		c.logger.Warn("entry larger than cache, not storing", "key", key, "size", size)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		c.remove(old)
	}

	//evict from the LRU end until the new entry fits
	for c.size+size > c.maxSize {
		back := c.recency.Back()
		if back == nil {
			break
		}
		c.remove(back.Value.(*entry))
		c.evictions++
	}

	now := c.now()
	e := &entry{
		key:            key,
		value:          value,
		size:           size,
		createdAt:      now,
		expiresAt:      now.Add(ttl),
		lastAccessedAt: now,
	}
	e.elem = c.recency.PushFront(e)
	c.entries[key] = e
	c.size += size
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		c.remove(e)
	}
}

func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	if c.now().After(e.expiresAt) {
		c.remove(e)
		return false
	}
	return true
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      c.size,
		Items:     len(c.entries),
	}
}

// DeletePrefix drops every entry whose key starts with the given prefix.
// Used to invalidate all operations for a document when its source changes.
func (c *Cache) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, e := range c.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			c.remove(e)
			removed++
		}
	}
	return removed
}

// remove must be called with the mutex held.
func (c *Cache) remove(e *entry) {
	c.recency.Remove(e.elem)
	delete(c.entries, e.key)
	c.size -= e.size
}

func estimateSize(value any) int {
	switch v := value.(type) {
	case string:
		return len(v) * 2
	case []byte:
		return len(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fallbackEntrySize
		}
		return len(data) * 2
	}
}
