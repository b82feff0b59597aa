package fortune

import (
	"sync"
	"time"

	"etf-fortune/internal/domain/fortune"
)

// DefaultCacheCapacity 運勢快取預設容量。
const DefaultCacheCapacity = 100

// CacheStats 快取目前大小與上限。
type CacheStats struct {
	Size    int `json:"size"`
	MaxSize int `json:"max_size"`
}

// FIFO 依插入順序淘汰（非 LRU）的固定容量快取，可安全地並行使用。
type FIFO[V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]V
	order    []string
}

// NewFIFO 建立容量為 capacity 的快取；capacity <= 0 時使用 fallback。
func NewFIFO[V any](capacity, fallback int) *FIFO[V] {
	if capacity <= 0 {
		capacity = fallback
	}
	return &FIFO[V]{
		capacity: capacity,
		entries:  make(map[string]V, capacity),
	}
}

// Cache 運勢快取。
type Cache = FIFO[*fortune.FortuneResult]

// NewCache 建立指定容量的運勢快取；capacity <= 0 時使用預設值。
func NewCache(capacity int) *Cache {
	return NewFIFO[*fortune.FortuneResult](capacity, DefaultCacheCapacity)
}

// CacheKey 由姓名、生日、出生時間與查詢日期組成；後三者為固定長度，姓名含底線也不會與其他 key 重疊。
func CacheKey(p fortune.UserProfile, date time.Time) string {
	return p.Name + "_" + p.BirthDate + "_" + p.BirthTime + "_" + date.Format("2006-01-02")
}

func (c *FIFO[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set 新 key 寫入前若已滿，先移除最早插入的一筆；既有 key 僅更新值、不改變順序。
func (c *FIFO[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		c.entries[key] = value
		return
	}
	if len(c.entries) >= c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = value
	c.order = append(c.order, key)
}

func (c *FIFO[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]V, c.capacity)
	c.order = nil
}

func (c *FIFO[V]) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Size: len(c.entries), MaxSize: c.capacity}
}
