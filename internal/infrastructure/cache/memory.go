package cache

import (
	"context"
	"sync"
	"time"

	"etf-fortune/internal/domain/dataingestion"
)

type memoryEntry struct {
	prices    []dataingestion.DailyPrice
	expiresAt time.Time
}

// MemoryCache 程序內 TTL 快取，未設定 Valkey 時使用。
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]dataingestion.DailyPrice, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	out := make([]dataingestion.DailyPrice, len(e.prices))
	copy(out, e.prices)
	return out, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, prices []dataingestion.DailyPrice, ttl time.Duration) error {
	stored := make([]dataingestion.DailyPrice, len(prices))
	copy(stored, prices)
	c.mu.Lock()
	c.entries[key] = memoryEntry{prices: stored, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Len 回傳目前項目數（含尚未清除的過期項目）。
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
