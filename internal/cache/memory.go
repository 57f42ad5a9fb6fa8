package cache

import (
	"context"
	"sync"
	"time"

	"github.com/guestpulse/insights/internal/domain"
)

type memoryItem struct {
	result    domain.AnalysisResult
	expiresAt time.Time
}

// Memory is an in-process TTL cache. Good enough for development, CLI
// runs, and tests; expired entries are evicted lazily on read.
type Memory struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	ttl   time.Duration
	now   func() time.Time
}

// NewMemory builds an in-memory cache. A non-positive TTL uses the
// default.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		items: make(map[string]memoryItem),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cached result if present and unexpired.
func (m *Memory) Get(_ context.Context, key string) (domain.AnalysisResult, bool) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return domain.AnalysisResult{}, false
	}
	if m.now().After(item.expiresAt) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return domain.AnalysisResult{}, false
	}
	return item.result, true
}

// Set stores the result under key for the configured TTL.
func (m *Memory) Set(_ context.Context, key string, result domain.AnalysisResult) {
	m.mu.Lock()
	m.items[key] = memoryItem{result: result, expiresAt: m.now().Add(m.ttl)}
	m.mu.Unlock()
}

// Len reports the number of stored entries, expired included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
