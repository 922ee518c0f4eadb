package topics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/lueurxax/social-insight/internal/core/errors"
)

// Cache stores fitted results keyed by corpus and configuration.
type Cache interface {
	Get(ctx context.Context, key string) (*Result, error)
	Put(ctx context.Context, key string, result *Result) error
}

// MemoryCache is a thread-safe in-memory Cache with a fixed time-to-live.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	result    *Result
	expiresAt time.Time
}

// NewMemoryCache creates a cache whose entries expire after ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns a cached result or ErrCacheNotFound / ErrCacheExpired.
func (c *MemoryCache) Get(_ context.Context, key string) (*Result, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, apperrors.ErrCacheNotFound
	}

	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()

		return nil, apperrors.ErrCacheExpired
	}

	return entry.result, nil
}

// Put stores a result.
func (c *MemoryCache) Put(_ context.Context, key string, result *Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{result: result, expiresAt: c.now().Add(c.ttl)}

	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// cacheKey hashes everything that influences a fit.
func (m *Modeler) cacheKey(docs []Document, kMin, kMax int) string {
	h := sha256.New()

	fmt.Fprintf(h, "k=%d..%d|%+v|", kMin, kMax, m.cfg)

	for _, doc := range docs {
		h.Write([]byte(doc.ID))
		h.Write([]byte{0})
		h.Write([]byte(doc.Text.Text))
		h.Write([]byte{1})
	}

	return hex.EncodeToString(h.Sum(nil))
}
