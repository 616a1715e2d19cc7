// Package memory provides in-memory cache repository implementation
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	lru "github.com/hashicorp/golang-lru"
)

const (
	DefaultSize            = 10000
	DefaultCleanupInterval = time.Minute
	defaultTTL             = 24 * time.Hour
)

// CacheItem represents a cached item
type CacheItem struct {
	Value     []byte
	ExpiresAt time.Time
}

func (i CacheItem) expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// CacheRepository is a bounded LRU cache with per-key expiry. A janitor
// goroutine drops expired keys until Close is called.
type CacheRepository struct {
	items *lru.Cache
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// Option configures the cache
type Option func(*options)

type options struct {
	cleanupInterval time.Duration
	now             func() time.Time
}

// WithCleanupInterval sets how often expired keys are swept
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) { o.cleanupInterval = d }
}

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewCacheRepository creates a new in-memory cache holding at most size keys
func NewCacheRepository(size int, opts ...Option) *CacheRepository {
	o := options{cleanupInterval: DefaultCleanupInterval, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if size <= 0 {
		size = DefaultSize
	}

	items, _ := lru.New(size)
	repo := &CacheRepository{
		items: items,
		now:   o.now,
		stop:  make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go repo.janitor(o.cleanupInterval)
	}

	return repo
}

// Get retrieves a value from cache
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := r.items.Get(key)
	if !ok {
		return nil, outbound.ErrCacheMiss
	}

	item := v.(CacheItem)
	if item.expired(r.now()) {
		r.items.Remove(key)
		return nil, outbound.ErrCacheMiss
	}

	return item.Value, nil
}

// Set stores a value in cache with TTL. A zero TTL keeps the value for a day.
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	r.items.Add(key, CacheItem{Value: stored, ExpiresAt: r.now().Add(ttl)})
	return nil
}

// Delete removes a key from cache
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.items.Remove(key)
	return nil
}

// Exists checks if a key exists in cache
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	v, ok := r.items.Peek(key)
	if !ok {
		return false, nil
	}
	if v.(CacheItem).expired(r.now()) {
		r.items.Remove(key)
		return false, nil
	}
	return true, nil
}

// Len returns the number of keys held, expired or not
func (r *CacheRepository) Len() int {
	return r.items.Len()
}

// Close stops the janitor
func (r *CacheRepository) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *CacheRepository) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.removeExpired()
		case <-r.stop:
			return
		}
	}
}

func (r *CacheRepository) removeExpired() {
	now := r.now()
	for _, key := range r.items.Keys() {
		if v, ok := r.items.Peek(key); ok && v.(CacheItem).expired(now) {
			r.items.Remove(key)
		}
	}
}
