package sellauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Jacobbrewer1/invoicer/pkg/entities"
	"github.com/Jacobbrewer1/invoicer/pkg/logging"
	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL is how long a fetched invoice is served from the cache.
const DefaultCacheTTL = 5 * time.Minute

// Cache stores fetched invoices by ID.
type Cache interface {
	// Get returns the cached invoice, or false if it is absent or expired.
	Get(ctx context.Context, invoiceID string) (*entities.Invoice, bool)

	// Set stores the invoice.
	Set(ctx context.Context, invoiceID string, inv *entities.Invoice) error
}

// CachedInvoice is an invoice with the time it was fetched.
type CachedInvoice struct {
	Data      *entities.Invoice
	FetchedAt time.Time
}

// MemoryCache is an in-process cache. Entries are only expired on read, so it is unbounded.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]CachedInvoice
}

// NewMemoryCache creates a new in-process cache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]CachedInvoice),
	}
}

func (m *MemoryCache) Get(_ context.Context, invoiceID string) (*entities.Invoice, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[invoiceID]
	if !ok {
		return nil, false
	}
	if m.now().Sub(e.FetchedAt) >= m.ttl {
		return nil, false
	}
	return e.Data, true
}

func (m *MemoryCache) Set(_ context.Context, invoiceID string, inv *entities.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[invoiceID] = CachedInvoice{
		Data:      inv,
		FetchedAt: m.now(),
	}
	return nil
}

// RedisCache shares cached invoices between processes. Redis expires the keys.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache creates a new redis backed cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		prefix: "invoicer:invoice:",
	}
}

func (r *RedisCache) Get(ctx context.Context, invoiceID string) (*entities.Invoice, bool) {
	b, err := r.client.Get(ctx, r.prefix+invoiceID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Default().Warn("Error reading invoice cache",
				slog.String(logging.KeyInvoice, invoiceID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
		return nil, false
	}

	inv := new(entities.Invoice)
	if err := json.Unmarshal(b, inv); err != nil {
		return nil, false
	}
	return inv, true
}

func (r *RedisCache) Set(ctx context.Context, invoiceID string, inv *entities.Invoice) error {
	b, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("error encoding invoice: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+invoiceID, b, r.ttl).Err(); err != nil {
		return fmt.Errorf("error writing invoice cache: %w", err)
	}
	return nil
}

// Ping verifies the redis connection.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// CachedClient serves invoices from a cache before calling through to the storefront.
type CachedClient struct {
	l     *slog.Logger
	next  InvoiceFetcher
	cache Cache
}

// NewCachedClient wraps next with cache.
func NewCachedClient(l *slog.Logger, next InvoiceFetcher, cache Cache) *CachedClient {
	return &CachedClient{
		l:     l,
		next:  next,
		cache: cache,
	}
}

// Invoice gets a single invoice, from the cache when a fresh entry exists. Only found invoices are cached.
func (c *CachedClient) Invoice(ctx context.Context, invoiceID string) (*entities.Invoice, bool, error) {
	if inv, ok := c.cache.Get(ctx, invoiceID); ok {
		CacheLookups.WithLabelValues("hit").Inc()
		return inv, true, nil
	}
	CacheLookups.WithLabelValues("miss").Inc()

	inv, found, err := c.next.Invoice(ctx, invoiceID)
	if err != nil || !found {
		return inv, found, err
	}

	if err := c.cache.Set(ctx, invoiceID, inv); err != nil {
		c.l.Warn("Error caching invoice",
			slog.String(logging.KeyInvoice, invoiceID),
			slog.String(logging.KeyError, err.Error()),
		)
	}
	return inv, true, nil
}
