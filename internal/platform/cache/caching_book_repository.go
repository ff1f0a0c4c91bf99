// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"library_api/internal/feature/books/domain/entity"
	"library_api/internal/feature/books/usecase"
)

// DefaultTTL is used when a non-positive ttl is given.
const DefaultTTL = 5 * time.Minute

// BookStore is the repository decorated by CachingBookRepository: the
// Backend read model, which is both queried and fed by replication.
type BookStore interface {
	usecase.BookReader
	usecase.BookSyncRepository
}

// CachingBookRepository decorates a BookStore with Redis caching of the
// book listings. Every ingested write invalidates the whole namespace, so a
// listing is never staler than the last replicated change.
type CachingBookRepository struct {
	inner     BookStore
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ BookStore = (*CachingBookRepository)(nil)

// NewCachingBookRepository decorates a BookStore with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "books".
// A nil rdb turns the decorator into a pass-through.
func NewCachingBookRepository(rdb *redis.Client, ttl time.Duration, inner BookStore, namespace string) *CachingBookRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "books"
	}
	return &CachingBookRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FindByID is not cached; single lookups are cheap and must see borrow state.
func (c *CachingBookRepository) FindByID(ctx context.Context, id string) (*entity.Book, error) {
	return c.inner.FindByID(ctx, id)
}

// ListAvailable retrieves available books, checking cache first then falling back to the database.
func (c *CachingBookRepository) ListAvailable(ctx context.Context, filter entity.Filter) ([]entity.Book, error) {
	return c.cached(ctx, c.availableKey(filter), func() ([]entity.Book, error) {
		return c.inner.ListAvailable(ctx, filter)
	})
}

// ListUnavailable retrieves borrowed books, checking cache first then falling back to the database.
func (c *CachingBookRepository) ListUnavailable(ctx context.Context) ([]entity.Book, error) {
	return c.cached(ctx, c.namespace+":unavailable", func() ([]entity.Book, error) {
		return c.inner.ListUnavailable(ctx)
	})
}

// Upsert writes through and invalidates every cached listing.
func (c *CachingBookRepository) Upsert(ctx context.Context, book *entity.Book) error {
	if err := c.inner.Upsert(ctx, book); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// DeleteIfExists deletes through and invalidates every cached listing when a row was removed.
func (c *CachingBookRepository) DeleteIfExists(ctx context.Context, id string) (bool, error) {
	deleted, err := c.inner.DeleteIfExists(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		c.invalidate(ctx)
	}
	return deleted, nil
}

func (c *CachingBookRepository) cached(ctx context.Context, key string, load func() ([]entity.Book, error)) ([]entity.Book, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return load()
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Book
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := load()
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// invalidate drops the namespace. Failures are ignored; entries expire with the TTL.
func (c *CachingBookRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	_ = c.deleteByPattern(ctx, c.namespace+":*")
}

// availableKey generates a cache key for a filtered listing. Filters match
// case-insensitively, so the key is lower-cased. QueryEscape keeps distinct
// filters on distinct keys and removes ':' and glob characters.
func (c *CachingBookRepository) availableKey(f entity.Filter) string {
	return fmt.Sprintf("%s:available:%s:%s",
		c.namespace,
		url.QueryEscape(strings.ToLower(f.Publisher)),
		url.QueryEscape(strings.ToLower(f.Category)),
	)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingBookRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
