package store

import (
	"context"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/fairyhunter13/item-registry-service/internal/model"
	"github.com/fairyhunter13/item-registry-service/internal/obs"
)

// Cached fronts another Storage with a TTL read cache. Items never change
// after insert, so cached entries cannot go stale.
type Cached struct {
	inner Storage
	ttl   time.Duration
	cache *gocache.Cache
}

func NewCached(inner Storage, ttl time.Duration) *Cached {
	return &Cached{
		inner: inner,
		ttl:   ttl,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func cacheKey(id int64) string { return strconv.FormatInt(id, 10) }

func (c *Cached) Insert(ctx context.Context, it model.Item) error {
	if err := c.inner.Insert(ctx, it); err != nil {
		return err
	}
	c.cache.Set(cacheKey(it.ID), it.Clone(), c.ttl)
	return nil
}

// Lookup serves hits from the cache and fills it on a miss. Misses for
// absent ids are not cached.
func (c *Cached) Lookup(ctx context.Context, id int64) (model.Item, error) {
	if v, ok := c.cache.Get(cacheKey(id)); ok {
		if it, ok := v.(model.Item); ok {
			return it.Clone(), nil
		}
		obs.Logger.Error("cache_type_mismatch", "item_id", id)
	}
	it, err := c.inner.Lookup(ctx, id)
	if err != nil {
		return model.Item{}, err
	}
	c.cache.Set(cacheKey(id), it.Clone(), c.ttl)
	return it, nil
}

// CachedCount reports the number of cached entries, expired ones included.
func (c *Cached) CachedCount() int { return c.cache.ItemCount() }
