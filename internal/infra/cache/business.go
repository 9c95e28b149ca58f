package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/turnos/internal/models"
)

// BusinessSource is the authoritative store behind BusinessCache.
type BusinessSource interface {
	GetByID(ctx context.Context, id uint) (*models.Business, error)
	GetBySlug(ctx context.Context, slug string) (*models.Business, error)
}

// BusinessCache is a read-through cache of business snapshots, keyed by id
// and by slug. Redis errors fall through to the source.
type BusinessCache struct {
	rdb    *redis.Client
	source BusinessSource
	ttl    time.Duration
}

func NewBusinessCache(rdb *redis.Client, source BusinessSource, ttl time.Duration) *BusinessCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &BusinessCache{rdb: rdb, source: source, ttl: ttl}
}

func idKey(id uint) string       { return "business:id:" + strconv.FormatUint(uint64(id), 10) }
func slugKey(slug string) string { return "business:slug:" + slug }

func (c *BusinessCache) GetByID(ctx context.Context, id uint) (*models.Business, error) {
	if b, ok := c.read(ctx, idKey(id)); ok {
		return b, nil
	}
	b, err := c.source.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.write(ctx, b)
	return b, nil
}

func (c *BusinessCache) GetBySlug(ctx context.Context, slug string) (*models.Business, error) {
	if b, ok := c.read(ctx, slugKey(slug)); ok {
		return b, nil
	}
	b, err := c.source.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	c.write(ctx, b)
	return b, nil
}

// Invalidate drops both keys of a business after it changes.
func (c *BusinessCache) Invalidate(ctx context.Context, b *models.Business) {
	if c.rdb == nil || b == nil {
		return
	}
	_ = c.rdb.Del(ctx, idKey(b.ID), slugKey(b.Slug)).Err()
}

func (c *BusinessCache) read(ctx context.Context, key string) (*models.Business, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var b models.Business
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, false
	}
	return &b, true
}

func (c *BusinessCache) write(ctx context.Context, b *models.Business) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return
	}
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, idKey(b.ID), raw, c.ttl)
	pipe.Set(ctx, slugKey(b.Slug), raw, c.ttl)
	_, _ = pipe.Exec(ctx)
}
