package cache

import (
	"context"
	"errors"
	"time"
)

// LayeredCache reads through a fast local layer backed by a shared layer.
// Writes go to both; local misses are refilled from the backing layer.
type LayeredCache struct {
	local   Service
	backing Service
}

// NewLayeredCache composes a local cache over a backing cache.
func NewLayeredCache(local, backing Service) *LayeredCache {
	return &LayeredCache{local: local, backing: backing}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := lc.backing.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	return lc.local.Set(ctx, key, value, expiration)
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.local.Get(ctx, key, dest); err == nil {
		return nil
	} else if !errors.Is(err, ErrCacheMiss) {
		return err
	}

	if err := lc.backing.Get(ctx, key, dest); err != nil {
		return err
	}
	// Refill local layer; short TTL so the backing layer stays authoritative.
	_ = lc.local.Set(ctx, key, dest, time.Minute)
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	if err := lc.local.Delete(ctx, keys...); err != nil {
		return err
	}
	return lc.backing.Delete(ctx, keys...)
}

func (lc *LayeredCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	if ok, err := lc.local.Exists(ctx, keys...); err == nil && ok {
		return true, nil
	}
	return lc.backing.Exists(ctx, keys...)
}

func (lc *LayeredCache) Close() error {
	lerr := lc.local.Close()
	berr := lc.backing.Close()
	if lerr != nil {
		return lerr
	}
	return berr
}
