package repository

import (
	"context"
	"errors"
	"time"

	"PegGuard/internal/domain/models"
	"PegGuard/internal/domain/repository"
	"PegGuard/pkg/cache"
)

const observationKey = "regime:latest"

// CachedObservations implements ObservationCache on a cache.Service, so the
// latest classification survives process restarts when Redis backs it.
type CachedObservations struct {
	cache cache.Service
	ttl   time.Duration
}

// NewCachedObservations creates an observation cache. A zero ttl keeps
// observations until overwritten.
func NewCachedObservations(c cache.Service, ttl time.Duration) repository.ObservationCache {
	return &CachedObservations{cache: c, ttl: ttl}
}

func (c *CachedObservations) Put(ctx context.Context, obs models.RegimeObservation) error {
	return c.cache.Set(ctx, observationKey, obs, c.ttl)
}

func (c *CachedObservations) Get(ctx context.Context) (models.RegimeObservation, bool, error) {
	var obs models.RegimeObservation
	err := c.cache.Get(ctx, observationKey, &obs)
	if errors.Is(err, cache.ErrCacheMiss) {
		return models.RegimeObservation{}, false, nil
	}
	if err != nil {
		return models.RegimeObservation{}, false, err
	}
	return obs, true, nil
}
