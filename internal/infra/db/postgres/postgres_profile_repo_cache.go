package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"genomics-annotation-service/internal/domain/model"
	"genomics-annotation-service/internal/domain/ports/repository"
	"genomics-annotation-service/internal/infra/metrics"
	red "genomics-annotation-service/internal/infra/redis"
)

var _ repository.ProfileRepository = (*profileRepoCacheDecorator)(nil)

type profileRepoCacheDecorator struct {
	inner repository.ProfileRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewProfileRepoCacheDecorator(inner repository.ProfileRepository, cache red.RedisClient, ttl time.Duration) repository.ProfileRepository {
	return &profileRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func (d *profileRepoCacheDecorator) Find(ctx context.Context, userID string) (*model.UserProfile, error) {
	key := profileKey(userID)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("profile", "hit")
		var p model.UserProfile
		if json.Unmarshal([]byte(val), &p) == nil {
			return &p, nil
		}
	}

	metrics.IncCacheRequest("profile", "miss")
	p, err := d.inner.Find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(p); err == nil {
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return p, nil
}

// SetRole invalidates before writing so a concurrent Find cannot re-warm
// the cache with the stale role.
func (d *profileRepoCacheDecorator) SetRole(ctx context.Context, userID string, role model.Role) error {
	_ = d.cache.Del(ctx, profileKey(userID))
	if err := d.inner.SetRole(ctx, userID, role); err != nil {
		return err
	}
	_ = d.cache.Del(ctx, profileKey(userID))
	return nil
}

func profileKey(userID string) string {
	return fmt.Sprintf("profile:id:%s", userID)
}
