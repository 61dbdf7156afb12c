package redis

import (
	"context"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

// ProfileCache caches user entities to keep hot profile reads off
// Postgres. Entries expire after TTLProfileCache and are invalidated
// on every write that touches the user row.
type ProfileCache struct {
	cache *Cache
}

// NewProfileCache creates a profile cache backed by the given Cache.
func NewProfileCache(cache *Cache) *ProfileCache {
	return &ProfileCache{cache: cache}
}

// Set caches a user profile.
func (p *ProfileCache) Set(ctx context.Context, u *user.User) error {
	if u == nil {
		return ErrCacheNilValue
	}
	return p.cache.Set(ctx, UserKey(int64(u.ID)), u, TTLProfileCache)
}

// Get retrieves a cached user profile. Returns ErrCacheMiss when the
// profile is not cached.
func (p *ProfileCache) Get(ctx context.Context, id int64) (*user.User, error) {
	var u user.User
	if err := p.cache.Get(ctx, UserKey(id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Invalidate removes a cached profile after a user update.
func (p *ProfileCache) Invalidate(ctx context.Context, id int64) error {
	return p.cache.Delete(ctx, UserKey(id))
}
