package experience

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	cacheTTL       = 5 * time.Minute
	cacheKeyPrefix = "catalog:experience:"
	cacheListKey   = "catalog:experiences:all"
)

// cachedRepository is a read-through Redis cache in front of another
// Repository. Admin writes and seat reservations invalidate. A nil
// Redis client makes it a transparent pass-through.
type cachedRepository struct {
	inner Repository
	redis *redis.Client
}

// NewCachedRepository wraps repo with a Redis catalog cache.
func NewCachedRepository(inner Repository, redisClient *redis.Client) Repository {
	if redisClient == nil {
		return inner
	}
	return &cachedRepository{inner: inner, redis: redisClient}
}

func (r *cachedRepository) List(ctx context.Context, f Filter) ([]*Experience, error) {
	// Only the unfiltered listing is cached; filtered views are cheap
	// enough to serve from the source.
	if f != (Filter{}) {
		return r.inner.List(ctx, f)
	}

	if data, err := r.redis.Get(ctx, cacheListKey).Bytes(); err == nil {
		var cached []*Experience
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	experiences, err := r.inner.List(ctx, f)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(experiences); err == nil {
		if err := r.redis.Set(ctx, cacheListKey, data, cacheTTL).Err(); err != nil {
			log.Warn().Err(err).Msg("Failed to cache experience list")
		}
	}
	return experiences, nil
}

func (r *cachedRepository) GetByID(ctx context.Context, id uuid.UUID) (*Experience, error) {
	key := cacheKeyPrefix + id.String()

	if data, err := r.redis.Get(ctx, key).Bytes(); err == nil {
		var cached Experience
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	exp, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(exp); err == nil {
		if err := r.redis.Set(ctx, key, data, cacheTTL).Err(); err != nil {
			log.Warn().Err(err).Msg("Failed to cache experience")
		}
	}
	return exp, nil
}

func (r *cachedRepository) GetBySlug(ctx context.Context, slug string) (*Experience, error) {
	// Slug lookups delegate; the detail cache is keyed by ID.
	return r.inner.GetBySlug(ctx, slug)
}

func (r *cachedRepository) Create(ctx context.Context, exp *Experience) error {
	if err := r.inner.Create(ctx, exp); err != nil {
		return err
	}
	r.invalidate(ctx, exp.ID)
	return nil
}

func (r *cachedRepository) Update(ctx context.Context, exp *Experience) error {
	if err := r.inner.Update(ctx, exp); err != nil {
		return err
	}
	r.invalidate(ctx, exp.ID)
	return nil
}

func (r *cachedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *cachedRepository) ReserveSeat(ctx context.Context, slotID uuid.UUID) error {
	if err := r.inner.ReserveSeat(ctx, slotID); err != nil {
		return err
	}
	// Capacity changed somewhere in the calendar; drop the whole
	// catalog cache rather than track slot-to-experience mappings.
	r.invalidateAll(ctx)
	return nil
}

func (r *cachedRepository) ReleaseSeat(ctx context.Context, slotID uuid.UUID) error {
	if err := r.inner.ReleaseSeat(ctx, slotID); err != nil {
		return err
	}
	r.invalidateAll(ctx)
	return nil
}

func (r *cachedRepository) AddImage(ctx context.Context, img *Image) error {
	if err := r.inner.AddImage(ctx, img); err != nil {
		return err
	}
	r.invalidate(ctx, img.ExperienceID)

	// Wake the image worker; it also polls, so delivery is best-effort.
	if err := r.redis.Publish(ctx, "images:uploaded", img.ID.String()).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to publish image wake-up")
	}
	return nil
}

func (r *cachedRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if err := r.redis.Del(ctx, cacheKeyPrefix+id.String(), cacheListKey).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate experience cache")
	}
}

func (r *cachedRepository) invalidateAll(ctx context.Context) {
	iter := r.redis.Scan(ctx, 0, cacheKeyPrefix+"*", 0).Iterator()
	keys := []string{cacheListKey}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := r.redis.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate catalog cache")
	}
}
