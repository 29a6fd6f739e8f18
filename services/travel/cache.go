package travel

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"masterbook/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const travelCachePrefix = "travel:"

// noRouteMarker is cached in place of a duration when no route exists.
const noRouteMarker = -1

// CachedOracle memoises another Oracle in Redis. Departures are bucketed so
// nearby requests share an entry.
type CachedOracle struct {
	next   Oracle
	client *redis.Client
	ttl    time.Duration
	bucket time.Duration
	logger *zap.Logger
}

func NewCachedOracle(next Oracle, client *redis.Client, ttl, bucket time.Duration, logger *zap.Logger) *CachedOracle {
	if bucket <= 0 {
		bucket = 30 * time.Minute
	}
	return &CachedOracle{next: next, client: client, ttl: ttl, bucket: bucket, logger: logger}
}

func (c *CachedOracle) key(from, to models.GeoPoint, departure time.Time) string {
	return fmt.Sprintf("%s%s:%s:%d", travelCachePrefix, latLng(from), latLng(to), departure.Truncate(c.bucket).Unix())
}

func (c *CachedOracle) EstimateTravelSeconds(ctx context.Context, from, to models.GeoPoint, departure time.Time) (int, error) {
	key := c.key(from, to, departure)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if secs, convErr := strconv.Atoi(cached); convErr == nil {
			if secs == noRouteMarker {
				return 0, ErrNoRoute
			}
			return secs, nil
		}
	case err != redis.Nil:
		// A cache outage only costs a remote call.
		c.logger.Warn("travel cache read failed", zap.String("key", key), zap.Error(err))
	}

	secs, err := c.next.EstimateTravelSeconds(ctx, from, to, departure)
	value := secs
	if errors.Is(err, ErrNoRoute) {
		value = noRouteMarker
	} else if err != nil {
		return 0, err
	}

	if setErr := c.client.Set(ctx, key, value, c.ttl).Err(); setErr != nil {
		c.logger.Warn("travel cache write failed", zap.String("key", key), zap.Error(setErr))
	}
	return secs, err
}
