package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/service"
)

const keyPrefix = "emotion:translation:"

// KV is the subset of the redis client used by the cache
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedTranslator serves repeated translations from Redis. Cache failures
// are logged and never fail a translation; failed translations are never
// cached.
type CachedTranslator struct {
	next   service.Translator
	kv     KV
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedTranslator wraps next with a Redis cache
func NewCachedTranslator(next service.Translator, kv KV, ttl time.Duration, logger *zap.Logger) service.Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedTranslator{next: next, kv: kv, ttl: ttl, logger: logger}
}

// Translate returns a cached translation or asks the wrapped translator
func (c *CachedTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	key := Key(text, source, target)

	cached, err := c.kv.Get(ctx, key).Result()
	switch {
	case err == nil:
		return cached, nil
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("translation cache read failed", zap.Error(err))
	}

	out, err := c.next.Translate(ctx, text, source, target)
	if err != nil {
		return "", err
	}
	if err := c.kv.Set(ctx, key, out, c.ttl).Err(); err != nil {
		c.logger.Warn("translation cache write failed", zap.Error(err))
	}
	return out, nil
}

// Key returns the cache key of a translation
func Key(text, source, target string) string {
	sum := sha256.Sum256([]byte(text))
	return keyPrefix + source + ":" + target + ":" + hex.EncodeToString(sum[:])
}
