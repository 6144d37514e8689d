package cache

import (
	"context"
	"time"
)

const (
	blacklistPrefix = "blacklist:"
	productPrefix   = "product:"
	lockPrefix      = "lock:payment:"
	ratePrefix      = "ratelimit:"
)

func ProductKey(id string) string { return productPrefix + id }

func PaymentLockKey(reference string) string { return lockPrefix + reference }

func RateLimitKey(scope, client string) string { return ratePrefix + scope + ":" + client }

// BlacklistToken stores a token id until the token would have expired.
func BlacklistToken(ctx context.Context, s Store, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.Set(ctx, blacklistPrefix+jti, []byte("1"), ttl)
}

func IsTokenBlacklisted(ctx context.Context, s Store, jti string) (bool, error) {
	return s.Exists(ctx, blacklistPrefix+jti)
}
