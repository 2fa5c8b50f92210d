package verify

// cache.go caches affirmative verification outcomes in Redis. Manifest
// uploads repeat the same ship-from address on every row, and carrier
// verification APIs are both slow and rate-limited, so a short TTL pays
// for itself immediately. Cache failures are treated as misses; losing
// the cache must never break verification.

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/core"
)

const (
	// DefaultCacheTTL is how long a verified address stays cached.
	DefaultCacheTTL = 24 * time.Hour

	// cacheKeyPrefix namespaces verification keys in Redis.
	cacheKeyPrefix = "labelmaker:verify:"
)

// OutcomeCache is a Redis-backed cache of verification outcomes keyed
// by normalized address.
type OutcomeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewOutcomeCache creates a cache over the given Redis client.
func NewOutcomeCache(rdb *redis.Client, ttl time.Duration) *OutcomeCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &OutcomeCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached outcome for addr, if any.
func (c *OutcomeCache) Get(ctx context.Context, addr core.Address) (core.VerificationOutcome, bool) {
	data, err := c.rdb.Get(ctx, cacheKey(addr)).Bytes()
	if err == redis.Nil {
		return core.VerificationOutcome{}, false
	}
	if err != nil {
		slog.Warn("verification cache read failed", "error", err)
		return core.VerificationOutcome{}, false
	}

	var outcome core.VerificationOutcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		slog.Warn("verification cache entry corrupt", "error", err)
		return core.VerificationOutcome{}, false
	}
	return outcome, true
}

// Put stores an outcome for addr. Write failures are logged and dropped.
func (c *OutcomeCache) Put(ctx context.Context, addr core.Address, outcome core.VerificationOutcome) {
	data, err := json.Marshal(outcome)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(addr), data, c.ttl).Err(); err != nil {
		slog.Warn("verification cache write failed", "error", err)
	}
}

// cacheKey hashes the location fields of an address. Names and phones
// do not affect deliverability, so they stay out of the key.
func cacheKey(addr core.Address) string {
	h := sha256.New()
	for _, part := range []string{addr.Street, addr.Street2, addr.City, addr.State, addr.Zip} {
		h.Write([]byte(strings.ToLower(strings.TrimSpace(part))))
		h.Write([]byte{'|'})
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
