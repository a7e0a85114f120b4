package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aletheia-labs/aletheia/src/verify"
)

const verdictPrefix = "aletheia:verdict:"

// MustRedis connects to Redis or exits.
func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// Verdicts caches finished verdicts keyed by a hash of the claim text, so
// repeat submissions skip the whole pipeline within the TTL window.
type Verdicts struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewVerdicts returns a verdict cache. A zero TTL defaults to one hour.
func NewVerdicts(rdb *redis.Client, ttl time.Duration) *Verdicts {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Verdicts{rdb: rdb, ttl: ttl}
}

// Get returns a cached verdict, if any. Cache errors are treated as misses.
func (c *Verdicts) Get(ctx context.Context, claimText string) (verify.Verdict, bool) {
	raw, err := c.rdb.Get(ctx, verdictKey(claimText)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache: verdict get failed: %v", err)
		}
		return verify.Verdict{}, false
	}

	var v verify.Verdict
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Printf("cache: corrupt verdict entry dropped: %v", err)
		return verify.Verdict{}, false
	}
	return v, true
}

// Set stores a verdict, best-effort.
func (c *Verdicts) Set(ctx context.Context, claimText string, v verify.Verdict) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, verdictKey(claimText), raw, c.ttl).Err(); err != nil {
		log.Printf("cache: verdict set failed: %v", err)
	}
}

func verdictKey(claimText string) string {
	sum := sha256.Sum256([]byte(claimText))
	return verdictPrefix + hex.EncodeToString(sum[:])
}
