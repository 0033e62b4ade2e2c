// internal/rules/store/cache.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"visa-eligibility-workers/internal/common/database"
	"visa-eligibility-workers/internal/common/logger"
	"visa-eligibility-workers/internal/common/metrics"
	"visa-eligibility-workers/internal/models"
	"visa-eligibility-workers/internal/visatypes"
)

// CachedStore layers a Redis read-through cache over another Store. Cache
// problems are logged and swallowed; the backing store always wins.
type CachedStore struct {
	inner Store
	redis *database.RedisClient
	ttl   time.Duration
	log   logger.Logger
}

// NewCachedStore wraps inner with a Redis cache using the given entry TTL.
func NewCachedStore(inner Store, redisClient *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedStore {
	return &CachedStore{
		inner: inner,
		redis: redisClient,
		ttl:   ttl,
		log:   log,
	}
}

func cacheKey(visaType string) string {
	return fmt.Sprintf("ruleset:%s", visatypes.Normalize(visaType))
}

// Get tries the cache before the backing store and populates the cache on a
// miss.
func (s *CachedStore) Get(ctx context.Context, visaType string) (*models.VisaRuleSet, error) {
	key := cacheKey(visaType)

	cached, err := s.redis.Get(ctx, key)
	if err == nil {
		var ruleSet models.VisaRuleSet
		if jsonErr := json.Unmarshal([]byte(cached), &ruleSet); jsonErr == nil {
			metrics.RuleSetCacheHits.Inc()
			return &ruleSet, nil
		}
		// Corrupt entry; drop it and fall through to the store.
		if delErr := s.redis.Del(ctx, key); delErr != nil {
			s.log.Warn("failed to drop corrupt cache entry", map[string]interface{}{
				"key":   key,
				"error": delErr.Error(),
			})
		}
	} else if err != redis.Nil {
		s.log.Warn("rule set cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	metrics.RuleSetCacheMisses.Inc()
	ruleSet, err := s.inner.Get(ctx, visaType)
	if err != nil {
		return nil, err
	}

	s.put(ctx, key, ruleSet)
	return ruleSet, nil
}

// Upsert writes through: persist first, then refresh the cache entry.
func (s *CachedStore) Upsert(ctx context.Context, ruleSet models.VisaRuleSet) error {
	if err := s.inner.Upsert(ctx, ruleSet); err != nil {
		return err
	}
	s.put(ctx, cacheKey(ruleSet.VisaType), &ruleSet)
	return nil
}

// List always goes to the backing store; summaries are cheap to query and
// staleness here would be visible to operators.
func (s *CachedStore) List(ctx context.Context) ([]models.RuleSetSummary, error) {
	return s.inner.List(ctx)
}

func (s *CachedStore) put(ctx context.Context, key string, ruleSet *models.VisaRuleSet) {
	encoded, err := json.Marshal(ruleSet)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, string(encoded), s.ttl); err != nil {
		s.log.Warn("rule set cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
