package rbac

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/sentra-auth/sentra/internal/shared"
)

const ruleCacheVersionKey = "rbac:rules:version"

// cachedRule is the wire form of a cache entry. Absent rules are cached too
// (Miss=true): default-deny lookups are the hot path for under-privileged
// roles and would otherwise hit the store on every request.
type cachedRule struct {
	Miss bool `json:"miss,omitempty"`
	Rule Rule `json:"rule"`
}

// RuleCache is a read-through cache in front of a RuleSource. Entries carry
// the current matrix version in their key; any rule mutation bumps the
// version, invalidating the whole matrix at once. Concurrent misses for the
// same key are collapsed through singleflight. On any Redis failure the
// cache degrades to the underlying source.
type RuleCache struct {
	source RuleSource
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewRuleCache wraps source with a Redis cache. A nil client yields a
// pass-through cache.
func NewRuleCache(source RuleSource, client *redis.Client, ttl time.Duration) *RuleCache {
	return &RuleCache{source: source, client: client, ttl: ttl}
}

// RuleFor implements RuleSource.
func (c *RuleCache) RuleFor(ctx context.Context, roleID int64, resource string) (Rule, error) {
	if c.client == nil {
		return c.source.RuleFor(ctx, roleID, resource)
	}

	key, err := c.buildKey(ctx, roleID, resource)
	if err != nil {
		return c.source.RuleFor(ctx, roleID, resource)
	}

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var entry cachedRule
		if err := json.Unmarshal(raw, &entry); err == nil {
			if entry.Miss {
				return Rule{}, shared.ErrNotFound
			}
			return entry.Rule, nil
		}
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		rule, err := c.source.RuleFor(ctx, roleID, resource)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		entry := cachedRule{Miss: errors.Is(err, shared.ErrNotFound), Rule: rule}
		if raw, merr := json.Marshal(entry); merr == nil {
			_ = c.client.Set(ctx, key, raw, c.ttl).Err()
		}
		return entry, nil
	})
	if err != nil {
		return Rule{}, err
	}

	entry := v.(cachedRule)
	if entry.Miss {
		return Rule{}, shared.ErrNotFound
	}
	return entry.Rule, nil
}

// Invalidate bumps the matrix version, orphaning every cached entry.
func (c *RuleCache) Invalidate(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, ruleCacheVersionKey).Err()
}

func (c *RuleCache) buildKey(ctx context.Context, roleID int64, resource string) (string, error) {
	ver, err := c.client.Get(ctx, ruleCacheVersionKey).Int64()
	if err == redis.Nil {
		ver = 1
		if err := c.client.Set(ctx, ruleCacheVersionKey, ver, 0).Err(); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf("rbac:rule:%d:%s:%d", roleID, resource, ver), nil
}
