package rbac_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/sentra-auth/sentra/internal/rbac"
	"github.com/sentra-auth/sentra/internal/shared"
)

func newCacheUnderTest(t *testing.T, src rbac.RuleSource) *rbac.RuleCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return rbac.NewRuleCache(src, client, time.Minute)
}

func TestRuleCacheReadThrough(t *testing.T) {
	src := &stubRules{rules: map[string]rbac.Rule{
		ruleKey(3, "orders"): {ID: 9, RoleID: 3, ReadPermission: true},
	}}
	cache := newCacheUnderTest(t, src)
	ctx := context.Background()

	first, err := cache.RuleFor(ctx, 3, "orders")
	require.NoError(t, err)
	require.True(t, first.ReadPermission)
	require.Equal(t, 1, src.calls)

	second, err := cache.RuleFor(ctx, 3, "orders")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, src.calls, "second lookup must come from cache")
}

func TestRuleCacheCachesMisses(t *testing.T) {
	src := &stubRules{}
	cache := newCacheUnderTest(t, src)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := cache.RuleFor(ctx, 3, "orders")
		require.ErrorIs(t, err, shared.ErrNotFound)
	}
	require.Equal(t, 1, src.calls, "misses must be cached too")
}

func TestRuleCacheInvalidate(t *testing.T) {
	src := &stubRules{rules: map[string]rbac.Rule{
		ruleKey(3, "orders"): {ReadPermission: true},
	}}
	cache := newCacheUnderTest(t, src)
	ctx := context.Background()

	_, err := cache.RuleFor(ctx, 3, "orders")
	require.NoError(t, err)
	require.Equal(t, 1, src.calls)

	// The matrix changed; drop every cached entry at once.
	delete(src.rules, ruleKey(3, "orders"))
	require.NoError(t, cache.Invalidate(ctx))

	_, err = cache.RuleFor(ctx, 3, "orders")
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Equal(t, 2, src.calls)
}

func TestRuleCacheSourceErrorsNotCached(t *testing.T) {
	src := &stubRules{err: errors.New("store down")}
	cache := newCacheUnderTest(t, src)
	ctx := context.Background()

	_, err := cache.RuleFor(ctx, 3, "orders")
	require.Error(t, err)

	src.err = nil
	src.rules = map[string]rbac.Rule{ruleKey(3, "orders"): {ReadPermission: true}}
	rule, err := cache.RuleFor(ctx, 3, "orders")
	require.NoError(t, err)
	require.True(t, rule.ReadPermission)
}

func TestRuleCacheNilClientPassesThrough(t *testing.T) {
	src := &stubRules{rules: map[string]rbac.Rule{
		ruleKey(3, "orders"): {ReadPermission: true},
	}}
	cache := rbac.NewRuleCache(src, nil, time.Minute)

	rule, err := cache.RuleFor(context.Background(), 3, "orders")
	require.NoError(t, err)
	require.True(t, rule.ReadPermission)
	require.NoError(t, cache.Invalidate(context.Background()))
}
