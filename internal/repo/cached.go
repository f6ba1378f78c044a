package repo

import (
	"context"
	"fmt"
	"time"

	"social-dashboard/internal/core/cache"
	"social-dashboard/internal/domain"
)

const defaultCacheTTL = time.Minute

func cacheKeyUsers() string                { return "users" }
func cacheKeyPostsAll() string             { return "posts:all" }
func cacheKeyPostsPage(page, n int) string { return fmt.Sprintf("posts:page:%d:%d", page, n) }

// CachedSource is a read-through Redis cache in front of another Source.
type CachedSource struct {
	cache  *cache.Cache
	origin domain.Source
	ttl    time.Duration
}

func NewCachedSource(c *cache.Cache, origin domain.Source, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedSource{cache: c, origin: origin, ttl: ttl}
}

var _ domain.Source = (*CachedSource)(nil)

func (s *CachedSource) ListUsers(ctx context.Context) ([]domain.User, error) {
	return cache.GetOrLoadJSON(ctx, s.cache, cacheKeyUsers(), s.ttl, s.origin.ListUsers)
}

func (s *CachedSource) ListPostsPage(ctx context.Context, page, limit int) ([]domain.Post, error) {
	return cache.GetOrLoadJSON(ctx, s.cache, cacheKeyPostsPage(page, limit), s.ttl,
		func(ctx context.Context) ([]domain.Post, error) {
			return s.origin.ListPostsPage(ctx, page, limit)
		})
}

func (s *CachedSource) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return cache.GetOrLoadJSON(ctx, s.cache, cacheKeyPostsAll(), s.ttl, s.origin.ListPosts)
}
