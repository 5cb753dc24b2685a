package providers

import (
	"context"
	"log/slog"
	"time"

	"contentagent.app/cache"
	"contentagent.app/models"
)

// SearchCacheProxy caches search results so repeated runs on the same topic
// skip the network round trips.
type SearchCacheProxy struct {
	realService SearchService
	cache       *cache.TieredCache
	cacheTTL    time.Duration
}

func NewSearchCacheProxy(realService SearchService, tieredCache *cache.TieredCache, cacheTTL time.Duration) SearchService {
	return &SearchCacheProxy{
		realService: realService,
		cache:       tieredCache,
		cacheTTL:    cacheTTL,
	}
}

func (p *SearchCacheProxy) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	cacheKey := cache.Key("search", query)

	var cached models.SearchResult
	found, err := p.cache.Get(ctx, cacheKey, &cached)
	if err == nil && found {
		slog.Info("search cache hit", "query", query)
		return &cached, nil
	}

	slog.Info("search cache miss", "query", query)

	result, err := p.realService.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, cacheKey, result, p.cacheTTL); err != nil {
		slog.Warn("failed to cache search result", "query", query, "error", err)
	}

	return result, nil
}
