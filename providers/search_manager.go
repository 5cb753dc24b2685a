package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"contentagent.app/config"
	"contentagent.app/errors"
	"contentagent.app/models"
)

const (
	trustedCredibility = 0.9
	defaultCredibility = 0.5
)

// SearchManager fans a query out to the configured news sources, tolerating
// per-source failure, and merges the results into one deduplicated list.
type SearchManager struct {
	providers      []SearchProvider
	trustedDomains []string
}

// NewSearchManager builds the provider set named by the configuration
func NewSearchManager(cfg *config.SearchConfig) (*SearchManager, error) {
	providers := make([]SearchProvider, 0, len(cfg.Sources))
	for _, source := range cfg.Sources {
		switch source {
		case "google_news":
			providers = append(providers, NewGoogleNewsProvider(cfg))
		case "duckduckgo":
			providers = append(providers, NewDuckDuckGoProvider(cfg))
		default:
			return nil, errors.NewConfigurationError(
				fmt.Sprintf("unknown search source: %s", source), nil)
		}
	}

	return &SearchManager{
		providers:      providers,
		trustedDomains: cfg.TrustedDomains,
	}, nil
}

// NewSearchManagerWithProviders wires an explicit provider list, used by
// tests and callers that assemble their own sources
func NewSearchManagerWithProviders(providers []SearchProvider, trustedDomains []string) *SearchManager {
	return &SearchManager{
		providers:      providers,
		trustedDomains: trustedDomains,
	}
}

// Search queries every source and merges the results. A failing source is
// logged and skipped; the search succeeds with whatever the others return.
func (m *SearchManager) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	if query == "" {
		return nil, errors.NewValidationError("search query cannot be empty")
	}

	var sources []models.WebSource
	for _, provider := range m.providers {
		found, err := provider.Search(ctx, query)
		if err != nil {
			slog.Warn("search source failed", "source", provider.SourceName(), "query", query, "error", err)
			continue
		}
		slog.Debug("search source returned", "source", provider.SourceName(), "count", len(found))
		sources = append(sources, found...)
	}

	result := &models.SearchResult{
		Query:      query,
		Sources:    sources,
		TotalFound: len(sources),
		Timestamp:  time.Now(),
	}
	result.Sources = result.UniqueSources()

	for i := range result.Sources {
		result.Sources[i].Credibility = m.scoreCredibility(result.Sources[i].URL)
	}

	slog.Info("search completed", "query", query, "sources", len(result.Sources))
	return result, nil
}

// scoreCredibility rates a source URL by whether its host is on the trusted
// domain list
func (m *SearchManager) scoreCredibility(rawURL string) float64 {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return defaultCredibility
	}

	host := strings.TrimPrefix(parsed.Host, "www.")
	for _, domain := range m.trustedDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return trustedCredibility
		}
	}
	return defaultCredibility
}
