package providers

import (
	"context"

	"contentagent.app/models"
)

// SearchProvider defines the interface for a single news search source
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]models.WebSource, error)
	SourceName() string
}

// SearchService defines the interface the generation pipeline searches through
type SearchService interface {
	Search(ctx context.Context, query string) (*models.SearchResult, error)
}
