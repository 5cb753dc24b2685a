package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"contentagent.app/config"
	"contentagent.app/errors"
	"contentagent.app/models"
)

const duckDuckGoBaseURL = "https://api.duckduckgo.com/"

// DuckDuckGoProvider fetches snippets from the DuckDuckGo Instant Answer API
type DuckDuckGoProvider struct {
	baseURL    string
	userAgent  string
	maxResults int
	client     *http.Client
}

type duckDuckGoResponse struct {
	Heading        string `json:"Heading"`
	AbstractText   string `json:"AbstractText"`
	AbstractSource string `json:"AbstractSource"`
	AbstractURL    string `json:"AbstractURL"`
	RelatedTopics  []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// NewDuckDuckGoProvider creates a DuckDuckGo instant answer provider
func NewDuckDuckGoProvider(cfg *config.SearchConfig) *DuckDuckGoProvider {
	return &DuckDuckGoProvider{
		baseURL:    duckDuckGoBaseURL,
		userAgent:  cfg.UserAgent,
		maxResults: cfg.MaxResultsPerSource,
		client:     &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

func (p *DuckDuckGoProvider) SourceName() string {
	return "DuckDuckGo"
}

// Search queries the instant answer API and extracts the abstract plus
// related topics
func (p *DuckDuckGoProvider) Search(ctx context.Context, query string) ([]models.WebSource, error) {
	if query == "" {
		return nil, errors.NewValidationError("search query cannot be empty")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.NewSearchError("failed to build duckduckgo request", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.NewSearchError("duckduckgo request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewSearchError(fmt.Sprintf("duckduckgo returned status %d", resp.StatusCode), nil)
	}

	var data duckDuckGoResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, errors.NewSearchError("failed to parse duckduckgo response", err)
	}

	var sources []models.WebSource

	if data.AbstractText != "" {
		sourceName := data.AbstractSource
		if sourceName == "" {
			sourceName = p.SourceName()
		}
		sources = append(sources, models.WebSource{
			Title:      data.Heading,
			URL:        data.AbstractURL,
			Snippet:    data.AbstractText,
			SourceName: sourceName,
		})
	}

	for _, topic := range data.RelatedTopics {
		if len(sources) >= p.maxResults {
			break
		}
		if topic.Text == "" {
			continue
		}
		sources = append(sources, models.WebSource{
			Title:      topicTitle(topic.FirstURL),
			URL:        topic.FirstURL,
			Snippet:    topic.Text,
			SourceName: p.SourceName(),
		})
	}

	return sources, nil
}

// topicTitle derives a readable title from a related-topic URL
func topicTitle(firstURL string) string {
	parts := strings.Split(firstURL, "/")
	last := parts[len(parts)-1]
	return strings.ReplaceAll(last, "_", " ")
}
