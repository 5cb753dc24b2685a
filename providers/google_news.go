package providers

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"contentagent.app/config"
	"contentagent.app/errors"
	"contentagent.app/models"
)

const googleNewsBaseURL = "https://news.google.com/rss/search"

// GoogleNewsProvider fetches news snippets from the Google News RSS feed
type GoogleNewsProvider struct {
	baseURL    string
	userAgent  string
	maxResults int
	client     *http.Client
}

type googleNewsFeed struct {
	Channel struct {
		Items []googleNewsItem `xml:"item"`
	} `xml:"channel"`
}

type googleNewsItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

// NewGoogleNewsProvider creates a Google News RSS provider
func NewGoogleNewsProvider(cfg *config.SearchConfig) *GoogleNewsProvider {
	return &GoogleNewsProvider{
		baseURL:    googleNewsBaseURL,
		userAgent:  cfg.UserAgent,
		maxResults: cfg.MaxResultsPerSource,
		client:     &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

func (p *GoogleNewsProvider) SourceName() string {
	return "Google News"
}

// Search queries the RSS feed and parses the returned items
func (p *GoogleNewsProvider) Search(ctx context.Context, query string) ([]models.WebSource, error) {
	if query == "" {
		return nil, errors.NewValidationError("search query cannot be empty")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "en-IN")
	params.Set("gl", "IN")
	params.Set("ceid", "IN:en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.NewSearchError("failed to build google news request", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.NewSearchError("google news request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewSearchError(fmt.Sprintf("google news returned status %d", resp.StatusCode), nil)
	}

	var feed googleNewsFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, errors.NewSearchError("failed to parse google news feed", err)
	}

	sources := make([]models.WebSource, 0, len(feed.Channel.Items))
	for i, item := range feed.Channel.Items {
		if i >= p.maxResults {
			break
		}
		source := models.WebSource{
			Title:      item.Title,
			URL:        item.Link,
			Snippet:    item.Description,
			SourceName: p.SourceName(),
		}
		if published, err := time.Parse(time.RFC1123, item.PubDate); err == nil {
			source.PublishedDate = published
		}
		sources = append(sources, source)
	}

	return sources, nil
}
