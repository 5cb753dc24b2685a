// Package models defines data structures used throughout the application
package models

import (
	"time"

	"gorm.io/gorm"
)

// WebSource represents one news snippet found by a search provider
type WebSource struct {
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	Snippet       string    `json:"snippet"`
	SourceName    string    `json:"source"`
	PublishedDate time.Time `json:"date,omitempty"`
	Credibility   float64   `json:"credibility"` // 0.0 to 1.0
}

// SearchResult represents the outcome of a web search for a topic
type SearchResult struct {
	Query      string      `json:"query"`
	Sources    []WebSource `json:"sources"`
	TotalFound int         `json:"total_found"`
	Timestamp  time.Time   `json:"timestamp"`
}

// UniqueSources returns the sources deduplicated by URL, preserving order
func (r *SearchResult) UniqueSources() []WebSource {
	seen := make(map[string]bool, len(r.Sources))
	unique := make([]WebSource, 0, len(r.Sources))
	for _, source := range r.Sources {
		if !seen[source.URL] {
			seen[source.URL] = true
			unique = append(unique, source)
		}
	}
	return unique
}

// HighCredibilitySources returns only sources at or above the threshold
func (r *SearchResult) HighCredibilitySources(threshold float64) []WebSource {
	filtered := make([]WebSource, 0, len(r.Sources))
	for _, source := range r.Sources {
		if source.Credibility >= threshold {
			filtered = append(filtered, source)
		}
	}
	return filtered
}

// ShortScript represents one short-form video script variant
type ShortScript struct {
	Hook   string `json:"hook"`
	Body   string `json:"body"`
	Ending string `json:"ending"`
}

// SEOPackage represents search metadata for the generated content
type SEOPackage struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Hashtags    []string `json:"hashtags"`
}

// ScriptPackage represents the complete generated content for a topic
type ScriptPackage struct {
	Topic       string        `json:"topic"`
	LongScript  string        `json:"long_script"`
	Shorts      []ShortScript `json:"shorts"`
	Titles      []string      `json:"titles"`
	SEO         SEOPackage    `json:"seo"`
	Facts       string        `json:"facts"`
	Sources     []WebSource   `json:"sources"`
	WordCount   int           `json:"word_count"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// Generation represents one completed generation run, persisted for history
type Generation struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	Topic       string         `json:"topic" gorm:"index;not null"`
	OutputPath  string         `json:"output_path" gorm:"not null"`
	WordCount   int            `json:"word_count"`
	SourceCount int            `json:"source_count"`
	DurationMS  int64          `json:"duration_ms"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// GenerateRequest represents data required to start a generation
type GenerateRequest struct {
	Topic string `json:"topic" form:"topic" binding:"required,min=3,max=300"`
}

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}
