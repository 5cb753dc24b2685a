package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"contentagent.app/cache"
	"contentagent.app/config"
	"contentagent.app/errors"
	"contentagent.app/models"
	"contentagent.app/providers"
)

const (
	minTopicLength = 3
	maxTopicLength = 300
)

// Topics are whitelisted rather than escaped: they end up inside prompts,
// filenames and cache keys.
var topicPattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_(),.']+$`)

// noFactsAvailable stands in for the extraction stage when search came back
// empty, so the analysis prompt still has a facts section to reference
const noFactsAvailable = "No web data available for fact extraction."

// Generator runs the content pipeline: search, fact extraction, analysis,
// document rendering. Finished packages are cached so re-running a topic
// within the TTL skips the expensive generation calls.
type Generator struct {
	search providers.SearchService
	llm    LLMClient
	cache  *cache.TieredCache
	writer *MarkdownWriter
	gemini *config.GeminiConfig
	output *config.OutputConfig
}

// NewGenerator wires the pipeline from its collaborators
func NewGenerator(
	search providers.SearchService,
	llm LLMClient,
	tieredCache *cache.TieredCache,
	writer *MarkdownWriter,
	geminiCfg *config.GeminiConfig,
	outputCfg *config.OutputConfig,
) *Generator {
	return &Generator{
		search: search,
		llm:    llm,
		cache:  tieredCache,
		writer: writer,
		gemini: geminiCfg,
		output: outputCfg,
	}
}

// ValidateTopic checks and normalizes a topic string
func ValidateTopic(topic string) (string, error) {
	topic = strings.TrimSpace(topic)

	if len(topic) < minTopicLength {
		return "", errors.NewValidationError("topic must be at least 3 characters")
	}
	if len(topic) > maxTopicLength {
		return "", errors.NewValidationError("topic must be less than 300 characters")
	}
	if !topicPattern.MatchString(topic) {
		return "", errors.NewValidationError(
			"topic contains invalid characters; allowed: letters, digits, spaces, hyphens, underscores, parentheses, commas, periods, apostrophes")
	}
	return topic, nil
}

// Generate produces the full content package for a topic and writes the
// markdown document. It returns the package and the path of the document.
func (g *Generator) Generate(ctx context.Context, topic string) (*models.ScriptPackage, string, error) {
	topic, err := ValidateTopic(topic)
	if err != nil {
		return nil, "", err
	}

	started := time.Now()
	cacheKey := cache.Key("analysis", topic)

	var pkg models.ScriptPackage
	if g.cache != nil {
		found, err := g.cache.Get(ctx, cacheKey, &pkg)
		if err == nil && found {
			slog.Info("analysis cache hit", "topic", topic)
			path, writeErr := g.writer.Write(&pkg)
			if writeErr != nil {
				return nil, "", writeErr
			}
			return &pkg, path, nil
		}
	}

	slog.Info("starting generation", "topic", topic)

	result, err := g.search.Search(ctx, topic)
	if err != nil {
		return nil, "", err
	}

	facts, err := g.extractFacts(ctx, topic, result)
	if err != nil {
		return nil, "", err
	}

	analysis, err := g.llm.Generate(ctx, analysisPrompt(topic, facts, g.output), g.gemini.Temperature, g.gemini.MaxOutputTokens)
	if err != nil {
		return nil, "", err
	}

	pkg = parseAnalysis(topic, analysis, facts, result.Sources)

	if g.cache != nil {
		if err := g.cache.Set(ctx, cacheKey, &pkg, g.cache.DefaultTTL()); err != nil {
			slog.Warn("failed to cache analysis", "topic", topic, "error", err)
		}
	}

	path, err := g.writer.Write(&pkg)
	if err != nil {
		return nil, "", err
	}

	slog.Info("generation completed",
		"topic", topic,
		"words", pkg.WordCount,
		"sources", len(pkg.Sources),
		"duration", time.Since(started),
		"output", path)

	return &pkg, path, nil
}

// extractFacts runs the first generation stage. With no search results the
// stage is skipped rather than failed: the analysis still runs, just without
// fresh facts.
func (g *Generator) extractFacts(ctx context.Context, topic string, result *models.SearchResult) (string, error) {
	if result == nil || len(result.Sources) == 0 {
		slog.Warn("no search results available for fact extraction", "topic", topic)
		return noFactsAvailable, nil
	}

	facts, err := g.llm.Generate(ctx, factExtractionPrompt(topic, result.Sources), factTemperature, factMaxOutputTokens)
	if err != nil {
		return "", err
	}
	return facts, nil
}

// parseAnalysis turns the raw analysis text into a structured package. The
// model output is markdown with known headings; anything the parser cannot
// find stays empty, the full text is always preserved in LongScript.
func parseAnalysis(topic, analysis, facts string, sources []models.WebSource) models.ScriptPackage {
	return models.ScriptPackage{
		Topic:       topic,
		LongScript:  analysis,
		Shorts:      parseShorts(analysis),
		Titles:      parseTitles(analysis),
		SEO:         parseSEO(analysis),
		Facts:       facts,
		Sources:     sources,
		WordCount:   len(strings.Fields(analysis)),
		GeneratedAt: time.Now(),
	}
}

var numberedLine = regexp.MustCompile(`^\d+[.)]\s*(.+)$`)

// parseTitles pulls the numbered list out of the TITLE OPTIONS section
func parseTitles(analysis string) []string {
	section := extractSection(analysis, "TITLE OPTIONS")
	if section == "" {
		return nil
	}

	var titles []string
	for _, line := range strings.Split(section, "\n") {
		if m := numberedLine.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			titles = append(titles, strings.Trim(m[1], `"`))
		}
	}
	return titles
}

// parseShorts splits the YOUTUBE SHORTS section into per-variant scripts
func parseShorts(analysis string) []models.ShortScript {
	section := extractSection(analysis, "YOUTUBE SHORTS")
	if section == "" {
		return nil
	}

	var shorts []models.ShortScript
	for _, block := range strings.Split(section, "### ")[1:] {
		lines := strings.SplitN(block, "\n", 2)
		if len(lines) < 2 {
			continue
		}
		shorts = append(shorts, models.ShortScript{
			Hook: strings.TrimSpace(lines[0]),
			Body: strings.TrimSpace(lines[1]),
		})
	}
	return shorts
}

// parseSEO extracts description, tags and hashtags from the SEO PACKAGE
// section
func parseSEO(analysis string) models.SEOPackage {
	section := extractSection(analysis, "SEO PACKAGE")
	if section == "" {
		return models.SEOPackage{}
	}

	seo := models.SEOPackage{
		Description: strings.TrimSpace(extractSubsection(section, "Description:")),
	}

	if tags := extractSubsection(section, "Tags:"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				seo.Tags = append(seo.Tags, trimmed)
			}
		}
	}

	if hashtags := extractSubsection(section, "Hashtags:"); hashtags != "" {
		for _, tag := range strings.Fields(hashtags) {
			if strings.HasPrefix(tag, "#") {
				seo.Hashtags = append(seo.Hashtags, tag)
			}
		}
	}

	return seo
}

// extractSection returns the body of the "## ..." section whose heading
// contains the marker, up to the next "## " heading
func extractSection(analysis, marker string) string {
	for _, section := range strings.Split(analysis, "\n## ") {
		heading, body, ok := strings.Cut(section, "\n")
		if !ok {
			continue
		}
		if strings.Contains(heading, marker) {
			return body
		}
	}
	return ""
}

// extractSubsection returns the text between a "### marker" line and the
// next subsection heading
func extractSubsection(section, marker string) string {
	_, rest, ok := strings.Cut(section, "### "+marker)
	if !ok {
		return ""
	}
	if next := strings.Index(rest, "### "); next >= 0 {
		rest = rest[:next]
	}
	return strings.TrimSpace(rest)
}
