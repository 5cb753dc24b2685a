package service

import (
	"fmt"
	"strings"

	"contentagent.app/config"
	"contentagent.app/models"
)

const (
	// Fact extraction runs cold so the model sticks to what the articles say
	factTemperature     = 0.3
	factMaxOutputTokens = 2000

	// Upper bound on the search context embedded in the extraction prompt
	maxPromptContextChars = 15000
)

// formatSourcesForPrompt renders search results as a numbered article list
func formatSourcesForPrompt(sources []models.WebSource) string {
	var b strings.Builder
	for i, source := range sources {
		fmt.Fprintf(&b, "ARTICLE %d: %s\n", i+1, source.Title)
		fmt.Fprintf(&b, "Source: %s", source.SourceName)
		if !source.PublishedDate.IsZero() {
			fmt.Fprintf(&b, " | Date: %s", source.PublishedDate.Format("2006-01-02"))
		}
		b.WriteString("\n")
		if source.Snippet != "" {
			fmt.Fprintf(&b, "%s\n", source.Snippet)
		}
		b.WriteString("\n")
	}

	text := b.String()
	if len(text) > maxPromptContextChars {
		text = text[:maxPromptContextChars]
	}
	return text
}

// factExtractionPrompt asks the model to pull only verifiable facts out of
// the fetched articles before any analysis happens
func factExtractionPrompt(topic string, sources []models.WebSource) string {
	return fmt.Sprintf(`Analyze the following news articles and extract ONLY factual information about: %s

WEB SEARCH RESULTS:
%s

YOUR TASK: Extract and list:

1. KEY FACTS (5-10 most important facts):
   - Be specific with dates, names, numbers
   - Only verified information from the articles
   - Format: bullet points

2. IMPORTANT DATES:
   - Recent events with exact dates
   - Format: YYYY-MM-DD: Event description

3. KEY PLAYERS:
   - Politicians, parties, organizations mentioned
   - Their roles/positions

4. NUMBERS & STATISTICS:
   - Seat counts, vote shares, percentages
   - Survey results, margins

5. KEY QUOTES:
   - Direct statements attributed to named people

Do NOT speculate. Do NOT add information that is not in the articles.`, topic, formatSourcesForPrompt(sources))
}

// analysisPrompt builds the second-stage prompt that turns extracted facts
// into a full video content package
func analysisPrompt(topic, facts string, out *config.OutputConfig) string {
	return fmt.Sprintf(`You are an expert Indian political analyst and YouTube content creator.
Create a complete content package about: %s

VERIFIED FACTS FROM RECENT NEWS:
%s

Use ONLY the verified facts above. Write in engaging Hinglish style (Hindi-English mix)
suitable for a mass Indian audience.

OUTPUT FORMAT (markdown):

## EXECUTIVE SUMMARY
3-4 sentences capturing the essence of the topic.

## MAIN VIDEO SCRIPT (%d minutes)
### HOOK
Opening 30 seconds that grabs attention.
### LATEST DEVELOPMENTS
What just happened, with dates and specifics.
### ELECTORAL MATHEMATICS
Seat counts, vote shares, alliance arithmetic.
### CAMPAIGN STRATEGY
What each side is doing and why.
### HISTORICAL CONTEXT
Relevant background and precedents.
### KEY PLAYERS
Who matters and what they want.
### FUTURE IMPLICATIONS
What this means going forward.
### CONCLUSION
Wrap-up and call to action.

## YOUTUBE SHORTS (%d variants)
### Short 1: Controversial angle
Hook, body, ending. 45-60 seconds.
### Short 2: Data-driven angle
Hook, body, ending. 45-60 seconds.
### Short 3: Analytical angle
Hook, body, ending. 45-60 seconds.

## %d TITLE OPTIONS
Numbered list of click-worthy titles mixing Hindi and English.

## SEO PACKAGE
### Description:
2-3 sentence video description.
### Tags:
Comma-separated tags.
### Hashtags:
Space-separated hashtags.

NOW CREATE THIS COMPLETE ANALYSIS FOR: %s`,
		topic, facts, out.LongScriptMinutes, out.ShortsVariants, out.TitlesCount, topic)
}
