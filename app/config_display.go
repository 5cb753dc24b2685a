package app

import (
	"log"
	"strings"

	"contentagent.app/config"
)

// ConfigDisplayer handles configuration display for troubleshooting
type ConfigDisplayer struct{}

// NewConfigDisplayer creates a new configuration displayer
func NewConfigDisplayer() *ConfigDisplayer {
	return &ConfigDisplayer{}
}

// PrintConfig prints the effective configuration with secrets masked
func (cd *ConfigDisplayer) PrintConfig(cfg *config.Config) {
	log.Println("==== APPLICATION CONFIGURATION ====")

	log.Printf("SERVER:\n")
	log.Printf("  Port: %d\n", cfg.Server.Port)

	log.Printf("\nDATABASE:\n")
	log.Printf("  Path: %s\n", cfg.Database.Path)

	log.Printf("\nCACHE:\n")
	log.Printf("  Enabled: %t\n", cfg.Cache.Enabled)
	log.Printf("  Max Bytes: %d\n", cfg.Cache.MaxBytes)
	log.Printf("  Default TTL: %ds\n", cfg.Cache.DefaultTTLSeconds)
	log.Printf("  Redis Addr: %s\n", cfg.Cache.RedisAddr)
	log.Printf("  Redis Password: %s\n", cd.maskString(cfg.Cache.RedisPassword))
	log.Printf("  Redis DB: %d\n", cfg.Cache.RedisDB)

	log.Printf("\nGEMINI:\n")
	log.Printf("  API Key: %s\n", cd.maskString(cfg.Gemini.APIKey))
	log.Printf("  Base URL: %s\n", cfg.Gemini.BaseURL)
	log.Printf("  Models: %s\n", strings.Join(cfg.Gemini.ModelList(), ", "))
	log.Printf("  Temperature: %.2f\n", cfg.Gemini.Temperature)
	log.Printf("  Max Output Tokens: %d\n", cfg.Gemini.MaxOutputTokens)

	log.Printf("\nSEARCH:\n")
	log.Printf("  Sources: %s\n", strings.Join(cfg.Search.Sources, ", "))
	log.Printf("  Max Results Per Source: %d\n", cfg.Search.MaxResultsPerSource)
	log.Printf("  Trusted Domains: %s\n", strings.Join(cfg.Search.TrustedDomains, ", "))
	log.Printf("  Cache TTL: %ds\n", cfg.Search.CacheTTLSeconds)

	log.Printf("\nOUTPUT:\n")
	log.Printf("  Dir: %s\n", cfg.Output.Dir)
	log.Printf("  Long Script Minutes: %d\n", cfg.Output.LongScriptMinutes)
	log.Printf("  Shorts Variants: %d\n", cfg.Output.ShortsVariants)
	log.Printf("  Titles Count: %d\n", cfg.Output.TitlesCount)

	log.Println("===================================")
}

// maskString masks sensitive values, keeping a short prefix for recognition
func (cd *ConfigDisplayer) maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + strings.Repeat("*", len(s)-4)
}
