package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"contentagent.app/api"
	"contentagent.app/app"
	"contentagent.app/config"
	"contentagent.app/models"
	"contentagent.app/providers"
	"contentagent.app/repository"
	"contentagent.app/service"
)

const integrationAnalysis = `## EXECUTIVE SUMMARY
The alliance arithmetic changed this week.

## 12 TITLE OPTIONS
1. "Seat Deal EXPLAINED"

## SEO PACKAGE
### Description:
Latest seat-sharing breakdown.
### Tags:
indian politics, elections
### Hashtags:
#IndianPolitics
`

// staticSearchProvider stands in for the live news sources
type staticSearchProvider struct{}

func (p *staticSearchProvider) Search(ctx context.Context, query string) ([]models.WebSource, error) {
	return []models.WebSource{
		{Title: "Alliance announces split", URL: "https://www.thehindu.com/a", Snippet: "The alliance...", SourceName: "Google News"},
	}, nil
}

func (p *staticSearchProvider) SourceName() string { return "static" }

// newGenerationBackend emulates the generation API and counts calls
func newGenerationBackend(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// First stage asks for facts, second for the full analysis.
		text := "- verified fact one\n- verified fact two"
		if strings.Contains(req.Contents[0].Parts[0].Text, "content package") {
			text = integrationAnalysis
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{"parts": []map[string]string{{"text": text}}}},
			},
		})
	}))
}

type testEnv struct {
	router    *gin.Engine
	history   *repository.GenerationRepository
	redis     *miniredis.Miniredis
	llmCalls  *atomic.Int64
	outputDir string
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	redis := miniredis.RunT(t)

	var llmCalls atomic.Int64
	backend := newGenerationBackend(t, &llmCalls)
	t.Cleanup(backend.Close)

	cacheCfg := &config.CacheConfig{
		Enabled:           true,
		MaxBytes:          1024 * 1024,
		DefaultTTLSeconds: 3600,
		RedisAddr:         redis.Addr(),
		DialTimeout:       1,
		ReadTimeout:       1,
		WriteTimeout:      1,
	}
	tiered, err := app.BuildCache(cacheCfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tiered.Close() })

	geminiCfg := &config.GeminiConfig{
		APIKey:          "integration-test-key",
		BaseURL:         backend.URL,
		Models:          "test-model",
		Temperature:     0.75,
		MaxOutputTokens: 8000,
		TimeoutSeconds:  5,
	}
	llm, err := service.NewGeminiClient(geminiCfg)
	require.NoError(t, err)

	searchManager := providers.NewSearchManagerWithProviders(
		[]providers.SearchProvider{&staticSearchProvider{}},
		[]string{"thehindu.com"},
	)
	searchService := providers.NewSearchCacheProxy(searchManager, tiered, 30*time.Minute)

	outputDir := t.TempDir()
	generator := service.NewGenerator(
		searchService,
		llm,
		tiered,
		service.NewMarkdownWriter(outputDir),
		geminiCfg,
		&config.OutputConfig{Dir: outputDir, LongScriptMinutes: 20, ShortsVariants: 3, TitlesCount: 12},
	)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Generation{}))
	history := repository.NewGenerationRepository(db)

	cfg := &config.Config{}
	cfg.Server.Port = 8080
	server := api.NewServer(cfg, generator, history)

	return &testEnv{
		router:    server.GetRouter(),
		history:   history,
		redis:     redis,
		llmCalls:  &llmCalls,
		outputDir: outputDir,
	}
}

func (e *testEnv) generate(t *testing.T, topic string) models.Generation {
	t.Helper()

	body := fmt.Sprintf(`{"topic":%q}`, topic)
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var generation models.Generation
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &generation))
	return generation
}

func TestGenerationPipeline(t *testing.T) {
	env := setupEnv(t)

	first := env.generate(t, "bihar seat sharing")

	assert.Equal(t, "bihar seat sharing", first.Topic)
	assert.Positive(t, first.WordCount)
	assert.Equal(t, 1, first.SourceCount)
	assert.Equal(t, int64(2), env.llmCalls.Load(), "one fact call plus one analysis call")

	// The document landed on disk with the analysis content.
	data, err := os.ReadFile(first.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "EXECUTIVE SUMMARY")

	// Both search and analysis results reached the shared tier, namespaced.
	keys := env.redis.Keys()
	require.NotEmpty(t, keys)
	for _, key := range keys {
		assert.True(t, strings.HasPrefix(key, "contentagent:"), key)
	}

	second := env.generate(t, "bihar seat sharing")

	assert.Equal(t, int64(2), env.llmCalls.Load(), "repeat run is served from cache")
	assert.NotEqual(t, first.OutputPath, second.OutputPath, "each run writes its own document")

	// Both runs are in the history, newest first.
	listed, err := env.history.ListRecent(10)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestGenerationPipeline_SurvivesRedisOutage(t *testing.T) {
	env := setupEnv(t)

	env.redis.Close()

	generation := env.generate(t, "assembly session walkout")
	assert.Equal(t, "assembly session walkout", generation.Topic)
	assert.FileExists(t, generation.OutputPath)
}
