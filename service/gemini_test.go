package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"contentagent.app/config"
)

func testGeminiConfig(baseURL string) *config.GeminiConfig {
	return &config.GeminiConfig{
		APIKey:            "test-key-1234567890",
		BaseURL:           baseURL,
		Models:            "model-a,model-b",
		Temperature:       0.75,
		MaxOutputTokens:   8000,
		TimeoutSeconds:    5,
		MaxRetries:        2,
		RetryDelaySeconds: 0,
	}
}

func candidateResponse(text string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"parts":[{"text":%q}]}}]}`, text)
}

func TestGeminiClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "model-a:generateContent")
		assert.Equal(t, "test-key-1234567890", r.URL.Query().Get("key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "bihar election")
		assert.Equal(t, 0.3, req.GenerationConfig.Temperature)
		assert.Equal(t, 2000, req.GenerationConfig.MaxOutputTokens)

		fmt.Fprint(w, candidateResponse("extracted facts here"))
	}))
	defer server.Close()

	client, err := NewGeminiClient(testGeminiConfig(server.URL))
	require.NoError(t, err)

	text, err := client.Generate(context.Background(), "tell me about bihar election", 0.3, 2000)
	require.NoError(t, err)
	assert.Equal(t, "extracted facts here", text)
}

func TestGeminiClient_ModelFallback(t *testing.T) {
	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		if strings.Contains(r.URL.Path, "model-a") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, candidateResponse("from model-b"))
	}))
	defer server.Close()

	client, err := NewGeminiClient(testGeminiConfig(server.URL))
	require.NoError(t, err)

	text, err := client.Generate(context.Background(), "anything", 0.5, 100)
	require.NoError(t, err)
	assert.Equal(t, "from model-b", text)

	// An unknown model is skipped immediately, not retried.
	require.Len(t, calls, 2)
	assert.Contains(t, calls[0], "model-a")
	assert.Contains(t, calls[1], "model-b")
}

func TestGeminiClient_RetriesQuotaErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, candidateResponse("second time lucky"))
	}))
	defer server.Close()

	client, err := NewGeminiClient(testGeminiConfig(server.URL))
	require.NoError(t, err)

	text, err := client.Generate(context.Background(), "anything", 0.5, 100)
	require.NoError(t, err)
	assert.Equal(t, "second time lucky", text)
	assert.Equal(t, 2, attempts)
}

func TestGeminiClient_AllModelsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewGeminiClient(testGeminiConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "anything", 0.5, 100)
	assert.Error(t, err)
}

func TestGeminiClient_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	}))
	defer server.Close()

	client, err := NewGeminiClient(testGeminiConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "anything", 0.5, 100)
	assert.Error(t, err)
}

func TestGeminiClient_Validation(t *testing.T) {
	t.Run("MissingAPIKey", func(t *testing.T) {
		cfg := testGeminiConfig("http://localhost:1")
		cfg.APIKey = ""

		_, err := NewGeminiClient(cfg)
		assert.Error(t, err)
	})

	t.Run("EmptyPrompt", func(t *testing.T) {
		client, err := NewGeminiClient(testGeminiConfig("http://localhost:1"))
		require.NoError(t, err)

		_, err = client.Generate(context.Background(), "", 0.5, 100)
		assert.Error(t, err)
	})
}
