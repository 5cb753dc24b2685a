package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"contentagent.app/config"
	"contentagent.app/errors"
)

// LLMClient abstracts the text generation backend so the pipeline can be
// tested without network access
type LLMClient interface {
	Generate(ctx context.Context, prompt string, temperature float64, maxOutputTokens int) (string, error)
}

// GeminiClient calls the Generative Language REST API. Models are tried in
// the configured order: when one is unavailable or keeps hitting its quota,
// the client falls through to the next.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	models     []string
	maxRetries int
	retryDelay time.Duration
	client     *http.Client
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewGeminiClient creates a Gemini API client from configuration
func NewGeminiClient(cfg *config.GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigurationError("GEMINI_API_KEY is required", nil)
	}

	return &GeminiClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		models:     cfg.ModelList(),
		maxRetries: cfg.MaxRetries,
		retryDelay: time.Duration(cfg.RetryDelaySeconds) * time.Second,
		client:     &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}, nil
}

// Generate produces text for the prompt, walking the model fallback chain.
// Rate limiting and transient server errors are retried per model; a model
// the API does not know is skipped without retrying.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, temperature float64, maxOutputTokens int) (string, error) {
	if prompt == "" {
		return "", errors.NewValidationError("prompt cannot be empty")
	}

	var lastErr error
	for _, model := range c.models {
		text, err := c.generateWithModel(ctx, model, prompt, temperature, maxOutputTokens)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if appErr, ok := err.(*errors.AppError); ok && appErr.Type == errors.ValidationError {
			return "", err
		}

		slog.Warn("model unavailable, trying next", "model", model, "error", err)
	}

	return "", errors.NewExternalAPIError("all configured models failed", lastErr)
}

func (c *GeminiClient) generateWithModel(ctx context.Context, model, prompt string, temperature float64, maxOutputTokens int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := c.wait(ctx); err != nil {
				return "", errors.NewExternalAPIError("generation cancelled", err)
			}
			slog.Debug("retrying generation", "model", model, "attempt", attempt)
		}

		text, retryable, err := c.doRequest(ctx, model, prompt, temperature, maxOutputTokens)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}
	return "", lastErr
}

// doRequest performs a single generateContent call. The second return value
// reports whether the failure is worth retrying on the same model.
func (c *GeminiClient) doRequest(ctx context.Context, model, prompt string, temperature float64, maxOutputTokens int) (string, bool, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxOutputTokens,
		},
	})
	if err != nil {
		return "", false, errors.NewSerializationError("failed to encode generation request", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", false, errors.NewExternalAPIError("failed to build generation request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", true, errors.NewExternalAPIError("generation request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var data geminiResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&data); decodeErr != nil && resp.StatusCode == http.StatusOK {
		return "", false, errors.NewExternalAPIError("failed to decode generation response", decodeErr)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// handled below
	case resp.StatusCode == http.StatusNotFound:
		return "", false, errors.NewNotFoundError(fmt.Sprintf("model %s not available", model))
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", true, errors.NewExternalAPIError(fmt.Sprintf("model %s quota exhausted", model), nil)
	case resp.StatusCode >= http.StatusInternalServerError:
		return "", true, errors.NewExternalAPIError(fmt.Sprintf("generation API returned status %d", resp.StatusCode), nil)
	default:
		message := fmt.Sprintf("generation API returned status %d", resp.StatusCode)
		if data.Error != nil {
			message = fmt.Sprintf("%s: %s", message, data.Error.Message)
		}
		return "", false, errors.NewExternalAPIError(message, nil)
	}

	if len(data.Candidates) == 0 || len(data.Candidates[0].Content.Parts) == 0 {
		return "", false, errors.NewExternalAPIError("generation response contained no candidates", nil)
	}

	var text string
	for _, part := range data.Candidates[0].Content.Parts {
		text += part.Text
	}
	if text == "" {
		return "", false, errors.NewExternalAPIError("generation response contained empty text", nil)
	}
	return text, false, nil
}

func (c *GeminiClient) wait(ctx context.Context) error {
	if c.retryDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.retryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
