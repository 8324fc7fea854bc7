package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/zyquraflow/pkg/config"
)

// OllamaClient talks to a local Ollama server through /api/generate
type OllamaClient struct {
	baseURL         string
	client          *http.Client
	retryMaxElapsed time.Duration
	mockFallback    bool
	logger          *zap.Logger
}

// NewOllamaClient creates an Ollama client from the AI config.
// With MockFallback set, an unreachable server yields a canned summary instead of an error.
func NewOllamaClient(cfg *config.AIConfig, logger *zap.Logger) *OllamaClient {
	return &OllamaClient{
		baseURL:         strings.TrimRight(cfg.OllamaURL, "/"),
		client:          &http.Client{Timeout: cfg.HTTPTimeout},
		retryMaxElapsed: cfg.RetryMaxElapsed,
		mockFallback:    cfg.MockFallback,
		logger:          logger,
	}
}

func (o *OllamaClient) Name() string { return "ollama" }

type ollamaGenerateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// Complete runs a non-streaming generation
func (o *OllamaClient) Complete(ctx context.Context, prompt, model, promptID string) (*LLMResponse, error) {
	start := time.Now()
	params := map[string]interface{}{"temperature": 0.2}

	body, err := json.Marshal(ollamaGenerateRequest{
		Model:   model,
		Prompt:  prompt,
		Stream:  false,
		Options: params,
	})
	if err != nil {
		return nil, err
	}

	var out ollamaGenerateResponse
	err = withRetry(ctx, o.retryMaxElapsed, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := o.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if err := checkStatus("ollama", resp); err != nil {
			return err
		}
		return json.NewDecoder(resp.Body).Decode(&out)
	})
	if err != nil {
		if o.mockFallback && ctx.Err() == nil {
			if o.logger != nil {
				fields := append(jobFields(ctx),
					zap.String("prompt_id", promptID),
					zap.String("model", model),
					zap.Error(err),
				)
				o.logger.Warn("ollama unavailable, returning mock response", fields...)
			}
			return o.mockResponse(model, promptID, params, start), nil
		}
		return nil, fmt.Errorf("ollama generate: %w", err)
	}

	if o.logger != nil {
		fields := append(jobFields(ctx),
			zap.String("prompt_id", promptID),
			zap.String("model", model),
			zap.Duration("duration", time.Since(start)),
		)
		o.logger.Debug("ollama generate finished", fields...)
	}

	return &LLMResponse{
		Text:       out.Response,
		Model:      model,
		PromptID:   promptID,
		Parameters: params,
		Duration:   time.Since(start),
	}, nil
}

// Available reports whether the server answers /api/tags
func (o *OllamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (o *OllamaClient) mockResponse(model, promptID string, params map[string]interface{}, start time.Time) *LLMResponse {
	mock := map[string]interface{}{
		"title":        "Mock Summary (Ollama unavailable)",
		"participants": []string{"Unknown"},
		"key_points":   []string{"Ollama is not running. Start Ollama to get real summaries."},
		"action_items": []string{"Install and run Ollama: https://ollama.ai"},
		"summary":      "This is a mock summary. Ollama was not available when summarizing.",
	}
	if strings.Contains(promptID, "fix_json") {
		mock = map[string]interface{}{
			"title":        "Corrected Summary",
			"participants": []string{},
			"key_points":   []string{"Corrected from invalid JSON"},
			"action_items": []string{},
			"summary":      "This is a mock response because Ollama was unavailable.",
		}
	}
	text, _ := json.MarshalIndent(mock, "", "  ")

	return &LLMResponse{
		Text:       string(text),
		Model:      model,
		PromptID:   promptID,
		Parameters: params,
		Duration:   time.Since(start),
	}
}
