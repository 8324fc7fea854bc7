package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/johnquangdev/zyquraflow/pkg/config"
)

// GroqClient calls Groq's OpenAI-compatible chat completions endpoint
type GroqClient struct {
	apiKey          string
	baseURL         string
	client          *http.Client
	retryMaxElapsed time.Duration
}

// NewGroqClient creates a Groq client using values from the AI config
func NewGroqClient(cfg *config.AIConfig) *GroqClient {
	return &GroqClient{
		apiKey:          cfg.GroqAPIKey,
		baseURL:         strings.TrimRight(cfg.GroqURL, "/"),
		client:          &http.Client{Timeout: cfg.HTTPTimeout},
		retryMaxElapsed: cfg.RetryMaxElapsed,
	}
}

func (g *GroqClient) Name() string { return "groq" }

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model          string            `json:"model,omitempty"`
	Messages       []ChatMessage     `json:"messages,omitempty"`
	Temperature    float64           `json:"temperature,omitempty"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt as a single user message
func (g *GroqClient) Complete(ctx context.Context, prompt, model, promptID string) (*LLMResponse, error) {
	if g.apiKey == "" {
		return nil, errors.New("groq: AI_GROQ_API_KEY is not set")
	}
	start := time.Now()

	reqBody := ChatRequest{
		Model:          model,
		Messages:       []ChatMessage{{Role: "user", Content: prompt}},
		Temperature:    0.3,
		MaxTokens:      8000,
		ResponseFormat: map[string]string{"type": "json_object"},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	var cr ChatResponse
	err = withRetry(ctx, g.retryMaxElapsed, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/openai/v1/chat/completions", bytes.NewReader(b))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := g.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if err := checkStatus("groq", resp); err != nil {
			return err
		}
		return json.NewDecoder(resp.Body).Decode(&cr)
	})
	if err != nil {
		return nil, fmt.Errorf("groq chat completion: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("empty response from groq")
	}

	return &LLMResponse{
		Text:     cr.Choices[0].Message.Content,
		Model:    model,
		PromptID: promptID,
		Parameters: map[string]interface{}{
			"temperature": reqBody.Temperature,
			"max_tokens":  reqBody.MaxTokens,
		},
		Duration: time.Since(start),
	}, nil
}
