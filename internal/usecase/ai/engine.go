package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
	pkgai "github.com/johnquangdev/zyquraflow/pkg/ai"
)

// LLMCall describes one completion made while summarizing
type LLMCall struct {
	PromptID   string
	Provider   string
	Model      string
	Parameters map[string]interface{}
	Duration   time.Duration
	Err        error
}

// SummaryResult is a validated summary plus the calls that produced it.
// Calls is populated even when summarizing fails.
type SummaryResult struct {
	Record *entities.SummaryRecord
	Calls  []LLMCall
}

// SummaryEngine prompts the selected language model for a structured summary
// and repairs invalid output once.
type SummaryEngine struct {
	providers map[string]pkgai.LLM
	parser    *Parser
	logger    *zap.Logger
}

// NewSummaryEngine registers the given backends under their provider ids
func NewSummaryEngine(logger *zap.Logger, llms ...pkgai.LLM) *SummaryEngine {
	providers := make(map[string]pkgai.LLM, len(llms))
	for _, l := range llms {
		providers[l.Name()] = l
	}
	return &SummaryEngine{
		providers: providers,
		parser:    NewParser(),
		logger:    logger,
	}
}

// Summarize produces a SummaryRecord for transcript using provider/model
func (e *SummaryEngine) Summarize(ctx context.Context, transcript, provider, model string) (*SummaryResult, error) {
	result := &SummaryResult{}

	llm, ok := e.providers[provider]
	if !ok {
		return result, fmt.Errorf("no backend registered for provider %q", provider)
	}

	prompt, err := LoadPrompt(PromptSummary, map[string]string{"transcript": transcript})
	if err != nil {
		return result, err
	}
	text, err := e.complete(ctx, result, llm, prompt, model, PromptSummary)
	if err != nil {
		return result, err
	}

	record, parseErr := e.parser.ParseSummary(text)
	if parseErr == nil {
		result.Record = record
		return result, nil
	}

	if e.logger != nil {
		e.logger.Warn("summary output invalid, requesting repair",
			zap.String("provider", provider),
			zap.String("model", model),
			zap.Error(parseErr),
		)
	}

	fixPrompt, err := LoadPrompt(PromptFixJSON, map[string]string{"invalid_json": text})
	if err != nil {
		return result, err
	}
	fixed, err := e.complete(ctx, result, llm, fixPrompt, model, PromptFixJSON)
	if err != nil {
		return result, err
	}

	record, err = e.parser.ParseSummary(fixed)
	if err != nil {
		return result, fmt.Errorf("summary validation failed after repair: %w", errors.Join(parseErr, err))
	}
	result.Record = record
	return result, nil
}

func (e *SummaryEngine) complete(ctx context.Context, result *SummaryResult, llm pkgai.LLM, prompt, model, promptID string) (string, error) {
	start := time.Now()
	resp, err := llm.Complete(ctx, prompt, model, promptID)

	call := LLMCall{
		PromptID: promptID,
		Provider: llm.Name(),
		Model:    model,
		Duration: time.Since(start),
		Err:      err,
	}
	if resp != nil {
		call.Parameters = resp.Parameters
		call.Duration = resp.Duration
	}
	result.Calls = append(result.Calls, call)

	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
