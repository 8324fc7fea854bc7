package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
)

// rawSummary mirrors the summary schema; pointers and nil slices detect missing fields
type rawSummary struct {
	Title        *string  `json:"title" validate:"required"`
	Participants []string `json:"participants" validate:"required"`
	KeyPoints    []string `json:"key_points" validate:"required"`
	ActionItems  []string `json:"action_items" validate:"required"`
	Summary      *string  `json:"summary" validate:"required"`
}

// Parser turns model output into a validated SummaryRecord
type Parser struct {
	validate *validator.Validate
}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{validate: validator.New()}
}

// ParseSummary extracts and validates the summary JSON from a model response
func (p *Parser) ParseSummary(content string) (*entities.SummaryRecord, error) {
	var raw rawSummary
	if err := json.Unmarshal([]byte(extractJSON(content)), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := p.validate.Struct(raw); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return nil, fmt.Errorf("missing required field(s): %s", strings.Join(fields, ", "))
		}
		return nil, err
	}

	return &entities.SummaryRecord{
		Title:        *raw.Title,
		Participants: raw.Participants,
		KeyPoints:    raw.KeyPoints,
		ActionItems:  raw.ActionItems,
		Summary:      *raw.Summary,
	}, nil
}

// extractJSON extracts JSON content from markdown code blocks or surrounding prose
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		content = content[start : end+1]
	}

	return strings.TrimSpace(content)
}
