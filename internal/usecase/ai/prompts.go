package ai

import (
	"embed"
	"fmt"
	"strings"
)

// Prompt ids
const (
	PromptSummary = "summary.v0.1"
	PromptFixJSON = "fix_json.v0.1"
)

//go:embed prompts/*.md
var promptFS embed.FS

var promptFiles = map[string]string{
	PromptSummary: "prompts/summary_v01.md",
	PromptFixJSON: "prompts/fix_json_v01.md",
}

// LoadPrompt renders a prompt by id, replacing {name} placeholders
func LoadPrompt(id string, vars map[string]string) (string, error) {
	file, ok := promptFiles[id]
	if !ok {
		return "", fmt.Errorf("unknown prompt id: %s", id)
	}
	raw, err := promptFS.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("prompt file not found: %s", file)
	}

	text := string(raw)
	for k, v := range vars {
		text = strings.ReplaceAll(text, "{"+k+"}", v)
	}
	return text, nil
}
