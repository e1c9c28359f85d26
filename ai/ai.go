// Package ai abstracts the text-generation backends used by the script and
// metadata stages. The backend is selected by the ai.provider config tag.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/solaz/contents-autouploader/config"
)

// Client generates structured text from prompts
type Client interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
	GenerateJSON(ctx context.Context, system, prompt string, out any) error
}

// New returns the client for the configured provider
func New(cfg config.AIConfig) (Client, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAIClient(cfg)
	case "ollama":
		return newOllamaClient(cfg)
	case "groq":
		return newGroqClient(cfg)
	default:
		return nil, fmt.Errorf("unknown ai provider: %q", cfg.Provider)
	}
}

// CleanJSON strips markdown fences when a model wraps its response in
// ```json ... ```
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractJSON falls back to the outermost brace pair when a response mixes
// prose with the JSON payload
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

const jsonOnlyInstruction = "\n\nIMPORTANT: Respond with valid JSON only. Do not include any text before or after the JSON."
