package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/solaz/contents-autouploader/config"
)

// openAIClient talks to any OpenAI-compatible chat completions endpoint via
// the official SDK. Both the openai and ollama providers use it; ollama
// only differs in base URL and a dummy key.
type openAIClient struct {
	model     string
	maxTokens int
	opts      []option.RequestOption
}

func newOpenAIClient(cfg config.AIConfig) (*openAIClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &openAIClient{model: cfg.Model, maxTokens: cfg.MaxTokens, opts: opts}, nil
}

func newOllamaClient(cfg config.AIConfig) (*openAIClient, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434/v1"
	}
	// Ollama ignores the key but the client requires one.
	opts := []option.RequestOption{
		option.WithAPIKey("ollama"),
		option.WithBaseURL(baseURL),
	}
	model := cfg.Model
	if model == "" {
		model = "llama3.2"
	}
	return &openAIClient{model: model, maxTokens: cfg.MaxTokens, opts: opts}, nil
}

func (c *openAIClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	client := openai.NewClient(c.opts...)

	var msgs []openai.ChatCompletionMessageParamUnion
	if system != "" {
		msgs = append(msgs, openai.SystemMessage(system))
	}
	msgs = append(msgs, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: msgs,
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.maxTokens))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *openAIClient) GenerateJSON(ctx context.Context, system, prompt string, out any) error {
	response, err := c.Generate(ctx, system, prompt+jsonOnlyInstruction)
	if err != nil {
		return err
	}
	return unmarshalResponse(response, out)
}

// unmarshalResponse parses a model response into out, tolerating fenced or
// prose-wrapped JSON
func unmarshalResponse(response string, out any) error {
	cleaned := CleanJSON(response)
	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}
	if body, ok := extractJSON(response); ok {
		if err := json.Unmarshal([]byte(body), out); err == nil {
			return nil
		}
	}
	preview := response
	if len(preview) > 200 {
		preview = preview[:200]
	}
	return fmt.Errorf("could not parse JSON from model response: %s", preview)
}
