package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/solaz/contents-autouploader/config"
)

const groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"

// groqClient calls the Groq chat completions API directly
type groqClient struct {
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

func newGroqClient(cfg config.AIConfig) (*groqClient, error) {
	if os.Getenv("GROQ_API_KEY") == "" {
		return nil, fmt.Errorf("GROQ_API_KEY not set")
	}
	model := cfg.Model
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	return &groqClient{
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *groqClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	var msgs []groqMessage
	if system != "" {
		msgs = append(msgs, groqMessage{Role: "system", Content: system})
	}
	msgs = append(msgs, groqMessage{Role: "user", Content: prompt})

	reqBody := groqRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", groqEndpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+os.Getenv("GROQ_API_KEY"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var groqResp groqResponse
	if err := json.Unmarshal(respBytes, &groqResp); err != nil {
		return "", fmt.Errorf("parse groq response: %w", err)
	}
	if groqResp.Error != nil {
		return "", fmt.Errorf("groq error: %s", groqResp.Error.Message)
	}
	if len(groqResp.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices")
	}
	return groqResp.Choices[0].Message.Content, nil
}

func (c *groqClient) GenerateJSON(ctx context.Context, system, prompt string, out any) error {
	response, err := c.Generate(ctx, system, prompt+jsonOnlyInstruction)
	if err != nil {
		return err
	}
	return unmarshalResponse(response, out)
}
