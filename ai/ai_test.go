package ai

import (
	"context"
	"testing"

	"github.com/solaz/contents-autouploader/config"
)

func testAIConfig(provider string) config.AIConfig {
	return config.AIConfig{Provider: provider, Model: "test-model"}
}

func TestCleanJSON(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"{\"a\": 1}", "{\"a\": 1}"},
		{"```json\n{\"a\": 1}\n```", "{\"a\": 1}"},
		{"```\n{\"a\": 1}\n```", "{\"a\": 1}"},
		{"  {\"a\": 1}  ", "{\"a\": 1}"},
	}
	for _, c := range cases {
		if got := CleanJSON(c.in); got != c.expected {
			t.Errorf("CleanJSON(%q) = %q, expected %q", c.in, got, c.expected)
		}
	}
}

func TestMockGenerateJSON(t *testing.T) {
	mock := Mock{Response: "```json\n{\"title\": \"Hello\"}\n```"}

	var out struct {
		Title string `json:"title"`
	}
	if err := mock.GenerateJSON(context.Background(), "", "", &out); err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}
	if out.Title != "Hello" {
		t.Errorf("title = %q, expected Hello", out.Title)
	}
}

func TestUnmarshalResponseProseWrapped(t *testing.T) {
	response := "Sure! Here is the JSON you asked for:\n{\"n\": 3}\nHope that helps."

	var out struct {
		N int `json:"n"`
	}
	if err := unmarshalResponse(response, &out); err != nil {
		t.Fatalf("unmarshalResponse failed: %v", err)
	}
	if out.N != 3 {
		t.Errorf("n = %d, expected 3", out.N)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New(testAIConfig("nope")); err == nil {
		t.Error("expected an error for an unknown provider")
	}
}
