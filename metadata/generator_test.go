package metadata

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/solaz/contents-autouploader/ai"
	"github.com/solaz/contents-autouploader/config"
	"github.com/solaz/contents-autouploader/types"
)

func testScript() *types.Script {
	return &types.Script{
		Title:       "How Coffee Works",
		Description: "A quick tour of caffeine chemistry.",
		Tags:        []string{"coffee", "science"},
		Sections: []types.Section{
			{SectionID: 1, Title: "Intro"},
			{SectionID: 2, Title: "Caffeine"},
		},
	}
}

func TestRunParsesMetadata(t *testing.T) {
	gen := New(config.Default(), ai.Mock{Response: `{
		"title": "How Coffee Actually Works",
		"description": "Ever wondered why coffee wakes you up?",
		"tags": ["coffee", "caffeine", "chemistry"]
	}`})

	meta := gen.Run(context.Background(), testScript(), nil)

	if meta.Title != "How Coffee Actually Works" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.CategoryID != "27" {
		t.Errorf("category = %q", meta.CategoryID)
	}
	if meta.Visibility != "private" {
		t.Errorf("visibility = %q", meta.Visibility)
	}
}

func TestRunFallsBackOnModelError(t *testing.T) {
	gen := New(config.Default(), ai.Mock{Err: fmt.Errorf("provider down")})

	meta := gen.Run(context.Background(), testScript(), nil)

	if meta.Title != "How Coffee Works" {
		t.Errorf("fallback title = %q", meta.Title)
	}
	if meta.Description != "A quick tour of caffeine chemistry." {
		t.Errorf("fallback description = %q", meta.Description)
	}
	if len(meta.Tags) == 0 {
		t.Error("fallback produced no tags")
	}
}

func TestTruncateTitle(t *testing.T) {
	long := strings.Repeat("x", 100)
	got := truncateTitle(long)
	if len(got) != titleMaxChars {
		t.Errorf("truncated title length = %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated title %q missing ellipsis", got)
	}
	if truncateTitle("short") != "short" {
		t.Error("short title was modified")
	}
}

func TestMergeTagsDeduplicatesAndCaps(t *testing.T) {
	tags := []string{"Coffee", "science", "coffee"}
	defaults := []string{"education", "SCIENCE"}

	got := mergeTags(tags, defaults)
	if len(got) != 3 {
		t.Fatalf("expected 3 tags, got %d: %v", len(got), got)
	}

	var many []string
	for i := 0; i < 40; i++ {
		many = append(many, fmt.Sprintf("tag%d", i))
	}
	if got := mergeTags(many, nil); len(got) != 30 {
		t.Errorf("expected cap of 30 tags, got %d", len(got))
	}
}

func TestBuildPromptIncludesTimestamps(t *testing.T) {
	tl := &types.SyncTimeline{
		Windows: []types.SyncWindow{
			{SlideIndex: 1, SectionID: 1, StartTime: 3, EndTime: 65},
			{SlideIndex: 2, SectionID: 2, StartTime: 65, EndTime: 120},
		},
		TotalDuration: 120,
	}

	prompt := buildPrompt(testScript(), tl)
	if !strings.Contains(prompt, "[0:03] Intro") {
		t.Errorf("prompt missing intro timestamp:\n%s", prompt)
	}
	if !strings.Contains(prompt, "[1:05] Caffeine") {
		t.Errorf("prompt missing second timestamp:\n%s", prompt)
	}
}
