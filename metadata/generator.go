// Package metadata produces YouTube titles, descriptions and tags for a
// finished video.
package metadata

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/solaz/contents-autouploader/ai"
	"github.com/solaz/contents-autouploader/config"
	"github.com/solaz/contents-autouploader/types"
)

const titleMaxChars = 70

const metadataSystemPrompt = `You are an expert YouTube SEO strategist for educational channels.
Generate metadata that maximizes click-through rate and search ranking
while staying honest about the video's content.

You MUST respond with ONLY valid JSON, no markdown, no explanation.

The JSON must have exactly these fields:
- "title": string (max 70 chars, curiosity-driven but accurate)
- "description": string (~300 words, SEO-rich, includes a timestamps section and a subscribe CTA)
- "tags": array of up to 30 strings (mix of broad and specific tags)

Title patterns that work for educational content:
- "How [X] Actually Works"
- "The Surprising Science of [X]"
- "[X] Explained in [N] Minutes"
- "Why [common belief about X] Is Wrong"`

// Generator creates upload metadata via an AI client
type Generator struct {
	cfg    *config.Config
	client ai.Client
}

// New creates a new metadata Generator
func New(cfg *config.Config, client ai.Client) *Generator {
	return &Generator{cfg: cfg, client: client}
}

type metadataJSON struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Run generates upload metadata for the script's video. On model failure it
// falls back to metadata derived from the script itself, so the upload step
// never blocks on the AI provider.
func (g *Generator) Run(ctx context.Context, script *types.Script, tl *types.SyncTimeline) *types.UploadMetadata {
	log.Printf("[metadata] Generating upload metadata via %s...", g.cfg.AI.Provider)

	var raw metadataJSON
	if err := g.client.GenerateJSON(ctx, metadataSystemPrompt, buildPrompt(script, tl), &raw); err != nil {
		log.Printf("[metadata] ⚠️ Model failed (%v), falling back to script metadata", err)
		return g.fallback(script)
	}
	if raw.Title == "" {
		raw.Title = script.Title
	}

	meta := &types.UploadMetadata{
		Title:       truncateTitle(raw.Title),
		Description: raw.Description,
		Tags:        mergeTags(raw.Tags, g.cfg.Upload.DefaultTags),
		CategoryID:  g.cfg.Upload.CategoryID,
		Visibility:  g.cfg.Upload.PrivacyStatus,
	}
	if meta.Description == "" {
		meta.Description = script.Description
	}

	log.Printf("[metadata] ✅ Title: %q (%d tags)", meta.Title, len(meta.Tags))
	return meta
}

// fallback builds serviceable metadata straight from the script
func (g *Generator) fallback(script *types.Script) *types.UploadMetadata {
	return &types.UploadMetadata{
		Title:       truncateTitle(script.Title),
		Description: script.Description,
		Tags:        mergeTags(script.Tags, g.cfg.Upload.DefaultTags),
		CategoryID:  g.cfg.Upload.CategoryID,
		Visibility:  g.cfg.Upload.PrivacyStatus,
	}
}

func buildPrompt(script *types.Script, tl *types.SyncTimeline) string {
	var sb strings.Builder
	sb.WriteString("Generate YouTube metadata for this educational video.\n\n")
	sb.WriteString(fmt.Sprintf("VIDEO TITLE (working): %s\n", script.Title))
	sb.WriteString(fmt.Sprintf("VIDEO DESCRIPTION (working): %s\n", script.Description))
	if tl != nil {
		sb.WriteString(fmt.Sprintf("TOTAL DURATION: %.0f seconds (~%.1f minutes)\n", tl.TotalDuration, tl.TotalDuration/60))
	}

	sb.WriteString("\nSECTIONS")
	if tl != nil {
		sb.WriteString(" (with start times for the timestamps section)")
	}
	sb.WriteString(":\n")
	for _, section := range script.Sections {
		line := fmt.Sprintf("- %s", section.Title)
		if tl != nil {
			for _, w := range tl.Windows {
				if w.SectionID == section.SectionID {
					line = fmt.Sprintf("- [%d:%02d] %s", int(w.StartTime)/60, int(w.StartTime)%60, section.Title)
					break
				}
			}
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\nRespond ONLY with valid JSON.")
	return sb.String()
}

func truncateTitle(title string) string {
	if len(title) <= titleMaxChars {
		return title
	}
	return title[:titleMaxChars-3] + "..."
}

// mergeTags appends default tags the model did not already produce, capped
// at YouTube's practical limit of 30.
func mergeTags(tags, defaults []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, t := range tags {
		key := strings.ToLower(strings.TrimSpace(t))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	for _, t := range defaults {
		key := strings.ToLower(strings.TrimSpace(t))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	if len(out) > 30 {
		out = out[:30]
	}
	return out
}
