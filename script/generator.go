package script

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/solaz/contents-autouploader/ai"
	"github.com/solaz/contents-autouploader/config"
	"github.com/solaz/contents-autouploader/types"
	"github.com/solaz/contents-autouploader/util"
)

const systemPrompt = `You are a professional writer of educational video content.
You turn a topic and storyline into a first-person lecture script.

Writing principles:
1. Speak directly to the audience in a warm, conversational tone
2. Explain complex concepts through simple examples
3. Each section corresponds to exactly one slide
4. Derive 3-5 clear key points per section
5. Use natural transition phrases between sections
6. Open with a greeting and close with a sign-off`

const generationPromptTemplate = `Write a lecture script from the following information.

TOPIC: %s
STORYLINE: %s
TARGET DURATION: %d minutes
TONE: %s
LANGUAGE: %s

Respond in this JSON format:
{
    "title": "presentation title",
    "description": "video description (2-3 sentences)",
    "sections": [
        {
            "section_id": 1,
            "title": "section title (used as the slide title)",
            "content": "the full narration for this section, written as if spoken to the audience",
            "key_points": ["key point 1", "key point 2", "key point 3"],
            "slide_notes": "suggested visual elements for the slide"
        }
    ],
    "tags": ["tag1", "tag2", "tag3"]
}

Rules:
- Match the section count to the target duration (usually 1-2 sections per minute)
- Each section's content is the narration read while that slide is shown
- Always include an intro and an outro section`

// Input is everything needed to generate a script
type Input struct {
	Topic           string
	Storyline       string
	DurationMinutes int
	Tone            string
	Language        string
}

// Generator creates scripts from topics via an AI client
type Generator struct {
	cfg    *config.Config
	client ai.Client
}

// New creates a new script Generator
func New(cfg *config.Config, client ai.Client) *Generator {
	return &Generator{cfg: cfg, client: client}
}

type scriptJSON struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Sections    []sectionJSON `json:"sections"`
	Tags        []string      `json:"tags"`
}

type sectionJSON struct {
	SectionID  int      `json:"section_id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	KeyPoints  []string `json:"key_points"`
	SlideNotes string   `json:"slide_notes"`
}

// Run generates a full script for the given input
func (g *Generator) Run(ctx context.Context, input Input) (*types.Script, error) {
	log.Printf("[script] Generating script via %s...", g.cfg.AI.Provider)

	if input.DurationMinutes == 0 {
		input.DurationMinutes = g.cfg.Script.DefaultDurationMin
	}
	if input.Tone == "" {
		input.Tone = g.cfg.Script.DefaultTone
	}
	if input.Language == "" {
		input.Language = g.cfg.Script.Language
	}

	prompt := fmt.Sprintf(generationPromptTemplate,
		input.Topic, input.Storyline, input.DurationMinutes, input.Tone, input.Language)

	var raw scriptJSON
	if err := g.client.GenerateJSON(ctx, systemPrompt, prompt, &raw); err != nil {
		return nil, fmt.Errorf("generate script: %w", err)
	}
	if len(raw.Sections) == 0 {
		return nil, fmt.Errorf("model returned a script with no sections")
	}

	script := &types.Script{
		Title:       raw.Title,
		Description: raw.Description,
		Tags:        raw.Tags,
	}
	if script.Title == "" {
		script.Title = input.Topic
	}

	for _, s := range raw.Sections {
		script.Sections = append(script.Sections, types.Section{
			SectionID:            s.SectionID,
			Title:                s.Title,
			Content:              s.Content,
			KeyPoints:            s.KeyPoints,
			SlideNotes:           s.SlideNotes,
			EstimatedDurationSec: util.EstimateSpeechDuration(s.Content),
		})
	}
	script.CalculateTotalDuration()

	log.Printf("[script] ✅ Script ready: %d sections, ~%.0f seconds", len(script.Sections), script.TotalDurationSec)
	return script, nil
}

// EnhanceSection rewrites one section according to an instruction, keeping
// its identifier stable
func (g *Generator) EnhanceSection(ctx context.Context, section types.Section, instruction string) (*types.Section, error) {
	var sb strings.Builder
	sb.WriteString("Improve the following script section.\n\n")
	sb.WriteString(fmt.Sprintf("CURRENT TITLE: %s\n", section.Title))
	sb.WriteString(fmt.Sprintf("CURRENT NARRATION: %s\n\n", section.Content))
	sb.WriteString(fmt.Sprintf("INSTRUCTION: %s\n\n", instruction))
	sb.WriteString(fmt.Sprintf(`Return the improved section in this JSON format:
{
    "section_id": %d,
    "title": "improved title",
    "content": "improved narration",
    "key_points": ["improved point 1", "improved point 2"],
    "slide_notes": "slide suggestion"
}`, section.SectionID))

	var raw sectionJSON
	if err := g.client.GenerateJSON(ctx, systemPrompt, sb.String(), &raw); err != nil {
		return nil, fmt.Errorf("enhance section %d: %w", section.SectionID, err)
	}

	improved := types.Section{
		SectionID:  section.SectionID,
		Title:      raw.Title,
		Content:    raw.Content,
		KeyPoints:  raw.KeyPoints,
		SlideNotes: raw.SlideNotes,
	}
	if improved.Title == "" {
		improved.Title = section.Title
	}
	if improved.Content == "" {
		improved.Content = section.Content
	}
	if len(improved.KeyPoints) == 0 {
		improved.KeyPoints = section.KeyPoints
	}
	improved.EstimatedDurationSec = util.EstimateSpeechDuration(improved.Content)

	return &improved, nil
}
