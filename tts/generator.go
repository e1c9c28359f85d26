// Package tts converts script narration into per-section audio files.
package tts

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/solaz/contents-autouploader/config"
	"github.com/solaz/contents-autouploader/types"
	"github.com/solaz/contents-autouploader/util"
)

// Generator synthesizes narration audio for each section of a script
type Generator struct {
	cfg      *config.Config
	provider Provider
}

// New creates a tts Generator for the configured provider. Pass a non-nil
// provider to override the configuration (used in tests).
func New(cfg *config.Config, provider Provider) (*Generator, error) {
	if provider == nil {
		p, err := newProvider(cfg.TTS.Provider, cfg)
		if err != nil {
			return nil, err
		}
		provider = p
	}
	return &Generator{cfg: cfg, provider: provider}, nil
}

// GenerateForSection synthesizes one section's narration into outputDir
func (g *Generator) GenerateForSection(ctx context.Context, section *types.Section, outputDir string) (*types.AudioResult, error) {
	outPath := filepath.Join(outputDir, fmt.Sprintf("section_%03d.mp3", section.SectionID))

	duration, err := g.provider.Synthesize(ctx, section.Content, outPath)
	if err != nil {
		return nil, fmt.Errorf("synthesize section %d: %w", section.SectionID, err)
	}

	return &types.AudioResult{
		SectionID:   section.SectionID,
		AudioFile:   outPath,
		DurationSec: duration,
	}, nil
}

// GenerateForScript synthesizes every section concurrently and returns the
// results in section order. Measured durations replace the script's
// estimates so downstream timing uses real audio lengths.
func (g *Generator) GenerateForScript(ctx context.Context, script *types.Script, outputDir string) ([]types.AudioResult, error) {
	if _, err := util.EnsureDir(outputDir); err != nil {
		return nil, err
	}

	workers := g.cfg.TTS.Workers
	if workers < 1 {
		workers = 1
	}
	log.Printf("[tts] Generating audio for %d sections (%d workers)...", len(script.Sections), workers)

	results := make([]*types.AudioResult, len(script.Sections))

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(workers)
	for i := range script.Sections {
		i := i
		grp.Go(func() error {
			res, err := g.GenerateForSection(grpCtx, &script.Sections[i], outputDir)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	var out []types.AudioResult
	for i, res := range results {
		script.Sections[i].EstimatedDurationSec = res.DurationSec
		out = append(out, *res)
	}
	script.CalculateTotalDuration()

	log.Printf("[tts] ✅ Generated %d audio files, total %.1f seconds", len(out), script.TotalDurationSec)
	return out, nil
}

// ProbeDuration measures the length of an existing audio file in seconds
func ProbeDuration(audioFile string) (float64, error) {
	return measureDuration(audioFile)
}
