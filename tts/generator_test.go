package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/solaz/contents-autouploader/config"
	"github.com/solaz/contents-autouploader/types"
)

// fakeProvider writes a marker file and returns a fixed duration per call
type fakeProvider struct {
	mu        sync.Mutex
	calls     []string
	durations map[string]float64
	err       error
}

func (f *fakeProvider) Synthesize(ctx context.Context, text, outputPath string) (float64, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()

	if f.err != nil {
		return 0, f.err
	}
	if err := os.WriteFile(outputPath, []byte("audio"), 0o644); err != nil {
		return 0, err
	}
	if d, ok := f.durations[text]; ok {
		return d, nil
	}
	return 5.0, nil
}

func testScript() *types.Script {
	return &types.Script{
		Title: "Test",
		Sections: []types.Section{
			{SectionID: 1, Title: "One", Content: "first narration", EstimatedDurationSec: 10},
			{SectionID: 2, Title: "Two", Content: "second narration", EstimatedDurationSec: 10},
			{SectionID: 3, Title: "Three", Content: "third narration", EstimatedDurationSec: 10},
		},
	}
}

func TestGenerateForScript(t *testing.T) {
	provider := &fakeProvider{durations: map[string]float64{
		"first narration":  4.0,
		"second narration": 6.5,
		"third narration":  3.25,
	}}
	gen, err := New(config.Default(), provider)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	script := testScript()
	dir := t.TempDir()

	results, err := gen.GenerateForScript(context.Background(), script, dir)
	if err != nil {
		t.Fatalf("GenerateForScript failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	// Results come back in section order regardless of worker scheduling.
	for i, res := range results {
		wantID := i + 1
		if res.SectionID != wantID {
			t.Errorf("result %d has section id %d", i, res.SectionID)
		}
		wantPath := filepath.Join(dir, fmt.Sprintf("section_%03d.mp3", wantID))
		if res.AudioFile != wantPath {
			t.Errorf("result %d audio file = %q, expected %q", i, res.AudioFile, wantPath)
		}
		if _, err := os.Stat(res.AudioFile); err != nil {
			t.Errorf("result %d audio file missing: %v", i, err)
		}
	}

	// Measured durations replace the script estimates.
	if script.Sections[0].EstimatedDurationSec != 4.0 {
		t.Errorf("section 1 duration = %f", script.Sections[0].EstimatedDurationSec)
	}
	if script.TotalDurationSec != 4.0+6.5+3.25 {
		t.Errorf("total duration = %f", script.TotalDurationSec)
	}
}

func TestGenerateForScriptProviderError(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("synth backend down")}
	gen, err := New(config.Default(), provider)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := gen.GenerateForScript(context.Background(), testScript(), t.TempDir()); err == nil {
		t.Error("expected an error when the provider fails")
	}
}

func TestNewUnknownProvider(t *testing.T) {
	cfg := config.Default()
	cfg.TTS.Provider = "does-not-exist"

	if _, err := New(cfg, nil); err == nil {
		t.Error("expected an error for an unknown provider")
	}
}
