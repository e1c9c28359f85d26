package captions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/solaz/contents-autouploader/config"
	"github.com/solaz/contents-autouploader/types"
)

func TestWriteSRT(t *testing.T) {
	script := &types.Script{
		Sections: []types.Section{
			{SectionID: 1, Content: "This is the first section of narration for the video."},
			{SectionID: 2, Content: "And this is the second one."},
		},
	}
	tl := &types.SyncTimeline{
		Windows: []types.SyncWindow{
			{SlideIndex: 0, SectionID: 0, StartTime: 0, EndTime: 3},
			{SlideIndex: 1, SectionID: 1, StartTime: 3, EndTime: 13},
			{SlideIndex: 2, SectionID: 2, StartTime: 13, EndTime: 20},
		},
		TotalDuration: 20,
	}

	outPath := filepath.Join(t.TempDir(), "captions.srt")
	got, err := New(config.Default()).WriteSRT(script, tl, outPath)
	if err != nil {
		t.Fatalf("WriteSRT failed: %v", err)
	}
	if got != outPath {
		t.Errorf("returned path = %q", got)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}
	srt := string(data)

	// The title window (section 0) produces no cue, so narration starts at 3s.
	if !strings.Contains(srt, "00:00:03,000 --> ") {
		t.Errorf("first cue does not start at the first section window:\n%s", srt)
	}
	if !strings.Contains(srt, "And this is the second one.") {
		t.Errorf("second section narration missing:\n%s", srt)
	}
	if !strings.HasPrefix(srt, "1\n") {
		t.Errorf("cues not numbered from 1:\n%s", srt)
	}
}

func TestWriteSRTEmptyTimeline(t *testing.T) {
	script := &types.Script{}
	tl := &types.SyncTimeline{
		Windows: []types.SyncWindow{
			{SlideIndex: 0, SectionID: 0, StartTime: 0, EndTime: 3},
		},
	}

	if _, err := New(config.Default()).WriteSRT(script, tl, filepath.Join(t.TempDir(), "x.srt")); err == nil {
		t.Error("expected an error when no cues can be produced")
	}
}

func TestLayoutCuesCoversWindow(t *testing.T) {
	window := types.SyncWindow{SectionID: 1, StartTime: 10, EndTime: 30}
	text := strings.Repeat("some words here and there ", 20)

	cues := layoutCues(text, window, 42)
	if len(cues) < 2 {
		t.Fatalf("expected long narration to split into multiple cues, got %d", len(cues))
	}

	if cues[0].start != 10 {
		t.Errorf("first cue starts at %f", cues[0].start)
	}
	if cues[len(cues)-1].end != 30 {
		t.Errorf("last cue ends at %f", cues[len(cues)-1].end)
	}
	for i := 1; i < len(cues); i++ {
		if cues[i].start != cues[i-1].end {
			t.Errorf("cue %d starts at %f, previous ended at %f", i, cues[i].start, cues[i-1].end)
		}
	}
	for i, c := range cues {
		if lines := strings.Count(c.text, "\n"); lines > 1 {
			t.Errorf("cue %d has %d lines", i, lines+1)
		}
	}
}

func TestSRTTime(t *testing.T) {
	cases := map[float64]string{
		0:        "00:00:00,000",
		3.5:      "00:00:03,500",
		63.25:    "00:01:03,250",
		3661.001: "01:01:01,001",
	}
	for in, want := range cases {
		if got := srtTime(in); got != want {
			t.Errorf("srtTime(%f) = %q, expected %q", in, got, want)
		}
	}
}
