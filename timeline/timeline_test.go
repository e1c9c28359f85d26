package timeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/solaz/contents-autouploader/types"
)

func testScript(durations ...float64) *types.Script {
	s := &types.Script{Title: "Test"}
	for i, d := range durations {
		s.Sections = append(s.Sections, types.Section{
			SectionID:            i + 1,
			Title:                fmt.Sprintf("Section %d", i+1),
			Content:              fmt.Sprintf("Narration %d", i+1),
			EstimatedDurationSec: d,
		})
	}
	s.CalculateTotalDuration()
	return s
}

func testPresentation(slideCount int) *types.Presentation {
	p := &types.Presentation{Title: "Test"}
	for i := 0; i < slideCount; i++ {
		p.Slides = append(p.Slides, types.Slide{
			SlideIndex: i,
			Title:      fmt.Sprintf("Slide %d", i),
		})
	}
	return p
}

func checkContiguity(t *testing.T, tl *types.SyncTimeline) {
	t.Helper()
	for i, w := range tl.Windows {
		if w.StartTime < 0 {
			t.Errorf("window %d: negative start time %f", i, w.StartTime)
		}
		if w.EndTime <= w.StartTime {
			t.Errorf("window %d: empty or inverted window [%f, %f)", i, w.StartTime, w.EndTime)
		}
		if i > 0 && w.StartTime != tl.Windows[i-1].EndTime {
			t.Errorf("window %d: starts at %f but previous ends at %f", i, w.StartTime, tl.Windows[i-1].EndTime)
		}
	}
	var maxEnd float64
	for _, w := range tl.Windows {
		if w.EndTime > maxEnd {
			maxEnd = w.EndTime
		}
	}
	if tl.TotalDuration != maxEnd {
		t.Errorf("total duration %f does not equal max window end %f", tl.TotalDuration, maxEnd)
	}
}

func TestBuildWithTitleSlideOffset(t *testing.T) {
	script := testScript(10.0, 20.0, 30.0)
	pres := testPresentation(4) // one extra slide: the title slide

	audio := []types.AudioResult{
		{SectionID: 1, AudioFile: "audio/section_001.mp3", DurationSec: 10.0},
		{SectionID: 2, AudioFile: "audio/section_002.mp3", DurationSec: 20.0},
		{SectionID: 3, AudioFile: "audio/section_003.mp3", DurationSec: 30.0},
	}

	tl := Build(script, pres, audio)

	if len(tl.Windows) != 4 {
		t.Fatalf("expected 4 windows, got %d", len(tl.Windows))
	}

	title := tl.Windows[0]
	if title.StartTime != 0.0 || title.EndTime != TitleSlideDuration {
		t.Errorf("title window is [%f, %f), expected [0, %f)", title.StartTime, title.EndTime, TitleSlideDuration)
	}
	if title.SectionID != TitleSectionID {
		t.Errorf("title window section id = %d, expected sentinel %d", title.SectionID, TitleSectionID)
	}
	if title.AudioFile != "" {
		t.Errorf("title window has audio %q, expected none", title.AudioFile)
	}

	// First real section lands on slide 1.
	if tl.Windows[1].SlideIndex != 1 || tl.Windows[1].SectionID != 1 {
		t.Errorf("section 1 mapped to slide %d (section id %d), expected slide 1", tl.Windows[1].SlideIndex, tl.Windows[1].SectionID)
	}
	if tl.Windows[1].StartTime != 3.0 || tl.Windows[1].EndTime != 13.0 {
		t.Errorf("section 1 window is [%f, %f), expected [3, 13)", tl.Windows[1].StartTime, tl.Windows[1].EndTime)
	}

	if tl.TotalDuration != 63.0 {
		t.Errorf("total duration = %f, expected 63.0", tl.TotalDuration)
	}
	checkContiguity(t, tl)
}

func TestBuildEqualCountsNoOffset(t *testing.T) {
	script := testScript(5.0, 5.0, 5.0)
	pres := testPresentation(3)

	tl := Build(script, pres, nil)

	if len(tl.Windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(tl.Windows))
	}
	for i, w := range tl.Windows {
		if w.SlideIndex != i {
			t.Errorf("section %d mapped to slide %d, expected %d", i, w.SlideIndex, i)
		}
		if w.SectionID != i+1 {
			t.Errorf("window %d carries section id %d, expected %d", i, w.SectionID, i+1)
		}
	}
	checkContiguity(t, tl)
}

func TestBuildMissingAudioFallsBackToEstimate(t *testing.T) {
	script := testScript(12.0, 8.0)
	pres := testPresentation(2)

	// Audio exists only for section 2.
	audio := []types.AudioResult{
		{SectionID: 2, AudioFile: "audio/section_002.mp3", DurationSec: 9.5},
	}

	tl := Build(script, pres, audio)

	w := tl.Windows[0]
	if w.Duration() != 12.0 {
		t.Errorf("section without audio got duration %f, expected estimated 12.0", w.Duration())
	}
	if w.AudioFile != "" {
		t.Errorf("section without audio got file %q, expected none", w.AudioFile)
	}

	if tl.Windows[1].Duration() != 9.5 {
		t.Errorf("section with audio got duration %f, expected measured 9.5", tl.Windows[1].Duration())
	}
	checkContiguity(t, tl)
}

func TestBuildDropsExcessSections(t *testing.T) {
	script := testScript(10.0, 10.0, 10.0, 10.0, 10.0)
	pres := testPresentation(3) // equal-count rule: no title slide inferred here

	tl := Build(script, pres, nil)

	if len(tl.Windows) != 3 {
		t.Fatalf("expected 3 windows for 3 slides, got %d", len(tl.Windows))
	}
	for _, w := range tl.Windows {
		if w.SectionID == 4 || w.SectionID == 5 {
			t.Errorf("dropped section %d still appears in the timeline", w.SectionID)
		}
	}
	if tl.TotalDuration != 30.0 {
		t.Errorf("total duration = %f, expected 30.0", tl.TotalDuration)
	}
	checkContiguity(t, tl)
}

func TestBuildUnknownSectionAudioIgnored(t *testing.T) {
	script := testScript(6.0)
	pres := testPresentation(1)

	audio := []types.AudioResult{
		{SectionID: 99, AudioFile: "audio/section_099.mp3", DurationSec: 42.0},
	}

	tl := Build(script, pres, audio)

	if tl.Windows[0].Duration() != 6.0 {
		t.Errorf("duration = %f, expected estimated 6.0", tl.Windows[0].Duration())
	}
	if tl.Windows[0].AudioFile != "" {
		t.Errorf("audio for unknown section leaked into window: %q", tl.Windows[0].AudioFile)
	}
}

func TestBuildDuplicateAudioLastWins(t *testing.T) {
	script := testScript(5.0)
	pres := testPresentation(1)

	audio := []types.AudioResult{
		{SectionID: 1, AudioFile: "audio/take1.mp3", DurationSec: 4.0},
		{SectionID: 1, AudioFile: "audio/take2.mp3", DurationSec: 7.0},
	}

	tl := Build(script, pres, audio)

	if tl.Windows[0].AudioFile != "audio/take2.mp3" {
		t.Errorf("audio file = %q, expected the last entry to win", tl.Windows[0].AudioFile)
	}
	if tl.Windows[0].Duration() != 7.0 {
		t.Errorf("duration = %f, expected 7.0 from the last entry", tl.Windows[0].Duration())
	}
}

func TestBuildFromDurations(t *testing.T) {
	pres := testPresentation(3)

	tl, err := BuildFromDurations(pres, []float64{4.0, 6.0, 2.0})
	if err != nil {
		t.Fatalf("BuildFromDurations failed: %v", err)
	}

	if len(tl.Windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(tl.Windows))
	}
	for i, w := range tl.Windows {
		if w.SectionID != i {
			t.Errorf("window %d: section id %d, expected slide index %d", i, w.SectionID, i)
		}
		if w.AudioFile != "" {
			t.Errorf("window %d: unexpected audio %q", i, w.AudioFile)
		}
	}
	if tl.TotalDuration != 12.0 {
		t.Errorf("total duration = %f, expected 12.0", tl.TotalDuration)
	}
	checkContiguity(t, tl)
}

func TestBuildFromDurationsMismatch(t *testing.T) {
	pres := testPresentation(5)

	_, err := BuildFromDurations(pres, []float64{1.0, 2.0, 3.0, 4.0})
	if err == nil {
		t.Fatal("expected an error for 4 durations against 5 slides")
	}

	var mismatch *InputMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *InputMismatchError, got %T: %v", err, err)
	}
	if mismatch.Durations != 4 || mismatch.Slides != 5 {
		t.Errorf("error reports %d durations / %d slides, expected 4 / 5", mismatch.Durations, mismatch.Slides)
	}
}

func TestRetargetAudio(t *testing.T) {
	script := testScript(10.0, 20.0)
	pres := testPresentation(2)
	tl := Build(script, pres, nil)

	before := make([]types.SyncWindow, len(tl.Windows))
	copy(before, tl.Windows)

	RetargetAudio(tl, map[int]string{2: "audio/regen_002.mp3"})

	if tl.Windows[0].AudioFile != "" {
		t.Errorf("window without matching key gained audio %q", tl.Windows[0].AudioFile)
	}
	if tl.Windows[1].AudioFile != "audio/regen_002.mp3" {
		t.Errorf("window audio = %q, expected audio/regen_002.mp3", tl.Windows[1].AudioFile)
	}
	for i, w := range tl.Windows {
		if w.StartTime != before[i].StartTime || w.EndTime != before[i].EndTime {
			t.Errorf("window %d timing changed from [%f, %f) to [%f, %f)",
				i, before[i].StartTime, before[i].EndTime, w.StartTime, w.EndTime)
		}
	}
}

func TestAdjustTiming(t *testing.T) {
	script := testScript(10.0, 20.0, 30.0)
	pres := testPresentation(4)
	tl := Build(script, pres, nil)

	// Section 2's real narration came out shorter than the estimate.
	AdjustTiming(tl, map[int]float64{2: 15.0})

	if tl.Windows[2].Duration() != 15.0 {
		t.Errorf("corrected window duration = %f, expected 15.0", tl.Windows[2].Duration())
	}
	// The uncorrected title window keeps its duration but its position holds.
	if tl.Windows[0].StartTime != 0.0 || tl.Windows[0].Duration() != TitleSlideDuration {
		t.Errorf("title window moved to [%f, %f)", tl.Windows[0].StartTime, tl.Windows[0].EndTime)
	}
	// Windows after the correction shift earlier.
	if tl.Windows[3].StartTime != 3.0+10.0+15.0 {
		t.Errorf("window 3 starts at %f, expected 28.0", tl.Windows[3].StartTime)
	}
	if tl.TotalDuration != 58.0 {
		t.Errorf("total duration = %f, expected 58.0", tl.TotalDuration)
	}
	checkContiguity(t, tl)
}

func TestAdjustTimingIdempotent(t *testing.T) {
	script := testScript(10.0, 20.0, 30.0)
	pres := testPresentation(4)
	tl := Build(script, pres, nil)

	corrections := map[int]float64{1: 11.3, 3: 27.9}

	AdjustTiming(tl, corrections)
	first := make([]types.SyncWindow, len(tl.Windows))
	copy(first, tl.Windows)
	firstTotal := tl.TotalDuration

	AdjustTiming(tl, corrections)

	for i, w := range tl.Windows {
		if w.StartTime != first[i].StartTime || w.EndTime != first[i].EndTime {
			t.Errorf("window %d changed on second application: [%f, %f) vs [%f, %f)",
				i, first[i].StartTime, first[i].EndTime, w.StartTime, w.EndTime)
		}
	}
	if tl.TotalDuration != firstTotal {
		t.Errorf("total changed on second application: %f vs %f", tl.TotalDuration, firstTotal)
	}
	checkContiguity(t, tl)
}

func TestSlideAtBoundaries(t *testing.T) {
	pres := testPresentation(2)
	tl, err := BuildFromDurations(pres, []float64{10.0, 15.0})
	if err != nil {
		t.Fatalf("BuildFromDurations failed: %v", err)
	}

	cases := []struct {
		time  float64
		slide int
		ok    bool
	}{
		{0.0, 0, true},
		{9.999, 0, true},
		{10.0, 1, true},
		{24.999, 1, true},
		{25.0, 0, false},
		{-1.0, 0, false},
	}

	for _, c := range cases {
		slide, ok := SlideAt(tl, c.time)
		if ok != c.ok {
			t.Errorf("SlideAt(%f): ok = %v, expected %v", c.time, ok, c.ok)
			continue
		}
		if ok && slide != c.slide {
			t.Errorf("SlideAt(%f) = %d, expected %d", c.time, slide, c.slide)
		}
	}
}

func TestBuildEmptyScript(t *testing.T) {
	script := &types.Script{Title: "Empty"}
	pres := testPresentation(1)

	// One slide against zero sections still infers a title window.
	tl := Build(script, pres, nil)

	if len(tl.Windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(tl.Windows))
	}
	if tl.TotalDuration != TitleSlideDuration {
		t.Errorf("total duration = %f, expected %f", tl.TotalDuration, TitleSlideDuration)
	}
}
