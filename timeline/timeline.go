// Package timeline assigns every slide of a presentation a contiguous,
// non-overlapping time window, reconciling the script, the slide deck and
// the per-section audio clips, which are produced independently and may
// disagree in length.
//
// Windows are never computed independently and then checked: every build
// and rebuild walks a single monotonically advancing cursor, so contiguity
// holds by construction.
package timeline

import (
	"fmt"
	"log"

	"github.com/solaz/contents-autouploader/types"
)

const (
	// TitleSectionID marks the synthesized title window. It does not
	// correspond to any real script section.
	TitleSectionID = 0

	// TitleSlideDuration is the fixed window for an inferred title slide,
	// regardless of title length.
	TitleSlideDuration = 3.0
)

// InputMismatchError reports a duration list that does not line up with
// the slide count. The caller must fix its inputs and call again.
type InputMismatchError struct {
	Durations int
	Slides    int
}

func (e *InputMismatchError) Error() string {
	return fmt.Sprintf("number of durations (%d) must match number of slides (%d)", e.Durations, e.Slides)
}

// Build creates sync data from a script, a presentation and the collected
// per-section audio results.
//
// When the presentation has one more slide than the script has sections, a
// leading title slide is inferred and given a fixed 3-second window with no
// audio; all section slides shift by one position. Sections with no audio
// entry fall back to their estimated duration. Sections beyond the slide
// count are dropped.
func Build(script *types.Script, pres *types.Presentation, audio []types.AudioResult) *types.SyncTimeline {
	tl := &types.SyncTimeline{}
	cursor := 0.0

	// Last entry wins when a section id appears more than once.
	audioMap := make(map[int]types.AudioResult, len(audio))
	for _, a := range audio {
		audioMap[a.SectionID] = a
	}

	offset := 0
	if pres.SlideCount() > len(script.Sections) {
		tl.Windows = append(tl.Windows, types.SyncWindow{
			SlideIndex: 0,
			SectionID:  TitleSectionID,
			StartTime:  cursor,
			EndTime:    cursor + TitleSlideDuration,
		})
		cursor += TitleSlideDuration
		offset = 1
	}

	for i := range script.Sections {
		section := &script.Sections[i]
		slideIndex := i + offset

		if slideIndex >= pres.SlideCount() {
			log.Printf("[sync] Warning: presentation has %d slides for %d sections — dropping %d trailing section(s)",
				pres.SlideCount(), len(script.Sections), len(script.Sections)-i)
			break
		}

		duration := section.EstimatedDurationSec
		audioFile := ""
		if a, ok := audioMap[section.SectionID]; ok {
			duration = a.DurationSec
			audioFile = a.AudioFile
		}

		tl.Windows = append(tl.Windows, types.SyncWindow{
			SlideIndex: slideIndex,
			SectionID:  section.SectionID,
			StartTime:  cursor,
			EndTime:    cursor + duration,
			AudioFile:  audioFile,
		})
		cursor += duration
	}

	tl.RecalculateTotal()
	return tl
}

// BuildFromDurations creates sync data from explicit per-slide durations.
// No sections or audio are involved: each window's section id defaults to
// its slide index. The duration list must cover every slide exactly.
func BuildFromDurations(pres *types.Presentation, durations []float64) (*types.SyncTimeline, error) {
	if len(durations) != pres.SlideCount() {
		return nil, &InputMismatchError{Durations: len(durations), Slides: pres.SlideCount()}
	}

	tl := &types.SyncTimeline{}
	cursor := 0.0

	for i, duration := range durations {
		tl.Windows = append(tl.Windows, types.SyncWindow{
			SlideIndex: i,
			SectionID:  i,
			StartTime:  cursor,
			EndTime:    cursor + duration,
		})
		cursor += duration
	}

	tl.RecalculateTotal()
	return tl, nil
}

// RetargetAudio points windows at new audio files in place. Windows whose
// section id has no entry are untouched. Timing never changes.
func RetargetAudio(tl *types.SyncTimeline, audioFiles map[int]string) {
	for i := range tl.Windows {
		if path, ok := audioFiles[tl.Windows[i].SectionID]; ok {
			tl.Windows[i].AudioFile = path
		}
	}
}

// AdjustTiming rebuilds every window's start and end from a zero cursor in
// window order, substituting the corrected duration where the window's
// section id has an entry and keeping the window's previous duration
// otherwise. Absolute times are always recomputed, so applying the same
// corrections twice yields an identical timeline.
func AdjustTiming(tl *types.SyncTimeline, actualDurations map[int]float64) {
	cursor := 0.0

	for i := range tl.Windows {
		w := &tl.Windows[i]

		duration := w.Duration()
		if d, ok := actualDurations[w.SectionID]; ok {
			duration = d
		}

		w.StartTime = cursor
		w.EndTime = cursor + duration
		cursor += duration
	}

	tl.RecalculateTotal()
}

// SlideAt returns the index of the slide displayed at time t. Windows are
// half-open [start, end), so no two windows claim the same instant. The
// second result is false when t falls outside every window.
func SlideAt(tl *types.SyncTimeline, t float64) (int, bool) {
	for _, w := range tl.Windows {
		if w.StartTime <= t && t < w.EndTime {
			return w.SlideIndex, true
		}
	}
	return 0, false
}
