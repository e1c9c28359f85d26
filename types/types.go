package types

import "strings"

// Section is one narrated unit of the script. Each section corresponds to
// at most one slide in the generated presentation.
type Section struct {
	SectionID            int      `json:"section_id"`
	Title                string   `json:"title"`
	Content              string   `json:"content"`
	KeyPoints            []string `json:"key_points"`
	SlideNotes           string   `json:"slide_notes"`
	EstimatedDurationSec float64  `json:"estimated_duration_sec"`
}

// Script is the complete narration script for one video
type Script struct {
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Sections         []Section `json:"sections"`
	Tags             []string  `json:"tags"`
	TotalDurationSec float64   `json:"total_duration_sec"`
}

// CalculateTotalDuration recomputes the total from section durations.
// The stored total is never authoritative on its own.
func (s *Script) CalculateTotalDuration() float64 {
	var total float64
	for _, sec := range s.Sections {
		total += sec.EstimatedDurationSec
	}
	s.TotalDurationSec = total
	return total
}

// FullText joins all section narrations into a single text
func (s *Script) FullText() string {
	parts := make([]string, 0, len(s.Sections))
	for _, sec := range s.Sections {
		parts = append(parts, sec.Content)
	}
	return strings.Join(parts, "\n\n")
}

// SectionByID returns the section with the given id, or nil
func (s *Script) SectionByID(id int) *Section {
	for i := range s.Sections {
		if s.Sections[i].SectionID == id {
			return &s.Sections[i]
		}
	}
	return nil
}

// Slide is one visual frame of the presentation, addressed by position
type Slide struct {
	SlideIndex int      `json:"slide_index"`
	Title      string   `json:"title"`
	Content    []string `json:"content"`
	Notes      string   `json:"notes"`
	ImagePath  string   `json:"image_path,omitempty"`
}

// Presentation is the ordered slide deck rendered from a script
type Presentation struct {
	Title    string  `json:"title"`
	Slides   []Slide `json:"slides"`
	FilePath string  `json:"file_path,omitempty"`
}

// SlideCount returns the number of slides
func (p *Presentation) SlideCount() int {
	return len(p.Slides)
}

// AudioResult is one synthesized narration clip: which section it belongs
// to, where the file lives, and its measured duration.
type AudioResult struct {
	SectionID   int     `json:"section_id"`
	AudioFile   string  `json:"audio_file"`
	DurationSec float64 `json:"duration_sec"`
}

// SyncWindow is the time interval during which one slide is shown
type SyncWindow struct {
	SlideIndex int     `json:"slide_index"`
	SectionID  int     `json:"section_id"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	AudioFile  string  `json:"audio_file,omitempty"`
}

// Duration returns the length of the window in seconds
func (w SyncWindow) Duration() float64 {
	return w.EndTime - w.StartTime
}

// SyncTimeline is the full ordered set of windows covering a video.
// Windows are contiguous: each window starts where the previous one ends.
type SyncTimeline struct {
	Windows       []SyncWindow `json:"windows"`
	TotalDuration float64      `json:"total_duration"`
}

// RecalculateTotal sets the total duration to the maximum window end time
func (t *SyncTimeline) RecalculateTotal() float64 {
	var total float64
	for _, w := range t.Windows {
		if w.EndTime > total {
			total = w.EndTime
		}
	}
	t.TotalDuration = total
	return total
}

// WindowForSlide returns the window for a specific slide, or nil
func (t *SyncTimeline) WindowForSlide(slideIndex int) *SyncWindow {
	for i := range t.Windows {
		if t.Windows[i].SlideIndex == slideIndex {
			return &t.Windows[i]
		}
	}
	return nil
}

// Topic is a researched content idea ready for scripting
type Topic struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Storyline string   `json:"storyline"`
	Source    string   `json:"source"`
	SourceURL string   `json:"source_url"`
	Score     int      `json:"score"`
	PostedAt  string   `json:"posted_at"`
	Keywords  []string `json:"keywords"`
}

// UploadMetadata holds everything the upload stage needs to publish a video
type UploadMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CategoryID  string   `json:"category_id"`
	Visibility  string   `json:"visibility"`
}

// PipelineState tracks the full state of one pipeline run
type PipelineState struct {
	RunID        string          `json:"run_id"`
	StartedAt    string          `json:"started_at"`
	CompletedAt  string          `json:"completed_at"`
	Script       *Script         `json:"script,omitempty"`
	Presentation *Presentation   `json:"presentation,omitempty"`
	Audio        []AudioResult   `json:"audio,omitempty"`
	Timeline     *SyncTimeline   `json:"timeline,omitempty"`
	Metadata     *UploadMetadata `json:"metadata,omitempty"`
	VideoFile    string          `json:"video_file,omitempty"`
	YouTubeID    string          `json:"youtube_id,omitempty"`
	YouTubeURL   string          `json:"youtube_url,omitempty"`
	Error        string          `json:"error,omitempty"`
}
