package types

import "testing"

func TestCalculateTotalDuration(t *testing.T) {
	s := &Script{
		Sections: []Section{
			{SectionID: 1, EstimatedDurationSec: 10.5},
			{SectionID: 2, EstimatedDurationSec: 20},
			{SectionID: 3, EstimatedDurationSec: 4.5},
		},
	}

	if got := s.CalculateTotalDuration(); got != 35 {
		t.Errorf("total = %f", got)
	}
	if s.TotalDurationSec != 35 {
		t.Errorf("stored total = %f", s.TotalDurationSec)
	}

	empty := &Script{}
	if got := empty.CalculateTotalDuration(); got != 0 {
		t.Errorf("empty script total = %f", got)
	}
}

func TestSectionByID(t *testing.T) {
	s := &Script{
		Sections: []Section{
			{SectionID: 1, Title: "one"},
			{SectionID: 5, Title: "five"},
		},
	}

	if got := s.SectionByID(5); got == nil || got.Title != "five" {
		t.Errorf("SectionByID(5) = %+v", got)
	}
	if got := s.SectionByID(99); got != nil {
		t.Errorf("SectionByID(99) = %+v, expected nil", got)
	}

	// The returned pointer aliases the script's section.
	s.SectionByID(1).Title = "renamed"
	if s.Sections[0].Title != "renamed" {
		t.Error("SectionByID returned a copy")
	}
}

func TestFullText(t *testing.T) {
	s := &Script{
		Sections: []Section{
			{Content: "first"},
			{Content: "second"},
		},
	}
	if got := s.FullText(); got != "first\n\nsecond" {
		t.Errorf("FullText = %q", got)
	}
}

func TestWindowDuration(t *testing.T) {
	w := SyncWindow{StartTime: 3, EndTime: 13.5}
	if got := w.Duration(); got != 10.5 {
		t.Errorf("duration = %f", got)
	}
}

func TestRecalculateTotal(t *testing.T) {
	tl := &SyncTimeline{
		Windows: []SyncWindow{
			{SlideIndex: 0, StartTime: 0, EndTime: 3},
			{SlideIndex: 1, StartTime: 3, EndTime: 20},
		},
	}
	if got := tl.RecalculateTotal(); got != 20 {
		t.Errorf("total = %f", got)
	}

	empty := &SyncTimeline{}
	if got := empty.RecalculateTotal(); got != 0 {
		t.Errorf("empty total = %f", got)
	}
}

func TestWindowForSlide(t *testing.T) {
	tl := &SyncTimeline{
		Windows: []SyncWindow{
			{SlideIndex: 0, SectionID: 0},
			{SlideIndex: 1, SectionID: 7},
		},
	}
	if got := tl.WindowForSlide(1); got == nil || got.SectionID != 7 {
		t.Errorf("WindowForSlide(1) = %+v", got)
	}
	if got := tl.WindowForSlide(9); got != nil {
		t.Errorf("WindowForSlide(9) = %+v, expected nil", got)
	}
}
