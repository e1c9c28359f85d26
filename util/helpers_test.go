package util

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"My Great Video", "My_Great_Video"},
		{`bad<>:"/\|?*chars`, "badchars"},
		{"  .trimmed.  ", "trimmed"},
		{"", "unnamed"},
	}
	for _, c := range cases {
		got := SanitizeFilename(c.in, 100)
		if got != c.expected {
			t.Errorf("SanitizeFilename(%q) = %q, expected %q", c.in, got, c.expected)
		}
	}
}

func TestSanitizeFilenameTruncates(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := SanitizeFilename(long, 100)
	if len(got) != 100 {
		t.Errorf("expected 100 chars, got %d", len(got))
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds  float64
		expected string
	}{
		{0, "00:00"},
		{59.9, "00:59"},
		{90, "01:30"},
		{3600, "60:00"},
	}
	for _, c := range cases {
		got := FormatDuration(c.seconds)
		if got != c.expected {
			t.Errorf("FormatDuration(%f) = %q, expected %q", c.seconds, got, c.expected)
		}
	}
}

func TestEstimateSpeechDurationEnglish(t *testing.T) {
	// 25 English words at 2.5 words/second is 10 seconds.
	text := strings.TrimSpace(strings.Repeat("hello world again and more ", 5))
	got := EstimateSpeechDuration(text)
	if got != 10.0 {
		t.Errorf("EstimateSpeechDuration = %f, expected 10.0", got)
	}
}

func TestEstimateSpeechDurationKorean(t *testing.T) {
	// 8 Hangul syllable characters estimate to 1 second.
	got := EstimateSpeechDuration("안녕하세요반갑습니")
	if got < 1.0 || got > 1.5 {
		t.Errorf("EstimateSpeechDuration = %f, expected about 1.1", got)
	}
}

func TestEstimateSpeechDurationEmpty(t *testing.T) {
	if got := EstimateSpeechDuration(""); got != 0 {
		t.Errorf("EstimateSpeechDuration(\"\") = %f, expected 0", got)
	}
}
