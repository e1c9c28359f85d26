// Package util holds small helpers shared across pipeline stages.
package util

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespace           = regexp.MustCompile(`\s+`)
	englishWords         = regexp.MustCompile(`[a-zA-Z]+`)
)

// EnsureDir creates a directory (and parents) if it does not exist
func EnsureDir(path string) (string, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("create dir %s: %w", path, err)
	}
	return path, nil
}

// Timestamp returns the current time in a filename-safe format
func Timestamp() string {
	return time.Now().Format("20060102_150405")
}

// SanitizeFilename strips characters that are invalid in filenames,
// collapses whitespace to underscores and truncates to maxLength.
func SanitizeFilename(name string, maxLength int) string {
	s := invalidFilenameChars.ReplaceAllString(name, "")
	s = whitespace.ReplaceAllString(s, "_")
	s = strings.Trim(s, ". ")
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		return "unnamed"
	}
	return s
}

// FormatDuration renders seconds as MM:SS
func FormatDuration(seconds float64) string {
	minutes := int(seconds) / 60
	secs := int(seconds) % 60
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// EstimateSpeechDuration estimates how long the text takes to read aloud,
// in seconds. Korean syllables count at roughly 4 per second (2 characters
// per syllable) and English words at roughly 2.5 per second. The estimate
// only holds until real synthesized audio replaces it.
func EstimateSpeechDuration(text string) float64 {
	koreanChars := 0
	for _, r := range text {
		if r >= 0xAC00 && r <= 0xD7A3 {
			koreanChars++
		}
	}
	englishWordCount := len(englishWords.FindAllString(text, -1))

	koreanDuration := float64(koreanChars) / 8.0
	englishDuration := float64(englishWordCount) / 2.5

	return koreanDuration + englishDuration
}
