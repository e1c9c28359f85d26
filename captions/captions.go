// Package captions writes SRT subtitles from the synchronized timeline and
// burns them into the video. The timeline already carries narration timing,
// so no speech recognition is needed.
package captions

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/solaz/contents-autouploader/config"
	"github.com/solaz/contents-autouploader/timeline"
	"github.com/solaz/contents-autouploader/types"
)

// Generator produces and burns subtitle tracks
type Generator struct {
	cfg *config.Config
}

// New creates a new caption Generator
func New(cfg *config.Config) *Generator {
	return &Generator{cfg: cfg}
}

// WriteSRT generates an SRT file from the script and timeline. Each
// window's narration is split into cues spread across the window in
// proportion to their length.
func (g *Generator) WriteSRT(script *types.Script, tl *types.SyncTimeline, outPath string) (string, error) {
	var sb strings.Builder
	cueIndex := 1

	for _, window := range tl.Windows {
		if window.SectionID == timeline.TitleSectionID {
			continue
		}
		section := script.SectionByID(window.SectionID)
		if section == nil || section.Content == "" {
			continue
		}

		for _, cue := range layoutCues(section.Content, window, g.maxCharsPerLine()) {
			sb.WriteString(fmt.Sprintf("%d\n%s --> %s\n%s\n\n",
				cueIndex, srtTime(cue.start), srtTime(cue.end), cue.text))
			cueIndex++
		}
	}

	if cueIndex == 1 {
		return "", fmt.Errorf("timeline produced no caption cues")
	}
	if err := os.WriteFile(outPath, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("write srt: %w", err)
	}

	log.Printf("[captions] ✅ SRT generated: %s (%d cues)", outPath, cueIndex-1)
	return outPath, nil
}

// BurnIntoVideo uses FFmpeg to burn the subtitle track into the video
func (g *Generator) BurnIntoVideo(ctx context.Context, videoFile, srtFile, outputDir string) (string, error) {
	log.Println("[captions] Burning subtitles into video...")

	outFile := filepath.Join(outputDir, "video_captioned.mp4")

	subtitleFilter := fmt.Sprintf(
		"subtitles=%s:force_style='FontSize=%d,PrimaryColour=&H00FFFFFF,OutlineColour=&H00000000,Outline=2,Alignment=2,MarginV=%d'",
		escapeSubtitlePath(srtFile),
		g.cfg.Captions.FontSize,
		g.cfg.Captions.MarginBottom,
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", videoFile,
		"-vf", subtitleFilter,
		"-c:v", g.cfg.Video.Codec,
		"-preset", "fast",
		"-crf", "20",
		"-c:a", "copy",
		outFile,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg subtitle burn: %w", err)
	}

	log.Printf("[captions] ✅ Subtitles burned: %s", outFile)
	return outFile, nil
}

type cue struct {
	text  string
	start float64
	end   float64
}

// layoutCues splits narration into cues of at most two lines and assigns
// each cue a slice of the window proportional to its character count.
func layoutCues(text string, window types.SyncWindow, maxCharsPerLine int) []cue {
	chunks := chunkText(text, maxCharsPerLine)
	if len(chunks) == 0 {
		return nil
	}

	total := 0
	for _, c := range chunks {
		total += len(c)
	}

	var cues []cue
	start := window.StartTime
	duration := window.Duration()
	for i, c := range chunks {
		share := duration * float64(len(c)) / float64(total)
		end := start + share
		if i == len(chunks)-1 {
			end = window.EndTime
		}
		cues = append(cues, cue{
			text:  wrapLines(c, maxCharsPerLine),
			start: start,
			end:   end,
		})
		start = end
	}
	return cues
}

// chunkText splits text into chunks of at most two display lines each,
// breaking on word boundaries.
func chunkText(text string, maxCharsPerLine int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	maxChunk := maxCharsPerLine * 2

	var chunks []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) > maxChunk {
			chunks = append(chunks, current)
			current = word
			continue
		}
		current += " " + word
	}
	return append(chunks, current)
}

// wrapLines breaks a chunk into at most two lines for display
func wrapLines(chunk string, maxCharsPerLine int) string {
	if len(chunk) <= maxCharsPerLine {
		return chunk
	}
	words := strings.Fields(chunk)
	line := words[0]
	for i, word := range words[1:] {
		if len(line)+1+len(word) > maxCharsPerLine {
			return line + "\n" + strings.Join(words[i+1:], " ")
		}
		line += " " + word
	}
	return line
}

// srtTime formats seconds as HH:MM:SS,mmm
func srtTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int(seconds*1000 + 0.5)
	h := ms / 3600000
	ms -= h * 3600000
	m := ms / 60000
	ms -= m * 60000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func escapeSubtitlePath(path string) string {
	// FFmpeg subtitle filter needs escaped colons and backslashes
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.ReplaceAll(path, ":", "\\:")
	return path
}

func (g *Generator) maxCharsPerLine() int {
	if g.cfg.Captions.MaxCharsPerLine > 0 {
		return g.cfg.Captions.MaxCharsPerLine
	}
	return 42
}
