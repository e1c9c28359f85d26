// Package video assembles the final MP4 from slide images and section
// audio, driven by the synchronized timeline.
package video

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/solaz/contents-autouploader/config"
	"github.com/solaz/contents-autouploader/types"
)

// Renderer turns a presentation plus timeline into a video file
type Renderer struct {
	cfg *config.Config
}

// New creates a new Renderer
func New(cfg *config.Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Run renders one segment per timeline window, concatenates them, and
// returns the path of the final video.
func (r *Renderer) Run(ctx context.Context, pres *types.Presentation, tl *types.SyncTimeline, outputDir string) (string, error) {
	log.Println("[video] Starting video assembly...")

	if err := validateTimeline(tl, pres.SlideCount()); err != nil {
		return "", fmt.Errorf("invalid timeline: %w", err)
	}

	segmentDir := filepath.Join(outputDir, "segments")
	if err := os.MkdirAll(segmentDir, 0755); err != nil {
		return "", err
	}

	var segments []string
	for i, window := range tl.Windows {
		slide := &pres.Slides[window.SlideIndex]
		if slide.ImagePath == "" {
			return "", fmt.Errorf("slide %d has no rendered image", window.SlideIndex)
		}

		segFile := filepath.Join(segmentDir, fmt.Sprintf("segment_%03d.mp4", i))
		if err := r.renderSegment(ctx, slide.ImagePath, window, segFile); err != nil {
			return "", fmt.Errorf("render segment %d (slide %d): %w", i, window.SlideIndex, err)
		}
		segments = append(segments, segFile)
	}

	finalVideo, err := r.concatenateSegments(ctx, segments, outputDir)
	if err != nil {
		return "", fmt.Errorf("concatenate segments: %w", err)
	}

	log.Printf("[video] ✅ Final video ready: %s (%.1f seconds)", finalVideo, tl.TotalDuration)
	return finalVideo, nil
}

// renderSegment builds one video segment: a still slide image shown for the
// window's duration, with the window's audio or silence underneath.
func (r *Renderer) renderSegment(ctx context.Context, imagePath string, window types.SyncWindow, outFile string) error {
	duration := window.Duration()

	args := []string{"-y",
		"-loop", "1",
		"-i", imagePath,
	}
	if window.AudioFile != "" {
		args = append(args, "-i", window.AudioFile)
	} else {
		// Silent windows (the title slide, sections without audio) still
		// need an audio stream so the concat keeps streams aligned.
		args = append(args, "-f", "lavfi", "-i", "anullsrc=channel_layout=stereo:sample_rate=44100")
	}

	scaleFilter := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1",
		r.cfg.Video.Width, r.cfg.Video.Height,
		r.cfg.Video.Width, r.cfg.Video.Height,
	)

	args = append(args,
		"-t", fmt.Sprintf("%.3f", duration),
		"-vf", scaleFilter,
		"-r", fmt.Sprintf("%d", r.cfg.Video.FPS),
		"-c:v", r.cfg.Video.Codec,
		"-preset", r.cfg.Video.Preset,
		"-b:v", r.cfg.Video.Bitrate,
		"-pix_fmt", "yuv420p",
		"-c:a", r.cfg.Video.AudioCodec,
		"-b:a", "192k",
		"-ar", "44100",
		"-shortest",
		outFile,
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg segment: %w", err)
	}
	return nil
}

// concatenateSegments joins the per-window segments into the final MP4
func (r *Renderer) concatenateSegments(ctx context.Context, segments []string, outputDir string) (string, error) {
	log.Printf("[video] Concatenating %d segments...", len(segments))

	listFile := filepath.Join(outputDir, "segments_concat.txt")
	var lines []string
	for _, seg := range segments {
		lines = append(lines, fmt.Sprintf("file '%s'", seg))
	}
	if err := os.WriteFile(listFile, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return "", err
	}

	outFile := filepath.Join(outputDir, "final_video.mp4")
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		"-movflags", "+faststart", // optimize for web streaming
		outFile,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg concat: %w", err)
	}
	return outFile, nil
}

const contiguityTolerance = 1e-6

// validateTimeline rejects timelines the renderer cannot express: windows
// must reference real slides, have positive length, and be contiguous.
func validateTimeline(tl *types.SyncTimeline, slideCount int) error {
	if tl == nil || len(tl.Windows) == 0 {
		return fmt.Errorf("timeline has no windows")
	}

	cursor := 0.0
	for i, w := range tl.Windows {
		if w.SlideIndex < 0 || w.SlideIndex >= slideCount {
			return fmt.Errorf("window %d references slide %d, deck has %d slides", i, w.SlideIndex, slideCount)
		}
		if w.StartTime < 0 {
			return fmt.Errorf("window %d starts at %f", i, w.StartTime)
		}
		if w.EndTime <= w.StartTime {
			return fmt.Errorf("window %d has non-positive duration (%f to %f)", i, w.StartTime, w.EndTime)
		}
		if math.Abs(w.StartTime-cursor) > contiguityTolerance {
			return fmt.Errorf("window %d starts at %f, expected %f", i, w.StartTime, cursor)
		}
		cursor = w.EndTime
	}
	return nil
}
