package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/solaz/contents-autouploader/ai"
	"github.com/solaz/contents-autouploader/captions"
	"github.com/solaz/contents-autouploader/config"
	"github.com/solaz/contents-autouploader/metadata"
	"github.com/solaz/contents-autouploader/ppt"
	"github.com/solaz/contents-autouploader/research"
	"github.com/solaz/contents-autouploader/script"
	"github.com/solaz/contents-autouploader/thumbnail"
	"github.com/solaz/contents-autouploader/timeline"
	"github.com/solaz/contents-autouploader/tts"
	"github.com/solaz/contents-autouploader/types"
	"github.com/solaz/contents-autouploader/upload"
	"github.com/solaz/contents-autouploader/util"
	"github.com/solaz/contents-autouploader/video"
)

const usage = `contents-autouploader — topic to published video pipeline

Usage:
  contents-autouploader <command> [flags]

Commands:
  topics    find and rank topic candidates from Reddit
  script    generate a lecture script for a topic
  ppt       build the slide deck and render slide images
  tts       synthesize narration audio for each section
  sync      build the slide/audio timeline
  video     render the final video from slides and timeline
  meta      generate YouTube metadata for the script
  upload    upload the final video to YouTube
  generate  run the full pipeline end to end

Run 'contents-autouploader <command> -h' for command flags.`

func main() {
	// Load .env (local dev only — CI uses real env vars)
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	ctx := context.Background()
	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "topics":
		err = runTopics(ctx, args)
	case "script":
		err = runScript(ctx, args)
	case "ppt":
		err = runPPT(ctx, args)
	case "tts":
		err = runTTS(ctx, args)
	case "sync":
		err = runSync(ctx, args)
	case "video":
		err = runVideo(ctx, args)
	case "meta":
		err = runMeta(ctx, args)
	case "upload":
		err = runUpload(ctx, args)
	case "generate":
		err = runGenerate(ctx, args)
	case "-h", "--help", "help":
		fmt.Println(usage)
		return
	default:
		fmt.Printf("unknown command: %q\n\n%s\n", command, usage)
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("❌ %s failed: %v", command, err)
	}
}

func runTopics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("topics", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "config file path")
	pick := fs.Bool("pick", false, "pick the best unused topic instead of listing all")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if _, err := util.EnsureDir(cfg.Output.BaseDir); err != nil {
		return err
	}

	finder, err := research.New(cfg)
	if err != nil {
		return err
	}

	if *pick {
		topic, err := finder.Pick(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n  %s (score %d)\n  %s\n", topic.Title, topic.Source, topic.Score, topic.SourceURL)
		return nil
	}

	topics, err := finder.Run(ctx)
	if err != nil {
		return err
	}
	for i, t := range topics {
		fmt.Printf("%2d. [%5d] %s (%s)\n", i+1, t.Score, t.Title, t.Source)
	}
	return saveJSON(filepath.Join(cfg.Output.BaseDir, "topics.json"), topics)
}

func runScript(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("script", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "config file path")
	dir := fs.String("dir", "", "run directory (defaults to a new one)")
	topic := fs.String("topic", "", "topic of the video (required)")
	storyline := fs.String("storyline", "", "storyline or angle for the script")
	duration := fs.Int("duration", 0, "target duration in minutes")
	fs.Parse(args)

	if *topic == "" {
		return fmt.Errorf("-topic is required")
	}

	cfg, runDir, err := loadRun(*configPath, *dir)
	if err != nil {
		return err
	}

	client, err := ai.New(cfg.AI)
	if err != nil {
		return err
	}

	scriptData, err := script.New(cfg, client).Run(ctx, script.Input{
		Topic:           *topic,
		Storyline:       *storyline,
		DurationMinutes: *duration,
	})
	if err != nil {
		return err
	}
	return saveJSON(filepath.Join(runDir, "script.json"), scriptData)
}

func runPPT(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ppt", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "config file path")
	dir := fs.String("dir", "", "run directory containing script.json")
	fs.Parse(args)

	cfg, runDir, err := loadRun(*configPath, *dir)
	if err != nil {
		return err
	}
	scriptData, err := loadScript(runDir)
	if err != nil {
		return err
	}

	gen, err := ppt.New(cfg)
	if err != nil {
		return err
	}
	pres := gen.Generate(scriptData)
	if _, err := gen.ExportImages(pres, filepath.Join(runDir, "slides")); err != nil {
		return err
	}
	return saveJSON(filepath.Join(runDir, "presentation.json"), pres)
}

func runTTS(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tts", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "config file path")
	dir := fs.String("dir", "", "run directory containing script.json")
	fs.Parse(args)

	cfg, runDir, err := loadRun(*configPath, *dir)
	if err != nil {
		return err
	}
	scriptData, err := loadScript(runDir)
	if err != nil {
		return err
	}

	gen, err := tts.New(cfg, nil)
	if err != nil {
		return err
	}
	audio, err := gen.GenerateForScript(ctx, scriptData, filepath.Join(runDir, "audio"))
	if err != nil {
		return err
	}

	// Re-save the script: section durations now reflect the real audio.
	if err := saveJSON(filepath.Join(runDir, "script.json"), scriptData); err != nil {
		return err
	}
	return saveJSON(filepath.Join(runDir, "audio.json"), audio)
}

func runSync(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "config file path")
	dir := fs.String("dir", "", "run directory containing script.json and presentation.json")
	audioDir := fs.String("audio-dir", "", "probe audio files from this directory instead of audio.json")
	fs.Parse(args)

	_, runDir, err := loadRun(*configPath, *dir)
	if err != nil {
		return err
	}
	scriptData, err := loadScript(runDir)
	if err != nil {
		return err
	}
	pres, err := loadPresentation(runDir)
	if err != nil {
		return err
	}

	var audio []types.AudioResult
	if *audioDir != "" {
		audio, err = probeAudioDir(*audioDir)
	} else {
		err = loadJSON(filepath.Join(runDir, "audio.json"), &audio)
		if os.IsNotExist(err) {
			// No audio yet: the timeline falls back to estimated durations.
			err = nil
		}
	}
	if err != nil {
		return err
	}

	tl := timeline.Build(scriptData, pres, audio)
	log.Printf("[sync] Timeline: %d windows, %.1f seconds total", len(tl.Windows), tl.TotalDuration)
	return saveJSON(filepath.Join(runDir, "timeline.json"), tl)
}

func runVideo(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("video", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "config file path")
	dir := fs.String("dir", "", "run directory containing presentation.json and timeline.json")
	fs.Parse(args)

	cfg, runDir, err := loadRun(*configPath, *dir)
	if err != nil {
		return err
	}
	pres, err := loadPresentation(runDir)
	if err != nil {
		return err
	}

	var tl types.SyncTimeline
	if err := loadJSON(filepath.Join(runDir, "timeline.json"), &tl); err != nil {
		return err
	}

	finalVideo, err := video.New(cfg).Run(ctx, pres, &tl, runDir)
	if err != nil {
		return err
	}
	fmt.Println(finalVideo)
	return nil
}

func runMeta(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("meta", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "config file path")
	dir := fs.String("dir", "", "run directory containing script.json")
	fs.Parse(args)

	cfg, runDir, err := loadRun(*configPath, *dir)
	if err != nil {
		return err
	}
	scriptData, err := loadScript(runDir)
	if err != nil {
		return err
	}

	var tl *types.SyncTimeline
	var loaded types.SyncTimeline
	if err := loadJSON(filepath.Join(runDir, "timeline.json"), &loaded); err == nil {
		tl = &loaded
	}

	client, err := ai.New(cfg.AI)
	if err != nil {
		return err
	}
	meta := metadata.New(cfg, client).Run(ctx, scriptData, tl)
	return saveJSON(filepath.Join(runDir, "metadata.json"), meta)
}

func runUpload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "config file path")
	dir := fs.String("dir", "", "run directory containing metadata.json")
	videoFile := fs.String("video", "", "video file (defaults to <dir>/final_video.mp4)")
	thumbnail := fs.String("thumbnail", "", "optional thumbnail image to set after upload")
	fs.Parse(args)

	cfg, runDir, err := loadRun(*configPath, *dir)
	if err != nil {
		return err
	}

	var meta types.UploadMetadata
	if err := loadJSON(filepath.Join(runDir, "metadata.json"), &meta); err != nil {
		return err
	}
	if *videoFile == "" {
		*videoFile = filepath.Join(runDir, "final_video.mp4")
	}

	uploader := upload.New(cfg)
	videoID, videoURL, err := uploader.Run(ctx, *videoFile, &meta)
	if err != nil {
		return err
	}
	if *thumbnail != "" {
		if err := uploader.SetThumbnail(ctx, videoID, *thumbnail); err != nil {
			log.Printf("⚠️ Thumbnail failed: %v", err)
		}
	}
	if status, err := uploader.CheckStatus(ctx, videoID); err == nil {
		log.Printf("[upload] Status: upload=%s processing=%s", status.UploadStatus, status.ProcessingStatus)
	}

	fmt.Println(videoURL)
	return upload.LogUpload(videoID, videoURL, *videoFile, runDir, &meta)
}

func runGenerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "config file path")
	topic := fs.String("topic", "", "topic of the video (omit with -auto)")
	storyline := fs.String("storyline", "", "storyline or angle for the script")
	duration := fs.Int("duration", 0, "target duration in minutes")
	auto := fs.Bool("auto", false, "discover the topic from Reddit instead of -topic")
	doUpload := fs.Bool("upload", false, "upload the finished video to YouTube")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if _, err := util.EnsureDir(cfg.Output.BaseDir); err != nil {
		return err
	}

	runID := uuid.NewString()[:8]
	runDir := filepath.Join(cfg.Output.BaseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}

	log.Printf("🎬 Pipeline starting — Run ID: %s", runID)
	log.Printf("📁 Output dir: %s", runDir)

	state := &types.PipelineState{
		RunID:     runID,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}
	defer func() {
		state.CompletedAt = time.Now().UTC().Format(time.RFC3339)
		_ = saveJSON(filepath.Join(runDir, "pipeline_state.json"), state)
	}()

	// Stage 1: topic
	if *auto {
		log.Println("\n━━━ STAGE 1: Topic Research ━━━")
		finder, err := research.New(cfg)
		if err != nil {
			return err
		}
		picked, err := finder.Pick(ctx)
		if err != nil {
			return stageErr(state, "research", err)
		}
		*topic = picked.Title
		if *storyline == "" {
			*storyline = picked.Storyline
		}
		_ = saveJSON(filepath.Join(runDir, "topic.json"), picked)
	}
	if *topic == "" {
		return fmt.Errorf("-topic is required (or use -auto)")
	}

	client, err := ai.New(cfg.AI)
	if err != nil {
		return err
	}

	// Stage 2: script
	log.Println("\n━━━ STAGE 2: Script ━━━")
	scriptData, err := script.New(cfg, client).Run(ctx, script.Input{
		Topic:           *topic,
		Storyline:       *storyline,
		DurationMinutes: *duration,
	})
	if err != nil {
		return stageErr(state, "script", err)
	}
	state.Script = scriptData
	_ = saveJSON(filepath.Join(runDir, "script.json"), scriptData)

	// Stage 3: slides
	log.Println("\n━━━ STAGE 3: Slides ━━━")
	pptGen, err := ppt.New(cfg)
	if err != nil {
		return stageErr(state, "ppt", err)
	}
	pres := pptGen.Generate(scriptData)
	if _, err := pptGen.ExportImages(pres, filepath.Join(runDir, "slides")); err != nil {
		return stageErr(state, "ppt", err)
	}
	state.Presentation = pres
	_ = saveJSON(filepath.Join(runDir, "presentation.json"), pres)

	// Stage 4: audio
	log.Println("\n━━━ STAGE 4: Audio ━━━")
	ttsGen, err := tts.New(cfg, nil)
	if err != nil {
		return stageErr(state, "tts", err)
	}
	audio, err := ttsGen.GenerateForScript(ctx, scriptData, filepath.Join(runDir, "audio"))
	if err != nil {
		return stageErr(state, "tts", err)
	}
	state.Audio = audio
	_ = saveJSON(filepath.Join(runDir, "script.json"), scriptData)
	_ = saveJSON(filepath.Join(runDir, "audio.json"), audio)

	// Stage 5: timeline
	log.Println("\n━━━ STAGE 5: Timeline ━━━")
	tl := timeline.Build(scriptData, pres, audio)
	state.Timeline = tl
	_ = saveJSON(filepath.Join(runDir, "timeline.json"), tl)

	// Stage 6: video
	log.Println("\n━━━ STAGE 6: Video ━━━")
	finalVideo, err := video.New(cfg).Run(ctx, pres, tl, runDir)
	if err != nil {
		return stageErr(state, "video", err)
	}
	state.VideoFile = finalVideo

	if cfg.Captions.Enabled {
		log.Println("\n━━━ STAGE 6b: Captions ━━━")
		capGen := captions.New(cfg)
		srtFile, err := capGen.WriteSRT(scriptData, tl, filepath.Join(runDir, "captions.srt"))
		if err != nil {
			log.Printf("⚠️ Captions failed: %v, continuing without them", err)
		} else if burned, err := capGen.BurnIntoVideo(ctx, finalVideo, srtFile, runDir); err != nil {
			log.Printf("⚠️ Caption burn failed: %v, using plain video", err)
		} else {
			finalVideo = burned
			state.VideoFile = burned
		}
	}

	// Stage 7: metadata
	log.Println("\n━━━ STAGE 7: Metadata ━━━")
	meta := metadata.New(cfg, client).Run(ctx, scriptData, tl)
	state.Metadata = meta
	_ = saveJSON(filepath.Join(runDir, "metadata.json"), meta)

	// Stage 8: upload
	if *doUpload {
		log.Println("\n━━━ STAGE 8: Upload ━━━")
		uploader := upload.New(cfg)
		videoID, videoURL, err := uploader.Run(ctx, finalVideo, meta)
		if err != nil {
			return stageErr(state, "upload", err)
		}
		state.YouTubeID = videoID
		state.YouTubeURL = videoURL

		if thumbFile, err := thumbnail.New().Generate(ctx, scriptData, runDir); err != nil {
			log.Printf("⚠️ Thumbnail generation failed: %v, keeping the default", err)
		} else if err := uploader.SetThumbnail(ctx, videoID, thumbFile); err != nil {
			log.Printf("⚠️ Thumbnail upload failed: %v", err)
		}

		_ = upload.LogUpload(videoID, videoURL, finalVideo, runDir, meta)
		log.Printf("✅ Pipeline complete! Video: %s", videoURL)
	} else {
		log.Printf("✅ Pipeline complete! Video: %s", finalVideo)
	}
	return nil
}

func stageErr(state *types.PipelineState, stage string, err error) error {
	state.Error = fmt.Sprintf("%s: %v", stage, err)
	return fmt.Errorf("stage %s: %w", stage, err)
}

// loadRun loads the config and resolves the run directory, creating a
// fresh one when none is given.
func loadRun(configPath, dir string) (*config.Config, string, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, "", err
	}
	if dir == "" {
		dir = filepath.Join(cfg.Output.BaseDir, uuid.NewString()[:8])
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", err
	}
	return cfg, dir, nil
}

func loadScript(runDir string) (*types.Script, error) {
	var s types.Script
	if err := loadJSON(filepath.Join(runDir, "script.json"), &s); err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	return &s, nil
}

func loadPresentation(runDir string) (*types.Presentation, error) {
	var p types.Presentation
	if err := loadJSON(filepath.Join(runDir, "presentation.json"), &p); err != nil {
		return nil, fmt.Errorf("load presentation: %w", err)
	}
	return &p, nil
}

var sectionAudioPattern = regexp.MustCompile(`^section_(\d+)\.(mp3|wav|m4a)$`)

// probeAudioDir builds audio results from already-synthesized files named
// section_NNN.mp3, measuring each one's real duration.
func probeAudioDir(dir string) ([]types.AudioResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read audio dir: %w", err)
	}

	var results []types.AudioResult
	for _, entry := range entries {
		m := sectionAudioPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		sectionID, _ := strconv.Atoi(m[1])
		path := filepath.Join(dir, entry.Name())

		duration, err := tts.ProbeDuration(path)
		if err != nil {
			return nil, fmt.Errorf("probe %s: %w", path, err)
		}
		results = append(results, types.AudioResult{
			SectionID:   sectionID,
			AudioFile:   path,
			DurationSec: duration,
		})
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no section audio files in %s", dir)
	}
	return results, nil
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	log.Printf("Saved %s", path)
	return nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
