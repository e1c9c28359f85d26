package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/solaz/contents-autouploader/config"
)

// Provider synthesizes speech from text into a file and reports the
// resulting audio duration in seconds.
type Provider interface {
	Synthesize(ctx context.Context, text, outputPath string) (float64, error)
}

func newProvider(name string, cfg *config.Config) (Provider, error) {
	switch name {
	case "openai":
		if os.Getenv("OPENAI_API_KEY") == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		return &openAITTS{cfg: cfg.TTS.OpenAI, httpClient: &http.Client{Timeout: 120 * time.Second}}, nil
	case "elevenlabs":
		if os.Getenv("ELEVENLABS_API_KEY") == "" {
			return nil, fmt.Errorf("ELEVENLABS_API_KEY not set")
		}
		return &elevenLabsTTS{cfg: cfg.TTS.ElevenLabs, httpClient: &http.Client{Timeout: 120 * time.Second}}, nil
	case "command":
		return &commandTTS{cfg: cfg.TTS.Command}, nil
	default:
		return nil, fmt.Errorf("unknown tts provider: %q", name)
	}
}

// openAITTS calls the OpenAI speech endpoint
type openAITTS struct {
	cfg        config.OpenAITTSConfig
	httpClient *http.Client
}

func (p *openAITTS) Synthesize(ctx context.Context, text, outputPath string) (float64, error) {
	reqBody := map[string]any{
		"model": p.cfg.Model,
		"voice": p.cfg.Voice,
		"input": text,
		"speed": p.cfg.Speed,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/audio/speech", bytes.NewReader(bodyBytes))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+os.Getenv("OPENAI_API_KEY"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("openai tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("openai tts: status %d: %s", resp.StatusCode, msg)
	}

	if err := writeBody(outputPath, resp.Body); err != nil {
		return 0, err
	}
	return measureDuration(outputPath)
}

// elevenLabsTTS calls the ElevenLabs text-to-speech endpoint
type elevenLabsTTS struct {
	cfg        config.ElevenLabsTTSConfig
	httpClient *http.Client
}

func (p *elevenLabsTTS) Synthesize(ctx context.Context, text, outputPath string) (float64, error) {
	reqBody := map[string]any{
		"text":     text,
		"model_id": p.cfg.ModelID,
		"voice_settings": map[string]float64{
			"stability":        p.cfg.Stability,
			"similarity_boost": p.cfg.SimilarityBoost,
		},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return 0, err
	}

	url := "https://api.elevenlabs.io/v1/text-to-speech/" + p.cfg.VoiceID
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bodyBytes))
	if err != nil {
		return 0, err
	}
	req.Header.Set("xi-api-key", os.Getenv("ELEVENLABS_API_KEY"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("elevenlabs: status %d: %s", resp.StatusCode, msg)
	}

	if err := writeBody(outputPath, resp.Body); err != nil {
		return 0, err
	}
	return measureDuration(outputPath)
}

// commandTTS shells out to an external TTS binary. With no command
// configured it falls back to edge-tts when available.
type commandTTS struct {
	cfg config.CommandTTSConfig
}

func (p *commandTTS) Synthesize(ctx context.Context, text, outputPath string) (float64, error) {
	command := strings.TrimSpace(p.cfg.Command)
	if command == "" {
		if _, err := exec.LookPath("edge-tts"); err != nil {
			return 0, fmt.Errorf("no TTS command configured and edge-tts not found: pip install edge-tts")
		}
		command = "edge-tts"
	}

	// Retry up to 3 times with a growing backoff.
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		err = p.runOnce(ctx, command, text, outputPath)
		if err == nil {
			return measureDuration(outputPath)
		}
		log.Printf("[tts] ⚠️ attempt %d failed: %v, retrying...", attempt, err)
		time.Sleep(time.Duration(attempt) * 2 * time.Second)
	}
	return 0, err
}

func (p *commandTTS) runOnce(ctx context.Context, command, text, outputPath string) error {
	var cmd *exec.Cmd
	switch {
	case command == "edge-tts":
		voice := p.cfg.Voice
		if voice == "" {
			voice = "en-US-GuyNeural"
		}
		cmd = exec.CommandContext(ctx, "edge-tts",
			"--voice", voice,
			"--text", text,
			"--write-media", outputPath,
		)
	case strings.HasSuffix(command, ".py"):
		cmd = exec.CommandContext(ctx, "python3", command,
			"--text", text,
			"--output", outputPath,
		)
	default:
		cmd = exec.CommandContext(ctx, command,
			"--text", text,
			"--output", outputPath,
		)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func writeBody(path string, body io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return fmt.Errorf("write audio file: %w", err)
	}
	return f.Close()
}

// measureDuration asks ffprobe for the exact audio length. When ffprobe is
// unavailable it falls back to a rough size-based estimate.
func measureDuration(audioFile string) (float64, error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioFile,
	).Output()
	if err == nil {
		var dur float64
		if _, scanErr := fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &dur); scanErr == nil {
			return dur, nil
		}
	}

	info, statErr := os.Stat(audioFile)
	if statErr != nil {
		return 0, fmt.Errorf("measure duration of %s: %w", audioFile, statErr)
	}
	// Rough mp3 estimate at ~2KB per second.
	return float64(info.Size()) / 2000, nil
}
