package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AI           AIConfig           `yaml:"ai"`
	Script       ScriptConfig       `yaml:"script"`
	Presentation PresentationConfig `yaml:"presentation"`
	TTS          TTSConfig          `yaml:"tts"`
	Video        VideoConfig        `yaml:"video"`
	Captions     CaptionConfig      `yaml:"captions"`
	Upload       UploadConfig       `yaml:"upload"`
	Research     ResearchConfig     `yaml:"research"`
	Output       OutputConfig       `yaml:"output"`
}

type AIConfig struct {
	Provider    string  `yaml:"provider"` // openai | ollama | groq
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type ScriptConfig struct {
	DefaultDurationMin int    `yaml:"default_duration_min"`
	DefaultTone        string `yaml:"default_tone"`
	Language           string `yaml:"language"`
}

type PresentationConfig struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	TitleFontSize   float64 `yaml:"title_font_size"`
	BodyFontSize    float64 `yaml:"body_font_size"`
	BackgroundColor string  `yaml:"background_color"`
	TitleColor      string  `yaml:"title_color"`
	BodyColor       string  `yaml:"body_color"`
}

type TTSConfig struct {
	Provider   string              `yaml:"provider"` // openai | elevenlabs | command
	Workers    int                 `yaml:"workers"`
	OpenAI     OpenAITTSConfig     `yaml:"openai"`
	ElevenLabs ElevenLabsTTSConfig `yaml:"elevenlabs"`
	Command    CommandTTSConfig    `yaml:"command"`
}

type OpenAITTSConfig struct {
	Model string  `yaml:"model"`
	Voice string  `yaml:"voice"`
	Speed float64 `yaml:"speed"`
}

type ElevenLabsTTSConfig struct {
	VoiceID         string  `yaml:"voice_id"`
	ModelID         string  `yaml:"model_id"`
	Stability       float64 `yaml:"stability"`
	SimilarityBoost float64 `yaml:"similarity_boost"`
}

type CommandTTSConfig struct {
	Command string `yaml:"command"`
	Voice   string `yaml:"voice"`
}

type VideoConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	FPS        int    `yaml:"fps"`
	Codec      string `yaml:"codec"`
	AudioCodec string `yaml:"audio_codec"`
	Bitrate    string `yaml:"bitrate"`
	Preset     string `yaml:"preset"`
}

type CaptionConfig struct {
	Enabled         bool `yaml:"enabled"`
	FontSize        int  `yaml:"font_size"`
	MaxCharsPerLine int  `yaml:"max_chars_per_line"`
	MarginBottom    int  `yaml:"margin_bottom"`
}

type UploadConfig struct {
	PrivacyStatus     string   `yaml:"privacy_status"` // public | private | unlisted
	CategoryID        string   `yaml:"category_id"`
	DefaultTags       []string `yaml:"default_tags"`
	DefaultLanguage   string   `yaml:"default_language"`
	NotifySubscribers bool     `yaml:"notify_subscribers"`
	MadeForKids       bool     `yaml:"made_for_kids"`
}

type ResearchConfig struct {
	Subreddits    []string `yaml:"subreddits"`
	LookbackDays  int      `yaml:"lookback_days"`
	MinScore      int      `yaml:"min_score"`
	MinComments   int      `yaml:"min_comments"`
	MaxCandidates int      `yaml:"max_candidates"`
}

type OutputConfig struct {
	BaseDir          string `yaml:"base_dir"`
	KeepIntermediate bool   `yaml:"keep_intermediate"`
}

// Default returns the built-in configuration used when no file overrides it
func Default() *Config {
	return &Config{
		AI: AIConfig{
			Provider:    "openai",
			Model:       "gpt-4o",
			MaxTokens:   8192,
			Temperature: 0.7,
		},
		Script: ScriptConfig{
			DefaultDurationMin: 10,
			DefaultTone:        "friendly and persuasive",
			Language:           "en",
		},
		Presentation: PresentationConfig{
			Width:           1920,
			Height:          1080,
			TitleFontSize:   64,
			BodyFontSize:    36,
			BackgroundColor: "#FFFFFF",
			TitleColor:      "#1a1a2e",
			BodyColor:       "#333333",
		},
		TTS: TTSConfig{
			Provider: "openai",
			Workers:  4,
			OpenAI: OpenAITTSConfig{
				Model: "tts-1-hd",
				Voice: "alloy",
				Speed: 1.0,
			},
			ElevenLabs: ElevenLabsTTSConfig{
				VoiceID:         "pNInz6obpgDQGcFmaJgB",
				ModelID:         "eleven_multilingual_v2",
				Stability:       0.5,
				SimilarityBoost: 0.75,
			},
		},
		Video: VideoConfig{
			Width:      1920,
			Height:     1080,
			FPS:        30,
			Codec:      "libx264",
			AudioCodec: "aac",
			Bitrate:    "8000k",
			Preset:     "medium",
		},
		Captions: CaptionConfig{
			Enabled:         false,
			FontSize:        28,
			MaxCharsPerLine: 42,
			MarginBottom:    40,
		},
		Upload: UploadConfig{
			PrivacyStatus:   "private",
			CategoryID:      "27", // Education
			DefaultLanguage: "en",
		},
		Research: ResearchConfig{
			Subreddits:    []string{"explainlikeimfive", "todayilearned"},
			LookbackDays:  7,
			MinScore:      100,
			MinComments:   20,
			MaxCandidates: 25,
		},
		Output: OutputConfig{
			BaseDir:          "output",
			KeepIntermediate: true,
		},
	}
}

// Load reads a YAML config file on top of the defaults. A missing file is
// not an error: the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
