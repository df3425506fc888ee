package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Paths contains every input and output location the pipeline touches.
type Paths struct {
	PDF             string `toml:"pdf"`
	ScriptFile      string `toml:"script_file"`
	SlideDir        string `toml:"slide_dir"`
	AudioDir        string `toml:"audio_dir"`
	SegmentDir      string `toml:"segment_dir"`
	ManifestPath    string `toml:"manifest_path"`
	OutputPath      string `toml:"output_path"`
	BackgroundImage string `toml:"background_image"`
	CaptionFont     string `toml:"caption_font"`
	NoteFont        string `toml:"note_font"`
	BGM             string `toml:"bgm"`
}

// Engine contains the speech engine connection settings.
type Engine struct {
	BaseURL                 string `toml:"base_url"`
	VoiceID                 string `toml:"voice_id"`
	Prewarm                 bool   `toml:"prewarm"`
	QueryTimeoutSeconds     int    `toml:"query_timeout_seconds"`
	SynthesisTimeoutSeconds int    `toml:"synthesis_timeout_seconds"`
}

// Synthesis bounds the worker pool and the per-unit retry policy.
type Synthesis struct {
	Workers        int  `toml:"workers"`
	MaxAttempts    int  `toml:"max_attempts"`
	BackoffMillis  int  `toml:"backoff_millis"`
	SkipExisting   bool `toml:"skip_existing"`
	ParallelRender bool `toml:"parallel_render"`
}

// Render contains canvas geometry and encoder settings for slide segments.
type Render struct {
	CanvasWidth       int     `toml:"canvas_width"`
	CanvasHeight      int     `toml:"canvas_height"`
	SlideWidth        int     `toml:"slide_width"`
	SlideHeight       int     `toml:"slide_height"`
	SlideLeft         int     `toml:"slide_left"`
	SlideTop          int     `toml:"slide_top"`
	FrameRate         int     `toml:"frame_rate"`
	MinSegmentSeconds float64 `toml:"min_segment_seconds"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
}

// Assembly controls final concatenation and the background audio bed.
type Assembly struct {
	BGMGain float64 `toml:"bgm_gain"`
}

// Script configures the narration splitter grammar.
type Script struct {
	Terminators []string `toml:"terminators"`
}

// Tools names the external collaborator executables. Each value is a full
// command line; extra arguments are allowed and preserved.
type Tools struct {
	Encoder    string `toml:"encoder"`
	Rasterizer string `toml:"rasterizer"`
}

type Config struct {
	Paths     Paths     `toml:"paths"`
	Engine    Engine    `toml:"engine"`
	Synthesis Synthesis `toml:"synthesis"`
	Render    Render    `toml:"render"`
	Assembly  Assembly  `toml:"assembly"`
	Script    Script    `toml:"script"`
	Tools     Tools     `toml:"tools"`
}

// Load reads a TOML config file layered over Default. A missing file is not
// an error; the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
