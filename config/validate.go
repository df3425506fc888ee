package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/kokuren333/BiimSlideMaker/domain"
)

func requireFile(field, path string) error {
	if path == "" {
		return &domain.ConfigError{Field: field, Reason: "not set"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return &domain.ConfigError{Field: field, Reason: fmt.Sprintf("cannot stat %s: %v", path, err)}
	}
	if info.IsDir() {
		return &domain.ConfigError{Field: field, Reason: path + " is a directory"}
	}
	return nil
}

// Validate checks the settings every stage depends on. Stage-specific input
// files (PDF, fonts, BGM) are checked by the stages that consume them so a
// partial run does not demand inputs it never reads.
func (c *Config) Validate() error {
	if c.Synthesis.Workers < 1 {
		return &domain.ConfigError{Field: "synthesis.workers", Reason: "must be at least 1"}
	}
	if c.Synthesis.MaxAttempts < 1 {
		return &domain.ConfigError{Field: "synthesis.max_attempts", Reason: "must be at least 1"}
	}
	if c.Render.MinSegmentSeconds <= 0 {
		return &domain.ConfigError{Field: "render.min_segment_seconds", Reason: "must be positive"}
	}
	if c.Render.FrameRate < 1 {
		return &domain.ConfigError{Field: "render.frame_rate", Reason: "must be at least 1"}
	}
	if c.Assembly.BGMGain < 0 || c.Assembly.BGMGain > 1 {
		return &domain.ConfigError{Field: "assembly.bgm_gain", Reason: "must be in [0, 1]"}
	}
	if len(c.Script.Terminators) == 0 {
		return &domain.ConfigError{Field: "script.terminators", Reason: "must list at least one terminator"}
	}
	if _, err := url.Parse(c.Engine.BaseURL); err != nil {
		return &domain.ConfigError{Field: "engine.base_url", Reason: err.Error()}
	}
	if c.Engine.VoiceID == "" {
		return &domain.ConfigError{Field: "engine.voice_id", Reason: "not set"}
	}
	if c.Tools.Encoder == "" {
		return &domain.ConfigError{Field: "tools.encoder", Reason: "not set"}
	}
	return nil
}

// ValidateScriptInputs checks the files the audio stage reads.
func (c *Config) ValidateScriptInputs() error {
	return requireFile("paths.script_file", c.Paths.ScriptFile)
}

// ValidateRenderInputs checks the assets the video stage reads.
func (c *Config) ValidateRenderInputs() error {
	if err := requireFile("paths.background_image", c.Paths.BackgroundImage); err != nil {
		return err
	}
	if err := requireFile("paths.caption_font", c.Paths.CaptionFont); err != nil {
		return err
	}
	if err := requireFile("paths.note_font", c.Paths.NoteFont); err != nil {
		return err
	}
	return requireFile("paths.bgm", c.Paths.BGM)
}
