package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kokuren333/BiimSlideMaker/config"
)

type rootOptions struct {
	configPath string
	pdf        string
	scriptFile string
	output     string
	engineURL  string
	voiceID    string
	workers    int
	noPrewarm  bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "slidecast",
		Short: "Render a narrated video from a slide deck and a script",
		Long: "slidecast turns a PDF slide deck plus a per-slide narration script into a " +
			"single video: slides are rasterized, narration is synthesized through a " +
			"VOICEVOX-compatible engine, each slide becomes a timed segment, and the " +
			"segments are concatenated over a background music bed.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "slidecast.toml", "path to the TOML config file")
	flags.StringVar(&opts.pdf, "pdf", "", "slide deck PDF")
	flags.StringVar(&opts.scriptFile, "script", "", "narration script YAML")
	flags.StringVar(&opts.output, "output", "", "final video path")
	flags.StringVar(&opts.engineURL, "engine-url", "", "speech engine base URL")
	flags.StringVar(&opts.voiceID, "voice", "", "speech engine voice id")
	flags.IntVar(&opts.workers, "workers", 0, "synthesis worker count")
	flags.BoolVar(&opts.noPrewarm, "no-prewarm", false, "skip voice pre-initialization")

	cmd.AddCommand(
		newRunCommand(opts),
		newSlidesCommand(opts),
		newAudioCommand(opts),
		newVideoCommand(opts),
		newSpeakersCommand(opts),
		newCleanCommand(opts),
	)
	return cmd
}

// loadConfig layers CLI flag overrides on the TOML file.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", opts.configPath, err)
	}
	if opts.pdf != "" {
		cfg.Paths.PDF = opts.pdf
	}
	if opts.scriptFile != "" {
		cfg.Paths.ScriptFile = opts.scriptFile
	}
	if opts.output != "" {
		cfg.Paths.OutputPath = opts.output
	}
	if opts.engineURL != "" {
		cfg.Engine.BaseURL = opts.engineURL
	}
	if opts.voiceID != "" {
		cfg.Engine.VoiceID = opts.voiceID
	}
	if opts.workers > 0 {
		cfg.Synthesis.Workers = opts.workers
	}
	if opts.noPrewarm {
		cfg.Engine.Prewarm = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func exitError(err error) error {
	fmt.Fprintln(os.Stderr, "error:", err)
	return err
}
