package config

const (
	defaultEngineURL               = "http://127.0.0.1:10101"
	defaultVoiceID                 = "888753760"
	defaultQueryTimeoutSeconds     = 30
	defaultSynthesisTimeoutSeconds = 120
	defaultWorkers                 = 4
	defaultMaxAttempts             = 3
	defaultBackoffMillis           = 500
	defaultCanvasWidth             = 1920
	defaultCanvasHeight            = 1080
	defaultSlideWidth              = 1280
	defaultSlideHeight             = 720
	defaultSlideLeft               = 40
	defaultSlideTop                = 28
	defaultFrameRate               = 30
	defaultMinSegmentSeconds       = 1.0
	defaultRenderTimeoutSeconds    = 600
	defaultBGMGain                 = 0.2
	defaultEncoder                 = "ffmpeg"
	defaultRasterizer              = "pdftoppm"
)

// Default returns a configuration that works against a local AivisSpeech
// engine with no config file at all.
func Default() Config {
	return Config{
		Paths: Paths{
			ScriptFile:   "script.yaml",
			SlideDir:     "slides",
			AudioDir:     "audio",
			SegmentDir:   "segments",
			ManifestPath: "movie_manifest.json",
			OutputPath:   "final.mp4",
		},
		Engine: Engine{
			BaseURL:                 defaultEngineURL,
			VoiceID:                 defaultVoiceID,
			Prewarm:                 true,
			QueryTimeoutSeconds:     defaultQueryTimeoutSeconds,
			SynthesisTimeoutSeconds: defaultSynthesisTimeoutSeconds,
		},
		Synthesis: Synthesis{
			Workers:        defaultWorkers,
			MaxAttempts:    defaultMaxAttempts,
			BackoffMillis:  defaultBackoffMillis,
			SkipExisting:   true,
			ParallelRender: true,
		},
		Render: Render{
			CanvasWidth:       defaultCanvasWidth,
			CanvasHeight:      defaultCanvasHeight,
			SlideWidth:        defaultSlideWidth,
			SlideHeight:       defaultSlideHeight,
			SlideLeft:         defaultSlideLeft,
			SlideTop:          defaultSlideTop,
			FrameRate:         defaultFrameRate,
			MinSegmentSeconds: defaultMinSegmentSeconds,
			TimeoutSeconds:    defaultRenderTimeoutSeconds,
		},
		Assembly: Assembly{
			BGMGain: defaultBGMGain,
		},
		Script: Script{
			Terminators: []string{"。", "！", "？", "!", "?", "\n"},
		},
		Tools: Tools{
			Encoder:    defaultEncoder,
			Rasterizer: defaultRasterizer,
		},
	}
}
