package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newRunCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Rasterize, synthesize and assemble in one pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return exitError(err)
			}
			defer app.Close()

			ctx, cancel := signalContext()
			defer cancel()

			finalPath, err := app.pipeline.RunAll(ctx)
			if err != nil {
				return exitError(err)
			}
			fmt.Println(finalPath)
			return nil
		},
	}
}

func newSlidesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "slides",
		Short: "Rasterize the PDF deck into numbered slide images",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return exitError(err)
			}
			defer app.Close()

			ctx, cancel := signalContext()
			defer cancel()
			if err := app.pipeline.GenerateSlides(ctx); err != nil {
				return exitError(err)
			}
			return nil
		},
	}
}

func newAudioCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audio",
		Short: "Synthesize narration and write the manifest checkpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return exitError(err)
			}
			defer app.Close()

			ctx, cancel := signalContext()
			defer cancel()
			manifest, err := app.pipeline.GenerateAudio(ctx)
			if err != nil {
				return exitError(err)
			}
			total := 0.0
			for _, entry := range manifest.Entries {
				total += entry.TotalDurationSeconds
			}
			fmt.Printf("synthesized %d slides, %.1fs of narration\n", len(manifest.Entries), total)
			return nil
		},
	}
}

func newVideoCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "video",
		Short: "Render segments from the manifest and assemble the final video",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return exitError(err)
			}
			defer app.Close()

			ctx, cancel := signalContext()
			defer cancel()
			finalPath, err := app.pipeline.AssembleVideo(ctx)
			if err != nil {
				return exitError(err)
			}
			fmt.Println(finalPath)
			return nil
		},
	}
}

func newSpeakersCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "speakers",
		Short: "List voices available on the speech engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return exitError(err)
			}
			defer app.Close()

			ctx, cancel := signalContext()
			defer cancel()
			styles, err := app.synthesizer.ListSpeakers(ctx)
			if err != nil {
				return exitError(err)
			}
			for _, style := range styles {
				fmt.Printf("%s\t%s\t%s\n", style.StyleID, style.SpeakerName, style.StyleName)
			}
			return nil
		},
	}
}

func newCleanCommand(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove generated slides, audio, segments, manifest and videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return exitError(err)
			}
			if !yes {
				return exitError(fmt.Errorf("refusing to delete outputs without --yes"))
			}

			dirs := []string{cfg.Paths.SlideDir, cfg.Paths.AudioDir, cfg.Paths.SegmentDir}
			for _, dir := range dirs {
				if dir == "" {
					continue
				}
				if err := os.RemoveAll(dir); err != nil {
					return exitError(err)
				}
			}
			ext := filepath.Ext(cfg.Paths.OutputPath)
			narration := strings.TrimSuffix(cfg.Paths.OutputPath, ext) + "_narration" + ext
			for _, file := range []string{cfg.Paths.ManifestPath, cfg.Paths.OutputPath, narration} {
				if file == "" {
					continue
				}
				if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
					return exitError(err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
