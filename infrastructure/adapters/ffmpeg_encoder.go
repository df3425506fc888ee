package adapters

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kokuren333/BiimSlideMaker/application/ports/outbound"
	"github.com/kokuren333/BiimSlideMaker/config"
)

// Caption and note boxes on the 1920x1080 canvas template.
const (
	captionBoxTop    = 847
	captionBoxBottom = 1009
	captionFontSize  = 48
	captionColor     = "white"
	noteBoxLeft      = 1413
	noteBoxTop       = 66
	noteBoxWidth     = 444
	noteFontSize     = 28
	noteColor        = "0xEEF4FF"

	silentSampleRate = 44100
)

type ffmpegEncoder struct {
	logger       outbound.LoggerPort
	command      []string
	renderConfig *config.Render
	captionFont  string
	noteFont     string
	background   string
	timeout      time.Duration
}

func NewFFmpegEncoder(logger outbound.LoggerPort, cfg *config.Config) (outbound.EncoderPort, error) {
	command, err := parseCommand(cfg.Tools.Encoder)
	if err != nil {
		return nil, err
	}
	return &ffmpegEncoder{
		logger:       logger,
		command:      command,
		renderConfig: &cfg.Render,
		captionFont:  cfg.Paths.CaptionFont,
		noteFont:     cfg.Paths.NoteFont,
		background:   cfg.Paths.BackgroundImage,
		timeout:      time.Duration(cfg.Render.TimeoutSeconds) * time.Second,
	}, nil
}

// escapeDrawtext quotes text for an ffmpeg drawtext filter argument.
func escapeDrawtext(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return replacer.Replace(text)
}

func (f *ffmpegEncoder) videoFilter(params outbound.RenderSegmentParams) string {
	r := f.renderConfig
	var sb strings.Builder
	fmt.Fprintf(&sb, "[1:v]scale=%d:%d[slide];[0:v][slide]overlay=%d:%d[canvas]",
		r.SlideWidth, r.SlideHeight, r.SlideLeft, r.SlideTop)

	label := "canvas"
	if caption := strings.TrimSpace(params.CaptionText); caption != "" {
		boxHeight := captionBoxBottom - captionBoxTop
		fmt.Fprintf(&sb,
			";[%s]drawtext=fontfile='%s':text='%s':fontsize=%d:fontcolor=%s:x=(w-text_w)/2:y=%d+(%d-text_h)/2[cap]",
			label, f.captionFont, escapeDrawtext(caption), captionFontSize, captionColor,
			captionBoxTop, boxHeight)
		label = "cap"
	}
	note := strings.TrimSpace(params.Slide.NoteTop)
	if bottom := strings.TrimSpace(params.Slide.NoteBottom); bottom != "" {
		if note != "" {
			note += "\n"
		}
		note += bottom
	}
	if note != "" {
		fmt.Fprintf(&sb,
			";[%s]drawtext=fontfile='%s':text='%s':fontsize=%d:fontcolor=%s:x=%d:y=%d[noted]",
			label, f.noteFont, escapeDrawtext(note), noteFontSize, noteColor,
			noteBoxLeft, noteBoxTop)
		label = "noted"
	}
	fmt.Fprintf(&sb, ";[%s]fps=%d,format=yuv420p[vout]", label, r.FrameRate)
	return sb.String()
}

// RenderSegment composites background, slide image and text overlays into a
// video exactly as long as the slide's narration. A silent segment holds the
// frame for the configured duration over a generated null audio track so
// downstream concatenation sees matched streams.
func (f *ffmpegEncoder) RenderSegment(ctx context.Context, params outbound.RenderSegmentParams) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	args := []string{"-y", "-loop", "1", "-i", f.background, "-loop", "1", "-i", params.Slide.ImagePath}

	filter := f.videoFilter(params)
	if params.Silent {
		args = append(args,
			"-f", "lavfi", "-i",
			fmt.Sprintf("anullsrc=channel_layout=mono:sample_rate=%d", silentSampleRate),
		)
		filter += ";[2:a]acopy[aout]"
	} else {
		for _, audioPath := range params.AudioPaths {
			args = append(args, "-i", audioPath)
		}
		var inputs strings.Builder
		for i := range params.AudioPaths {
			fmt.Fprintf(&inputs, "[%d:a]", i+2)
		}
		filter += fmt.Sprintf(";%sconcat=n=%d:v=0:a=1[aout]", inputs.String(), len(params.AudioPaths))
	}

	args = append(args,
		"-filter_complex", filter,
		"-map", "[vout]", "-map", "[aout]",
		"-c:v", "libx264", "-tune", "stillimage", "-preset", "medium", "-crf", "18",
		"-c:a", "aac", "-b:a", "192k", "-ar", fmt.Sprint(silentSampleRate),
	)
	if params.Silent {
		args = append(args, "-t", fmt.Sprintf("%.3f", params.DurationSeconds))
	} else {
		args = append(args, "-shortest")
	}
	args = append(args, params.OutputPath)

	f.logger.DebugWithFields("rendering segment", map[string]interface{}{
		"slide_id": params.Slide.ID,
		"output":   params.OutputPath,
	})
	return runCommand(ctx, f.command, args...)
}

// Concatenate joins segments with the concat demuxer and stream copy, so the
// joins introduce no re-encode artifacts.
func (f *ffmpegEncoder) Concatenate(ctx context.Context, segmentPaths []string, outputPath string) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	listPath := filepath.Join(filepath.Dir(outputPath), "concat_"+uuid.NewString()+".txt")
	listFile, err := os.Create(listPath)
	if err != nil {
		return fmt.Errorf("create concat list: %w", err)
	}
	defer func() {
		if err := os.Remove(listPath); err != nil {
			f.logger.Error(err, "Failed to remove concat list file")
		}
	}()

	writer := bufio.NewWriter(listFile)
	for _, path := range segmentPaths {
		if _, err := writer.WriteString("file '" + filepath.ToSlash(path) + "'\n"); err != nil {
			listFile.Close()
			return fmt.Errorf("write concat list: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		listFile.Close()
		return fmt.Errorf("flush concat list: %w", err)
	}
	if err := listFile.Close(); err != nil {
		return fmt.Errorf("close concat list: %w", err)
	}

	return runCommand(ctx, f.command,
		"-y", "-f", "concat", "-safe", "0", "-i", listPath, "-c", "copy", outputPath)
}

// MixBackground lays the looped bed under the narration at the given gain.
// The narration track is never attenuated; the bed is trimmed to the video
// by amix duration=first.
func (f *ffmpegEncoder) MixBackground(ctx context.Context, videoPath string, bgmPath string, gain float64, outputPath string) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	filter := fmt.Sprintf(
		"[1:a]volume=%.3f[a_bgm];[0:a][a_bgm]amix=inputs=2:duration=first[a_mix]", gain)
	return runCommand(ctx, f.command,
		"-y",
		"-i", videoPath,
		"-stream_loop", "-1", "-i", bgmPath,
		"-filter_complex", filter,
		"-map", "0:v", "-map", "[a_mix]",
		"-c:v", "copy", "-c:a", "aac",
		"-shortest",
		outputPath)
}
