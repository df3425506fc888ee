package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/kokuren333/BiimSlideMaker/application/ports/inbound"
	"github.com/kokuren333/BiimSlideMaker/application/ports/outbound"
	"github.com/kokuren333/BiimSlideMaker/config"
	"github.com/kokuren333/BiimSlideMaker/domain"
)

type timelineAssembler struct {
	logger     outbound.LoggerPort
	encoder    outbound.EncoderPort
	outputPath string
	bgmPath    string
	bgmGain    float64
}

func NewTimelineAssembler(logger outbound.LoggerPort, encoder outbound.EncoderPort, cfg *config.Config) inbound.TimelineAssemblerPort {
	return &timelineAssembler{
		logger:     logger,
		encoder:    encoder,
		outputPath: cfg.Paths.OutputPath,
		bgmPath:    cfg.Paths.BGM,
		bgmGain:    cfg.Assembly.BGMGain,
	}
}

// narrationPath derives the intermediate narration-only video next to the
// final output, e.g. final.mp4 -> final_narration.mp4.
func (t *timelineAssembler) narrationPath() string {
	ext := filepath.Ext(t.outputPath)
	return strings.TrimSuffix(t.outputPath, ext) + "_narration" + ext
}

// Assemble concatenates segments strictly by slide id and mixes the bed
// underneath. The final path only appears after a fully successful mix; both
// encoder outputs land at temp paths first.
func (t *timelineAssembler) Assemble(ctx context.Context, segments []domain.VideoSegment) (string, error) {
	if err := t.checkComplete(segments); err != nil {
		return "", err
	}
	sort.Sort(domain.VideoSegmentsAscBySlideID(segments))

	paths := make([]string, 0, len(segments))
	for _, segment := range segments {
		paths = append(paths, segment.FileName)
	}

	outputDir := filepath.Dir(t.outputPath)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", err
	}

	narrationTmp := filepath.Join(outputDir, ".concat-"+uuid.NewString()+".mp4")
	if err := t.encoder.Concatenate(ctx, paths, narrationTmp); err != nil {
		os.Remove(narrationTmp)
		return "", err
	}
	narration := t.narrationPath()
	if err := os.Rename(narrationTmp, narration); err != nil {
		os.Remove(narrationTmp)
		return "", err
	}
	t.logger.InfoWithFields("narration video assembled", map[string]interface{}{
		"path":     narration,
		"segments": len(segments),
	})

	if _, err := os.Stat(t.bgmPath); err != nil {
		return "", &domain.ConfigError{Field: "paths.bgm", Reason: err.Error()}
	}

	finalTmp := filepath.Join(outputDir, ".mix-"+uuid.NewString()+".mp4")
	if err := t.encoder.MixBackground(ctx, narration, t.bgmPath, t.bgmGain, finalTmp); err != nil {
		os.Remove(finalTmp)
		return "", err
	}
	if err := os.Rename(finalTmp, t.outputPath); err != nil {
		os.Remove(finalTmp)
		return "", err
	}
	return t.outputPath, nil
}

// checkComplete refuses assembly unless segments cover slide ids 1..N with
// every file present on disk, enumerating whatever is missing.
func (t *timelineAssembler) checkComplete(segments []domain.VideoSegment) error {
	if len(segments) == 0 {
		return fmt.Errorf("no segments to assemble")
	}
	present := make(map[int]string, len(segments))
	maxID := 0
	for _, segment := range segments {
		present[segment.SlideID] = segment.FileName
		if segment.SlideID > maxID {
			maxID = segment.SlideID
		}
	}
	missing := make([]int, 0)
	for id := 1; id <= maxID; id++ {
		path, ok := present[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing segments for slide ids %v", missing)
	}
	return nil
}
