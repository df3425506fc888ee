package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/kokuren333/BiimSlideMaker/application/ports/inbound"
	"github.com/kokuren333/BiimSlideMaker/application/ports/outbound"
	"github.com/kokuren333/BiimSlideMaker/config"
	"github.com/kokuren333/BiimSlideMaker/domain"
)

type segmentRenderer struct {
	logger     outbound.LoggerPort
	encoder    outbound.EncoderPort
	workerPool outbound.TaskDispatcher
	progress   outbound.ProgressSinkPort
	segmentDir string
	minSeconds float64
	workers    int
	parallel   bool
}

func NewSegmentRenderer(
	logger outbound.LoggerPort,
	encoder outbound.EncoderPort,
	workerPool outbound.TaskDispatcher,
	progress outbound.ProgressSinkPort,
	cfg *config.Config) inbound.SegmentRendererPort {
	return &segmentRenderer{
		logger:     logger,
		encoder:    encoder,
		workerPool: workerPool,
		progress:   progress,
		segmentDir: cfg.Paths.SegmentDir,
		minSeconds: cfg.Render.MinSegmentSeconds,
		workers:    cfg.Synthesis.Workers,
		parallel:   cfg.Synthesis.ParallelRender,
	}
}

// RenderAll renders every manifest slide into its own segment. Slides are
// independent, so renders run under the same bounded-pool discipline as
// synthesis when parallel rendering is on. Durations come from the manifest,
// never from re-probing audio.
func (r *segmentRenderer) RenderAll(ctx context.Context, manifest *domain.Manifest) ([]domain.VideoSegment, error) {
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(r.segmentDir, 0o755); err != nil {
		return nil, err
	}

	limit := 1
	if r.parallel {
		limit = r.workers
	}
	sem := make(chan struct{}, limit)

	var mu sync.Mutex
	var wg sync.WaitGroup
	segments := make([]domain.VideoSegment, 0, len(manifest.Entries))
	report := &domain.RenderReport{}
	completed := 0

	for _, entry := range manifest.Entries {
		if err := ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		slideEntry := entry
		task := func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			segment, err := r.renderEntry(ctx, slideEntry)
			mu.Lock()
			defer mu.Unlock()
			completed++
			if err != nil {
				report.Failures = append(report.Failures, domain.SlideFailure{
					SlideID: slideEntry.Slide.ID,
					Err:     err,
				})
			} else {
				segments = append(segments, segment)
			}
			r.progress.Publish(outbound.ProgressEvent{
				Stage:     outbound.StageVideo,
				Completed: completed,
				Total:     len(manifest.Entries),
				Message:   fmt.Sprintf("slide %d", slideEntry.Slide.ID),
			})
		}
		if err := r.workerPool.Submit(task); err != nil {
			wg.Done()
			mu.Lock()
			report.Failures = append(report.Failures, domain.SlideFailure{
				SlideID: slideEntry.Slide.ID,
				Err:     err,
			})
			mu.Unlock()
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Sort(domain.VideoSegmentsAscBySlideID(segments))
	if len(report.Failures) > 0 {
		sort.Slice(report.Failures, func(i, j int) bool {
			return report.Failures[i].SlideID < report.Failures[j].SlideID
		})
		return segments, report
	}
	return segments, nil
}

// renderEntry writes the segment to a temp path first; the canonical segment
// path only ever holds a fully rendered file.
func (r *segmentRenderer) renderEntry(ctx context.Context, entry domain.SlideManifestEntry) (domain.VideoSegment, error) {
	if _, err := os.Stat(entry.Slide.ImagePath); err != nil {
		return domain.VideoSegment{}, fmt.Errorf("slide image: %w", err)
	}

	audioPaths := make([]string, 0, len(entry.Units))
	for _, unit := range entry.Units {
		if unit.Status != domain.SynthesisDone {
			return domain.VideoSegment{}, fmt.Errorf("unit %d is %s", unit.SequenceIndex, unit.Status)
		}
		audioPaths = append(audioPaths, unit.AudioPath)
	}

	duration := entry.TotalDurationSeconds
	silent := len(audioPaths) == 0
	if silent {
		duration = r.minSeconds
	}

	tmpPath := filepath.Join(r.segmentDir, ".render-"+uuid.NewString()+".mp4")
	err := r.encoder.RenderSegment(ctx, outbound.RenderSegmentParams{
		Slide:           entry.Slide,
		AudioPaths:      audioPaths,
		CaptionText:     entry.Slide.ScriptText,
		OutputPath:      tmpPath,
		DurationSeconds: duration,
		Silent:          silent,
	})
	if err != nil {
		os.Remove(tmpPath)
		return domain.VideoSegment{}, err
	}

	finalPath := filepath.Join(r.segmentDir, domain.SegmentName(entry.Slide.ID))
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return domain.VideoSegment{}, err
	}
	return domain.VideoSegment{
		SlideID:         entry.Slide.ID,
		FileName:        finalPath,
		DurationSeconds: duration,
	}, nil
}
