package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/kokuren333/BiimSlideMaker/application/ports/inbound"
	"github.com/kokuren333/BiimSlideMaker/application/ports/outbound"
	"github.com/kokuren333/BiimSlideMaker/channel_utils"
	"github.com/kokuren333/BiimSlideMaker/config"
	"github.com/kokuren333/BiimSlideMaker/domain"
	"github.com/kokuren333/BiimSlideMaker/retry_utils"
)

type synthesisDispatcher struct {
	logger      outbound.LoggerPort
	splitter    inbound.ScriptSplitterPort
	synthesizer outbound.SynthesizerPort
	prober      outbound.AudioProberPort
	workerPool  outbound.TaskDispatcher
	progress    outbound.ProgressSinkPort
	retry       retry_utils.Policy
	audioDir    string
	voiceID     string
	workers     int
	skipExist   bool
}

func NewSynthesisDispatcher(
	logger outbound.LoggerPort,
	splitter inbound.ScriptSplitterPort,
	synthesizer outbound.SynthesizerPort,
	prober outbound.AudioProberPort,
	workerPool outbound.TaskDispatcher,
	progress outbound.ProgressSinkPort,
	cfg *config.Config) inbound.SynthesisDispatcherPort {
	return &synthesisDispatcher{
		logger:      logger,
		splitter:    splitter,
		synthesizer: synthesizer,
		prober:      prober,
		workerPool:  workerPool,
		progress:    progress,
		retry: retry_utils.NewPolicy(cfg.Synthesis.MaxAttempts,
			time.Duration(cfg.Synthesis.BackoffMillis)*time.Millisecond),
		audioDir:  cfg.Paths.AudioDir,
		voiceID:   cfg.Engine.VoiceID,
		workers:   cfg.Synthesis.Workers,
		skipExist: cfg.Synthesis.SkipExisting,
	}
}

// SynthesizeAll derives speakable units from every slide, fans them out to
// exactly `workers` executors and re-joins results into the manifest by
// (slide_id, sequence_index) slots, so completion order never matters. The
// manifest itself is only touched by this goroutine; workers communicate
// finished records over channels.
func (s *synthesisDispatcher) SynthesizeAll(ctx context.Context, slides []domain.Slide) (*domain.Manifest, error) {
	manifest := s.buildManifest(slides)
	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	units := make([]domain.SpeakableUnit, 0)
	for _, entry := range manifest.Entries {
		for _, record := range entry.Units {
			units = append(units, domain.NewSpeakableUnit(record.SlideID, record.SequenceIndex, record.Text))
		}
	}
	if len(units) == 0 {
		manifest.Normalize()
		return manifest, nil
	}
	if err := os.MkdirAll(s.audioDir, 0o755); err != nil {
		return nil, err
	}

	unitCh := make(chan domain.SpeakableUnit)
	workerOuts := make([]<-chan domain.AudioUnitRecord, 0, s.workers)
	for i := 0; i < s.workers; i++ {
		out := make(chan domain.AudioUnitRecord)
		workerOuts = append(workerOuts, out)
		workerOut := out
		if err := s.workerPool.Submit(func() {
			defer close(workerOut)
			for unit := range unitCh {
				workerOut <- s.synthesizeUnit(ctx, unit)
			}
		}); err != nil {
			close(out)
			s.logger.Error(err, "error submitting synthesis worker")
		}
	}

	feedErr := s.workerPool.Submit(func() {
		defer close(unitCh)
		for _, unit := range units {
			select {
			case unitCh <- unit:
			case <-ctx.Done():
				return
			}
		}
	})

	merged, err := channel_utils.MergeChannels(s.workerPool, workerOuts...)
	if err != nil {
		s.logger.Error(err, "error merging synthesis worker channels")
		return nil, err
	}
	if feedErr != nil {
		s.logger.Error(feedErr, "error submitting synthesis feeder")
		return nil, feedErr
	}

	completed := 0
	for record := range merged {
		entry := manifest.Entry(record.SlideID)
		entry.Units[record.SequenceIndex] = record
		completed++
		s.progress.Publish(outbound.ProgressEvent{
			Stage:     outbound.StageAudio,
			Completed: completed,
			Total:     len(units),
			Message:   fmt.Sprintf("slide %d unit %d", record.SlideID, record.SequenceIndex),
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manifest.Normalize()
	failures := manifest.FailedUnits()
	if len(failures) > 0 {
		report := &domain.SynthesisReport{}
		for _, unit := range failures {
			report.Failures = append(report.Failures, domain.UnitFailure{
				SlideID:       unit.SlideID,
				SequenceIndex: unit.SequenceIndex,
				Text:          unit.Text,
				LastError:     unit.LastError,
			})
		}
		return manifest, report
	}
	return manifest, nil
}

func (s *synthesisDispatcher) buildManifest(slides []domain.Slide) *domain.Manifest {
	manifest := &domain.Manifest{
		GeneratedAt: time.Now().Format(time.RFC3339),
	}
	for _, slide := range slides {
		entry := domain.SlideManifestEntry{Slide: slide}
		for i, text := range s.splitter.Split(slide.ScriptText) {
			entry.Units = append(entry.Units, domain.AudioUnitRecord{
				SlideID:       slide.ID,
				SequenceIndex: i,
				Text:          text,
				AudioPath:     filepath.Join(s.audioDir, domain.UnitAudioName(slide.ID, i)),
				Status:        domain.SynthesisPending,
			})
		}
		manifest.Entries = append(manifest.Entries, entry)
	}
	return manifest
}

// synthesizeUnit performs the two-phase engine call under the retry policy
// and writes the audio to its slot path via a temp file, so a cancelled or
// failed attempt never leaves a partial file at a valid location.
func (s *synthesisDispatcher) synthesizeUnit(ctx context.Context, unit domain.SpeakableUnit) domain.AudioUnitRecord {
	record := domain.AudioUnitRecord{
		SlideID:       unit.SlideID,
		SequenceIndex: unit.SequenceIndex,
		Text:          unit.Text,
		AudioPath:     filepath.Join(s.audioDir, domain.UnitAudioName(unit.SlideID, unit.SequenceIndex)),
		Status:        domain.SynthesisPending,
	}

	if s.skipExist {
		if info, err := os.Stat(record.AudioPath); err == nil && info.Size() > 0 {
			duration, err := s.prober.Duration(record.AudioPath)
			if err == nil {
				record.DurationSeconds = duration
				record.Status = domain.SynthesisDone
				return record
			}
			s.logger.WarnWithFields("existing audio unreadable, re-synthesizing", map[string]interface{}{
				"path": record.AudioPath,
			})
		}
	}

	if err := ctx.Err(); err != nil {
		record.Status = domain.SynthesisFailed
		record.LastError = err.Error()
		return record
	}

	err := s.retry.Do(ctx, func() error {
		query, err := s.synthesizer.AudioQuery(ctx, s.voiceID, unit.Text)
		if err != nil {
			return fmt.Errorf("audio query: %w", err)
		}
		audio, err := s.synthesizer.Synthesize(ctx, s.voiceID, query)
		if err != nil {
			return fmt.Errorf("synthesis: %w", err)
		}
		return s.writeAudio(record.AudioPath, audio)
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "synthesis failed", map[string]interface{}{
			"slide_id":       unit.SlideID,
			"sequence_index": unit.SequenceIndex,
			"text":           unit.Text,
		})
		record.Status = domain.SynthesisFailed
		record.LastError = err.Error()
		return record
	}

	duration, err := s.prober.Duration(record.AudioPath)
	if err != nil {
		record.Status = domain.SynthesisFailed
		record.LastError = err.Error()
		return record
	}
	record.DurationSeconds = duration
	record.Status = domain.SynthesisDone
	return record
}

func (s *synthesisDispatcher) writeAudio(path string, audio []byte) error {
	tmp := filepath.Join(filepath.Dir(path), ".part-"+uuid.NewString())
	if err := os.WriteFile(tmp, audio, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
