package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kokuren333/BiimSlideMaker/application/ports/outbound"
	"github.com/kokuren333/BiimSlideMaker/domain"
)

type noopLogger struct{}

func (noopLogger) Info(msg string)                                          {}
func (noopLogger) InfoWithFields(msg string, fields map[string]interface{}) {}
func (noopLogger) Error(err error, msg string)                              {}
func (noopLogger) ErrorWithFields(err error, msg string, fields map[string]interface{}) {
}
func (noopLogger) Debug(msg string)                                          {}
func (noopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (noopLogger) Warn(msg string)                                           {}
func (noopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}

// goPool runs every task on its own goroutine, standing in for the bounded
// pool in tests.
type goPool struct{}

func (goPool) Submit(task func()) error {
	go task()
	return nil
}

type recordingProgress struct {
	mu     sync.Mutex
	events []outbound.ProgressEvent
}

func (r *recordingProgress) Publish(event outbound.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingProgress) byStage(stage outbound.ProgressStage) []outbound.ProgressEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]outbound.ProgressEvent, 0)
	for _, event := range r.events {
		if event.Stage == stage {
			events = append(events, event)
		}
	}
	return events
}

// fakeSynthesizer scripts per-text behavior: failures sets how many transient
// failures precede success, permanent texts always fail hard.
type fakeSynthesizer struct {
	mu        sync.Mutex
	attempts  map[string]int
	failures  map[string]int
	permanent map[string]bool
	delays    map[string]func()
}

func newFakeSynthesizer() *fakeSynthesizer {
	return &fakeSynthesizer{
		attempts:  make(map[string]int),
		failures:  make(map[string]int),
		permanent: make(map[string]bool),
		delays:    make(map[string]func()),
	}
}

func (f *fakeSynthesizer) ListSpeakers(ctx context.Context) ([]outbound.SpeakerStyle, error) {
	return []outbound.SpeakerStyle{{SpeakerName: "Anneli", StyleName: "ノーマル", StyleID: "888753760"}}, nil
}

func (f *fakeSynthesizer) InitializeSpeaker(ctx context.Context, voiceID string) error {
	return nil
}

func (f *fakeSynthesizer) AudioQuery(ctx context.Context, voiceID string, text string) ([]byte, error) {
	f.mu.Lock()
	f.attempts[text]++
	attempt := f.attempts[text]
	permanent := f.permanent[text]
	remaining := f.failures[text]
	delay := f.delays[text]
	f.mu.Unlock()

	if delay != nil {
		delay()
	}
	if permanent {
		return nil, errors.New("speaker id unknown")
	}
	if attempt <= remaining {
		return nil, fmt.Errorf("engine busy: %w", domain.ErrTransientBackend)
	}
	return []byte(`{"query":"` + text + `"}`), nil
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, voiceID string, query []byte) ([]byte, error) {
	return append([]byte("RIFF"), query...), nil
}

func (f *fakeSynthesizer) attemptsFor(text string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[text]
}

// fakeProber maps audio file base names to durations.
type fakeProber struct {
	durations map[string]float64
}

func (f *fakeProber) Duration(path string) (float64, error) {
	if seconds, ok := f.durations[filepath.Base(path)]; ok {
		return seconds, nil
	}
	return 0.5, nil
}

// fakeEncoder records every call and materializes each requested output file.
type fakeEncoder struct {
	mu          sync.Mutex
	rendered    []outbound.RenderSegmentParams
	concatPaths []string
	mixedGain   float64
	failSlides  map[int]bool
	failMix     bool
}

func newFakeEncoder() *fakeEncoder {
	return &fakeEncoder{failSlides: make(map[int]bool)}
}

func (f *fakeEncoder) RenderSegment(ctx context.Context, params outbound.RenderSegmentParams) error {
	f.mu.Lock()
	fail := f.failSlides[params.Slide.ID]
	if !fail {
		f.rendered = append(f.rendered, params)
	}
	f.mu.Unlock()
	if fail {
		return &domain.SubprocessError{Command: "ffmpeg", Stderr: "boom", Err: errors.New("exit status 1")}
	}
	return os.WriteFile(params.OutputPath, []byte("mp4"), 0o644)
}

func (f *fakeEncoder) Concatenate(ctx context.Context, segmentPaths []string, outputPath string) error {
	f.mu.Lock()
	f.concatPaths = append([]string{}, segmentPaths...)
	f.mu.Unlock()
	return os.WriteFile(outputPath, []byte("mp4"), 0o644)
}

func (f *fakeEncoder) MixBackground(ctx context.Context, videoPath string, bgmPath string, gain float64, outputPath string) error {
	if f.failMix {
		return &domain.SubprocessError{Command: "ffmpeg", Stderr: "bad bgm", Err: errors.New("exit status 1")}
	}
	f.mu.Lock()
	f.mixedGain = gain
	f.mu.Unlock()
	return os.WriteFile(outputPath, []byte("mp4"), 0o644)
}

func (f *fakeEncoder) renderedSlideIDs() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int, 0, len(f.rendered))
	for _, params := range f.rendered {
		ids = append(ids, params.Slide.ID)
	}
	return ids
}
