package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kokuren333/BiimSlideMaker/config"
	"github.com/kokuren333/BiimSlideMaker/domain"
)

func rendererConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.SegmentDir = t.TempDir()
	cfg.Synthesis.Workers = 2
	return &cfg
}

func slideImage(t *testing.T, dir string, id int) string {
	t.Helper()
	path := filepath.Join(dir, domain.SlideImageName(id))
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func renderableManifest(t *testing.T) *domain.Manifest {
	imageDir := t.TempDir()
	manifest := &domain.Manifest{
		Entries: []domain.SlideManifestEntry{
			{
				Slide: domain.Slide{ID: 1, ImagePath: slideImage(t, imageDir, 1), ScriptText: "こんにちは。"},
				Units: []domain.AudioUnitRecord{
					{SlideID: 1, SequenceIndex: 0, Text: "こんにちは。", AudioPath: "audio/chunk_001_01.wav", DurationSeconds: 1.0, Status: domain.SynthesisDone},
				},
			},
			{
				Slide: domain.Slide{ID: 2, ImagePath: slideImage(t, imageDir, 2), ScriptText: "一つ目。二つ目。"},
				Units: []domain.AudioUnitRecord{
					{SlideID: 2, SequenceIndex: 0, Text: "一つ目。", AudioPath: "audio/chunk_002_01.wav", DurationSeconds: 0.8, Status: domain.SynthesisDone},
					{SlideID: 2, SequenceIndex: 1, Text: "二つ目。", AudioPath: "audio/chunk_002_02.wav", DurationSeconds: 0.6, Status: domain.SynthesisDone},
				},
			},
			{
				Slide: domain.Slide{ID: 3, ImagePath: slideImage(t, imageDir, 3)},
			},
		},
	}
	manifest.Normalize()
	return manifest
}

func TestRenderAll_HappyPath(t *testing.T) {
	cfg := rendererConfig(t)
	encoder := newFakeEncoder()
	renderer := NewSegmentRenderer(noopLogger{}, encoder, goPool{}, &recordingProgress{}, cfg)

	segments, err := renderer.RenderAll(context.Background(), renderableManifest(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}

	wantDurations := []float64{1.0, 1.4, cfg.Render.MinSegmentSeconds}
	for i, segment := range segments {
		if segment.SlideID != i+1 {
			t.Fatalf("segments out of order: %+v", segments)
		}
		if segment.DurationSeconds != wantDurations[i] {
			t.Fatalf("slide %d duration %v, want %v", segment.SlideID, segment.DurationSeconds, wantDurations[i])
		}
		wantPath := filepath.Join(cfg.Paths.SegmentDir, domain.SegmentName(segment.SlideID))
		if segment.FileName != wantPath {
			t.Fatalf("slide %d at %s, want %s", segment.SlideID, segment.FileName, wantPath)
		}
		if _, err := os.Stat(segment.FileName); err != nil {
			t.Fatalf("segment file missing: %v", err)
		}
	}

	// the narration-less slide renders silent with the floor duration
	for _, params := range encoder.rendered {
		if params.Slide.ID == 3 {
			if !params.Silent || params.DurationSeconds != cfg.Render.MinSegmentSeconds {
				t.Fatalf("unexpected silent render params %+v", params)
			}
		}
		if params.Slide.ID == 2 {
			if params.Silent {
				t.Fatal("slide with narration rendered silent")
			}
			wantAudio := []string{"audio/chunk_002_01.wav", "audio/chunk_002_02.wav"}
			if !reflect.DeepEqual(params.AudioPaths, wantAudio) {
				t.Fatalf("audio order lost: %v", params.AudioPaths)
			}
		}
	}
}

func TestRenderAll_CollectsFailuresAndKeepsGoing(t *testing.T) {
	cfg := rendererConfig(t)
	encoder := newFakeEncoder()
	encoder.failSlides[2] = true
	renderer := NewSegmentRenderer(noopLogger{}, encoder, goPool{}, &recordingProgress{}, cfg)

	segments, err := renderer.RenderAll(context.Background(), renderableManifest(t))
	var report *domain.RenderReport
	if !errors.As(err, &report) {
		t.Fatalf("expected RenderReport, got %v", err)
	}
	if got := report.FailedSlideIDs(); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("unexpected failed ids %v", got)
	}
	if len(segments) != 2 {
		t.Fatalf("expected the other slides' segments, got %v", segments)
	}
	if segments[0].SlideID != 1 || segments[1].SlideID != 3 {
		t.Fatalf("unexpected surviving segments %v", segments)
	}
}

func TestRenderAll_RefusesUnitsNotDone(t *testing.T) {
	cfg := rendererConfig(t)
	manifest := renderableManifest(t)
	manifest.Entries[0].Units[0].Status = domain.SynthesisFailed

	renderer := NewSegmentRenderer(noopLogger{}, newFakeEncoder(), goPool{}, &recordingProgress{}, cfg)
	_, err := renderer.RenderAll(context.Background(), manifest)
	var report *domain.RenderReport
	if !errors.As(err, &report) {
		t.Fatalf("expected RenderReport, got %v", err)
	}
	if got := report.FailedSlideIDs(); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("unexpected failed ids %v", got)
	}
}

func TestRenderAll_MissingSlideImage(t *testing.T) {
	cfg := rendererConfig(t)
	manifest := renderableManifest(t)
	manifest.Entries[1].Slide.ImagePath = filepath.Join(t.TempDir(), "absent.png")

	renderer := NewSegmentRenderer(noopLogger{}, newFakeEncoder(), goPool{}, &recordingProgress{}, cfg)
	_, err := renderer.RenderAll(context.Background(), manifest)
	var report *domain.RenderReport
	if !errors.As(err, &report) {
		t.Fatalf("expected RenderReport, got %v", err)
	}
	if got := report.FailedSlideIDs(); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("unexpected failed ids %v", got)
	}
}

func TestRenderAll_NoTempFilesLeftBehind(t *testing.T) {
	cfg := rendererConfig(t)
	encoder := newFakeEncoder()
	encoder.failSlides[1] = true
	renderer := NewSegmentRenderer(noopLogger{}, encoder, goPool{}, &recordingProgress{}, cfg)

	if _, err := renderer.RenderAll(context.Background(), renderableManifest(t)); err == nil {
		t.Fatal("expected a render failure")
	}
	entries, err := os.ReadDir(cfg.Paths.SegmentDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if name := entry.Name(); len(name) > 0 && name[0] == '.' {
			t.Fatalf("temp file %s left behind", name)
		}
	}
}
