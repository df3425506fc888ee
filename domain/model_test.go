package domain

import (
	"errors"
	"strings"
	"testing"
)

func entryWithID(id int) SlideManifestEntry {
	return SlideManifestEntry{Slide: Slide{ID: id}}
}

func TestManifestValidate_ContiguousIDs(t *testing.T) {
	manifest := &Manifest{Entries: []SlideManifestEntry{
		entryWithID(2), entryWithID(1), entryWithID(3),
	}}
	if err := manifest.Validate(); err != nil {
		t.Fatal("expected contiguous manifest to validate:", err)
	}
}

func TestManifestValidate_RejectsGap(t *testing.T) {
	manifest := &Manifest{Entries: []SlideManifestEntry{
		entryWithID(1), entryWithID(2), entryWithID(4),
	}}
	err := manifest.Validate()
	if err == nil {
		t.Fatal("expected gap {1,2,4} to be rejected")
	}
	var integrity *ManifestIntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected ManifestIntegrityError, got %T", err)
	}
}

func TestManifestValidate_RejectsDuplicate(t *testing.T) {
	manifest := &Manifest{Entries: []SlideManifestEntry{
		entryWithID(1), entryWithID(1),
	}}
	if manifest.Validate() == nil {
		t.Fatal("expected duplicate slide id to be rejected")
	}
}

func TestManifestValidate_RejectsEmpty(t *testing.T) {
	manifest := &Manifest{}
	if manifest.Validate() == nil {
		t.Fatal("expected empty manifest to be rejected")
	}
}

func TestManifestValidate_RejectsOrphanedUnit(t *testing.T) {
	manifest := &Manifest{Entries: []SlideManifestEntry{
		{
			Slide: Slide{ID: 1},
			Units: []AudioUnitRecord{{SlideID: 2, SequenceIndex: 0}},
		},
	}}
	if manifest.Validate() == nil {
		t.Fatal("expected unit recorded under wrong slide to be rejected")
	}
}

func TestManifestNormalize_RecomputesTotals(t *testing.T) {
	manifest := &Manifest{Entries: []SlideManifestEntry{
		{
			Slide: Slide{ID: 2},
			Units: []AudioUnitRecord{
				{SlideID: 2, SequenceIndex: 1, DurationSeconds: 0.6},
				{SlideID: 2, SequenceIndex: 0, DurationSeconds: 0.8},
			},
			TotalDurationSeconds: 99,
		},
		{
			Slide:                Slide{ID: 1},
			Units:                []AudioUnitRecord{{SlideID: 1, SequenceIndex: 0, DurationSeconds: 1.0}},
			TotalDurationSeconds: 99,
		},
	}}
	manifest.Normalize()

	if manifest.Entries[0].Slide.ID != 1 || manifest.Entries[1].Slide.ID != 2 {
		t.Fatal("expected entries sorted by slide id")
	}
	if got := manifest.Entries[0].TotalDurationSeconds; got != 1.0 {
		t.Fatalf("expected slide 1 total 1.0, got %v", got)
	}
	if got := manifest.Entries[1].TotalDurationSeconds; got != 1.4 {
		t.Fatalf("expected slide 2 total 1.4, got %v", got)
	}
	units := manifest.Entries[1].Units
	if units[0].SequenceIndex != 0 || units[1].SequenceIndex != 1 {
		t.Fatal("expected units sorted by sequence index")
	}
}

func TestManifestFailedUnits(t *testing.T) {
	manifest := &Manifest{Entries: []SlideManifestEntry{
		{
			Slide: Slide{ID: 1},
			Units: []AudioUnitRecord{
				{SlideID: 1, SequenceIndex: 0, Status: SynthesisDone},
				{SlideID: 1, SequenceIndex: 1, Status: SynthesisFailed, LastError: "boom"},
			},
		},
	}}
	failed := manifest.FailedUnits()
	if len(failed) != 1 {
		t.Fatalf("expected 1 failed unit, got %d", len(failed))
	}
	if failed[0].SequenceIndex != 1 {
		t.Fatal("wrong unit reported as failed")
	}
}

func TestSubprocessErrorIncludesStderr(t *testing.T) {
	err := &SubprocessError{Command: "ffmpeg", Stderr: "  no such filter \n", Err: errors.New("exit status 1")}
	msg := err.Error()
	if !strings.Contains(msg, "no such filter") || !strings.Contains(msg, "ffmpeg") {
		t.Fatalf("unexpected message: %q", msg)
	}
}
