package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrTransientBackend classifies speech engine failures that are worth
// retrying: connection refused, timeouts, 5xx responses.
var ErrTransientBackend = errors.New("transient backend error")

type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// SubprocessError carries the exit status and captured stderr of a failed
// collaborator invocation (rasterizer or encoder).
type SubprocessError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *SubprocessError) Error() string {
	msg := fmt.Sprintf("subprocess %s failed: %v", e.Command, e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n" + stderr
	}
	return msg
}

func (e *SubprocessError) Unwrap() error { return e.Err }

type ManifestIntegrityError struct {
	Reason string
}

func (e *ManifestIntegrityError) Error() string {
	return "manifest integrity: " + e.Reason
}

// Validate enforces the pre-flight invariant: slide ids form exactly 1..N
// with no gaps or duplicates, and every unit belongs to its enclosing slide.
func (m *Manifest) Validate() error {
	if len(m.Entries) == 0 {
		return &ManifestIntegrityError{Reason: "no slides"}
	}
	seen := make(map[int]bool, len(m.Entries))
	ids := make([]int, 0, len(m.Entries))
	for _, entry := range m.Entries {
		id := entry.Slide.ID
		if id < 1 {
			return &ManifestIntegrityError{Reason: fmt.Sprintf("slide id %d is not positive", id)}
		}
		if seen[id] {
			return &ManifestIntegrityError{Reason: fmt.Sprintf("duplicate slide id %d", id)}
		}
		seen[id] = true
		ids = append(ids, id)
		for _, unit := range entry.Units {
			if unit.SlideID != id {
				return &ManifestIntegrityError{
					Reason: fmt.Sprintf("unit (%d,%d) recorded under slide %d", unit.SlideID, unit.SequenceIndex, id),
				}
			}
		}
	}
	sort.Ints(ids)
	for i, id := range ids {
		if id != i+1 {
			return &ManifestIntegrityError{
				Reason: fmt.Sprintf("slide ids are not contiguous 1..%d, missing id %d", len(ids), i+1),
			}
		}
	}
	return nil
}

// UnitFailure is one entry of a synthesis partial-failure report.
type UnitFailure struct {
	SlideID       int
	SequenceIndex int
	Text          string
	LastError     string
}

type SynthesisReport struct {
	Failures []UnitFailure
}

func (r *SynthesisReport) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "synthesis failed for %d unit(s):", len(r.Failures))
	for _, f := range r.Failures {
		fmt.Fprintf(&sb, "\n  slide %d unit %d %q: %s", f.SlideID, f.SequenceIndex, f.Text, f.LastError)
	}
	return sb.String()
}

// SlideFailure is one entry of a render partial-failure report.
type SlideFailure struct {
	SlideID int
	Err     error
}

type RenderReport struct {
	Failures []SlideFailure
}

func (r *RenderReport) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "render failed for %d slide(s):", len(r.Failures))
	for _, f := range r.Failures {
		fmt.Fprintf(&sb, "\n  slide %d: %v", f.SlideID, f.Err)
	}
	return sb.String()
}

func (r *RenderReport) FailedSlideIDs() []int {
	ids := make([]int, 0, len(r.Failures))
	for _, f := range r.Failures {
		ids = append(ids, f.SlideID)
	}
	sort.Ints(ids)
	return ids
}
