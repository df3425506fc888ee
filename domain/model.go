package domain

import "sort"

type SynthesisStatus string

const (
	SynthesisPending SynthesisStatus = "pending"
	SynthesisDone    SynthesisStatus = "done"
	SynthesisFailed  SynthesisStatus = "failed"
)

// Slide is one page of the deck as loaded from the script file. Immutable
// after load; ID must match the rasterized image ordinal.
type Slide struct {
	ID         int    `json:"id"`
	ImagePath  string `json:"image_path"`
	ScriptText string `json:"script"`
	NoteTop    string `json:"note_top"`
	NoteBottom string `json:"note_bottom"`
}

// SpeakableUnit is one punctuation-delimited fragment of a slide's narration.
// SequenceIndex is 0-based and fixes the re-join order of synthesized audio.
type SpeakableUnit struct {
	SlideID       int
	SequenceIndex int
	Text          string
}

func NewSpeakableUnit(slideID int, sequenceIndex int, text string) SpeakableUnit {
	return SpeakableUnit{
		SlideID:       slideID,
		SequenceIndex: sequenceIndex,
		Text:          text,
	}
}

type AudioUnitRecord struct {
	SlideID         int             `json:"slide_id"`
	SequenceIndex   int             `json:"sequence_index"`
	Text            string          `json:"text"`
	AudioPath       string          `json:"audio_path"`
	DurationSeconds float64         `json:"duration_seconds"`
	Status          SynthesisStatus `json:"status"`
	LastError       string          `json:"last_error,omitempty"`
}

// SlideManifestEntry couples a slide with its ordered audio units. The
// persisted total is the contract downstream stages read; the renderer never
// re-probes audio files.
type SlideManifestEntry struct {
	Slide                Slide             `json:"slide"`
	Units                []AudioUnitRecord `json:"units"`
	TotalDurationSeconds float64           `json:"total_duration_seconds"`
}

func (e *SlideManifestEntry) RecomputeTotal() {
	total := 0.0
	for _, unit := range e.Units {
		total += unit.DurationSeconds
	}
	e.TotalDurationSeconds = total
}

type Manifest struct {
	GeneratedAt string               `json:"generated_at"`
	Entries     []SlideManifestEntry `json:"slides"`
}

type ManifestEntriesAscBySlideID []SlideManifestEntry

func (m ManifestEntriesAscBySlideID) Len() int           { return len(m) }
func (m ManifestEntriesAscBySlideID) Swap(i, j int)      { m[i], m[j] = m[j], m[i] }
func (m ManifestEntriesAscBySlideID) Less(i, j int) bool { return m[i].Slide.ID < m[j].Slide.ID }

// Normalize orders entries by slide id, orders units by sequence index and
// recomputes every total. Called before each save so persisted totals are
// never stale.
func (m *Manifest) Normalize() {
	sort.Sort(ManifestEntriesAscBySlideID(m.Entries))
	for i := range m.Entries {
		entry := &m.Entries[i]
		sort.Slice(entry.Units, func(a, b int) bool {
			return entry.Units[a].SequenceIndex < entry.Units[b].SequenceIndex
		})
		entry.RecomputeTotal()
	}
}

// FailedUnits returns every record that exhausted its retries, across all slides.
func (m *Manifest) FailedUnits() []AudioUnitRecord {
	failed := make([]AudioUnitRecord, 0)
	for _, entry := range m.Entries {
		for _, unit := range entry.Units {
			if unit.Status == SynthesisFailed {
				failed = append(failed, unit)
			}
		}
	}
	return failed
}

// VideoSegment is one slide's finished clip, ready for concatenation.
type VideoSegment struct {
	SlideID         int
	FileName        string
	DurationSeconds float64
}

type VideoSegmentsAscBySlideID []VideoSegment

func (v VideoSegmentsAscBySlideID) Len() int           { return len(v) }
func (v VideoSegmentsAscBySlideID) Swap(i, j int)      { v[i], v[j] = v[j], v[i] }
func (v VideoSegmentsAscBySlideID) Less(i, j int) bool { return v[i].SlideID < v[j].SlideID }

func (m *Manifest) Entry(slideID int) *SlideManifestEntry {
	for i := range m.Entries {
		if m.Entries[i].Slide.ID == slideID {
			return &m.Entries[i]
		}
	}
	return nil
}
