package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

func writeScript(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleScript = `slides:
  - id: 1
    script: "こんにちは。"
    note_top: "資料p.3"
  - id: 2
    script: "次のスライドです。"
    note_bottom: "補足あり"
`

func TestLoadSlides_UTF8(t *testing.T) {
	loader := NewYamlScriptLoader(noopLogger{})
	slides, err := loader.LoadSlides(writeScript(t, []byte(sampleScript)))
	if err != nil {
		t.Fatal(err)
	}
	if len(slides) != 2 {
		t.Fatalf("expected 2 slides, got %d", len(slides))
	}
	if slides[0].ID != 1 || slides[0].ScriptText != "こんにちは。" || slides[0].NoteTop != "資料p.3" {
		t.Fatalf("unexpected slide 1: %+v", slides[0])
	}
	if slides[1].NoteBottom != "補足あり" {
		t.Fatalf("unexpected slide 2: %+v", slides[1])
	}
}

func TestLoadSlides_UTF8WithBOM(t *testing.T) {
	loader := NewYamlScriptLoader(noopLogger{})
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte(sampleScript)...)
	slides, err := loader.LoadSlides(writeScript(t, content))
	if err != nil {
		t.Fatal(err)
	}
	if len(slides) != 2 {
		t.Fatalf("expected 2 slides, got %d", len(slides))
	}
}

func TestLoadSlides_ShiftJISFallback(t *testing.T) {
	encoded, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(sampleScript))
	if err != nil {
		t.Fatal(err)
	}
	loader := NewYamlScriptLoader(noopLogger{})
	slides, err := loader.LoadSlides(writeScript(t, encoded))
	if err != nil {
		t.Fatal(err)
	}
	if slides[0].ScriptText != "こんにちは。" {
		t.Fatalf("legacy encoding not decoded: %q", slides[0].ScriptText)
	}
}

func TestLoadSlides_MissingIDsDefaultToOrdinal(t *testing.T) {
	content := `slides:
  - script: "first"
  - script: "second"
`
	loader := NewYamlScriptLoader(noopLogger{})
	slides, err := loader.LoadSlides(writeScript(t, []byte(content)))
	if err != nil {
		t.Fatal(err)
	}
	if slides[0].ID != 1 || slides[1].ID != 2 {
		t.Fatalf("expected ordinal ids, got %d and %d", slides[0].ID, slides[1].ID)
	}
}

func TestLoadSlides_MalformedYAML(t *testing.T) {
	loader := NewYamlScriptLoader(noopLogger{})
	if _, err := loader.LoadSlides(writeScript(t, []byte("slides: [\n"))); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoadSlides_EmptyDocument(t *testing.T) {
	loader := NewYamlScriptLoader(noopLogger{})
	if _, err := loader.LoadSlides(writeScript(t, []byte("other: value\n"))); err == nil {
		t.Fatal("expected error when no slides array is present")
	}
}

func TestLoadSlides_MissingFile(t *testing.T) {
	loader := NewYamlScriptLoader(noopLogger{})
	if _, err := loader.LoadSlides(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing script file")
	}
}
