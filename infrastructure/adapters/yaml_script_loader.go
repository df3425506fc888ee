package adapters

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"github.com/kokuren333/BiimSlideMaker/application/ports/outbound"
	"github.com/kokuren333/BiimSlideMaker/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type scriptSlidePayload struct {
	ID         int    `yaml:"id"`
	Script     string `yaml:"script"`
	NoteTop    string `yaml:"note_top"`
	NoteBottom string `yaml:"note_bottom"`
}

type scriptFilePayload struct {
	Slides []scriptSlidePayload `yaml:"slides"`
}

type yamlScriptLoader struct {
	logger outbound.LoggerPort
}

func NewYamlScriptLoader(logger outbound.LoggerPort) outbound.ScriptLoaderPort {
	return &yamlScriptLoader{logger: logger}
}

// decodeText accepts UTF-8 (with or without BOM) and falls back to
// Shift_JIS/CP932 so script files written by legacy Windows editors load.
func decodeText(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, nil
	}
	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decode legacy encoding: %w", err)
	}
	return decoded, nil
}

func (l *yamlScriptLoader) LoadSlides(path string) ([]domain.Slide, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ConfigError{Field: "paths.script_file", Reason: err.Error()}
	}
	text, err := decodeText(raw)
	if err != nil {
		return nil, &domain.ConfigError{Field: "paths.script_file", Reason: err.Error()}
	}

	var payload scriptFilePayload
	if err := yaml.Unmarshal(text, &payload); err != nil {
		return nil, &domain.ConfigError{Field: "paths.script_file", Reason: "malformed YAML: " + err.Error()}
	}
	if len(payload.Slides) == 0 {
		return nil, &domain.ConfigError{Field: "paths.script_file", Reason: "no slides array found"}
	}

	slides := make([]domain.Slide, 0, len(payload.Slides))
	for i, entry := range payload.Slides {
		id := entry.ID
		if id == 0 {
			id = i + 1
		}
		slides = append(slides, domain.Slide{
			ID:         id,
			ScriptText: entry.Script,
			NoteTop:    entry.NoteTop,
			NoteBottom: entry.NoteBottom,
		})
	}
	return slides, nil
}
