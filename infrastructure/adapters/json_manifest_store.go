package adapters

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kokuren333/BiimSlideMaker/application/ports/outbound"
	"github.com/kokuren333/BiimSlideMaker/domain"
)

type jsonManifestStore struct {
	logger outbound.LoggerPort
	path   string
}

// NewJSONManifestStore persists the manifest as a single JSON document.
// Writes go to a temp file in the same directory and are renamed into place,
// so a crash mid-save never leaves a truncated manifest that still parses.
func NewJSONManifestStore(logger outbound.LoggerPort, path string) outbound.ManifestStorePort {
	return &jsonManifestStore{
		logger: logger,
		path:   path,
	}
}

func (s *jsonManifestStore) Load() (*domain.Manifest, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var manifest domain.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, &domain.ManifestIntegrityError{Reason: "unparsable manifest: " + err.Error()}
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return &manifest, nil
}

func (s *jsonManifestStore) Save(manifest *domain.Manifest) error {
	manifest.Normalize()
	if err := manifest.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "manifest-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp manifest: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp manifest: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace manifest: %w", err)
	}
	s.logger.DebugWithFields("manifest saved", map[string]interface{}{
		"path":   s.path,
		"slides": len(manifest.Entries),
	})
	return nil
}
