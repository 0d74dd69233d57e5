package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// JSONStore reads and writes JSON documents on the local filesystem.
type JSONStore struct {
	log logrus.FieldLogger
}

// NewJSONStore creates a new JSON file store.
func NewJSONStore(log logrus.FieldLogger) *JSONStore {
	return &JSONStore{
		log: log.WithField("component", "json_store"),
	}
}

// ReadJSON decodes the JSON document at path into v.
func (s *JSONStore) ReadJSON(path string, v any) error {
	// #nosec G304 -- path is built from the session configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	s.log.WithField("path", path).Debug("read json document")

	return nil
}

// WriteJSON encodes v as indented JSON and writes it to path, creating
// parent directories as needed.
func (s *JSONStore) WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	s.log.WithField("path", path).Debug("wrote json document")

	return nil
}
