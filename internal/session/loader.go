package session

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the session definition picked up from the working directory
// when no explicit path is given.
const DefaultFile = "branchbench.yaml"

// Loader loads session definition files.
type Loader interface {
	Load(path string) (*Config, error)
}

type loader struct {
	log logrus.FieldLogger
}

// NewLoader creates a new session definition loader.
func NewLoader(log logrus.FieldLogger) Loader {
	return &loader{
		log: log.WithField("component", "session_loader"),
	}
}

// Load reads the session definition at path on top of the defaults. An
// empty path falls back to DefaultFile if present, and to the defaults
// otherwise. An explicit path must exist.
func (l *loader) Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	cfg := Default()

	// #nosec G304 -- path is operator supplied
	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			l.log.Debug("no session file found, using defaults")
			return cfg, nil
		}

		return nil, fmt.Errorf("opening session file %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)

	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing session file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating session file %s: %w", path, err)
	}

	l.log.WithFields(logrus.Fields{
		"path":   path,
		"suites": cfg.Suites,
		"rounds": cfg.Rounds,
	}).Debug("loaded session file")

	return cfg, nil
}

// Compile-time interface compliance check
var _ Loader = (*loader)(nil)
