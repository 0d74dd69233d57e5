// Package wpenv patches the runtime environment configuration of a checkout
// so that it runs against a pinned platform version.
package wpenv

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/coreos/go-semver/semver"
	"github.com/ethpandaops/branchbench/internal/session"
	"github.com/sirupsen/logrus"
)

// CoreKey is the runtime config entry naming the platform source.
const CoreKey = "core"

var (
	// ErrInvalidVersion is returned for versions that are not major.minor or
	// major.minor.patch.
	ErrInvalidVersion = errors.New("invalid platform version")
	// ErrNotAnObject is returned when the runtime config is not a JSON object.
	ErrNotAnObject = errors.New("runtime config is not a JSON object")
)

// JSONFiles reads and writes JSON documents.
type JSONFiles interface {
	ReadJSON(path string, v any) error
	WriteJSON(path string, v any) error
}

// Patcher rewrites the runtime config of an environment checkout.
type Patcher struct {
	log         logrus.FieldLogger
	files       JSONFiles
	configFile  string
	urlTemplate string
}

// NewPatcher creates a new runtime config patcher. urlTemplate must contain
// session.VersionPlaceholder.
func NewPatcher(log logrus.FieldLogger, files JSONFiles, configFile, urlTemplate string) *Patcher {
	return &Patcher{
		log:         log.WithField("component", "wpenv_patcher"),
		files:       files,
		configFile:  configFile,
		urlTemplate: urlTemplate,
	}
}

// ConfigPath returns the runtime config location inside envDir.
func (p *Patcher) ConfigPath(envDir string) string {
	return filepath.Join(envDir, p.configFile)
}

// Patch points the runtime config in envDir at the download URL of version
// and returns that URL. All other config entries are preserved.
func (p *Patcher) Patch(envDir, version string) (string, error) {
	zipVersion, err := ZipVersion(version)
	if err != nil {
		return "", err
	}

	url := PlatformURL(p.urlTemplate, zipVersion)
	path := p.ConfigPath(envDir)

	var config map[string]any
	if err := p.files.ReadJSON(path, &config); err != nil {
		return "", err
	}

	if config == nil {
		return "", ErrNotAnObject
	}

	config[CoreKey] = url

	if err := p.files.WriteJSON(path, config); err != nil {
		return "", err
	}

	p.log.WithFields(logrus.Fields{
		"version": zipVersion,
		"url":     url,
		"path":    path,
	}).Info("pinned platform version")

	return url, nil
}

// PlatformURL fills the version placeholder of template.
func PlatformURL(template, zipVersion string) string {
	return strings.ReplaceAll(template, session.VersionPlaceholder, zipVersion)
}

// ZipVersion canonicalises a platform version to the naming used by the
// distribution source: a zero patch level is dropped, so 5.7.0 becomes 5.7
// while 5.7.2 and 5.7 are kept as is.
func ZipVersion(version string) (string, error) {
	version = strings.TrimSpace(version)

	switch strings.Count(strings.SplitN(version, "-", 2)[0], ".") {
	case 1:
		// major.minor has no patch level to drop; validate it as x.y.0.
		core, pre, _ := strings.Cut(version, "-")
		candidate := core + ".0"
		if pre != "" {
			candidate += "-" + pre
		}

		if _, err := semver.NewVersion(candidate); err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidVersion, version)
		}

		return version, nil
	case 2:
		v, err := semver.NewVersion(version)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidVersion, version)
		}

		if v.Patch != 0 {
			return version, nil
		}

		canonical := fmt.Sprintf("%d.%d", v.Major, v.Minor)
		if v.PreRelease != "" {
			canonical += "-" + string(v.PreRelease)
		}

		return canonical, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
}
