// Package session provides benchmark session definitions.
// A session definition specifies what a comparison runs (repository, suites,
// commands, result locations) as opposed to which branches it compares.
package session

import (
	"errors"
	"fmt"
	"strings"
)

// SuitePlaceholder is replaced by the suite name in templates.
const SuitePlaceholder = "{suite}"

// VersionPlaceholder is replaced by the canonical platform version in the
// platform URL template.
const VersionPlaceholder = "{version}"

var (
	errRepositoryRequired     = errors.New("repository_url is required")
	errDefaultBranchRequired  = errors.New("default_branch is required")
	errSuitesRequired         = errors.New("at least one suite is required")
	errDuplicateSuite         = errors.New("duplicate suite")
	errEmptySuite             = errors.New("suite name is empty")
	errRoundsInvalid          = errors.New("rounds must be at least 1")
	errCommandRequired        = errors.New("command is required")
	errResultsPathPlaceholder = errors.New("results_path must contain " + SuitePlaceholder)
	errRuntimeConfigRequired  = errors.New("runtime_config_file is required")
	errPlatformURLPlaceholder = errors.New("platform_url_template must contain " + VersionPlaceholder)
	errPortsInvalid           = errors.New("ports must be between 1 and 65535")
	errUnitRequired           = errors.New("unit is required")
)

// Config represents a complete benchmark session definition.
type Config struct {
	RepositoryURL       string   `yaml:"repository_url"`
	DefaultBranch       string   `yaml:"default_branch"`
	Rounds              int      `yaml:"rounds"`
	Suites              []string `yaml:"suites"`
	Commands            Commands `yaml:"commands"`
	ResultsPath         string   `yaml:"results_path"`
	RuntimeConfigFile   string   `yaml:"runtime_config_file"`
	PlatformURLTemplate string   `yaml:"platform_url_template"`
	Ports               []int    `yaml:"ports"`
	Unit                string   `yaml:"unit"`
}

// Commands holds the shell commands a session executes.
type Commands struct {
	// InstallTests prepares the tests checkout.
	InstallTests string `yaml:"install_tests"`
	// Build performs a clean rebuild of the environment tree.
	Build string `yaml:"build"`
	// RuntimeStart and RuntimeStop run in the environment tree.
	RuntimeStart string `yaml:"runtime_start"`
	RuntimeStop  string `yaml:"runtime_stop"`
	// RunSuite runs a single suite in the tests checkout.
	RunSuite string `yaml:"run_suite"`
}

// Default returns the session definition used when no file is given.
func Default() *Config {
	return &Config{
		RepositoryURL: "https://github.com/WordPress/gutenberg.git",
		DefaultBranch: "trunk",
		Rounds:        3,
		Suites:        []string{"post-editor", "site-editor"},
		Commands: Commands{
			InstallTests: "npm install && npm run build:packages",
			Build:        "rm -rf node_modules packages/*/node_modules && npm install && npm run build",
			RuntimeStart: "npm run wp-env start",
			RuntimeStop:  "npm run wp-env stop",
			RunSuite:     "npm run test-performance -- packages/e2e-tests/specs/performance/" + SuitePlaceholder + ".test.js",
		},
		ResultsPath:         "packages/e2e-tests/specs/performance/" + SuitePlaceholder + ".test.results.json",
		RuntimeConfigFile:   ".wp-env.json",
		PlatformURLTemplate: "https://wordpress.org/wordpress-" + VersionPlaceholder + ".zip",
		Ports:               []int{8888, 8889},
		Unit:                "ms",
	}
}

// Validate checks the session definition for missing or inconsistent values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RepositoryURL) == "" {
		return errRepositoryRequired
	}

	if strings.TrimSpace(c.DefaultBranch) == "" {
		return errDefaultBranchRequired
	}

	if c.Rounds < 1 {
		return errRoundsInvalid
	}

	if err := validateSuites(c.Suites); err != nil {
		return err
	}

	commands := map[string]string{
		"install_tests": c.Commands.InstallTests,
		"build":         c.Commands.Build,
		"runtime_start": c.Commands.RuntimeStart,
		"runtime_stop":  c.Commands.RuntimeStop,
		"run_suite":     c.Commands.RunSuite,
	}
	for name, command := range commands {
		if strings.TrimSpace(command) == "" {
			return fmt.Errorf("%s: %w", name, errCommandRequired)
		}
	}

	if !strings.Contains(c.ResultsPath, SuitePlaceholder) {
		return errResultsPathPlaceholder
	}

	if c.RuntimeConfigFile == "" {
		return errRuntimeConfigRequired
	}

	if !strings.Contains(c.PlatformURLTemplate, VersionPlaceholder) {
		return errPlatformURLPlaceholder
	}

	for _, port := range c.Ports {
		if port < 1 || port > 65535 {
			return fmt.Errorf("%d: %w", port, errPortsInvalid)
		}
	}

	if c.Unit == "" {
		return errUnitRequired
	}

	return nil
}

func validateSuites(suites []string) error {
	if len(suites) == 0 {
		return errSuitesRequired
	}

	seen := make(map[string]bool, len(suites))
	for _, suite := range suites {
		if strings.TrimSpace(suite) == "" {
			return errEmptySuite
		}

		if seen[suite] {
			return fmt.Errorf("%s: %w", suite, errDuplicateSuite)
		}
		seen[suite] = true
	}

	return nil
}
