// Package config handles configuration loading and management
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig holds the application configuration loaded from environment variables.
type AppConfig struct {
	// RepoURL overrides the session repository when set.
	RepoURL       string
	WorkDir       string
	ArtifactsDir  string
	GitDepth      int
	ClickHouseURL string
	LogLevel      string
}

// Load reads configuration from environment variables and .env file.
func Load() (*AppConfig, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if the file doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &AppConfig{
		RepoURL:       getEnv(EnvRepoURL, ""),
		WorkDir:       getEnv(EnvWorkDir, filepath.Join(os.TempDir(), WorkDirName)),
		ArtifactsDir:  getEnv(EnvArtifactsDir, DefaultArtifactsDir),
		ClickHouseURL: getEnv(EnvClickHouseURL, ""),
		LogLevel:      getEnv(EnvLogLevel, DefaultLogLevel),
	}

	depth, err := strconv.Atoi(getEnv(EnvGitDepth, strconv.Itoa(DefaultGitDepth)))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvGitDepth, err)
	}

	if depth < 0 {
		return nil, fmt.Errorf("invalid %s: must not be negative, got %d", EnvGitDepth, depth)
	}
	cfg.GitDepth = depth

	return cfg, nil
}

func (c *AppConfig) String() string {
	repoDisplay := c.RepoURL
	if repoDisplay == "" {
		repoDisplay = "(from session definition)"
	}

	clickhouseDisplay := "(disabled)"
	if c.ClickHouseURL != "" {
		clickhouseDisplay = redactURL(c.ClickHouseURL)
	}

	depthDisplay := strconv.Itoa(c.GitDepth)
	if c.GitDepth == 0 {
		depthDisplay = "(full history)"
	}

	return fmt.Sprintf(`Current Configuration:
======================
Repository:      %s
Work Directory:  %s
Artifacts:       %s
Git Depth:       %s
ClickHouse:      %s
Log Level:       %s`,
		repoDisplay,
		c.WorkDir,
		c.ArtifactsDir,
		depthDisplay,
		clickhouseDisplay,
		c.LogLevel,
	)
}

// redactURL masks the password of a connection URL.
func redactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "(invalid url)"
	}

	return parsed.Redacted()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
