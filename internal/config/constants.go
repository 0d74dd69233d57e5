package config

const (
	// EnvRepoURL overrides the benchmark repository of the session definition.
	EnvRepoURL = "BRANCHBENCH_REPO_URL"
	// EnvWorkDir is where the tests and environment checkouts are created.
	EnvWorkDir = "BRANCHBENCH_WORK_DIR"
	// EnvArtifactsDir is where result artifacts are written.
	EnvArtifactsDir = "BRANCHBENCH_ARTIFACTS_DIR"
	// EnvGitDepth limits clone and fetch history; 0 fetches everything.
	EnvGitDepth = "BRANCHBENCH_GIT_DEPTH"
	// EnvClickHouseURL enables publishing results to ClickHouse.
	EnvClickHouseURL = "CLICKHOUSE_URL"
	// EnvLogLevel sets the logrus level.
	EnvLogLevel = "LOG_LEVEL"

	// WorkDirName is the directory created under the system temp dir when no
	// work directory is configured.
	WorkDirName = "branchbench"
	// DefaultArtifactsDir is the current directory.
	DefaultArtifactsDir = "."
	// DefaultGitDepth is a shallow clone.
	DefaultGitDepth = 1
	// DefaultLogLevel is used when LOG_LEVEL is unset.
	DefaultLogLevel = "info"
)
