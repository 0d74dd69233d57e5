// Package shell runs shell commands for the benchmark pipeline.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// outputTailLines is how much command output is attached to a failure.
const outputTailLines = 20

// Runner executes commands through sh -c.
type Runner struct {
	shell string
	log   logrus.FieldLogger
}

// NewRunner creates a new shell runner.
func NewRunner(log logrus.FieldLogger) *Runner {
	return &Runner{
		shell: "sh",
		log:   log.WithField("component", "shell_runner"),
	}
}

// Run executes command in dir and waits for it to finish. Output is logged at
// debug level; a non-zero exit returns an error carrying the output tail.
func (r *Runner) Run(ctx context.Context, command, dir string) error {
	//nolint:gosec // G204: commands come from the operator's session definition
	cmd := exec.CommandContext(ctx, r.shell, "-c", command)
	cmd.Dir = dir

	log := r.log.WithFields(logrus.Fields{
		"command": command,
		"dir":     dir,
	})
	log.Debug("executing shell command")

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()

	if output.Len() > 0 {
		log.Debug(strings.TrimRight(output.String(), "\n"))
	}

	if err != nil {
		return fmt.Errorf("command %q failed: %w\nOutput: %s", command, err, tail(output.String(), outputTailLines))
	}

	return nil
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	return strings.Join(lines, "\n")
}
