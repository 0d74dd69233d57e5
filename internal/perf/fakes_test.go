package perf

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethpandaops/branchbench/internal/perf/results"
)

// recorder keeps the ordered list of side effects seen by the fakes.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.events...)
}

func (r *recorder) count(event string) int {
	n := 0
	for _, e := range r.list() {
		if e == event {
			n++
		}
	}

	return n
}

func (r *recorder) index(event string) int {
	for i, e := range r.list() {
		if e == event {
			return i
		}
	}

	return -1
}

// role names a checkout by its directory prefix.
func role(path string) string {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "tests-"):
		return "tests"
	case strings.HasPrefix(base, "env-"):
		return "env"
	default:
		return base
	}
}

type fakeGit struct {
	rec           *recorder
	cloneErr      error
	checkoutErrs  map[string]error
	discardErr    error
	clonedURL     string
	clonedDest    string
	checkoutPaths map[string]string
}

func (f *fakeGit) Clone(_ context.Context, url, dest string) error {
	f.rec.add("clone")
	f.clonedURL = url
	f.clonedDest = dest

	return f.cloneErr
}

func (f *fakeGit) CheckoutRemoteBranch(_ context.Context, path, branch string) error {
	f.rec.add("checkout %s %s", role(path), branch)

	if f.checkoutPaths == nil {
		f.checkoutPaths = make(map[string]string)
	}
	f.checkoutPaths[branch] = path

	return f.checkoutErrs[branch]
}

func (f *fakeGit) DiscardLocalChanges(_ context.Context, path string) error {
	f.rec.add("discard %s", role(path))
	return f.discardErr
}

type fakeShell struct {
	rec      *recorder
	commands []string
	// errs fails any command starting with the key.
	errs map[string]error
}

func (f *fakeShell) Run(_ context.Context, command, dir string) error {
	if strings.HasPrefix(command, "cp -R ") {
		f.rec.add("copy")
	} else {
		f.rec.add("shell %s: %s", role(dir), command)
	}
	f.commands = append(f.commands, command)

	for prefix, err := range f.errs {
		if strings.HasPrefix(command, prefix) {
			return err
		}
	}

	return nil
}

// fakeFiles serves raw samples by path. Queued samples are returned in order;
// once a queue is drained the fallback is used.
type fakeFiles struct {
	mu       sync.Mutex
	queued   map[string][]results.RawSample
	fallback results.RawSample
	readErr  error
	reads    []string
}

func (f *fakeFiles) ReadJSON(path string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reads = append(f.reads, path)

	if f.readErr != nil {
		return f.readErr
	}

	sample := f.fallback
	if queue := f.queued[filepath.Base(path)]; len(queue) > 0 {
		sample = queue[0]
		f.queued[filepath.Base(path)] = queue[1:]
	}

	data, err := json.Marshal(sample)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, v)
}

func (f *fakeFiles) WriteJSON(string, any) error {
	return nil
}

type fakeConfirmer struct {
	answer bool
	asked  []string
}

func (f *fakeConfirmer) Confirm(message string) bool {
	f.asked = append(f.asked, message)
	return f.answer
}

type fakeRuntime struct {
	rec      *recorder
	portsErr error
	startErr error
	stopErr  error
}

func (f *fakeRuntime) CheckPorts() error {
	f.rec.add("ports")
	return f.portsErr
}

func (f *fakeRuntime) Start(_ context.Context, dir string) error {
	f.rec.add("runtime start %s", role(dir))
	return f.startErr
}

func (f *fakeRuntime) Stop(_ context.Context, dir string) error {
	f.rec.add("runtime stop %s", role(dir))
	return f.stopErr
}

type fakePatcher struct {
	rec *recorder
	err error
}

func (f *fakePatcher) ConfigPath(envDir string) string {
	return filepath.Join(envDir, ".wp-env.json")
}

func (f *fakePatcher) Patch(envDir, version string) (string, error) {
	f.rec.add("patch %s %s", role(envDir), version)

	if f.err != nil {
		return "", f.err
	}

	return "https://wordpress.org/wordpress-" + version + ".zip", nil
}

type fakeReporter struct {
	rec  *recorder
	err  error
	runs []*results.Run
}

func (f *fakeReporter) Report(_ context.Context, run *results.Run) error {
	f.rec.add("report")
	f.runs = append(f.runs, run)

	return f.err
}

// rawSample builds a complete raw sample whose every series is values.
func rawSample(values ...float64) results.RawSample {
	sample := results.RawSample{}
	for _, metric := range results.TrackedMetrics() {
		sample[metric] = append([]float64(nil), values...)
	}

	return sample
}
