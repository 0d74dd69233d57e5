package results

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrDuplicateResult is returned when a (suite, branch) pair is inserted twice.
var ErrDuplicateResult = errors.New("result already recorded")

// Table is the comparison table: suite -> branch -> suite result. Suites and
// branches keep the order in which they were first inserted.
type Table struct {
	suites   []string
	branches map[string][]string
	entries  map[string]map[string]Curated
}

// NewTable creates an empty comparison table.
func NewTable() *Table {
	return &Table{
		suites:   make([]string, 0),
		branches: make(map[string][]string),
		entries:  make(map[string]map[string]Curated),
	}
}

// Insert records the result for a (suite, branch) pair. A pair can only be
// recorded once; the stored value is a copy of result.
func (t *Table) Insert(suite, branch string, result Curated) error {
	byBranch, ok := t.entries[suite]
	if !ok {
		byBranch = make(map[string]Curated)
		t.entries[suite] = byBranch
		t.suites = append(t.suites, suite)
	}

	if _, exists := byBranch[branch]; exists {
		return fmt.Errorf("%w: suite %q branch %q", ErrDuplicateResult, suite, branch)
	}

	byBranch[branch] = result.Clone()
	t.branches[suite] = append(t.branches[suite], branch)

	return nil
}

// Get returns a copy of the result recorded for a (suite, branch) pair.
func (t *Table) Get(suite, branch string) (Curated, bool) {
	result, ok := t.entries[suite][branch]
	if !ok {
		return nil, false
	}

	return result.Clone(), true
}

// Suites returns suite names in insertion order.
func (t *Table) Suites() []string {
	out := make([]string, len(t.suites))
	copy(out, t.suites)

	return out
}

// Branches returns the branches recorded for suite in insertion order.
func (t *Table) Branches(suite string) []string {
	out := make([]string, len(t.branches[suite]))
	copy(out, t.branches[suite])

	return out
}

// Len returns the number of recorded (suite, branch) pairs.
func (t *Table) Len() int {
	n := 0
	for _, byBranch := range t.entries {
		n += len(byBranch)
	}

	return n
}

// Suite returns the untransposed branch-keyed results of one suite.
func (t *Table) Suite(suite string) SuiteResults {
	branches := t.Branches(suite)
	out := SuiteResults{
		Branches: branches,
		Results:  make(map[string]Curated, len(branches)),
	}

	for _, branch := range branches {
		out.Results[branch] = t.entries[suite][branch].Clone()
	}

	return out
}

// SuiteResults is the branch-keyed result mapping of a single suite.
type SuiteResults struct {
	Branches []string
	Results  map[string]Curated
}

// MarshalJSON encodes the results as a JSON object keyed by branch, keeping
// branch order and report order of metric keys.
func (s SuiteResults) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, branch := range s.Branches {
		if i > 0 {
			buf.WriteByte(',')
		}

		if err := writeKey(&buf, branch); err != nil {
			return nil, err
		}

		result := s.Results[branch]

		buf.WriteByte('{')

		for j, key := range OrderedKeys(result) {
			if j > 0 {
				buf.WriteByte(',')
			}

			if err := writeKey(&buf, key); err != nil {
				return nil, err
			}

			value, err := json.Marshal(result[key])
			if err != nil {
				return nil, fmt.Errorf("encoding %s/%s: %w", branch, key, err)
			}

			buf.Write(value)
		}

		buf.WriteByte('}')
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	encoded, err := json.Marshal(key)
	if err != nil {
		return err
	}

	buf.Write(encoded)
	buf.WriteByte(':')

	return nil
}
