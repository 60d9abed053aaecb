package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/arbor/internal/reconcile"
)

// Scenario defines a render scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Session is an optional fixed session token. If empty, defaults to
	// "test-session-default" for deterministic commit IDs.
	Session string `yaml:"session,omitempty"`

	// Mode selects the child reconciliation mode: positional or keyed.
	Mode string `yaml:"mode,omitempty"`

	// Units is the number of units of work per time slice. 0 never yields.
	Units int `yaml:"units,omitempty"`

	// Steps run in order; the engine is flushed after each one.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final host tree, engine and journal.
	Assertions []Assertion `yaml:"assertions"`

	// baseDir resolves relative view paths.
	baseDir string
}

// Step is one driver action. Exactly one of Render, View or Invoke is set.
type Step struct {
	// Render is an inline element in compiler.ElementFromValue form.
	Render any `yaml:"render,omitempty"`

	// View is the path of a CUE view file.
	View string `yaml:"view,omitempty"`

	// Invoke names a component action.
	Invoke string `yaml:"invoke,omitempty"`

	// Times repeats an invoke step, flushing after each call. Defaults to 1.
	Times int `yaml:"times,omitempty"`

	// Batch runs all Times calls in one dispatch, so they commit together.
	Batch bool `yaml:"batch,omitempty"`

	// ExpectError is a substring the step's error must contain. A step
	// with no ExpectError must not fail.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion validates the outcome of a scenario.
type Assertion struct {
	// Type specifies the assertion type:
	// - "html": host serialisation equals Expect
	// - "commit_count": engine commits equal Count
	// - "journal_commits": journal commits for the session equal Count
	// - "trace_contains": a mutation matches the filter
	// - "trace_count": exactly Count mutations match the filter
	Type string `yaml:"type"`

	// Expect is the expected HTML (used by html).
	Expect string `yaml:"expect,omitempty"`

	// Count is the expected number (used by commit_count, journal_commits
	// and trace_count).
	Count int `yaml:"count,omitempty"`

	// Trace filter fields (used by trace_contains and trace_count).
	Op       string `yaml:"op,omitempty"`
	NodeType string `yaml:"node_type,omitempty"`
	Name     string `yaml:"name,omitempty"`
	Value    string `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertHTML           = "html"
	AssertCommitCount    = "commit_count"
	AssertJournalCommits = "journal_commits"
	AssertTraceContains  = "trace_contains"
	AssertTraceCount     = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	scenario.baseDir = filepath.Dir(path)
	return scenario, nil
}

// ParseScenario parses scenario YAML. Relative view paths resolve against
// the working directory.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// viewPath resolves a view step's path.
func (s *Scenario) viewPath(p string) string {
	if filepath.IsAbs(p) || s.baseDir == "" {
		return p
	}
	return filepath.Join(s.baseDir, p)
}

// validateScenario checks required fields and structural validity.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if _, err := reconcile.ParseMode(s.Mode); err != nil {
		return err
	}

	if s.Units < 0 {
		return fmt.Errorf("units must be non-negative")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, step Step) error {
	set := 0
	if step.Render != nil {
		set++
	}
	if step.View != "" {
		set++
	}
	if step.Invoke != "" {
		set++
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one of render, view or invoke is required", index)
	}
	if step.Times < 0 {
		return fmt.Errorf("steps[%d]: times must be non-negative", index)
	}
	if (step.Times != 0 || step.Batch) && step.Invoke == "" {
		return fmt.Errorf("steps[%d]: times and batch apply to invoke steps only", index)
	}
	return nil
}

// validateAssertion validates a single assertion.
func validateAssertion(index int, a Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertHTML:
	case AssertCommitCount, AssertJournalCommits, AssertTraceCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertTraceContains:
		if a.Op == "" && a.NodeType == "" && a.Name == "" && a.Value == "" {
			return fmt.Errorf("assertions[%d]: trace_contains needs at least one filter field", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
