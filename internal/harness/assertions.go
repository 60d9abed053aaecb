package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/arbor/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string        // Assertion type for categorization
	Expected string        // Human-readable expected outcome
	Actual   string        // Human-readable actual outcome
	Trace    []ir.Mutation // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for i, m := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, describe(m))
		}
	}

	return buf.String()
}

// describe formats a mutation for failure output.
func describe(m ir.Mutation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "seq=%d %s node=%d", m.Seq, m.Op, m.Node)
	if m.Type != "" {
		fmt.Fprintf(&sb, " type=%s", m.Type)
	}
	if m.Parent != 0 {
		fmt.Fprintf(&sb, " parent=%d", m.Parent)
	}
	if m.Before != 0 {
		fmt.Fprintf(&sb, " before=%d", m.Before)
	}
	if m.Name != "" {
		fmt.Fprintf(&sb, " %s=%q", m.Name, m.Value)
	}
	return sb.String()
}

// EvaluateAssertions evaluates all assertions against the result and
// returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertHTML:
		return assertHTML(result, a)
	case AssertCommitCount:
		if result.Commits != int64(a.Count) {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d commits", a.Count),
				Actual:   fmt.Sprintf("%d commits", result.Commits),
			}
		}
		return nil
	case AssertJournalCommits:
		if len(result.Journal) != a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d journaled commits", a.Count),
				Actual:   fmt.Sprintf("%d journaled commits", len(result.Journal)),
			}
		}
		return nil
	case AssertTraceContains:
		return assertTraceContains(result.Trace, a)
	case AssertTraceCount:
		return assertTraceCount(result.Trace, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertHTML(result *Result, a Assertion) error {
	if result.HTML == a.Expect {
		return nil
	}
	return &AssertionError{
		Type:     AssertHTML,
		Expected: a.Expect,
		Actual:   result.HTML,
	}
}

// assertTraceContains checks that some mutation matches the filter.
func assertTraceContains(trace []ir.Mutation, a Assertion) error {
	if countMatches(trace, a) > 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: filterString(a),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceCount checks that exactly Count mutations match the filter.
func assertTraceCount(trace []ir.Mutation, a Assertion) error {
	n := countMatches(trace, a)
	if n == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceCount,
		Expected: fmt.Sprintf("%d x %s", a.Count, filterString(a)),
		Actual:   fmt.Sprintf("%d matches", n),
		Trace:    trace,
	}
}

// countMatches counts mutations matching the assertion's filter. A node's
// type is the type it was created with.
func countMatches(trace []ir.Mutation, a Assertion) int {
	types := make(map[int64]string)
	n := 0
	for _, m := range trace {
		if m.Op == ir.OpCreate {
			types[m.Node] = m.Type
		}
		if a.Op != "" && m.Op != a.Op {
			continue
		}
		if a.NodeType != "" && types[m.Node] != a.NodeType {
			continue
		}
		if a.Name != "" && m.Name != a.Name {
			continue
		}
		if a.Value != "" && m.Value != a.Value {
			continue
		}
		n++
	}
	return n
}

func filterString(a Assertion) string {
	var parts []string
	if a.Op != "" {
		parts = append(parts, "op="+a.Op)
	}
	if a.NodeType != "" {
		parts = append(parts, "node_type="+a.NodeType)
	}
	if a.Name != "" {
		parts = append(parts, "name="+a.Name)
	}
	if a.Value != "" {
		parts = append(parts, fmt.Sprintf("value=%q", a.Value))
	}
	if len(parts) == 0 {
		return "any mutation"
	}
	return strings.Join(parts, " ")
}
