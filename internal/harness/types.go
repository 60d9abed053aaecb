package harness

import "github.com/roach88/arbor/internal/ir"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: no unexpected step errors and all
	// assertions hold.
	Pass bool `json:"pass"`

	// Session is the session token the commits were journaled under.
	Session string `json:"session"`

	// Trace contains every host mutation in the order it was applied.
	// Used for trace assertions and golden comparison.
	Trace []ir.Mutation `json:"trace"`

	// HTML is the final serialised host tree.
	HTML string `json:"html"`

	// Commits is the number of commits the engine performed.
	Commits int64 `json:"commits"`

	// Journal holds the commits recorded for the session, in generation
	// order.
	Journal []ir.CommitRecord `json:"journal"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Trace:   []ir.Mutation{},
		Journal: []ir.CommitRecord{},
		Errors:  []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
