package harness

// TraceEvent records one applied step and the store size after it.
type TraceEvent struct {
	Seq        int64    `json:"seq"`
	Op         string   `json:"op"`
	Model      string   `json:"model,omitempty"`
	Triples    []string `json:"triples,omitempty"`
	Error      string   `json:"error,omitempty"` // error code, if the step failed
	Statements int      `json:"statements"`
	Inferred   int      `json:"inferred"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step behaved as expected and all assertions hold.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStep appends a step event to the trace.
func (r *Result) AddStep(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}
