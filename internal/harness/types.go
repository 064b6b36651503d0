package harness

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq     int               `json:"seq"`
	Op      string            `json:"op"`
	Args    map[string]string `json:"args,omitempty"`
	Outcome string            `json:"outcome"` // store.Code of the step's error
	Detail  string            `json:"detail,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step produced its expected outcome and every assertion held.
	Pass bool `json:"pass"`

	// Trace contains every executed step in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// File is the contact book path the scenario ran against.
	File string `json:"file"`

	// Rows is the final content of the contact book file, nil if absent.
	Rows [][]string `json:"rows,omitempty"`
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

// AddTrace appends a step to the trace.
func (r *Result) AddTrace(op string, args map[string]string, outcome, detail string) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:     len(r.Trace) + 1,
		Op:      op,
		Args:    args,
		Outcome: outcome,
		Detail:  detail,
	})
}
