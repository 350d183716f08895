package harness

// Outcome of a step that executed without error.
const OutcomeOK = "ok"

// StepTrace records what one step produced.
type StepTrace struct {
	Step string `json:"step"`

	// Outcome is OutcomeOK or the engine error code.
	Outcome string `json:"outcome"`

	// Shape is "entities", "scalar" or "grouped"; empty on error.
	Shape string `json:"shape,omitempty"`

	// Count is the total count for entities, the group count for grouped
	// aggregates and 1 for scalar aggregates.
	Count int `json:"count"`

	IDs     []string     `json:"ids,omitempty"`
	Summary string       `json:"summary,omitempty"`
	Result  any          `json:"result,omitempty"`
	Groups  []GroupTrace `json:"groups,omitempty"`
}

// GroupTrace is one group of a grouped aggregate.
type GroupTrace struct {
	Key    []any `json:"key"`
	Result any   `json:"result"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause matched.
	Pass bool `json:"pass"`

	Trace []StepTrace `json:"trace"`

	// Errors lists expectation mismatches; empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []StepTrace{},
		Errors: []string{},
	}
}

// AddError adds a mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStep appends a step trace.
func (r *Result) AddStep(step StepTrace) {
	r.Trace = append(r.Trace, step)
}
