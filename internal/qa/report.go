// Package qa validates canonical datasets for internal consistency. Checks
// never mutate their inputs and never raise for data-quality problems; every
// finding becomes a structured result in the report. Only malformed
// invocations (wrong dataset kinds) surface as errors.
package qa

// CheckResult is one check's outcome. Metadata carries machine-readable
// details such as duplicate counts or offending keys.
type CheckResult struct {
	Name     string         `json:"check_name"`
	Passed   bool           `json:"passed"`
	Warning  bool           `json:"warning,omitempty"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Report is a named, ordered list of check results. Warnings are surfaced but
// never gate healthiness.
type Report struct {
	Name    string        `json:"name"`
	Results []CheckResult `json:"results"`
}

func NewReport(name string) *Report {
	return &Report{Name: name}
}

func (r *Report) Add(results ...CheckResult) {
	r.Results = append(r.Results, results...)
}

// Merge appends another report's results in order.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Results = append(r.Results, other.Results...)
}

// Healthy reports whether zero checks failed.
func (r *Report) Healthy() bool {
	for _, result := range r.Results {
		if !result.Passed {
			return false
		}
	}
	return true
}

func (r *Report) Failures() []CheckResult {
	out := make([]CheckResult, 0)
	for _, result := range r.Results {
		if !result.Passed {
			out = append(out, result)
		}
	}
	return out
}

func (r *Report) Warnings() []CheckResult {
	out := make([]CheckResult, 0)
	for _, result := range r.Results {
		if result.Passed && result.Warning {
			out = append(out, result)
		}
	}
	return out
}

func pass(name, message string) CheckResult {
	return CheckResult{Name: name, Passed: true, Message: message}
}

func warn(name, message string, metadata map[string]any) CheckResult {
	return CheckResult{Name: name, Passed: true, Warning: true, Message: message, Metadata: metadata}
}

func fail(name, message string, metadata map[string]any) CheckResult {
	return CheckResult{Name: name, Passed: false, Message: message, Metadata: metadata}
}
