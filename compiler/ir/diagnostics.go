package ir

// Severity grades a diagnostic. Error-severity diagnostics abort a single
// target's generation; warnings document a quality gap and let it proceed.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is a structured, per-run finding. Diagnostics are collected
// on results, never printed from inside the core, so callers can assert
// on them in tests.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code,omitempty"`
	Message  string   `json:"message"`
	Path     string   `json:"path,omitempty"`
	Hint     string   `json:"hint,omitempty"`
}

// HasErrors reports whether any diagnostic carries error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// CountWarnings returns the number of warning-severity diagnostics.
func CountWarnings(diags []Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == SeverityWarning {
			n++
		}
	}
	return n
}
