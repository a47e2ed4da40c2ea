package config

import (
	"fmt"
	"sort"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityError blocks construction of a ResolvedConfig.
	SeverityError Severity = iota
	// SeverityWarning is surfaced but never blocks success.
	SeverityWarning
)

// String returns "error" or "warning".
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// MarshalJSON encodes the severity as its string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// Machine-readable diagnostic codes. Codes are stable across releases so
// callers can match on them programmatically.
const (
	CodeUnresolvedVar         = "UNRESOLVED_VAR"
	CodeDefaultApplied        = "DEFAULT_APPLIED"
	CodeMissingField          = "MISSING_FIELD"
	CodeBadFormat             = "BAD_FORMAT"
	CodeEnumMismatch          = "ENUM_MISMATCH"
	CodeMissingPrimary        = "MISSING_PRIMARY"
	CodeMultiplePrimary       = "MULTIPLE_PRIMARY"
	CodeEmptyList             = "EMPTY_LIST"
	CodeOutOfRange            = "OUT_OF_RANGE"
	CodeMissingCadence        = "MISSING_CADENCE"
	CodeDuplicateStream       = "DUPLICATE_STREAM"
	CodeUnsupportedFeature    = "UNSUPPORTED_FEATURE"
	CodeIncompleteCredentials = "INCOMPLETE_CREDENTIALS"
	CodeTypeMismatch          = "TYPE_MISMATCH"
	CodeNoMarketData          = "NO_MARKET_DATA"
)

// Diagnostic is a single reported configuration issue.
type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Path     string   `json:"path" yaml:"path"`
	Message  string   `json:"message" yaml:"message"`
	Code     string   `json:"code,omitempty" yaml:"code,omitempty"`

	// seq is the emission order, used as the final sort tiebreaker so
	// report ordering is fully deterministic.
	seq int
}

func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("[%s] %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Path, d.Message)
}

func errorf(code, path, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Path:     path,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	}
}

func warnf(code, path, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Path:     path,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Report is the aggregated outcome of one pipeline run.
type Report struct {
	// Diagnostics holds every issue found, in stable display order once
	// Sort has been called.
	Diagnostics []Diagnostic `json:"diagnostics" yaml:"diagnostics"`

	// DefaultsApplied is true when the default filler inserted at least
	// one missing field.
	DefaultsApplied bool `json:"defaults_applied" yaml:"defaults_applied"`
}

// Add appends diagnostics, assigning emission sequence numbers.
func (r *Report) Add(diags ...Diagnostic) {
	for _, d := range diags {
		d.seq = len(r.Diagnostics)
		if d.Code == CodeDefaultApplied {
			r.DefaultsApplied = true
		}
		r.Diagnostics = append(r.Diagnostics, d)
	}
}

// Sort orders diagnostics for display: errors before warnings, then
// lexicographically by path, then by emission order.
func (r *Report) Sort() {
	sort.SliceStable(r.Diagnostics, func(i, j int) bool {
		a, b := r.Diagnostics[i], r.Diagnostics[j]
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.seq < b.seq
	})
}

// Errors returns only the error diagnostics.
func (r *Report) Errors() []Diagnostic {
	return r.filter(SeverityError, "")
}

// Warnings returns warning diagnostics other than default applications.
func (r *Report) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityWarning && d.Code != CodeDefaultApplied {
			out = append(out, d)
		}
	}
	return out
}

// Defaults returns the default-applied warnings.
func (r *Report) Defaults() []Diagnostic {
	return r.filter(SeverityWarning, CodeDefaultApplied)
}

func (r *Report) filter(sev Severity, code string) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity != sev {
			continue
		}
		if code != "" && d.Code != code {
			continue
		}
		out = append(out, d)
	}
	return out
}

// HasErrors reports whether any error diagnostic is present.
func (r *Report) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ByCode returns diagnostics carrying the given code.
func (r *Report) ByCode(code string) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}
