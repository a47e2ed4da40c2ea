package config

import "io"

// ResolvedConfig is the typed, fully substituted and defaulted
// configuration. It is only constructed when the report carries zero
// errors, so holders may assume every invariant the validator enforces.
type ResolvedConfig struct {
	Config *Config

	// Tree is the defaulted untyped document, kept for callers that
	// need paths outside the typed shape or order-preserving output.
	Tree *RawValue
}

// Result is the outcome of one pipeline run.
type Result struct {
	Report *Report

	// Resolved is nil whenever the report contains errors.
	Resolved *ResolvedConfig
}

// Valid reports whether the run produced a usable configuration.
func (r *Result) Valid() bool {
	return r.Resolved != nil
}

// Run executes the full pipeline against the document at path:
// load, substitute against env, fill defaults, validate, report.
// A load or parse failure returns a *LoadError and no Result; every
// later problem is collected into the Result's report instead.
func Run(path string, env EnvSnapshot) (*Result, error) {
	tree, err := Load(path)
	if err != nil {
		return nil, err
	}
	return run(tree, env), nil
}

// RunReader is Run over an already-open document stream.
func RunReader(r io.Reader, env EnvSnapshot) (*Result, error) {
	tree, err := Parse(r)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return run(tree, env), nil
}

func run(tree *RawValue, env EnvSnapshot) *Result {
	report := &Report{}

	report.Add(Substitute(tree, env)...)
	report.Add(ApplyDefaults(tree)...)

	cfg, err := Decode(tree)
	if err != nil {
		report.Add(errorf(CodeTypeMismatch, "", "%v", err))
	}

	report.Add(Validate(&Input{Config: cfg, Tree: tree})...)
	report.Sort()

	res := &Result{Report: report}
	if !report.HasErrors() {
		res.Resolved = &ResolvedConfig{Config: cfg, Tree: tree}
	}
	return res
}
