package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"
)

// EnvSnapshot is an immutable capture of environment variables taken
// once at pipeline start. Substitution never reads the live environment
// mid-run.
type EnvSnapshot map[string]string

// SnapshotEnv captures the current process environment.
func SnapshotEnv() EnvSnapshot {
	snap := make(EnvSnapshot)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			snap[kv[:i]] = kv[i+1:]
		}
	}
	return snap
}

// placeholderPattern matches ${NAME} and bare $NAME tokens inside
// string scalars.
var placeholderPattern = regexp.MustCompile(`\$\{(\w+)\}|\$(\w+)`)

// credentialKeys classifies leaf keys as sensitive when the schema does
// not already mark the path. A missing variable on a sensitive path is
// an error; elsewhere it degrades to a warning and an empty value.
var credentialKeys = map[string]bool{
	"password":         true,
	"secret":           true,
	"api_key":          true,
	"api_secret":       true,
	"anon_key":         true,
	"service_role_key": true,
	"token":            true,
	"access_token":     true,
}

// Substitute resolves every placeholder in the string leaves of tree
// against the snapshot, in place, and returns the diagnostics produced.
// A substituted value is never re-scanned, so expansion cannot recurse.
//
// Resolution of a missing variable depends on the leaf's path:
//   - sensitive (schema-marked or credential-shaped key): Error, the
//     leaf keeps its unresolved placeholder so downstream rules can see
//     that the credential was never supplied
//   - otherwise: Warning, the placeholder resolves to an empty string
func Substitute(tree *RawValue, env EnvSnapshot) []Diagnostic {
	var diags []Diagnostic
	walkStrings(tree, "", func(path string, leaf *RawValue) {
		if !strings.ContainsRune(leaf.Str, '$') {
			return
		}
		resolved, ds := substituteLeaf(path, leaf.Str, env)
		leaf.Str = resolved
		diags = append(diags, ds...)
	})
	return diags
}

func substituteLeaf(path, value string, env EnvSnapshot) (string, []Diagnostic) {
	var diags []Diagnostic
	unresolved := false

	out := placeholderPattern.ReplaceAllStringFunc(value, func(match string) string {
		name := placeholderName(match)
		if v, ok := env[name]; ok {
			return v
		}
		if isSensitivePath(path) {
			diags = append(diags, errorf(CodeUnresolvedVar, path,
				"environment variable %s is not set (required for sensitive field)", name))
			unresolved = true
			return match
		}
		diags = append(diags, warnf(CodeUnresolvedVar, path,
			"environment variable %s is not set, substituting empty string", name))
		return ""
	})

	// A partially resolved sensitive leaf keeps its original text so the
	// unresolved placeholder stays visible.
	if unresolved {
		return value, diags
	}
	return out, diags
}

func placeholderName(match string) string {
	if strings.HasPrefix(match, "${") {
		return match[2 : len(match)-1]
	}
	return match[1:]
}

// isSensitivePath reports whether a dotted path must resolve fully.
// Schema metadata takes precedence; unknown paths fall back to the
// credential-key convention.
func isSensitivePath(path string) bool {
	for _, spec := range Schema() {
		if spec.Sensitive && pathMatches(spec.Path, path) {
			return true
		}
	}
	segs := strings.Split(path, ".")
	return credentialKeys[segs[len(segs)-1]]
}

// pathMatches compares a schema path against a concrete path. A "*"
// schema segment matches any single concrete segment (list indices).
func pathMatches(pattern, path string) bool {
	ps := strings.Split(pattern, ".")
	cs := strings.Split(path, ".")
	if len(ps) != len(cs) {
		return false
	}
	for i := range ps {
		if ps[i] != "*" && ps[i] != cs[i] {
			return false
		}
	}
	return true
}

// walkStrings visits every string leaf in document order, passing its
// dotted path.
func walkStrings(v *RawValue, path string, fn func(path string, leaf *RawValue)) {
	switch v.Kind {
	case KindString:
		fn(path, v)
	case KindList:
		for i, it := range v.Items {
			walkStrings(it, childPath(path, strconv.Itoa(i)), fn)
		}
	case KindMapping:
		for _, e := range v.Map {
			walkStrings(e.Value, childPath(path, e.Key), fn)
		}
	}
}

func childPath(parent, seg string) string {
	if parent == "" {
		return seg
	}
	return parent + "." + seg
}
