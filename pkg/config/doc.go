// Package config implements the configuration pipeline for OpenExchange:
// load, substitute, default, validate, report.
//
// # Pipeline
//
// A run is a pure function of the document bytes and an environment
// snapshot:
//
//	env := config.SnapshotEnv()
//	result, err := config.Run("config.yaml", env)
//	if err != nil {
//	    // load or parse failure, nothing was validated
//	}
//	result.Report   // every diagnostic found, deterministically ordered
//	result.Resolved // non-nil only when the report has zero errors
//
// The stages run in fixed order:
//
//  1. Load parses the YAML document into an untyped RawValue tree that
//     preserves mapping key order.
//  2. Substitute resolves ${VAR} placeholders in string leaves against
//     the snapshot. Missing variables on sensitive paths are errors;
//     elsewhere they degrade to warnings and empty strings.
//  3. ApplyDefaults inserts schema-declared defaults for absent fields,
//     one warning per insertion. Explicit values are never touched.
//  4. Validate runs every registered rule and collects all diagnostics;
//     no rule short-circuits another.
//  5. The report is sorted (errors first, then path, then emission
//     order) and a ResolvedConfig is built iff no error was found.
//
// Only an unreadable or malformed document aborts a run. Everything
// else, including unresolved credentials, is accumulated so one pass
// shows every problem at once.
//
// # Schema
//
// Schema() exposes the static field table: expected types, defaults,
// enum and range constraints, and sensitivity. Paths are dotted, with
// "*" matching list elements (market_data.providers.*.type).
//
// GenerateDefault() builds the starter document emitted by `openx init`;
// every defaulted field is written explicitly so validating it applies
// no defaults.
package config
