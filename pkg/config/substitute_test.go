package config

import (
	"strings"
	"testing"
)

func TestSubstitute_ResolvesPlaceholders(t *testing.T) {
	tree := mustParse(t, `
storage:
  postgres:
    host: ${DB_HOST}
    database: ${DB_NAME}
`)
	env := EnvSnapshot{"DB_HOST": "db.internal", "DB_NAME": "exchange"}

	diags := Substitute(tree, env)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if got := tree.Lookup("storage.postgres.host").Str; got != "db.internal" {
		t.Errorf("expected host 'db.internal', got %q", got)
	}
	if got := tree.Lookup("storage.postgres.database").Str; got != "exchange" {
		t.Errorf("expected database 'exchange', got %q", got)
	}
}

func TestSubstitute_MissingSensitiveVariable(t *testing.T) {
	tree := mustParse(t, `
storage:
  postgres:
    host: ${INSTRUMENT_DB_HOST}
`)

	diags := Substitute(tree, EnvSnapshot{})
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	d := diags[0]
	if d.Severity != SeverityError {
		t.Errorf("expected error severity, got %s", d.Severity)
	}
	if d.Code != CodeUnresolvedVar {
		t.Errorf("expected code %s, got %s", CodeUnresolvedVar, d.Code)
	}
	if d.Path != "storage.postgres.host" {
		t.Errorf("expected path storage.postgres.host, got %s", d.Path)
	}
	if !strings.Contains(d.Message, "INSTRUMENT_DB_HOST") {
		t.Errorf("expected message to name the variable, got %q", d.Message)
	}

	// The leaf keeps its placeholder so later rules see it unresolved.
	if got := tree.Lookup("storage.postgres.host").Str; got != "${INSTRUMENT_DB_HOST}" {
		t.Errorf("expected placeholder to survive, got %q", got)
	}
}

func TestSubstitute_MissingNonSensitiveVariable(t *testing.T) {
	tree := mustParse(t, `
exchange:
  description: Running in ${DEPLOY_REGION}
`)

	diags := Substitute(tree, EnvSnapshot{})
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	if diags[0].Severity != SeverityWarning {
		t.Errorf("expected warning severity, got %s", diags[0].Severity)
	}
	if got := tree.Lookup("exchange.description").Str; got != "Running in " {
		t.Errorf("expected empty substitution, got %q", got)
	}
}

func TestSubstitute_MultiplePlaceholdersInOneString(t *testing.T) {
	tree := mustParse(t, `
exchange:
  description: ${A}-${B}
`)
	env := EnvSnapshot{"A": "first", "B": "second"}

	if diags := Substitute(tree, env); len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if got := tree.Lookup("exchange.description").Str; got != "first-second" {
		t.Errorf("expected 'first-second', got %q", got)
	}
}

func TestSubstitute_BareDollarForm(t *testing.T) {
	tree := mustParse(t, `
exchange:
  name: $EXCHANGE_NAME
`)
	env := EnvSnapshot{"EXCHANGE_NAME": "Prod Venue"}

	if diags := Substitute(tree, env); len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if got := tree.Lookup("exchange.name").Str; got != "Prod Venue" {
		t.Errorf("expected 'Prod Venue', got %q", got)
	}
}

func TestSubstitute_NoRecursiveExpansion(t *testing.T) {
	tree := mustParse(t, `
exchange:
  name: ${OUTER}
`)
	env := EnvSnapshot{"OUTER": "${INNER}", "INNER": "never"}

	Substitute(tree, env)
	if got := tree.Lookup("exchange.name").Str; got != "${INNER}" {
		t.Errorf("substituted values must not be re-scanned, got %q", got)
	}
}

func TestSubstitute_NonPlaceholderStringsUnchanged(t *testing.T) {
	tree := mustParse(t, `
exchange:
  name: Plain Name
  description: costs 5$ per unit
`)

	diags := Substitute(tree, EnvSnapshot{})
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if got := tree.Lookup("exchange.name").Str; got != "Plain Name" {
		t.Errorf("plain string changed: %q", got)
	}
}

func TestSubstitute_SensitiveByKeyConvention(t *testing.T) {
	// A credential-shaped key outside any schema path is still sensitive.
	tree := mustParse(t, `
custom:
  token: ${SERVICE_TOKEN}
`)

	diags := Substitute(tree, EnvSnapshot{})
	if len(diags) != 1 || diags[0].Severity != SeverityError {
		t.Fatalf("expected one error diagnostic, got %v", diags)
	}
}

func mustParse(t *testing.T, doc string) *RawValue {
	t.Helper()
	tree, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("failed to parse test document: %v", err)
	}
	return tree
}
