package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_ValidDocument(t *testing.T) {
	path := writeTempConfig(t, `
exchange:
  name: Test Exchange
  version: 1.0.0
storage:
  type: postgres
`)

	tree, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Kind != KindMapping {
		t.Fatalf("expected mapping root, got %s", tree.Kind)
	}
	if got := tree.Lookup("exchange.name"); got == nil || got.Str != "Test Exchange" {
		t.Errorf("expected exchange.name to be 'Test Exchange', got %v", got)
	}
	if got := tree.Lookup("storage.type"); got == nil || got.Str != "postgres" {
		t.Errorf("expected storage.type to be 'postgres', got %v", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("expected *LoadError, got %T", err)
	}
}

func TestLoad_MalformedDocument(t *testing.T) {
	path := writeTempConfig(t, "exchange:\n  name: [unclosed\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("expected *LoadError, got %T", err)
	}
}

func TestParse_RootMustBeMapping(t *testing.T) {
	_, err := Parse(strings.NewReader("- a\n- b\n"))
	if err == nil {
		t.Fatal("expected error for sequence root")
	}
	if !strings.Contains(err.Error(), "must be a mapping") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestParse_DuplicateKeys(t *testing.T) {
	_, err := Parse(strings.NewReader("exchange: a\nexchange: b\n"))
	if err == nil {
		t.Fatal("expected error for duplicate keys")
	}
	if !strings.Contains(err.Error(), "duplicate mapping key") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestParse_PreservesKeyOrder(t *testing.T) {
	tree, err := Parse(strings.NewReader("zebra: 1\nalpha: 2\nmiddle: 3\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var keys []string
	for _, e := range tree.Map {
		keys = append(keys, e.Key)
	}
	want := []string{"zebra", "alpha", "middle"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected key order %v, got %v", want, keys)
		}
	}
}

func TestParse_ScalarKinds(t *testing.T) {
	tree, err := Parse(strings.NewReader(`
s: hello
n: 42
f: 0.5
b: true
z: null
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		path string
		kind Kind
	}{
		{"s", KindString},
		{"n", KindNumber},
		{"f", KindNumber},
		{"b", KindBool},
		{"z", KindNull},
	}
	for _, tt := range tests {
		node := tree.Lookup(tt.path)
		if node == nil {
			t.Errorf("path %s missing", tt.path)
			continue
		}
		if node.Kind != tt.kind {
			t.Errorf("path %s: expected %s, got %s", tt.path, tt.kind, node.Kind)
		}
	}
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}
