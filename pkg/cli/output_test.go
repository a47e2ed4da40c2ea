package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

type fakeTable struct{}

func (fakeTable) Headers() []string { return []string{"severity", "path"} }
func (fakeTable) Rows() [][]string {
	return [][]string{
		{"error", "exchange.version"},
		{"warning", "storage.postgres.port"},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"", FormatText, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr && err == nil {
			t.Errorf("ParseFormat(%q): expected error", tt.in)
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatJSON)

	data := map[string]int{"errors": 2}
	if err := f.FormatTo(&buf, data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out map[string]int
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out["errors"] != 2 {
		t.Errorf("unexpected output: %v", out)
	}
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatCSV)

	if err := f.FormatTo(&buf, fakeTable{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "severity,path" {
		t.Errorf("unexpected header: %q", lines[0])
	}
}

func TestCSVFormatter_RejectsNonTabular(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatCSV)

	if err := f.FormatTo(&buf, 42); err == nil {
		t.Error("expected error for non-tabular data")
	}
}
