package config

import (
	"strings"
	"testing"
)

func TestRawValue_LookupListIndices(t *testing.T) {
	tree := mustParse(t, `
instrument:
  supported_assets:
    - symbol: BTC
    - symbol: ETH
`)

	if got := tree.Lookup("instrument.supported_assets.1.symbol"); got == nil || got.Str != "ETH" {
		t.Errorf("expected ETH, got %v", got)
	}
	if got := tree.Lookup("instrument.supported_assets.5.symbol"); got != nil {
		t.Errorf("out-of-range index should resolve to nil, got %v", got)
	}
	if got := tree.Lookup("instrument.missing.path"); got != nil {
		t.Errorf("missing path should resolve to nil, got %v", got)
	}
}

func TestRawValue_SetPreservesPosition(t *testing.T) {
	m := mapping(
		entry("first", Num(1)),
		entry("second", Num(2)),
		entry("third", Num(3)),
	)

	m.Set("second", Num(22))
	m.Set("fourth", Num(4))

	want := []string{"first", "second", "third", "fourth"}
	for i, e := range m.Map {
		if e.Key != want[i] {
			t.Fatalf("expected key order %v, got position %d = %s", want, i, e.Key)
		}
	}
	if m.Get("second").Num != 22 {
		t.Errorf("replaced value not set")
	}
}

func TestRawValue_CloneIsDeep(t *testing.T) {
	orig := mustParse(t, `
storage:
  postgres:
    host: a
`)

	clone := orig.Clone()
	clone.Lookup("storage.postgres").Set("host", Str("b"))

	if got := orig.Lookup("storage.postgres.host").Str; got != "a" {
		t.Errorf("clone mutation leaked into original: %q", got)
	}
}

func TestMarshal_RoundTripKeepsOrder(t *testing.T) {
	tree := GenerateDefault()

	data, err := Marshal(tree)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	out := string(data)
	sections := []string{"exchange:", "instrument:", "market_data:", "expiry_schedule:",
		"storage:", "oms:", "matching_engine:", "risk_engine:", "fees:"}
	last := -1
	for _, s := range sections {
		idx := strings.Index(out, "\n"+s)
		if s == sections[0] {
			idx = strings.Index(out, s)
		}
		if idx < 0 {
			t.Fatalf("section %s missing from output", s)
		}
		if idx < last {
			t.Errorf("section %s out of order", s)
		}
		last = idx
	}

	reparsed, err := Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	if got := reparsed.Lookup("storage.postgres.password").Str; got != "${POSTGRES_PASSWORD}" {
		t.Errorf("placeholder did not survive round trip: %q", got)
	}
}
