package config

import (
	"strings"
	"testing"
)

func TestApplyDefaults_FillsAbsentField(t *testing.T) {
	tree := mustParse(t, `
storage:
  type: postgres
  postgres:
    host: db.internal
    database: exchange
    user: app
    password: hunter2
`)

	diags := ApplyDefaults(tree)

	port := tree.Lookup("storage.postgres.port")
	if port == nil || port.Num != 5432 {
		t.Fatalf("expected port default 5432, got %v", port)
	}

	found := false
	for _, d := range diags {
		if d.Path == "storage.postgres.port" {
			found = true
			if d.Severity != SeverityWarning {
				t.Errorf("default application must be a warning, got %s", d.Severity)
			}
			if d.Code != CodeDefaultApplied {
				t.Errorf("expected code %s, got %s", CodeDefaultApplied, d.Code)
			}
			if !strings.Contains(d.Message, "5432") {
				t.Errorf("expected message to name the default, got %q", d.Message)
			}
		}
	}
	if !found {
		t.Error("expected a diagnostic for storage.postgres.port")
	}
}

func TestApplyDefaults_NeverTouchesExplicitValues(t *testing.T) {
	tree := mustParse(t, `
storage:
  type: postgres
  postgres:
    host: db.internal
    port: 6543
    ssl_mode: disable
  cache:
    enabled: false
    ttl_seconds: 300
    max_entries: 10000
`)

	diags := ApplyDefaults(tree)

	if got := tree.Lookup("storage.postgres.port").Num; got != 6543 {
		t.Errorf("explicit port overwritten: %v", got)
	}
	// Explicit falsy value must survive and produce no diagnostic.
	if got := tree.Lookup("storage.cache.enabled"); got == nil || got.Bool != false {
		t.Errorf("explicit false overwritten: %v", got)
	}
	// ttl_seconds equals its default; still no diagnostic for it.
	for _, d := range diags {
		switch d.Path {
		case "storage.postgres.port", "storage.postgres.ssl_mode",
			"storage.cache.enabled", "storage.cache.ttl_seconds", "storage.cache.max_entries":
			t.Errorf("unexpected diagnostic for explicit field: %v", d)
		}
	}
}

func TestApplyDefaults_AbsentSectionLeftAbsent(t *testing.T) {
	tree := mustParse(t, `
exchange:
  name: Test
`)

	ApplyDefaults(tree)

	if tree.Lookup("storage.postgres.port") != nil {
		t.Error("defaults must not invent absent sections")
	}
}

func TestApplyDefaults_ProviderDefaultsFollowTransportType(t *testing.T) {
	tree := mustParse(t, `
market_data:
  providers:
    - name: binance
      type: websocket
      endpoint: wss://example
    - name: backup
      type: rest
      endpoint: https://example
`)

	ApplyDefaults(tree)

	ws := tree.Lookup("market_data.providers.0")
	if got := ws.Get("reconnect_delay_seconds"); got == nil || got.Num != 5 {
		t.Errorf("websocket provider should get reconnect default, got %v", got)
	}
	if got := ws.Get("request_timeout_seconds"); got != nil {
		t.Errorf("websocket provider should not get rest defaults, got %v", got)
	}

	rest := tree.Lookup("market_data.providers.1")
	if got := rest.Get("rate_limit_per_second"); got == nil || got.Num != 10 {
		t.Errorf("rest provider should get rate limit default, got %v", got)
	}
	if got := rest.Get("heartbeat_interval_seconds"); got != nil {
		t.Errorf("rest provider should not get websocket defaults, got %v", got)
	}
}

func TestApplyDefaults_MarketDataAndOrderbookValues(t *testing.T) {
	tree := mustParse(t, `
market_data:
  providers: []
oms:
  limits: {}
  orderbook: {}
`)

	ApplyDefaults(tree)

	for path, want := range map[string]float64{
		"market_data.max_price_age_seconds":      10,
		"oms.limits.max_price_deviation_percent": 20,
		"oms.orderbook.depth_levels":             50,
	} {
		if got := tree.Lookup(path); got == nil || got.Num != want {
			t.Errorf("%s: expected default %v, got %v", path, want, got)
		}
	}
	if got := tree.Lookup("market_data.stale_price_action"); got == nil || got.Str != "halt_trading" {
		t.Errorf("stale_price_action: expected default halt_trading, got %v", got)
	}
}

func TestApplyDefaults_GeneratedDocumentNeedsNone(t *testing.T) {
	tree := GenerateDefault()

	diags := ApplyDefaults(tree)
	if len(diags) != 0 {
		t.Errorf("generated document should be fully explicit, got %d defaults: %v", len(diags), diags)
	}
}
