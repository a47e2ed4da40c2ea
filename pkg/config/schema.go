package config

import "strings"

// FieldSpec is one static schema entry: a dotted path, its expected
// type, and optional default, enum, range, and sensitivity metadata.
// A "*" path segment matches every element of a list at that position.
// The schema is built once and never mutated.
type FieldSpec struct {
	Path    string
	Type    Kind
	Default *RawValue

	// Enum restricts a string field to a fixed value set.
	Enum []string

	// Min and Max bound a numeric field (inclusive).
	Min *float64
	Max *float64

	// Sensitive marks paths whose placeholders must resolve; a missing
	// variable is an error rather than a warning.
	Sensitive bool

	// When guards a default: it is applied only if the predicate holds
	// for the parent mapping of the field. Nil means unconditional.
	When func(parent *RawValue) bool
}

func f64(v float64) *float64 { return &v }

func providerType(t string) func(*RawValue) bool {
	return func(parent *RawValue) bool {
		tv := parent.Get("type")
		return tv != nil && tv.Kind == KindString && tv.Str == t
	}
}

// schema is the process-wide field table, initialized once.
var schema = buildSchema()

// Schema returns the static field table. Callers must not mutate it.
func Schema() []FieldSpec {
	return schema
}

func buildSchema() []FieldSpec {
	return []FieldSpec{
		// Exchange metadata.
		{Path: "exchange.name", Type: KindString},
		{Path: "exchange.description", Type: KindString},
		{Path: "exchange.version", Type: KindString},
		{Path: "exchange.mode", Type: KindString, Enum: []string{"production", "virtual", "both"}},
		{Path: "exchange.trading_hours.type", Type: KindString, Default: Str("24/7")},

		// Market data.
		{Path: "market_data.fallback_strategy", Type: KindString,
			Enum: []string{"median", "average", "highest", "lowest"}, Default: Str("median")},
		{Path: "market_data.max_price_age_seconds", Type: KindNumber, Default: Num(10), Min: f64(1)},
		{Path: "market_data.stale_price_action", Type: KindString,
			Enum: []string{"reject_orders", "use_last_known", "halt_trading"}, Default: Str("halt_trading")},

		// Per-provider tuning, conditional on transport type.
		{Path: "market_data.providers.*.type", Type: KindString,
			Enum: []string{"websocket", "grpc", "rest"}},
		{Path: "market_data.providers.*.reconnect_delay_seconds", Type: KindNumber,
			Default: Num(5), When: providerType("websocket")},
		{Path: "market_data.providers.*.max_reconnect_attempts", Type: KindNumber,
			Default: Num(10), When: providerType("websocket")},
		{Path: "market_data.providers.*.heartbeat_interval_seconds", Type: KindNumber,
			Default: Num(30), When: providerType("websocket")},
		{Path: "market_data.providers.*.connection_timeout_seconds", Type: KindNumber,
			Default: Num(60), When: providerType("websocket")},
		{Path: "market_data.providers.*.request_timeout_seconds", Type: KindNumber,
			Default: Num(5), When: providerType("rest")},
		{Path: "market_data.providers.*.rate_limit_per_second", Type: KindNumber,
			Default: Num(10), When: providerType("rest")},
		{Path: "market_data.providers.*.auth.api_key", Type: KindString, Sensitive: true},
		{Path: "market_data.providers.*.auth.api_secret", Type: KindString, Sensitive: true},

		// Storage.
		{Path: "storage.type", Type: KindString, Enum: []string{"postgres", "supabase"}},
		{Path: "storage.postgres.host", Type: KindString, Sensitive: true},
		{Path: "storage.postgres.port", Type: KindNumber, Default: Num(5432), Min: f64(1), Max: f64(65535)},
		{Path: "storage.postgres.database", Type: KindString, Sensitive: true},
		{Path: "storage.postgres.user", Type: KindString, Sensitive: true},
		{Path: "storage.postgres.password", Type: KindString, Sensitive: true},
		{Path: "storage.postgres.ssl_mode", Type: KindString, Default: Str("require"),
			Enum: []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}},
		{Path: "storage.postgres.max_connections", Type: KindNumber, Default: Num(20), Min: f64(1)},
		{Path: "storage.postgres.connection_timeout_seconds", Type: KindNumber, Default: Num(30), Min: f64(1)},
		{Path: "storage.postgres.idle_timeout_seconds", Type: KindNumber, Default: Num(600), Min: f64(1)},
		{Path: "storage.supabase.url", Type: KindString, Sensitive: true},
		{Path: "storage.supabase.anon_key", Type: KindString, Sensitive: true},
		{Path: "storage.supabase.service_role_key", Type: KindString, Sensitive: true},
		{Path: "storage.cache.enabled", Type: KindBool, Default: Bool(true)},
		{Path: "storage.cache.ttl_seconds", Type: KindNumber, Default: Num(300), Min: f64(1)},
		{Path: "storage.cache.max_entries", Type: KindNumber, Default: Num(10000), Min: f64(1)},

		// OMS.
		{Path: "oms.limits.max_open_orders_per_user", Type: KindNumber, Default: Num(100), Min: f64(1)},
		{Path: "oms.limits.max_price_deviation_percent", Type: KindNumber, Default: Num(20), Min: f64(0)},
		{Path: "oms.orderbook.depth_levels", Type: KindNumber, Default: Num(50), Min: f64(1)},
		{Path: "oms.orderbook.update_frequency_ms", Type: KindNumber, Default: Num(100), Min: f64(1)},

		// Matching engine.
		{Path: "matching_engine.algorithm", Type: KindString,
			Enum: []string{"price_time_priority"}, Default: Str("price_time_priority")},
		{Path: "matching_engine.orderbook_store.type", Type: KindString,
			Enum: []string{"memory", "redis"}, Default: Str("memory")},
		{Path: "matching_engine.orderbook_store.redis.port", Type: KindNumber,
			Default: Num(6379), Min: f64(1), Max: f64(65535)},
		{Path: "matching_engine.orderbook_store.redis.password", Type: KindString, Sensitive: true},

		// Risk engine.
		{Path: "risk_engine.margin_method", Type: KindString,
			Enum: []string{"standard", "portfolio"}, Default: Str("standard")},
		{Path: "risk_engine.liquidation.threshold", Type: KindNumber,
			Default: Num(0.95), Min: f64(0), Max: f64(1)},
		{Path: "risk_engine.liquidation.check_frequency_seconds", Type: KindNumber,
			Default: Num(10), Min: f64(1)},

		// Fees, as fractions.
		{Path: "fees.trading.maker_fee_rate", Type: KindNumber,
			Default: Num(0.0003), Min: f64(0), Max: f64(1)},
		{Path: "fees.trading.taker_fee_rate", Type: KindNumber,
			Default: Num(0.0005), Min: f64(0), Max: f64(1)},
	}
}

// lastSegment returns the final key of a dotted path.
func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}
