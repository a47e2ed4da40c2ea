package config

import (
	"fmt"
	"os"
	"path/filepath"
)

func mapping(entries ...MapEntry) *RawValue {
	return &RawValue{Kind: KindMapping, Map: entries}
}

func entry(key string, v *RawValue) MapEntry {
	return MapEntry{Key: key, Value: v}
}

func strList(items ...string) *RawValue {
	vals := make([]*RawValue, len(items))
	for i, s := range items {
		vals[i] = Str(s)
	}
	return List(vals...)
}

// GenerateDefault builds the starter document emitted by `openx init`.
// Every field carrying a schema default is written explicitly, so
// validating the generated document applies no defaults; credentials are
// placeholders resolved from the environment at validation time.
func GenerateDefault() *RawValue {
	return mapping(
		entry("exchange", mapping(
			entry("name", Str("My Exchange")),
			entry("description", Str("A white-label crypto options exchange")),
			entry("version", Str("1.0.0")),
			entry("mode", Str("virtual")),
			entry("trading_hours", mapping(
				entry("type", Str("24/7")),
			)),
		)),
		entry("instrument", mapping(
			entry("supported_assets", List(
				asset("BTC", "Bitcoin", 8, 0.01, 1, 0.5, 2),
				asset("ETH", "Ethereum", 8, 0.1, 1, 0.05, 2),
			)),
			entry("settlement_currencies", List(
				mapping(
					entry("symbol", Str("USDT")),
					entry("name", Str("Tether USD")),
					entry("decimals", Num(6)),
					entry("enabled", Bool(true)),
					entry("primary", Bool(true)),
					entry("chains", strList("ethereum", "tron")),
				),
			)),
		)),
		entry("market_data", mapping(
			entry("providers", List(
				mapping(
					entry("name", Str("binance")),
					entry("type", Str("websocket")),
					entry("endpoint", Str("wss://stream.binance.com:9443/ws")),
					entry("enabled", Bool(true)),
					entry("primary", Bool(true)),
					entry("streams", strList("index_price", "mark_price")),
					entry("reconnect_delay_seconds", Num(5)),
					entry("max_reconnect_attempts", Num(10)),
					entry("heartbeat_interval_seconds", Num(30)),
					entry("connection_timeout_seconds", Num(60)),
					entry("auth", mapping(
						entry("type", Str("none")),
					)),
				),
			)),
			entry("fallback_strategy", Str("median")),
			entry("max_price_age_seconds", Num(10)),
			entry("stale_price_action", Str("halt_trading")),
		)),
		entry("expiry_schedule", mapping(
			entry("daily", cadence(true, 3, "08:00", "", "")),
			entry("weekly", cadence(true, 4, "08:00", "friday", "")),
			entry("monthly", cadence(true, 3, "08:00", "", "last_friday")),
			entry("quarterly", cadence(true, 4, "08:00", "", "last_friday")),
			entry("yearly", cadence(false, 1, "08:00", "", "last_friday")),
		)),
		entry("storage", mapping(
			entry("type", Str("postgres")),
			entry("postgres", mapping(
				entry("host", Str("${POSTGRES_HOST}")),
				entry("port", Num(5432)),
				entry("database", Str("${POSTGRES_DB}")),
				entry("user", Str("${POSTGRES_USER}")),
				entry("password", Str("${POSTGRES_PASSWORD}")),
				entry("ssl_mode", Str("require")),
				entry("max_connections", Num(20)),
				entry("connection_timeout_seconds", Num(30)),
				entry("idle_timeout_seconds", Num(600)),
			)),
			entry("cache", mapping(
				entry("enabled", Bool(true)),
				entry("ttl_seconds", Num(300)),
				entry("max_entries", Num(10000)),
			)),
		)),
		entry("oms", mapping(
			entry("order_types", mapping(
				entry("limit", Bool(true)),
				entry("market", Bool(true)),
				entry("stop_limit", Bool(false)),
				entry("stop_market", Bool(false)),
			)),
			entry("time_in_force", mapping(
				entry("gtc", Bool(true)),
				entry("ioc", Bool(true)),
				entry("fok", Bool(true)),
				entry("day", Bool(false)),
			)),
			entry("limits", mapping(
				entry("max_open_orders_per_user", Num(100)),
				entry("max_order_size_contracts", Num(1000)),
				entry("min_order_size_contracts", Num(1)),
				entry("max_price_deviation_percent", Num(20)),
			)),
			entry("orderbook", mapping(
				entry("depth_levels", Num(50)),
				entry("update_frequency_ms", Num(100)),
			)),
		)),
		entry("matching_engine", mapping(
			entry("algorithm", Str("price_time_priority")),
			entry("orderbook_store", mapping(
				entry("type", Str("memory")),
			)),
		)),
		entry("risk_engine", mapping(
			entry("margin_method", Str("standard")),
			entry("initial_margin", List(
				margin("BTC", 0.15),
				margin("ETH", 0.2),
			)),
			entry("maintenance_margin", List(
				margin("BTC", 0.075),
				margin("ETH", 0.1),
			)),
			entry("liquidation", mapping(
				entry("threshold", Num(0.95)),
				entry("check_frequency_seconds", Num(10)),
				entry("partial_liquidation", Bool(true)),
			)),
		)),
		entry("fees", mapping(
			entry("trading", mapping(
				entry("maker_fee_rate", Num(0.0003)),
				entry("taker_fee_rate", Num(0.0005)),
			)),
		)),
	)
}

func asset(symbol, name string, decimals int, contractSize, minOrder, tick float64, priceDecimals int) *RawValue {
	return mapping(
		entry("symbol", Str(symbol)),
		entry("name", Str(name)),
		entry("decimals", Num(float64(decimals))),
		entry("contract_size", Num(contractSize)),
		entry("min_order_size", Num(minOrder)),
		entry("tick_size", Num(tick)),
		entry("price_decimals", Num(float64(priceDecimals))),
		entry("enabled", Bool(true)),
	)
}

func cadence(enabled bool, count int, timeUTC, dayOfWeek, dayType string) *RawValue {
	m := mapping(
		entry("enabled", Bool(enabled)),
		entry("count", Num(float64(count))),
		entry("expiry_time_utc", Str(timeUTC)),
	)
	if dayOfWeek != "" {
		m.Set("day_of_week", Str(dayOfWeek))
	}
	if dayType != "" {
		m.Set("day_type", Str(dayType))
	}
	return m
}

func margin(symbol string, pct float64) *RawValue {
	return mapping(
		entry("symbol", Str(symbol)),
		entry("percentage", Num(pct)),
	)
}

// Save writes a tree to path as YAML, creating parent directories.
func Save(tree *RawValue, path string) error {
	data, err := Marshal(tree)
	if err != nil {
		return fmt.Errorf("failed to serialize configuration: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
