package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the typed form of a fully substituted and defaulted
// configuration document. Field tags mirror the document layout; the
// untyped RawValue tree remains the source of truth for ordering and
// for paths the typed form does not model.
type Config struct {
	Exchange       ExchangeConfig       `yaml:"exchange"`
	Instrument     InstrumentConfig     `yaml:"instrument"`
	MarketData     MarketDataConfig     `yaml:"market_data"`
	ExpirySchedule ExpiryScheduleConfig `yaml:"expiry_schedule"`
	Storage        StorageConfig        `yaml:"storage"`
	OMS            OMSConfig            `yaml:"oms"`
	MatchingEngine MatchingEngineConfig `yaml:"matching_engine"`
	RiskEngine     RiskEngineConfig     `yaml:"risk_engine"`
	Fees           FeesConfig           `yaml:"fees"`
}

// ExchangeConfig identifies the venue.
type ExchangeConfig struct {
	// Name is the display name of the exchange. Required.
	Name string `yaml:"name"`

	// Description is a short human-readable summary. Required.
	Description string `yaml:"description"`

	// Version is the configuration version in MAJOR.MINOR.PATCH form.
	Version string `yaml:"version"`

	// Mode selects the trading mode.
	// Options: "production", "virtual", "both"
	Mode string `yaml:"mode"`

	TradingHours TradingHoursConfig `yaml:"trading_hours"`
}

// TradingHoursConfig declares the venue's open hours.
type TradingHoursConfig struct {
	// Type is the schedule type. Only "24/7" is currently supported;
	// other values produce a warning.
	Type string `yaml:"type"`
}

// InstrumentConfig declares the tradeable universe.
type InstrumentConfig struct {
	SupportedAssets      []AssetConfig              `yaml:"supported_assets"`
	SettlementCurrencies []SettlementCurrencyConfig `yaml:"settlement_currencies"`
}

// AssetConfig describes one underlying asset.
type AssetConfig struct {
	Symbol string `yaml:"symbol"`
	Name   string `yaml:"name"`

	// Decimals is the precision of asset amounts.
	Decimals int `yaml:"decimals"`

	// ContractSize is the amount of the underlying per contract.
	ContractSize float64 `yaml:"contract_size"`

	// MinOrderSize is the minimum order size in contracts.
	MinOrderSize float64 `yaml:"min_order_size"`

	// TickSize is the minimum price increment. Must be positive.
	TickSize float64 `yaml:"tick_size"`

	// PriceDecimals is the precision of displayed prices.
	PriceDecimals int `yaml:"price_decimals"`

	Enabled bool `yaml:"enabled"`
}

// SettlementCurrencyConfig describes one settlement currency.
type SettlementCurrencyConfig struct {
	Symbol   string `yaml:"symbol"`
	Name     string `yaml:"name"`
	Decimals int    `yaml:"decimals"`
	Enabled  bool   `yaml:"enabled"`

	// Primary marks the default pricing and margin currency.
	// Exactly one enabled currency must set this.
	Primary bool `yaml:"primary"`

	// Chains lists blockchain networks accepted for deposits.
	Chains []string `yaml:"chains"`
}

// MarketDataConfig declares external price sources.
type MarketDataConfig struct {
	Providers []ProviderConfig `yaml:"providers"`

	// FallbackStrategy aggregates prices when the primary source is
	// stale. Options: "median", "average", "highest", "lowest"
	FallbackStrategy string `yaml:"fallback_strategy"`

	// MaxPriceAgeSeconds is the age past which a price is stale.
	MaxPriceAgeSeconds int `yaml:"max_price_age_seconds"`

	// StalePriceAction selects behaviour on stale prices.
	// Options: "reject_orders", "use_last_known", "halt_trading"
	StalePriceAction string `yaml:"stale_price_action"`
}

// ProviderConfig describes one market-data provider connection.
type ProviderConfig struct {
	Name string `yaml:"name"`

	// Type is the transport. Options: "websocket", "grpc", "rest"
	Type string `yaml:"type"`

	Endpoint string   `yaml:"endpoint"`
	Enabled  bool     `yaml:"enabled"`
	Primary  bool     `yaml:"primary"`
	Streams  []string `yaml:"streams"`

	// Websocket tuning. Default: reconnect 5s, 10 attempts,
	// heartbeat 30s, connection timeout 60s.
	ReconnectDelaySeconds    int `yaml:"reconnect_delay_seconds"`
	MaxReconnectAttempts     int `yaml:"max_reconnect_attempts"`
	HeartbeatIntervalSeconds int `yaml:"heartbeat_interval_seconds"`
	ConnectionTimeoutSeconds int `yaml:"connection_timeout_seconds"`

	// REST tuning. Default: request timeout 5s, 10 requests/second.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
	RateLimitPerSecond    int `yaml:"rate_limit_per_second"`

	Auth ProviderAuthConfig `yaml:"auth"`
}

// ProviderAuthConfig holds provider credentials, normally supplied via
// environment placeholders.
type ProviderAuthConfig struct {
	// Type is the auth scheme. Options: "none", "api_key"
	Type      string `yaml:"type"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

// ExpiryScheduleConfig declares option expiry cadences. Every cadence
// must be present, even if disabled.
type ExpiryScheduleConfig struct {
	Daily     *CadenceConfig `yaml:"daily"`
	Weekly    *CadenceConfig `yaml:"weekly"`
	Monthly   *CadenceConfig `yaml:"monthly"`
	Quarterly *CadenceConfig `yaml:"quarterly"`
	Yearly    *CadenceConfig `yaml:"yearly"`
}

// CadenceEntry pairs a cadence name with its configuration.
type CadenceEntry struct {
	Name    string
	Cadence *CadenceConfig
}

// Cadences returns the cadence entries in fixed declaration order.
func (e *ExpiryScheduleConfig) Cadences() []CadenceEntry {
	return []CadenceEntry{
		{"daily", e.Daily},
		{"weekly", e.Weekly},
		{"monthly", e.Monthly},
		{"quarterly", e.Quarterly},
		{"yearly", e.Yearly},
	}
}

// CadenceConfig describes one expiry cadence.
type CadenceConfig struct {
	Enabled bool `yaml:"enabled"`

	// Count is how many expiries of this cadence are listed at once.
	Count int `yaml:"count"`

	// ExpiryTimeUTC is the expiry time in 24-hour HH:MM form.
	ExpiryTimeUTC string `yaml:"expiry_time_utc"`

	// DayOfWeek applies to weekly cadences (e.g. "friday").
	DayOfWeek string `yaml:"day_of_week,omitempty"`

	// DayType applies to monthly-and-longer cadences.
	// Options: "last_friday", "last_day", "first_friday"
	DayType string `yaml:"day_type,omitempty"`
}

// StorageConfig declares persistence backends.
type StorageConfig struct {
	// Type selects the backend. Options: "postgres", "supabase"
	Type string `yaml:"type"`

	Postgres *PostgresConfig `yaml:"postgres,omitempty"`
	Supabase *SupabaseConfig `yaml:"supabase,omitempty"`
	Cache    CacheConfig     `yaml:"cache"`
}

// PostgresConfig is the relational backend connection.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"` // Default: 5432
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// SSLMode is the libpq sslmode value. Default: "require"
	SSLMode string `yaml:"ssl_mode"`

	MaxConnections           int `yaml:"max_connections"`            // Default: 20
	ConnectionTimeoutSeconds int `yaml:"connection_timeout_seconds"` // Default: 30
	IdleTimeoutSeconds       int `yaml:"idle_timeout_seconds"`       // Default: 600
}

// SupabaseConfig is the hosted backend connection.
type SupabaseConfig struct {
	URL            string `yaml:"url"`
	AnonKey        string `yaml:"anon_key"`
	ServiceRoleKey string `yaml:"service_role_key"`
}

// CacheConfig tunes the in-process read cache.
type CacheConfig struct {
	Enabled    bool `yaml:"enabled"`
	TTLSeconds int  `yaml:"ttl_seconds"` // Default: 300
	MaxEntries int  `yaml:"max_entries"` // Default: 10000
}

// OMSConfig tunes the order management system.
type OMSConfig struct {
	OrderTypes  OrderTypesConfig  `yaml:"order_types"`
	TimeInForce TimeInForceConfig `yaml:"time_in_force"`
	Limits      OrderLimitsConfig `yaml:"limits"`
	Orderbook   OrderbookConfig   `yaml:"orderbook"`
}

// OrderTypesConfig toggles supported order types. Stop orders are not
// implemented and must remain disabled.
type OrderTypesConfig struct {
	Limit      bool `yaml:"limit"`
	Market     bool `yaml:"market"`
	StopLimit  bool `yaml:"stop_limit"`
	StopMarket bool `yaml:"stop_market"`
}

// TimeInForceConfig toggles supported time-in-force policies.
type TimeInForceConfig struct {
	GTC bool `yaml:"gtc"`
	IOC bool `yaml:"ioc"`
	FOK bool `yaml:"fok"`
	Day bool `yaml:"day"`
}

// OrderLimitsConfig bounds order placement.
type OrderLimitsConfig struct {
	MaxOpenOrdersPerUser     int     `yaml:"max_open_orders_per_user"`
	MaxOrderSizeContracts    float64 `yaml:"max_order_size_contracts"`
	MinOrderSizeContracts    float64 `yaml:"min_order_size_contracts"`
	MaxPriceDeviationPercent float64 `yaml:"max_price_deviation_percent"`
}

// OrderbookConfig tunes orderbook publication.
type OrderbookConfig struct {
	DepthLevels       int `yaml:"depth_levels"`
	UpdateFrequencyMS int `yaml:"update_frequency_ms"`
}

// MatchingEngineConfig tunes the matching engine.
type MatchingEngineConfig struct {
	// Algorithm selects match priority. Options: "price_time_priority"
	Algorithm string `yaml:"algorithm"`

	OrderbookStore OrderbookStoreConfig `yaml:"orderbook_store"`
}

// OrderbookStoreConfig selects where live orderbooks are held.
type OrderbookStoreConfig struct {
	// Type is the store backend. Options: "memory", "redis"
	Type  string       `yaml:"type"`
	Redis *RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig is the redis connection for the orderbook store.
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"` // Default: 6379
	Password string `yaml:"password"`
}

// RiskEngineConfig tunes margining and liquidation.
type RiskEngineConfig struct {
	// MarginMethod selects the margin model. Options: "standard", "portfolio"
	MarginMethod string `yaml:"margin_method"`

	// InitialMargin lists per-symbol initial margin fractions in [0, 1].
	InitialMargin []MarginConfig `yaml:"initial_margin"`

	// MaintenanceMargin lists per-symbol maintenance margin fractions in [0, 1].
	MaintenanceMargin []MarginConfig `yaml:"maintenance_margin"`

	Liquidation LiquidationConfig `yaml:"liquidation"`
}

// MarginConfig is one per-symbol margin fraction.
type MarginConfig struct {
	Symbol     string  `yaml:"symbol"`
	Percentage float64 `yaml:"percentage"`
}

// LiquidationConfig tunes the liquidation engine.
type LiquidationConfig struct {
	// Threshold is the margin-ratio fraction that triggers liquidation.
	Threshold             float64 `yaml:"threshold"`
	CheckFrequencySeconds int     `yaml:"check_frequency_seconds"`
	PartialLiquidation    bool    `yaml:"partial_liquidation"`
}

// FeesConfig declares trading fees.
type FeesConfig struct {
	Trading TradingFeesConfig `yaml:"trading"`
}

// TradingFeesConfig holds maker/taker fees as fractions in [0, 1].
type TradingFeesConfig struct {
	MakerFeeRate float64 `yaml:"maker_fee_rate"`
	TakerFeeRate float64 `yaml:"taker_fee_rate"`
}

// Decode converts an untyped tree into the typed Config. Shape errors
// (wrong scalar kinds, lists where mappings are expected) surface as a
// single error; the caller converts it into a diagnostic.
func Decode(tree *RawValue) (*Config, error) {
	node := tree.toYAMLNode()
	var cfg Config
	if err := node.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("document does not match expected shape: %w", err)
	}
	return &cfg, nil
}

// Marshal serializes a tree as a YAML document, preserving key order.
func Marshal(tree *RawValue) ([]byte, error) {
	return yaml.Marshal(tree)
}
