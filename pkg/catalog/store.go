package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"openx-hq/openx/pkg/config"
)

// Asset is one underlying asset row in the catalog.
type Asset struct {
	Symbol        string
	Name          string
	Decimals      int
	ContractSize  float64
	MinOrderSize  float64
	TickSize      float64
	PriceDecimals int
	Enabled       bool
}

// SettlementCurrency is one settlement currency row in the catalog.
type SettlementCurrency struct {
	Symbol   string
	Name     string
	Decimals int
	Enabled  bool
	Primary  bool
	Chains   []string
}

// Cadence is one expiry cadence row in the catalog.
type Cadence struct {
	Name          string
	Enabled       bool
	Count         int
	ExpiryTimeUTC string
	DayOfWeek     string
	DayType       string
}

// StoreConfig configures the catalog store.
type StoreConfig struct {
	// Path is the path to the SQLite database file.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// DefaultStoreConfig returns the default store configuration for a path.
func DefaultStoreConfig(path string) StoreConfig {
	return StoreConfig{
		Path:        path,
		BusyTimeout: 5 * time.Second,
	}
}

// Store is the embedded instrument catalog. The start command seeds it
// from a validated configuration so downstream services can read the
// tradeable universe without parsing YAML themselves.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the catalog database.
func Open(cfg StoreConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("catalog path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{
		db:     db,
		logger: slog.Default().With("component", "catalog"),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS assets (
		symbol TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		decimals INTEGER NOT NULL,
		contract_size REAL NOT NULL,
		min_order_size REAL NOT NULL,
		tick_size REAL NOT NULL,
		price_decimals INTEGER NOT NULL,
		enabled INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settlement_currencies (
		symbol TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		decimals INTEGER NOT NULL,
		enabled INTEGER NOT NULL,
		primary_currency INTEGER NOT NULL,
		chains TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS expiry_cadences (
		name TEXT PRIMARY KEY,
		enabled INTEGER NOT NULL,
		count INTEGER NOT NULL,
		expiry_time_utc TEXT NOT NULL,
		day_of_week TEXT NOT NULL DEFAULT '',
		day_type TEXT NOT NULL DEFAULT '',
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Seed upserts the tradeable universe from a validated configuration.
// Existing rows for symbols and cadences present in the configuration
// are overwritten; rows no longer mentioned are deleted.
func (s *Store) Seed(ctx context.Context, cfg *config.Config) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Unix()

	for _, table := range []string{"assets", "settlement_currencies", "expiry_cadences"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, a := range cfg.Instrument.SupportedAssets {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO assets
				(symbol, name, decimals, contract_size, min_order_size, tick_size, price_decimals, enabled, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.Symbol, a.Name, a.Decimals, a.ContractSize, a.MinOrderSize,
			a.TickSize, a.PriceDecimals, boolToInt(a.Enabled), now,
		)
		if err != nil {
			return fmt.Errorf("failed to seed asset %s: %w", a.Symbol, err)
		}
	}

	for _, c := range cfg.Instrument.SettlementCurrencies {
		chains, err := json.Marshal(c.Chains)
		if err != nil {
			return fmt.Errorf("failed to encode chains for %s: %w", c.Symbol, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO settlement_currencies
				(symbol, name, decimals, enabled, primary_currency, chains, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.Symbol, c.Name, c.Decimals, boolToInt(c.Enabled), boolToInt(c.Primary), string(chains), now,
		)
		if err != nil {
			return fmt.Errorf("failed to seed settlement currency %s: %w", c.Symbol, err)
		}
	}

	for _, entry := range cfg.ExpirySchedule.Cadences() {
		if entry.Cadence == nil {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO expiry_cadences
				(name, enabled, count, expiry_time_utc, day_of_week, day_type, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			entry.Name, boolToInt(entry.Cadence.Enabled), entry.Cadence.Count,
			entry.Cadence.ExpiryTimeUTC, entry.Cadence.DayOfWeek, entry.Cadence.DayType, now,
		)
		if err != nil {
			return fmt.Errorf("failed to seed cadence %s: %w", entry.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	s.logger.Info("instrument catalog seeded",
		"assets", len(cfg.Instrument.SupportedAssets),
		"settlement_currencies", len(cfg.Instrument.SettlementCurrencies),
	)
	return nil
}

// Assets returns all assets ordered by symbol.
func (s *Store) Assets(ctx context.Context) ([]*Asset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, name, decimals, contract_size, min_order_size, tick_size, price_decimals, enabled
		FROM assets ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var out []*Asset
	for rows.Next() {
		var a Asset
		var enabled int
		if err := rows.Scan(&a.Symbol, &a.Name, &a.Decimals, &a.ContractSize,
			&a.MinOrderSize, &a.TickSize, &a.PriceDecimals, &enabled); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		a.Enabled = enabled != 0
		out = append(out, &a)
	}
	return out, rows.Err()
}

// SettlementCurrencies returns all settlement currencies ordered by symbol.
func (s *Store) SettlementCurrencies(ctx context.Context) ([]*SettlementCurrency, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, name, decimals, enabled, primary_currency, chains
		FROM settlement_currencies ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlement currencies: %w", err)
	}
	defer rows.Close()

	var out []*SettlementCurrency
	for rows.Next() {
		var c SettlementCurrency
		var enabled, primary int
		var chains string
		if err := rows.Scan(&c.Symbol, &c.Name, &c.Decimals, &enabled, &primary, &chains); err != nil {
			return nil, fmt.Errorf("failed to scan settlement currency: %w", err)
		}
		c.Enabled = enabled != 0
		c.Primary = primary != 0
		if err := json.Unmarshal([]byte(chains), &c.Chains); err != nil {
			return nil, fmt.Errorf("failed to decode chains for %s: %w", c.Symbol, err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// PrimaryCurrency returns the primary settlement currency.
func (s *Store) PrimaryCurrency(ctx context.Context) (*SettlementCurrency, error) {
	currencies, err := s.SettlementCurrencies(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range currencies {
		if c.Primary && c.Enabled {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no primary settlement currency in catalog")
}

// Cadences returns all expiry cadences ordered by name.
func (s *Store) Cadences(ctx context.Context) ([]*Cadence, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, enabled, count, expiry_time_utc, day_of_week, day_type
		FROM expiry_cadences ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cadences: %w", err)
	}
	defer rows.Close()

	var out []*Cadence
	for rows.Next() {
		var c Cadence
		var enabled int
		if err := rows.Scan(&c.Name, &enabled, &c.Count, &c.ExpiryTimeUTC, &c.DayOfWeek, &c.DayType); err != nil {
			return nil, fmt.Errorf("failed to scan cadence: %w", err)
		}
		c.Enabled = enabled != 0
		out = append(out, &c)
	}
	return out, rows.Err()
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the catalog database.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
