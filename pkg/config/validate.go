package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Rule is one independent validation check. Rules are pure functions of
// the defaulted input: they may not mutate it, and no rule's outcome
// depends on another rule having run. The validator executes every rule
// and concatenates the results, so a single pass reports every problem.
type Rule struct {
	Name  string
	Check func(in *Input) []Diagnostic
}

// Input is the immutable view rules validate against: the typed config
// (nil when the document could not be decoded) and the untyped tree.
type Input struct {
	Config *Config
	Tree   *RawValue
}

// rules is the ordered rule registry. Registration order is the final
// tiebreaker for report ordering.
var rules = []Rule{
	{"schema_constraints", checkSchemaConstraints},
	{"exchange", checkExchange},
	{"assets", checkAssets},
	{"settlement_currencies", checkSettlementCurrencies},
	{"market_data", checkMarketData},
	{"expiry_schedule", checkExpirySchedule},
	{"storage", checkStorage},
	{"oms", checkOMS},
	{"matching_engine", checkMatchingEngine},
	{"risk_engine", checkRiskEngine},
}

// Validate runs every registered rule against the input and returns the
// union of their diagnostics. It never stops early.
func Validate(in *Input) []Diagnostic {
	var diags []Diagnostic
	for _, r := range rules {
		diags = append(diags, r.Check(in)...)
	}
	return diags
}

var (
	versionPattern    = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	expiryTimePattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

// checkSchemaConstraints enforces the type, enum, and range metadata the
// schema declares, for every field present in the document.
func checkSchemaConstraints(in *Input) []Diagnostic {
	var diags []Diagnostic
	for i := range schema {
		spec := &schema[i]
		for _, s := range resolveSites(in.Tree, spec.Path) {
			node := s.parent.Get(s.key)
			if node == nil || node.Kind == KindNull {
				continue
			}
			diags = append(diags, checkFieldSpec(spec, s.path, node)...)
		}
	}
	return diags
}

func checkFieldSpec(spec *FieldSpec, path string, node *RawValue) []Diagnostic {
	if node.Kind != spec.Type {
		return []Diagnostic{errorf(CodeTypeMismatch, path,
			"expected %s, got %s", spec.Type, node.Kind)}
	}

	var diags []Diagnostic
	if len(spec.Enum) > 0 && node.Kind == KindString {
		if !contains(spec.Enum, node.Str) {
			diags = append(diags, errorf(CodeEnumMismatch, path,
				"invalid value %q: must be one of %s", node.Str, strings.Join(spec.Enum, ", ")))
		}
	}
	if node.Kind == KindNumber {
		if spec.Min != nil && node.Num < *spec.Min {
			diags = append(diags, errorf(CodeOutOfRange, path,
				"value %s is below minimum %s", node.Display(), trimFloat(*spec.Min)))
		}
		if spec.Max != nil && node.Num > *spec.Max {
			diags = append(diags, errorf(CodeOutOfRange, path,
				"value %s is above maximum %s", node.Display(), trimFloat(*spec.Max)))
		}
	}
	return diags
}

func checkExchange(in *Input) []Diagnostic {
	if in.Config == nil {
		return nil
	}
	ex := &in.Config.Exchange
	var diags []Diagnostic

	if strings.TrimSpace(ex.Name) == "" {
		diags = append(diags, errorf(CodeMissingField, "exchange.name", "exchange name is required"))
	}
	if strings.TrimSpace(ex.Description) == "" {
		diags = append(diags, errorf(CodeMissingField, "exchange.description", "exchange description is required"))
	}
	if ex.Version == "" {
		diags = append(diags, errorf(CodeMissingField, "exchange.version", "exchange version is required"))
	} else if !versionPattern.MatchString(ex.Version) {
		diags = append(diags, errorf(CodeBadFormat, "exchange.version",
			"invalid version %q: must be MAJOR.MINOR.PATCH", ex.Version))
	}
	if ex.Mode == "" {
		diags = append(diags, errorf(CodeMissingField, "exchange.mode", "exchange mode is required"))
	}
	if ex.TradingHours.Type != "" && ex.TradingHours.Type != "24/7" {
		diags = append(diags, warnf(CodeUnsupportedFeature, "exchange.trading_hours.type",
			"trading hours %q are not enforced yet, the venue runs 24/7", ex.TradingHours.Type))
	}
	return diags
}

func checkAssets(in *Input) []Diagnostic {
	if in.Config == nil {
		return nil
	}
	assets := in.Config.Instrument.SupportedAssets
	var diags []Diagnostic

	if len(assets) == 0 {
		return append(diags, errorf(CodeEmptyList, "instrument.supported_assets",
			"at least one supported asset must be configured"))
	}

	enabled := 0
	for i, a := range assets {
		base := fmt.Sprintf("instrument.supported_assets.%d", i)
		if a.Enabled {
			enabled++
		}
		if strings.TrimSpace(a.Symbol) == "" {
			diags = append(diags, errorf(CodeMissingField, base+".symbol", "asset symbol is required"))
		}
		if a.TickSize <= 0 {
			diags = append(diags, errorf(CodeOutOfRange, base+".tick_size",
				"tick size must be positive, got %s", trimFloat(a.TickSize)))
		}
		if a.ContractSize <= 0 {
			diags = append(diags, errorf(CodeOutOfRange, base+".contract_size",
				"contract size must be positive, got %s", trimFloat(a.ContractSize)))
		}
		if a.MinOrderSize <= 0 {
			diags = append(diags, errorf(CodeOutOfRange, base+".min_order_size",
				"minimum order size must be positive, got %s", trimFloat(a.MinOrderSize)))
		}
		if a.Decimals < 0 {
			diags = append(diags, errorf(CodeOutOfRange, base+".decimals",
				"decimals must not be negative, got %d", a.Decimals))
		}
	}

	if enabled == 0 {
		diags = append(diags, errorf(CodeEmptyList, "instrument.supported_assets",
			"at least one supported asset must be enabled"))
	}
	return diags
}

func checkSettlementCurrencies(in *Input) []Diagnostic {
	if in.Config == nil {
		return nil
	}
	currencies := in.Config.Instrument.SettlementCurrencies
	var diags []Diagnostic

	if len(currencies) == 0 {
		return append(diags, errorf(CodeEmptyList, "instrument.settlement_currencies",
			"at least one settlement currency must be configured"))
	}

	enabled := 0
	var primaries []string
	for i, c := range currencies {
		base := fmt.Sprintf("instrument.settlement_currencies.%d", i)
		if strings.TrimSpace(c.Symbol) == "" {
			diags = append(diags, errorf(CodeMissingField, base+".symbol", "currency symbol is required"))
		}
		if c.Enabled {
			enabled++
			if c.Primary {
				primaries = append(primaries, c.Symbol)
			}
		}
	}

	if enabled == 0 {
		diags = append(diags, errorf(CodeEmptyList, "instrument.settlement_currencies",
			"at least one settlement currency must be enabled"))
	}

	switch len(primaries) {
	case 1:
	case 0:
		diags = append(diags, errorf(CodeMissingPrimary, "instrument.settlement_currencies",
			"exactly one enabled settlement currency must be marked primary, found none"))
	default:
		diags = append(diags, errorf(CodeMultiplePrimary, "instrument.settlement_currencies",
			"exactly one enabled settlement currency must be marked primary, found %d: %s",
			len(primaries), strings.Join(primaries, ", ")))
	}
	return diags
}

func checkMarketData(in *Input) []Diagnostic {
	if in.Config == nil {
		return nil
	}
	md := &in.Config.MarketData
	var diags []Diagnostic

	enabledProviders := 0
	for i, p := range md.Providers {
		base := fmt.Sprintf("market_data.providers.%d", i)
		if strings.TrimSpace(p.Name) == "" {
			diags = append(diags, errorf(CodeMissingField, base+".name", "provider name is required"))
		}
		if p.Enabled {
			enabledProviders++
			if strings.TrimSpace(p.Endpoint) == "" {
				diags = append(diags, errorf(CodeMissingField, base+".endpoint",
					"enabled provider %q needs an endpoint", p.Name))
			}
		}

		seen := make(map[string]bool, len(p.Streams))
		for j, s := range p.Streams {
			if seen[s] {
				diags = append(diags, errorf(CodeDuplicateStream,
					fmt.Sprintf("%s.streams.%d", base, j),
					"stream %q is listed more than once for provider %q", s, p.Name))
			}
			seen[s] = true
		}
	}

	hasEnabledAsset := false
	for _, a := range in.Config.Instrument.SupportedAssets {
		if a.Enabled {
			hasEnabledAsset = true
			break
		}
	}
	if hasEnabledAsset && enabledProviders == 0 {
		diags = append(diags, warnf(CodeNoMarketData, "market_data.providers",
			"assets are enabled but no market data provider is enabled"))
	}
	return diags
}

func checkExpirySchedule(in *Input) []Diagnostic {
	if in.Config == nil {
		return nil
	}
	var diags []Diagnostic

	for _, entry := range in.Config.ExpirySchedule.Cadences() {
		base := "expiry_schedule." + entry.Name
		if entry.Cadence == nil {
			diags = append(diags, errorf(CodeMissingCadence, base,
				"expiry cadence %q must be declared, even if disabled", entry.Name))
			continue
		}
		c := entry.Cadence
		if c.ExpiryTimeUTC == "" {
			diags = append(diags, errorf(CodeMissingField, base+".expiry_time_utc",
				"expiry time is required"))
		} else if !expiryTimePattern.MatchString(c.ExpiryTimeUTC) {
			diags = append(diags, errorf(CodeBadFormat, base+".expiry_time_utc",
				"invalid expiry time %q: must be HH:MM in 24-hour UTC", c.ExpiryTimeUTC))
		}
		if c.Enabled && c.Count < 1 {
			diags = append(diags, errorf(CodeOutOfRange, base+".count",
				"enabled cadence needs a count of at least 1, got %d", c.Count))
		}
	}
	return diags
}

func checkStorage(in *Input) []Diagnostic {
	if in.Config == nil {
		return nil
	}
	st := &in.Config.Storage
	var diags []Diagnostic

	switch st.Type {
	case "postgres":
		if st.Postgres == nil {
			return append(diags, errorf(CodeMissingField, "storage.postgres",
				"storage type is postgres but the postgres section is missing"))
		}
		diags = append(diags, checkCredential("storage.postgres.host", st.Postgres.Host)...)
		diags = append(diags, checkCredential("storage.postgres.database", st.Postgres.Database)...)
		diags = append(diags, checkCredential("storage.postgres.user", st.Postgres.User)...)
		diags = append(diags, checkCredential("storage.postgres.password", st.Postgres.Password)...)
	case "supabase":
		if st.Supabase == nil {
			return append(diags, errorf(CodeMissingField, "storage.supabase",
				"storage type is supabase but the supabase section is missing"))
		}
		diags = append(diags, checkCredential("storage.supabase.url", st.Supabase.URL)...)
		diags = append(diags, checkCredential("storage.supabase.anon_key", st.Supabase.AnonKey)...)
		diags = append(diags, checkCredential("storage.supabase.service_role_key", st.Supabase.ServiceRoleKey)...)
	case "":
		diags = append(diags, errorf(CodeMissingField, "storage.type", "storage type is required"))
	}
	return diags
}

// checkCredential flags connection fields that are empty or still carry
// an unresolved placeholder after substitution.
func checkCredential(path, value string) []Diagnostic {
	if strings.TrimSpace(value) == "" {
		return []Diagnostic{errorf(CodeIncompleteCredentials, path,
			"%s must be set for the selected storage backend", lastSegment(path))}
	}
	if strings.Contains(value, "${") {
		return []Diagnostic{errorf(CodeIncompleteCredentials, path,
			"%s still contains an unresolved placeholder", lastSegment(path))}
	}
	return nil
}

func checkOMS(in *Input) []Diagnostic {
	if in.Config == nil {
		return nil
	}
	oms := &in.Config.OMS
	var diags []Diagnostic

	if oms.OrderTypes.StopLimit {
		diags = append(diags, errorf(CodeUnsupportedFeature, "oms.order_types.stop_limit",
			"stop-limit orders are not supported yet"))
	}
	if oms.OrderTypes.StopMarket {
		diags = append(diags, errorf(CodeUnsupportedFeature, "oms.order_types.stop_market",
			"stop-market orders are not supported yet"))
	}
	if !oms.OrderTypes.Limit && !oms.OrderTypes.Market {
		diags = append(diags, warnf(CodeEmptyList, "oms.order_types",
			"no order types are enabled, the venue cannot accept orders"))
	}

	if oms.Limits.MinOrderSizeContracts < 0 {
		diags = append(diags, errorf(CodeOutOfRange, "oms.limits.min_order_size_contracts",
			"minimum order size must not be negative, got %s", trimFloat(oms.Limits.MinOrderSizeContracts)))
	}
	if oms.Limits.MaxOrderSizeContracts > 0 &&
		oms.Limits.MaxOrderSizeContracts < oms.Limits.MinOrderSizeContracts {
		diags = append(diags, errorf(CodeOutOfRange, "oms.limits.max_order_size_contracts",
			"maximum order size %s is below the minimum %s",
			trimFloat(oms.Limits.MaxOrderSizeContracts), trimFloat(oms.Limits.MinOrderSizeContracts)))
	}
	return diags
}

func checkMatchingEngine(in *Input) []Diagnostic {
	if in.Config == nil {
		return nil
	}
	store := &in.Config.MatchingEngine.OrderbookStore
	var diags []Diagnostic

	if store.Type == "redis" {
		if store.Redis == nil {
			return append(diags, errorf(CodeMissingField, "matching_engine.orderbook_store.redis",
				"orderbook store type is redis but the redis section is missing"))
		}
		diags = append(diags, checkCredential("matching_engine.orderbook_store.redis.host", store.Redis.Host)...)
	}
	return diags
}

func checkRiskEngine(in *Input) []Diagnostic {
	if in.Config == nil {
		return nil
	}
	re := &in.Config.RiskEngine
	var diags []Diagnostic

	initial := make(map[string]float64, len(re.InitialMargin))
	for i, m := range re.InitialMargin {
		path := fmt.Sprintf("risk_engine.initial_margin.%d.percentage", i)
		diags = append(diags, checkFraction(path, m.Percentage)...)
		initial[m.Symbol] = m.Percentage
	}
	for i, m := range re.MaintenanceMargin {
		path := fmt.Sprintf("risk_engine.maintenance_margin.%d.percentage", i)
		diags = append(diags, checkFraction(path, m.Percentage)...)
		if init, ok := initial[m.Symbol]; ok && m.Percentage >= init && init > 0 {
			diags = append(diags, warnf(CodeOutOfRange, path,
				"maintenance margin for %s is not below its initial margin", m.Symbol))
		}
	}

	return diags
}

// checkFraction enforces the closed interval [0, 1] for fields declared
// as fractions.
func checkFraction(path string, v float64) []Diagnostic {
	if v < 0 || v > 1 {
		return []Diagnostic{errorf(CodeOutOfRange, path,
			"fraction must be within [0, 1], got %s", trimFloat(v))}
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
