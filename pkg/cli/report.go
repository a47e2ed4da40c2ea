package cli

import (
	"fmt"
	"strings"

	"openx-hq/openx/pkg/config"
)

// ReportView renders a validation report for terminal, JSON, and CSV
// output.
type ReportView struct {
	// File is the path of the validated document.
	File string `json:"file"`

	// Valid is true when the report carries no errors.
	Valid bool `json:"valid"`

	// Report is the underlying pipeline report.
	Report *config.Report `json:"report"`

	// Summary describes the validated exchange. Present only for
	// error-free runs where the resolved configuration is available.
	Summary *ReportSummary `json:"summary,omitempty"`
}

// ReportSummary is the success-path digest of the validated document.
type ReportSummary struct {
	Exchange   string `json:"exchange"`
	Version    string `json:"version"`
	Mode       string `json:"mode"`
	Assets     int    `json:"assets"`
	Currencies int    `json:"currencies"`
	Providers  int    `json:"providers"`
}

// NewReportView builds a view over a pipeline report.
func NewReportView(file string, report *config.Report) *ReportView {
	return &ReportView{
		File:   file,
		Valid:  !report.HasErrors(),
		Report: report,
	}
}

// WithConfig attaches a summary built from the resolved configuration.
func (v *ReportView) WithConfig(cfg *config.Config) *ReportView {
	if cfg == nil {
		return v
	}
	v.Summary = &ReportSummary{
		Exchange:   cfg.Exchange.Name,
		Version:    cfg.Exchange.Version,
		Mode:       cfg.Exchange.Mode,
		Assets:     len(cfg.Instrument.SupportedAssets),
		Currencies: len(cfg.Instrument.SettlementCurrencies),
		Providers:  len(cfg.MarketData.Providers),
	}
	return v
}

// String renders the report for the terminal: defaults first, then
// warnings, then errors, then a one-line summary.
func (v *ReportView) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Configuration Validation Report\n")
	fmt.Fprintf(&b, "  File: %s\n", v.File)

	if defaults := v.Report.Defaults(); len(defaults) > 0 {
		fmt.Fprintf(&b, "\nDefaults Applied (%d):\n", len(defaults))
		for _, d := range defaults {
			fmt.Fprintf(&b, "  - %s: %s\n", d.Path, d.Message)
		}
	}

	if warnings := v.Report.Warnings(); len(warnings) > 0 {
		fmt.Fprintf(&b, "\nWarnings (%d):\n", len(warnings))
		for _, d := range warnings {
			b.WriteString(formatDiagnostic(d))
		}
	}

	if errors := v.Report.Errors(); len(errors) > 0 {
		fmt.Fprintf(&b, "\nErrors (%d):\n", len(errors))
		for _, d := range errors {
			b.WriteString(formatDiagnostic(d))
		}
	}

	if v.Summary != nil {
		fmt.Fprintf(&b, "\nExchange: %s (v%s, %s mode)\n", v.Summary.Exchange, v.Summary.Version, v.Summary.Mode)
		fmt.Fprintf(&b, "  %d assets, %d settlement currencies, %d market data providers\n",
			v.Summary.Assets, v.Summary.Currencies, v.Summary.Providers)
	}

	b.WriteString("\n")
	if v.Valid {
		fmt.Fprintf(&b, "Result: valid (%d warnings, %d defaults applied)",
			len(v.Report.Warnings()), len(v.Report.Defaults()))
	} else {
		fmt.Fprintf(&b, "Result: invalid (%d errors, %d warnings)",
			len(v.Report.Errors()), len(v.Report.Warnings()))
	}
	return b.String()
}

func formatDiagnostic(d config.Diagnostic) string {
	if d.Path == "" {
		return fmt.Sprintf("  - [%s] %s\n", d.Code, d.Message)
	}
	return fmt.Sprintf("  - [%s] %s: %s\n", d.Code, d.Path, d.Message)
}

// Headers implements Tabular.
func (v *ReportView) Headers() []string {
	return []string{"severity", "code", "path", "message"}
}

// Rows implements Tabular, one row per diagnostic in report order.
func (v *ReportView) Rows() [][]string {
	rows := make([][]string, 0, len(v.Report.Diagnostics))
	for _, d := range v.Report.Diagnostics {
		rows = append(rows, []string{d.Severity.String(), d.Code, d.Path, d.Message})
	}
	return rows
}
