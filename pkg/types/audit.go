// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Strategy is the device profile the scoring engine uses to render a page.
// Per prd002-scoring R1.3.
type Strategy string

const (
	StrategyDesktop Strategy = "desktop"
	StrategyMobile  Strategy = "mobile"
)

// Label returns the capitalized form used in column headings
// (e.g. "Overall Score (Desktop)").
func (s Strategy) Label() string {
	switch s {
	case StrategyDesktop:
		return "Desktop"
	case StrategyMobile:
		return "Mobile"
	default:
		return string(s)
	}
}

// ParseStrategy validates a single strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyDesktop, StrategyMobile:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown strategy %q: use desktop or mobile", s)
}

// ParseStrategies expands a strategy flag value into the ordered list of
// strategies a batch run covers. "both" expands to desktop then mobile;
// that order is a guarantee, not an accident of iteration.
// Per prd003-batch R2.2.
func ParseStrategies(s string) ([]Strategy, error) {
	switch s {
	case "desktop":
		return []Strategy{StrategyDesktop}, nil
	case "mobile":
		return []Strategy{StrategyMobile}, nil
	case "both":
		return []Strategy{StrategyDesktop, StrategyMobile}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q: use desktop, mobile, or both", s)
}

// AuditCategory is the four-way classification of an audit outcome, derived
// from the raw score and display mode. Per prd002-scoring R3.1-R3.5.
type AuditCategory string

const (
	CategoryFailed        AuditCategory = "failed"
	CategoryManualCheck   AuditCategory = "manual_check"
	CategoryPassed        AuditCategory = "passed"
	CategoryNotApplicable AuditCategory = "not_applicable"
	CategoryOther         AuditCategory = "other"
)

// NoSnippet is the sentinel stored when an audit carries no illustrative
// HTML snippet. The leading space is part of the sentinel.
const NoSnippet = " (No specific item snippet)"

// AuditRecord is one accessibility check result for one URL and strategy.
// Records are created once by the normalizer and read-only afterwards.
// Per prd002-scoring R2.4.
type AuditRecord struct {
	// ID is the upstream audit identifier (e.g. "color-contrast").
	ID string `json:"id" yaml:"id"`

	// Title is the human-readable audit name.
	Title string `json:"title" yaml:"title"`

	// Description explains what the audit checks and why it matters.
	Description string `json:"description" yaml:"description"`

	// Score is the raw audit score: 0, 1, or absent.
	Score *float64 `json:"score,omitempty" yaml:"score,omitempty"`

	// DisplayMode is the upstream result hint: binary, manual, informative,
	// or notApplicable.
	DisplayMode string `json:"display_mode" yaml:"display_mode"`

	// Category is derived from Score and DisplayMode, never set independently.
	Category AuditCategory `json:"category" yaml:"category"`

	// Snippet is at most one example HTML element exhibiting the issue,
	// or the NoSnippet sentinel.
	Snippet string `json:"snippet" yaml:"snippet"`
}

// HasSnippet reports whether the record carries a real HTML snippet rather
// than the placeholder sentinel.
func (a AuditRecord) HasSnippet() bool {
	return a.Snippet != "" && a.Snippet != NoSnippet
}
