// Package report renders batch results: the per-URL summary table, the
// grouped per-page detail view, and the CSV/YAML exports.
// Implements: prd006-reporting (R1-R5);
//
//	docs/ARCHITECTURE § Reporting.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/NaomiVK/page-speed-accessibility/internal/batch"
	"github.com/NaomiVK/page-speed-accessibility/pkg/types"
)

const (
	urlColWidth   = 50
	scoreColWidth = 45
)

// ScoreColumn names a strategy's score column, e.g. "Overall Score (Desktop)".
func ScoreColumn(strategy types.Strategy) string {
	return fmt.Sprintf("Overall Score (%s)", strategy.Label())
}

// AdviceColumn names a strategy's advisory column, e.g. "Advice (Desktop)".
func AdviceColumn(strategy types.Strategy) string {
	return fmt.Sprintf("Advice (%s)", strategy.Label())
}

// Summary writes the per-URL score table. Failure messages appear in the
// score cell of the URL and strategy they concern (R1.2); a pair that was
// never scored shows "-".
func Summary(store *batch.Store, strategies []types.Strategy, w io.Writer) {
	urls := store.URLs()
	if len(urls) == 0 {
		fmt.Fprintln(w, "No results recorded.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-*s", "Idx", urlColWidth, "urls")
	for _, strategy := range strategies {
		fmt.Fprintf(w, "  %-*s", scoreColWidth, ScoreColumn(strategy))
	}
	fmt.Fprintln(w)

	width := 4 + 2 + urlColWidth + len(strategies)*(2+scoreColWidth)
	fmt.Fprintln(w, strings.Repeat("-", width))

	for i, u := range urls {
		fmt.Fprintf(w, "%-4d  %-*s", i, urlColWidth, truncate(u, urlColWidth))
		for _, strategy := range strategies {
			cell := "-"
			if result, ok := store.Get(i, strategy); ok {
				cell = result.Display()
			}
			fmt.Fprintf(w, "  %-*s", scoreColWidth, truncate(cell, scoreColWidth))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\n%d URLs audited\n", len(urls))
}

// Stats holds the detail-view counters. Only the four reported categories
// participate; informative audits outside them are not counted.
type Stats struct {
	Total         int
	Failed        int
	ManualChecks  int
	Passed        int
	NotApplicable int
}

// PassRate returns the automated pass rate as a truncated integer
// percentage, 0 when nothing was counted.
func (s Stats) PassRate() int {
	if s.Total == 0 {
		return 0
	}
	return int(float64(s.Passed) / float64(s.Total) * 100)
}

// ComputeStats tallies audits by category.
func ComputeStats(audits []types.AuditRecord) Stats {
	var s Stats
	for _, a := range audits {
		switch a.Category {
		case types.CategoryFailed:
			s.Failed++
		case types.CategoryManualCheck:
			s.ManualChecks++
		case types.CategoryPassed:
			s.Passed++
		case types.CategoryNotApplicable:
			s.NotApplicable++
		default:
			continue
		}
		s.Total++
	}
	return s
}

// Detail writes the grouped audit report for one page. A failure variant
// renders the recorded error instead of audit sections (R2.4).
func Detail(url string, strategy types.Strategy, result types.ScoringResult, w io.Writer) {
	fmt.Fprintf(w, "Details for: %s (%s)\n", url, strategy.Label())

	if result.Failed() {
		fmt.Fprintf(w, "\nCould not retrieve details due to a previous error: %s\n", result.Failure.Message)
		return
	}
	if len(result.Audits) == 0 {
		fmt.Fprintln(w, "\nNo accessibility audits were found for this URL.")
		return
	}

	stats := ComputeStats(result.Audits)
	fmt.Fprintf(w, "\nOverall score: %s\n", result.Score)
	fmt.Fprintf(w, "Total audits: %d\n", stats.Total)
	fmt.Fprintf(w, "Automated pass rate: %d%%\n", stats.PassRate())
	fmt.Fprintf(w, "Issues to fix: %d\n", stats.Failed)
	fmt.Fprintf(w, "Manual checks needed: %d\n", stats.ManualChecks)

	writeSection(w, result.Audits, types.CategoryFailed,
		"Failed Audits",
		"These are accessibility issues automatically detected that must be fixed:",
		writeFailedAudit)
	writeSection(w, result.Audits, types.CategoryManualCheck,
		"Requires Manual Verification",
		"These audits cannot be automatically verified and require human testing:",
		writeManualAudit)
	writeSection(w, result.Audits, types.CategoryPassed,
		"Passed Audits",
		"These accessibility requirements have been successfully met according to automated testing:",
		writeCompactAudit)
	writeSection(w, result.Audits, types.CategoryNotApplicable,
		"Not Applicable Audits",
		"These audits don't apply to the current page, often because the page doesn't contain the relevant elements:",
		writeCompactAudit)
}

// writeSection renders one category's audits in upstream order, skipping
// the section entirely when the category is empty.
func writeSection(w io.Writer, audits []types.AuditRecord, category types.AuditCategory, title, intro string, render func(io.Writer, types.AuditRecord)) {
	first := true
	for _, a := range audits {
		if a.Category != category {
			continue
		}
		if first {
			fmt.Fprintf(w, "\n%s\n%s\n", title, intro)
			first = false
		}
		render(w, a)
	}
}

func writeFailedAudit(w io.Writer, a types.AuditRecord) {
	fmt.Fprintf(w, "- %s (ID: %s)\n  %s\n", a.Title, a.ID, a.Description)
	writeSnippet(w, a)
}

func writeManualAudit(w io.Writer, a types.AuditRecord) {
	fmt.Fprintf(w, "- %s (ID: %s) - %s\n  %s\n", a.Title, a.ID, a.DisplayMode, a.Description)
	if tip, ok := Tip(a.ID); ok {
		fmt.Fprintf(w, "  How to test: %s\n", tip)
	}
	writeSnippet(w, a)
}

func writeCompactAudit(w io.Writer, a types.AuditRecord) {
	fmt.Fprintf(w, "- %s (ID: %s)\n", a.Title, a.ID)
}

func writeSnippet(w io.Writer, a types.AuditRecord) {
	if !a.HasSnippet() {
		return
	}
	if element := ElementSummary(a.Snippet); element != "" {
		fmt.Fprintf(w, "  Example snippet [%s]: %s\n", element, a.Snippet)
		return
	}
	fmt.Fprintf(w, "  Example snippet: %s\n", a.Snippet)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
