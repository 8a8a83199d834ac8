// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package audit

import (
	"encoding/json"
	"fmt"

	"github.com/NaomiVK/page-speed-accessibility/pkg/types"
)

// Page is the normalized outcome for one URL and strategy: the overall
// accessibility score and the canonical audit records in upstream order.
type Page struct {
	Score  string
	Audits []types.AuditRecord
}

// Normalize parses a raw scoring response body into a Page. A body that is
// not JSON, or that lacks a lighthouse result, yields a malformed-response
// failure carrying the upstream message; missing optional fields never fail.
// The returned audit list is at most as long as the upstream reference
// list: references whose audit object is absent are skipped (R2.3).
func Normalize(body []byte) (Page, *types.Failure) {
	var resp psiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Page{}, types.MalformedFailure(fmt.Sprintf("Error: Unexpected API Response Structure (%v)", err))
	}

	if resp.LighthouseResult == nil {
		message := "No lighthouseResult in API response."
		if resp.Error != nil && resp.Error.Message != "" {
			message = resp.Error.Message
		}
		return Page{}, types.MalformedFailure("API Error: " + message)
	}

	accessibility := resp.LighthouseResult.Categories.Accessibility

	page := Page{Score: FormatScore(accessibility.Score)}

	for _, ref := range accessibility.AuditRefs {
		raw, ok := resp.LighthouseResult.Audits[ref.ID]
		if !ok {
			continue
		}

		record := types.AuditRecord{
			ID:          ref.ID,
			Title:       defaultNA(raw.Title),
			Description: defaultNA(raw.Description),
			Score:       raw.Score,
			DisplayMode: raw.ScoreDisplayMode,
			Category:    Classify(raw.Score, raw.ScoreDisplayMode),
			Snippet:     extractSnippet(raw.Details),
		}
		page.Audits = append(page.Audits, record)
	}

	return page, nil
}

// FormatScore renders a raw 0.0-1.0 score as an integer percentage string,
// truncating rather than rounding (0.876 -> "87%"). An absent score renders
// as "N/A" (R2.2).
func FormatScore(raw *float64) string {
	if raw == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d%%", int(*raw*100))
}

// extractSnippet returns the HTML snippet of the first details item,
// preferring the nested node snippet, or the NoSnippet sentinel when the
// audit carries no example element.
func extractSnippet(details *auditDetails) string {
	if details == nil || len(details.Items) == 0 {
		return types.NoSnippet
	}
	item := details.Items[0]
	if item.Node != nil && item.Node.Snippet != "" {
		return item.Node.Snippet
	}
	if item.Snippet != "" {
		return item.Snippet
	}
	return types.NoSnippet
}

func defaultNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Scoring API JSON structures.
type psiResponse struct {
	LighthouseResult *lighthouseResult `json:"lighthouseResult"`
	Error            *responseError    `json:"error"`
}

type responseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lighthouseResult struct {
	Categories lighthouseCategories   `json:"categories"`
	Audits     map[string]auditResult `json:"audits"`
}

type lighthouseCategories struct {
	Accessibility accessibilityCategory `json:"accessibility"`
}

type accessibilityCategory struct {
	Score     *float64   `json:"score"`
	AuditRefs []auditRef `json:"auditRefs"`
}

type auditRef struct {
	ID string `json:"id"`
}

type auditResult struct {
	Score            *float64      `json:"score"`
	ScoreDisplayMode string        `json:"scoreDisplayMode"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Details          *auditDetails `json:"details"`
}

type auditDetails struct {
	Items []auditItem `json:"items"`
}

type auditItem struct {
	Snippet string     `json:"snippet"`
	Node    *auditNode `json:"node"`
}

type auditNode struct {
	Snippet string `json:"snippet"`
}
