// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

// manualTestingTips maps audit IDs to hands-on verification guidance shown
// alongside audits that automation cannot settle.
var manualTestingTips = map[string]string{
	"keyboard-navigation":         "Test by navigating the entire page using only Tab, Shift+Tab, Enter, and arrow keys.",
	"logical-tab-order":           "Verify that tabbing through the page follows a logical sequence matching visual layout.",
	"focus-traps":                 "Check that keyboard focus isn't trapped in any component without a way to exit.",
	"color-contrast":              "Verify text is readable against its background for users with low vision or color blindness.",
	"document-title":              "Ensure the page title accurately describes the page content for screen reader users.",
	"aria-allowed-attr":           "Test with screen readers to ensure ARIA attributes convey the correct information.",
	"aria-hidden-body":            "Verify that screen readers can access the page content.",
	"aria-hidden-focus":           "Check that no focusable elements are within aria-hidden elements.",
	"aria-input-field-name":       "Test with screen readers to ensure input fields are properly labeled.",
	"aria-toggle-field-name":      "Verify toggle controls have accessible names that describe their purpose.",
	"form-field-multiple-labels":  "Check that form fields don't have conflicting labels that confuse screen readers.",
	"heading-order":               "Verify headings follow a logical hierarchical structure (h1, then h2, etc.).",
	"duplicate-id-aria":           "Check that ARIA references point to the correct unique elements.",
	"meta-viewport":               "Test zooming and scaling on mobile devices to ensure content remains accessible.",
}

// Tip returns the manual-testing tip for an audit ID, if one exists.
func Tip(auditID string) (string, bool) {
	tip, ok := manualTestingTips[auditID]
	return tip, ok
}
