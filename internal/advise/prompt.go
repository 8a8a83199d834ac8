// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package advise

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/NaomiVK/page-speed-accessibility/pkg/types"
)

// advicePromptTmpl is the prompt sent to the LLM for one page's failed
// audits. It asks for a plain-language explanation and prioritized fixes.
// Per prd005-advice R2.1.
var advicePromptTmpl = template.Must(template.New("advice").Parse(`You are a web accessibility consultant. The page {{.Label}} failed the automated accessibility audits listed below.

For each failed audit, explain the problem in plain language that a non-developer can follow, then give a prioritized list of concrete fixes, most impactful first. Where an HTML snippet is included, refer to it in your explanation.

Failed audits:
{{.Audits}}`))

// Label names a page for the prompt: the raw URL plus the device profile
// it was scored under.
func Label(url string, strategy types.Strategy) string {
	return fmt.Sprintf("%s (%s)", url, strategy.Label())
}

// BuildPrompt renders the advice prompt for the failed audits in order.
// The rendering is deterministic: one numbered entry per audit carrying
// title, description, and the snippet when one exists (R2.2). No cap is
// applied to the audit count (R2.3).
func BuildPrompt(failed []types.AuditRecord, label string) (string, error) {
	var list strings.Builder
	for i, a := range failed {
		fmt.Fprintf(&list, "%d. %s\n   %s\n", i+1, a.Title, a.Description)
		if a.HasSnippet() {
			fmt.Fprintf(&list, "   Snippet: %s\n", strings.TrimSpace(a.Snippet))
		}
	}

	var buf bytes.Buffer
	err := advicePromptTmpl.Execute(&buf, struct {
		Label  string
		Audits string
	}{Label: label, Audits: strings.TrimRight(list.String(), "\n")})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}
