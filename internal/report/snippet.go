// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ElementSummary condenses an HTML snippet to the shape of its first
// element: tag#id.class1.class2. Snippets that do not parse, or contain
// no element, come back empty so callers can fall back to the raw text.
func ElementSummary(snippet string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
	if err != nil {
		return ""
	}

	sel := doc.Find("body *").First()
	if sel.Length() == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(goquery.NodeName(sel))

	if id, ok := sel.Attr("id"); ok && id != "" {
		b.WriteString("#")
		b.WriteString(id)
	}
	if class, ok := sel.Attr("class"); ok {
		for _, c := range strings.Fields(class) {
			b.WriteString(".")
			b.WriteString(c)
		}
	}
	return b.String()
}
