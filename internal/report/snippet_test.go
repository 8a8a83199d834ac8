// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import "testing"

func TestElementSummary(t *testing.T) {
	tests := []struct {
		name    string
		snippet string
		want    string
	}{
		{"tag only", "<div>", "div"},
		{"tag with id", `<button id="submit">Go</button>`, "button#submit"},
		{"tag with classes", `<img src="x.png" class="promo hero">`, "img.promo.hero"},
		{"id and classes", `<nav id="main" class="top sticky">`, "nav#main.top.sticky"},
		{"first element wins", `<div class="wrap"><span id="inner">x</span></div>`, "div.wrap"},
		{"empty id ignored", `<p id="">text</p>`, "p"},
		{"extra class whitespace", `<a class="  one   two ">x</a>`, "a.one.two"},
		{"plain text", "no markup here", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ElementSummary(tt.snippet); got != tt.want {
				t.Errorf("ElementSummary(%q) = %q, want %q", tt.snippet, got, tt.want)
			}
		})
	}
}
