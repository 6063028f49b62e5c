package pipeline

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// PlainText returns the text content of an HTML fragment: every tag is
// removed and entities are decoded. Adjacent elements are joined with no
// separator, the same way a DOM's textContent reads.
func PlainText(fragment string) string {
	if !strings.Contains(fragment, "<") && !strings.Contains(fragment, "&") {
		return fragment
	}
	return html.UnescapeString(bluemonday.StrictPolicy().Sanitize(fragment))
}
