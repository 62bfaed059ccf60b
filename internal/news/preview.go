package news

import (
	"html"
	"regexp"
	"strings"
)

// DefaultPreviewLimit matches the card layout on the news page.
const DefaultPreviewLimit = 380

var (
	tagPattern   = regexp.MustCompile(`<[^>]+>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Preview strips markup, unescapes entities, collapses whitespace, and cuts
// the text at the last word boundary before limit, appending an ellipsis.
// Text at or under the limit passes through unchanged.
func Preview(text string, limit int) string {
	s := tagPattern.ReplaceAllString(text, " ")
	s = html.UnescapeString(s)
	s = strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
