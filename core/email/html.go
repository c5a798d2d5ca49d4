package email

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// Go's regexp has no backreferences, so an opening tag may pair with any
	// closing tag of the set. The leftover closing tag is stripped later.
	invisibleBlockRegex = regexp.MustCompile(`(?is)<(?:head|title|style|script)\b[^>]*>.*?</(?:head|title|style|script)\s*>`)
	lineBreakRegex      = regexp.MustCompile(`(?i)<br\s*/?>|</(?:p|div|li|tr|h[1-6]|ul|ol|table|blockquote)\s*>`)
	blankLinesRegex     = regexp.MustCompile(`\n{3,}`)

	textPolicy = bluemonday.StrictPolicy()
)

// HTMLToText derives the plain-text alternative of an HTML body.
// It drops head, title, style and script blocks, turns block ends into line
// breaks, strips every remaining tag and decodes entities.
func HTMLToText(s string) string {
	s = invisibleBlockRegex.ReplaceAllString(s, "")
	s = lineBreakRegex.ReplaceAllString(s, "\n")
	s = html.UnescapeString(textPolicy.Sanitize(s))

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankLinesRegex.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
