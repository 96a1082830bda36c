package feed

import (
	"strings"

	"golang.org/x/net/html"
)

// StripTags reduces an HTML fragment to its text content, collapsing runs
// of whitespace. Used to turn rendered abstracts into the plain text RSS
// descriptions expect.
func StripTags(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var text strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(text.String()), " ")
		case html.TextToken:
			text.Write(tokenizer.Text())
		}
	}
}
