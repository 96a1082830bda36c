// Package feed emits the RSS 2.0 feed envelope.
//
// Item fragments are produced by the renderer; this package only wraps the
// ordered sequence in the fixed channel skeleton and provides the text
// helpers feed entries need (XML escaping, HTML tag stripping).
package feed

import (
	"fmt"
	"io"
	"strings"
)

// Channel holds the feed-level fields of the RSS envelope.
type Channel struct {
	Title       string
	Link        string
	Description string
}

// WriteEnvelope writes the complete rss.xml document: the fixed RSS 2.0
// skeleton around the already-rendered item fragments, in the order given.
func WriteEnvelope(w io.Writer, ch Channel, items []string) error {
	if _, err := fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>%s</title>
    <link>%s</link>
    <description>%s</description>
`, EscapeXML(ch.Title), EscapeXML(ch.Link), EscapeXML(ch.Description)); err != nil {
		return err
	}
	for _, item := range items {
		if _, err := io.WriteString(w, item); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "  </channel>\n</rss>\n")
	return err
}

// xmlReplacer escapes the five XML special characters for element content.
var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML escapes s for use as XML element content.
func EscapeXML(s string) string { return xmlReplacer.Replace(s) }
