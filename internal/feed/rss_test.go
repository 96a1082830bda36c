package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEnvelopeSkeleton(t *testing.T) {
	var buf strings.Builder
	ch := Channel{Title: "Essays", Link: "https://blog.example.com", Description: "Essays"}
	items := []string{"    <item><title>B</title></item>\n", "    <item><title>A</title></item>\n"}

	require.NoError(t, WriteEnvelope(&buf, ch, items))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<rss version="2.0">`)
	assert.Contains(t, out, "<title>Essays</title>")
	assert.Contains(t, out, "<link>https://blog.example.com</link>")
	assert.Contains(t, out, "<description>Essays</description>")
	assert.True(t, strings.HasSuffix(out, "</channel>\n</rss>\n"))

	// Items appear in the order given, B before A.
	assert.Less(t, strings.Index(out, "<title>B</title>"), strings.Index(out, "<title>A</title>"))
}

func TestWriteEnvelopeEscapesChannelFields(t *testing.T) {
	var buf strings.Builder
	ch := Channel{Title: "Tips & Tricks <draft>", Link: "https://x.test"}

	require.NoError(t, WriteEnvelope(&buf, ch, nil))
	assert.Contains(t, buf.String(), "<title>Tips &amp; Tricks &lt;draft&gt;</title>")
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "a &amp;&amp; b &lt;c&gt; &quot;d&quot; &apos;e&apos;", EscapeXML(`a && b <c> "d" 'e'`))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "A gentle tour of monads.", StripTags("<p>A gentle tour of <em>monads</em>.</p>"))
	assert.Equal(t, "plain", StripTags("plain"))
	assert.Equal(t, "", StripTags("<p></p>"))
}
