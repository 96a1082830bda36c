package render

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"path"
	texttemplate "text/template"
	"time"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/blogsmith/internal/feed"
	"git.home.luguber.info/inful/blogsmith/internal/frontmatter"
	"git.home.luguber.info/inful/blogsmith/internal/posts"
)

// SiteMeta is the site-wide template context shared by all pages.
type SiteMeta struct {
	Title       string
	BaseURL     string
	Description string
	Author      string
}

// Goldmark is the production Renderer: goldmark for Markdown bodies,
// chroma for fenced-code highlighting, html/template for page chrome.
type Goldmark struct {
	md        goldmark.Markdown
	page      *htmltemplate.Template
	tocEntry  *htmltemplate.Template
	index     *htmltemplate.Template
	feedEntry *texttemplate.Template
	site      SiteMeta
}

// NewGoldmark constructs the renderer and compiles all built-in templates.
func NewGoldmark(site SiteMeta) (*Goldmark, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.Typographer,
			highlighting.NewHighlighting(
				highlighting.WithStyle("friendly"),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	g := &Goldmark{md: md, site: site}

	var err error
	if g.page, err = htmltemplate.New("page").Parse(pageTemplate); err != nil {
		return nil, fmt.Errorf("compile page template: %w", err)
	}
	if g.tocEntry, err = htmltemplate.New(SnippetTocEntry).Parse(tocEntryTemplate); err != nil {
		return nil, fmt.Errorf("compile toc template: %w", err)
	}
	if g.index, err = htmltemplate.New(WrapperIndex).Parse(indexTemplate); err != nil {
		return nil, fmt.Errorf("compile index template: %w", err)
	}
	g.feedEntry, err = texttemplate.New(SnippetFeedEntry).
		Funcs(texttemplate.FuncMap{"xml": feed.EscapeXML}).
		Parse(feedEntryTemplate)
	if err != nil {
		return nil, fmt.Errorf("compile feed entry template: %w", err)
	}
	return g, nil
}

// parse loads and strictly parses a post; any frontmatter failure is a
// malformed-document error carrying the post path.
func (g *Goldmark) parse(post *posts.Post) (frontmatter.Meta, []byte, error) {
	if err := post.Load(); err != nil {
		return frontmatter.Meta{}, nil, err
	}
	meta, body, err := frontmatter.Parse(post.Content)
	if err != nil {
		return frontmatter.Meta{}, nil, fmt.Errorf("%w: %s: %w", ErrMalformedDocument, post.RelPath, err)
	}
	if meta.Title == "" {
		meta.Title = path.Base(post.Slug)
	}
	return meta, body, nil
}

// RenderPage renders a full standalone HTML page for one post.
func (g *Goldmark) RenderPage(post *posts.Post) (Fragment, error) {
	meta, body, err := g.parse(post)
	if err != nil {
		return "", err
	}

	var bodyHTML bytes.Buffer
	if err := g.md.Convert(body, &bodyHTML); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrMalformedDocument, post.RelPath, err)
	}

	data := struct {
		Site  SiteMeta
		Title string
		Date  string
		Tags  []string
		Body  htmltemplate.HTML
	}{
		Site:  g.site,
		Title: meta.Title,
		Date:  meta.Date,
		Tags:  meta.Tags,
		Body:  htmltemplate.HTML(bodyHTML.String()),
	}

	var out bytes.Buffer
	if err := g.page.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render page %s: %w", post.RelPath, err)
	}
	return Fragment(out.String()), nil
}

// RenderSnippet renders a TOC or feed entry from post metadata only.
func (g *Goldmark) RenderSnippet(post *posts.Post, template string, vars Vars) (Fragment, error) {
	meta, _, err := g.parse(post)
	if err != nil {
		return "", err
	}

	switch template {
	case SnippetTocEntry:
		data := struct {
			Title, Date, URL, Abstract string
		}{meta.Title, meta.Date, vars["url"], meta.Abstract}
		var out bytes.Buffer
		if err := g.tocEntry.Execute(&out, data); err != nil {
			return "", fmt.Errorf("render toc entry %s: %w", post.RelPath, err)
		}
		return Fragment(out.String()), nil

	case SnippetFeedEntry:
		data := struct {
			Title, URL, PubDate, Description string
		}{
			Title:       meta.Title,
			URL:         vars["url"],
			PubDate:     feedDate(meta),
			Description: g.abstractText(meta),
		}
		var out bytes.Buffer
		if err := g.feedEntry.Execute(&out, data); err != nil {
			return "", fmt.Errorf("render feed entry %s: %w", post.RelPath, err)
		}
		return Fragment(out.String()), nil

	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, template)
	}
}

// RenderCollection wraps ordered fragments with a header/footer template.
func (g *Goldmark) RenderCollection(fragments []Fragment, wrapper string, vars Vars) (Fragment, error) {
	if wrapper != WrapperIndex {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, wrapper)
	}

	entries := make([]htmltemplate.HTML, len(fragments))
	for i, f := range fragments {
		entries[i] = htmltemplate.HTML(f)
	}
	data := struct {
		Site    SiteMeta
		Title   string
		Entries []htmltemplate.HTML
	}{
		Site:    g.site,
		Title:   vars["title"],
		Entries: entries,
	}
	if data.Title == "" {
		data.Title = g.site.Title
	}

	var out bytes.Buffer
	if err := g.index.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render collection %s: %w", wrapper, err)
	}
	return Fragment(out.String()), nil
}

// abstractText renders the frontmatter abstract through Markdown and strips
// tags, yielding the plain text RSS descriptions want.
func (g *Goldmark) abstractText(meta frontmatter.Meta) string {
	if meta.Abstract == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(meta.Abstract), &buf); err != nil {
		return meta.Abstract
	}
	return feed.StripTags(buf.String())
}

// feedDate formats the frontmatter date in the RFC 1123 shape RSS readers
// expect. Empty when the post has no parseable date; never derived from
// the clock, keeping builds reproducible.
func feedDate(meta frontmatter.Meta) string {
	d, ok := meta.ParsedDate()
	if !ok {
		return ""
	}
	return d.Format(time.RFC1123Z)
}
