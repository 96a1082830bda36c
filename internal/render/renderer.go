// Package render turns post sources into HTML fragments.
//
// The pipeline only depends on the Renderer interface; the production
// implementation (Goldmark) lives alongside a Fake used by pipeline tests,
// so ordering and emission logic can be tested without real rendering.
package render

import (
	"errors"

	"git.home.luguber.info/inful/blogsmith/internal/posts"
)

// Fragment is an opaque rendered piece of output (HTML or plain text).
type Fragment string

// Vars is the variable map passed to snippet and collection templates.
// Recognized keys are a convention between caller and template ("url",
// "title"), not validated here.
type Vars map[string]string

// Template names understood by the production renderer.
const (
	SnippetTocEntry  = "toc_entry"
	SnippetFeedEntry = "feed_entry"
	WrapperIndex     = "index"
)

var (
	// ErrMalformedDocument indicates a post whose frontmatter or body could
	// not be parsed. Fatal for the whole build.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrUnknownTemplate indicates a snippet or wrapper template name the
	// renderer does not provide.
	ErrUnknownTemplate = errors.New("unknown template")
)

// Renderer produces output fragments for posts.
type Renderer interface {
	// RenderPage renders a full standalone page (including navigation
	// chrome) for a single post.
	RenderPage(post *posts.Post) (Fragment, error)
	// RenderSnippet renders a named small fragment (TOC entry, feed entry)
	// from the post's metadata, without the document body.
	RenderSnippet(post *posts.Post, template string, vars Vars) (Fragment, error)
	// RenderCollection wraps an ordered sequence of fragments with a
	// header/footer template to produce a full document.
	RenderCollection(fragments []Fragment, wrapper string, vars Vars) (Fragment, error)
}
