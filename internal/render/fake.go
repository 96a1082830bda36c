package render

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/blogsmith/internal/posts"
)

// Fake is a canned-fragment Renderer for pipeline tests. It records the
// slugs it was asked to render, in call order, so ordering tests don't
// depend on real Markdown rendering.
type Fake struct {
	PageCalls    []string
	SnippetCalls []string

	// FailOn, when non-empty, makes any render of the post with that slug
	// fail, simulating a malformed document.
	FailOn string

	// SleepFor delays page renders per slug, letting concurrency tests
	// force out-of-order completion.
	SleepFor map[string]time.Duration

	mu sync.Mutex
}

// NewFake returns a Fake renderer.
func NewFake() *Fake { return &Fake{} }

func (f *Fake) fail(post *posts.Post) error {
	if f.FailOn != "" && post.Slug == f.FailOn {
		return fmt.Errorf("%w: %s", ErrMalformedDocument, post.RelPath)
	}
	return nil
}

func (f *Fake) RenderPage(post *posts.Post) (Fragment, error) {
	if err := f.fail(post); err != nil {
		return "", err
	}
	if d, ok := f.SleepFor[post.Slug]; ok {
		time.Sleep(d)
	}
	f.mu.Lock()
	f.PageCalls = append(f.PageCalls, post.Slug)
	f.mu.Unlock()
	return Fragment("page:" + post.Slug + "\n"), nil
}

func (f *Fake) RenderSnippet(post *posts.Post, template string, vars Vars) (Fragment, error) {
	if err := f.fail(post); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.SnippetCalls = append(f.SnippetCalls, template+":"+post.Slug)
	f.mu.Unlock()
	return Fragment(template + ":" + post.Slug + ":" + vars["url"] + "\n"), nil
}

func (f *Fake) RenderCollection(fragments []Fragment, wrapper string, vars Vars) (Fragment, error) {
	parts := make([]string, len(fragments))
	for i, frag := range fragments {
		parts[i] = string(frag)
	}
	return Fragment(wrapper + "[\n" + strings.Join(parts, "") + "]\n"), nil
}
