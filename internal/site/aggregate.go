package site

import "git.home.luguber.info/inful/blogsmith/internal/render"

// Aggregator accumulates per-post fragments for the index page and the
// feed. Both buffers are append-only and preserve collector order; there
// is no deduplication, re-ordering, or size limit.
type Aggregator struct {
	toc  []render.Fragment
	feed []render.Fragment
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record appends one TOC fragment and one feed fragment for a post.
// After n calls, len(Toc()) == len(Feed()) == n and element i corresponds
// to the i-th post in collector order.
func (a *Aggregator) Record(tocFragment, feedFragment render.Fragment) {
	a.toc = append(a.toc, tocFragment)
	a.feed = append(a.feed, feedFragment)
}

// Toc returns the ordered table-of-contents buffer.
func (a *Aggregator) Toc() []render.Fragment { return a.toc }

// Feed returns the ordered feed buffer.
func (a *Aggregator) Feed() []render.Fragment { return a.feed }

// Len returns the number of posts recorded.
func (a *Aggregator) Len() int { return len(a.toc) }
