// Package site implements the build pipeline: collect posts, render them,
// aggregate index and feed fragments in collector order, emit the final
// artifacts. One linear forward pass; the first fatal error aborts the run
// and artifacts already written stay on disk.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/feed"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/metrics"
	"git.home.luguber.info/inful/blogsmith/internal/posts"
	"git.home.luguber.info/inful/blogsmith/internal/render"
)

// ErrRender indicates the renderer failed on a document. Fatal; the error
// carries the offending post's path.
var ErrRender = errors.New("render failed")

// Builder orchestrates the build pipeline.
type Builder struct {
	cfg      *config.Config
	renderer render.Renderer
	emitter  *Emitter
	recorder metrics.Recorder
}

// NewBuilder creates a Builder writing into outputDir. Metrics default to
// the no-op recorder.
func NewBuilder(cfg *config.Config, renderer render.Renderer, outputDir string) *Builder {
	return &Builder{
		cfg:      cfg,
		renderer: renderer,
		emitter:  NewEmitter(outputDir),
		recorder: metrics.NoopRecorder{},
	}
}

// WithRecorder injects a metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r != nil {
		b.recorder = r
	}
	return b
}

// Run executes the pipeline once. The returned report is populated even
// when the build fails.
func (b *Builder) Run(ctx context.Context) (*BuildReport, error) {
	report := newBuildReport()
	bs := newBuildState(b, report)

	slog.Info("Starting site build",
		logfields.BuildID(report.BuildID),
		slog.String("content", b.cfg.Content.Dir),
		slog.String("output", b.emitter.outputDir))

	err := runStages(ctx, bs, []struct {
		name string
		fn   Stage
	}{
		{"prepare_output", stagePrepareOutput},
		{"collect_posts", stageCollectPosts},
		{"render_posts", stageRenderPosts},
		{"write_index", stageWriteIndex},
		{"write_feed", stageWriteFeed},
		{"copy_static", stageCopyStatic},
	})

	report.Duration = time.Since(bs.start)
	report.Posts = bs.Aggregator.Len()
	switch {
	case err == nil:
		report.Outcome = OutcomeSuccess
	case isCanceled(err):
		report.Outcome = OutcomeCanceled
	default:
		report.Outcome = OutcomeFailed
	}
	b.recorder.ObserveBuildDuration(report.Duration)
	b.recorder.IncBuildOutcome(string(report.Outcome))
	b.recorder.AddPostsRendered(report.Posts)

	if err != nil {
		slog.Error("Site build failed",
			logfields.BuildID(report.BuildID),
			logfields.Error(err),
			logfields.DurationMS(float64(report.Duration.Milliseconds())))
		return report, err
	}

	slog.Info("Site build complete",
		logfields.BuildID(report.BuildID),
		slog.Int("posts", report.Posts),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, nil
}

func isCanceled(err error) bool {
	var se *StageError
	return errors.As(err, &se) && se.Kind == StageErrorCanceled
}

// postURL joins the site base URL with a post's output path.
func (b *Builder) postURL(p *posts.Post) string {
	base := strings.TrimRight(b.cfg.Site.BaseURL, "/")
	return base + "/" + p.OutputPath
}

// postFragments holds the three fragments rendered per post.
type postFragments struct {
	page render.Fragment
	toc  render.Fragment
	feed render.Fragment
}

// renderOne produces all fragments for a single post.
func (b *Builder) renderOne(p *posts.Post) (postFragments, error) {
	var out postFragments
	var err error

	vars := render.Vars{"url": b.postURL(p)}

	if out.page, err = b.renderer.RenderPage(p); err != nil {
		return out, fmt.Errorf("%w: %s: %w", ErrRender, p.RelPath, err)
	}
	if out.toc, err = b.renderer.RenderSnippet(p, render.SnippetTocEntry, vars); err != nil {
		return out, fmt.Errorf("%w: %s: %w", ErrRender, p.RelPath, err)
	}
	if out.feed, err = b.renderer.RenderSnippet(p, render.SnippetFeedEntry, vars); err != nil {
		return out, fmt.Errorf("%w: %s: %w", ErrRender, p.RelPath, err)
	}
	return out, nil
}

// Stage implementations.

func stagePrepareOutput(ctx context.Context, bs *BuildState) error {
	return bs.Builder.emitter.Prepare(bs.Builder.cfg.Output.Clean)
}

func stageCollectPosts(ctx context.Context, bs *BuildState) error {
	collector := posts.NewCollector(bs.Builder.cfg.Content.Dir, bs.Builder.cfg.Content.Sort)
	found, err := collector.Collect()
	if err != nil {
		return newFatalStageError("collect_posts", err)
	}
	bs.Posts = found
	if len(found) == 0 {
		return newWarnStageError("collect_posts", fmt.Errorf("no posts found under %s", bs.Builder.cfg.Content.Dir))
	}
	return nil
}

// stageRenderPosts renders page, TOC, and feed fragments per post. Pages
// are written as soon as they are rendered; TOC/feed fragments are
// recorded in collector order. With render_workers > 1 rendering runs
// concurrently but results are re-sequenced by collector index before
// writing, so buffer order never depends on completion order.
func stageRenderPosts(ctx context.Context, bs *BuildState) error {
	b := bs.Builder
	workers := b.cfg.Build.RenderWorkers

	if workers <= 1 {
		for i := range bs.Posts {
			select {
			case <-ctx.Done():
				return newCanceledStageError("render_posts", ctx.Err())
			default:
			}
			p := &bs.Posts[i]
			frags, err := b.renderOne(p)
			if err != nil {
				return newFatalStageError("render_posts", err)
			}
			if err := b.emitter.WritePage(p, frags.page); err != nil {
				return newFatalStageError("render_posts", err)
			}
			bs.Aggregator.Record(frags.toc, frags.feed)
		}
		return nil
	}

	results := make([]postFragments, len(bs.Posts))
	sem := make(chan struct{}, workers)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i := range bs.Posts {
		mu.Lock()
		aborted := firstErr != nil
		mu.Unlock()
		if aborted {
			break
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return newCanceledStageError("render_posts", ctx.Err())
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			frags, err := b.renderOne(&bs.Posts[i])
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			results[i] = frags
		}(i)
	}
	wg.Wait()
	if firstErr != nil {
		return newFatalStageError("render_posts", firstErr)
	}

	// Sequencing barrier: write and record strictly in collector order.
	for i := range bs.Posts {
		if err := b.emitter.WritePage(&bs.Posts[i], results[i].page); err != nil {
			return newFatalStageError("render_posts", err)
		}
		bs.Aggregator.Record(results[i].toc, results[i].feed)
	}
	return nil
}

func stageWriteIndex(ctx context.Context, bs *BuildState) error {
	b := bs.Builder
	page, err := b.renderer.RenderCollection(bs.Aggregator.Toc(), render.WrapperIndex,
		render.Vars{"title": b.cfg.Site.Title})
	if err != nil {
		return newFatalStageError("write_index", fmt.Errorf("%w: index: %w", ErrRender, err))
	}
	if err := b.emitter.WriteIndex(page); err != nil {
		return newFatalStageError("write_index", err)
	}
	return nil
}

func stageWriteFeed(ctx context.Context, bs *BuildState) error {
	b := bs.Builder
	ch := feed.Channel{
		Title:       b.cfg.Site.Title,
		Link:        b.cfg.Site.BaseURL,
		Description: b.cfg.Site.Title,
	}
	if err := b.emitter.WriteFeed(ch, bs.Aggregator.Feed()); err != nil {
		return newFatalStageError("write_feed", err)
	}
	return nil
}

func stageCopyStatic(ctx context.Context, bs *BuildState) error {
	static := bs.Builder.cfg.Content.Static
	if len(static) == 0 {
		return nil
	}
	if err := bs.Builder.emitter.CopyStatic(static); err != nil {
		return newFatalStageError("copy_static", err)
	}
	bs.Report.StaticCopied = len(static)
	return nil
}
