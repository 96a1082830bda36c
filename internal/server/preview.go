// Package server implements the optional serve-after-build mode: a local
// HTTP server over the output root that rebuilds the site when the content
// root changes.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/site"
)

// debounceDelay coalesces editor write bursts into one rebuild.
const debounceDelay = 300 * time.Millisecond

// Preview serves the generated site and watches the content root for
// changes, rebuilding on each change burst.
type Preview struct {
	cfg      *config.Config
	builder  *site.Builder
	addr     string
	registry *prom.Registry
}

// NewPreview creates a preview server around an already-configured builder.
// registry may be nil; when set, /metrics is exposed.
func NewPreview(cfg *config.Config, builder *site.Builder, addr string, registry *prom.Registry) *Preview {
	return &Preview{cfg: cfg, builder: builder, addr: addr, registry: registry}
}

// Run builds once, then serves until ctx is canceled. The initial build is
// allowed to fail (the server still starts so the operator sees rebuild
// results as they edit); subsequent rebuild failures are logged and the
// previous good output stays served.
func (p *Preview) Run(ctx context.Context) error {
	absContent, err := filepath.Abs(p.cfg.Content.Dir)
	if err != nil {
		return fmt.Errorf("resolve content dir: %w", err)
	}
	if st, statErr := os.Stat(absContent); statErr != nil || !st.IsDir() {
		return fmt.Errorf("content dir not found or not a directory: %s", absContent)
	}

	if _, err := p.builder.Run(ctx); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
	}

	srv := p.newHTTPServer()
	srvErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()
	slog.Info("Preview server listening", slog.String("addr", p.addr), slog.String("site", p.cfg.Output.Dir))

	watcher, err := newContentWatcher(absContent)
	if err != nil {
		_ = srv.Close()
		return err
	}
	defer func() { _ = watcher.Close() }()

	rebuildReq, trigger := newDebouncer()
	p.startRebuildWorker(ctx, rebuildReq)

	for {
		select {
		case <-ctx.Done():
			return p.shutdown(srv)
		case err := <-srvErr:
			return fmt.Errorf("http server: %w", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleFileEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (p *Preview) newHTTPServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(p.cfg.Output.Dir)))
	if p.registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
	}
	return &http.Server{Addr: p.addr, Handler: mux}
}

func (p *Preview) shutdown(srv *http.Server) error {
	slog.Info("Shutting down preview server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	return nil
}

// startRebuildWorker processes rebuild requests one at a time; a request
// arriving mid-build queues exactly one follow-up build.
func (p *Preview) startRebuildWorker(ctx context.Context, rebuildReq chan struct{}) {
	var mu sync.Mutex
	running := false
	pending := false

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-rebuildReq:
				if !ok {
					return
				}
				mu.Lock()
				if running {
					pending = true
					mu.Unlock()
					continue
				}
				running = true
				mu.Unlock()

				slog.Info("Change detected; rebuilding site")
				if _, err := p.builder.Run(ctx); err != nil {
					slog.Warn("rebuild failed", logfields.Error(err))
				}

				mu.Lock()
				running = false
				if pending {
					pending = false
					mu.Unlock()
					select {
					case rebuildReq <- struct{}{}:
					default:
					}
				} else {
					mu.Unlock()
				}
			}
		}
	}()
}

// newDebouncer returns the rebuild channel and a trigger that coalesces
// rapid event bursts into a single request.
func newDebouncer() (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceDelay, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

func newContentWatcher(root string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := addDirsRecursive(watcher, root); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// handleFileEvent processes a filesystem event and triggers a rebuild when
// warranted. New directories are added to the watch set.
func handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files.
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	if base == "Thumbs.db" {
		return true
	}

	return false
}
