package site

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/blogsmith/internal/feed"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/posts"
	"git.home.luguber.info/inful/blogsmith/internal/render"
)

// ErrWrite indicates an output filesystem failure. Fatal; artifacts
// already written stay on disk (no rollback).
var ErrWrite = errors.New("write failed")

// Emitter writes final artifacts into the output root. The output root is
// treated as disposable: every write overwrites unconditionally.
type Emitter struct {
	outputDir string
}

// NewEmitter creates an Emitter rooted at outputDir.
func NewEmitter(outputDir string) *Emitter {
	return &Emitter{outputDir: filepath.Clean(outputDir)}
}

// Prepare creates the output root, removing it first when clean is set.
func (e *Emitter) Prepare(clean bool) error {
	if clean {
		if err := os.RemoveAll(e.outputDir); err != nil {
			return fmt.Errorf("%w: clean output dir: %w", ErrWrite, err)
		}
	}
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return fmt.Errorf("%w: create output dir: %w", ErrWrite, err)
	}
	return nil
}

// WritePage writes one rendered post page at {output}/{slug}.html,
// creating intermediate directories as needed.
func (e *Emitter) WritePage(post *posts.Post, fragment render.Fragment) error {
	target := filepath.Join(e.outputDir, filepath.FromSlash(post.OutputPath))
	if err := e.writeFile(target, []byte(fragment)); err != nil {
		return err
	}
	slog.Debug("Page written", logfields.Post(post.Slug), logfields.Output(post.OutputPath))
	return nil
}

// WriteIndex writes the wrapped table-of-contents page at {output}/index.html.
func (e *Emitter) WriteIndex(fragment render.Fragment) error {
	return e.writeFile(filepath.Join(e.outputDir, "index.html"), []byte(fragment))
}

// WriteFeed wraps the ordered feed fragments in the RSS 2.0 envelope and
// writes {output}/rss.xml.
func (e *Emitter) WriteFeed(ch feed.Channel, fragments []render.Fragment) error {
	items := make([]string, len(fragments))
	for i, f := range fragments {
		items[i] = string(f)
	}

	target := filepath.Join(e.outputDir, "rss.xml")
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, target, err)
	}
	if err := feed.WriteEnvelope(f, ch, items); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %s: %w", ErrWrite, target, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, target, err)
	}
	return nil
}

// CopyStatic copies the enumerated passthrough files byte-for-byte into
// the output root, preserving filenames. A missing source is fatal.
func (e *Emitter) CopyStatic(paths []string) error {
	for _, src := range paths {
		target := filepath.Join(e.outputDir, filepath.Base(src))
		if err := copyFile(src, target); err != nil {
			return fmt.Errorf("%w: copy static %s: %w", ErrWrite, src, err)
		}
		slog.Debug("Static file copied", logfields.Path(src), logfields.Output(target))
	}
	return nil
}

func (e *Emitter) writeFile(target string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, target, err)
	}
	if err := os.WriteFile(target, content, 0644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, target, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
