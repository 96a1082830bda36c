package posts

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/frontmatter"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
)

// Post represents one discovered source document under the content root.
type Post struct {
	Path       string // Absolute path to the source file
	RelPath    string // Path relative to the content root (sort key)
	Slug       string // RelPath with the source extension stripped, normalized
	OutputPath string // Slug with ".html" appended
	Content    []byte // File content (loaded on demand)
}

// Collector enumerates post sources under a content root.
type Collector struct {
	root  string
	order config.SortOrder
}

// NewCollector creates a collector rooted at the given content directory.
func NewCollector(root string, order config.SortOrder) *Collector {
	return &Collector{root: root, order: order}
}

// Collect walks the content root and returns all post sources in build
// order: descending lexicographic relative path by default, or descending
// frontmatter date (path order as tiebreak) when the collector was created
// with config.SortDate.
//
// The walk is read-only. A missing root is a fatal configuration error; an
// unreadable entry aborts the walk (no partial-skip policy).
func (c *Collector) Collect() ([]Post, error) {
	info, err := os.Stat(c.root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrContentRootMissing, c.root)
	}

	var found []Post
	err = filepath.Walk(c.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") {
			return nil
		}
		if !isMarkdownFile(path) {
			return nil
		}

		relPath, err := filepath.Rel(c.root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		slug := Slugify(strings.TrimSuffix(relPath, filepath.Ext(relPath)))
		found = append(found, Post{
			Path:       path,
			RelPath:    relPath,
			Slug:       slug,
			OutputPath: slug + ".html",
		})

		slog.Debug("Discovered post", logfields.Path(relPath), logfields.Post(slug))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentWalkFailed, err)
	}

	c.sortPosts(found)

	slog.Info("Posts collected", slog.Int("count", len(found)), slog.String("order", string(c.order)))
	return found, nil
}

// sortPosts orders posts newest-first.
//
// Path order relies on the YYYY-MM-DD-slug.md filename convention; the
// collector does not validate it, so a file outside the convention sorts
// wherever its literal path falls. Date order peeks at frontmatter
// leniently: a missing or unparseable date never fails collection, the
// post just keeps its path-order position relative to other dateless posts.
func (c *Collector) sortPosts(found []Post) {
	byPathDesc := func(i, j int) bool { return found[i].RelPath > found[j].RelPath }

	if c.order != config.SortDate {
		sort.SliceStable(found, byPathDesc)
		return
	}

	dates := make([]time.Time, len(found))
	for i := range found {
		dates[i] = peekDate(found[i].Path)
	}
	sort.SliceStable(found, func(i, j int) bool {
		if !dates[i].Equal(dates[j]) {
			return dates[i].After(dates[j])
		}
		return byPathDesc(i, j)
	})
}

// peekDate reads a post's frontmatter date without surfacing parse errors.
// Strict parsing happens later, in the render stage.
func peekDate(path string) time.Time {
	content, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}
	}
	meta, _, err := frontmatter.Parse(content)
	if err != nil {
		return time.Time{}
	}
	d, ok := meta.ParsedDate()
	if !ok {
		return time.Time{}
	}
	return d
}

// Load reads the post source from disk. Repeated calls are no-ops.
func (p *Post) Load() error {
	if p.Content != nil {
		return nil
	}
	content, err := os.ReadFile(p.Path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileReadFailed, p.Path, err)
	}
	p.Content = content
	return nil
}

// slugFolder strips combining marks so accented characters fold to their
// ASCII base (é -> e), keeping generated URLs portable.
var slugFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify normalizes a path-derived slug for use in output URLs.
// Path separators and the overall shape are preserved; only diacritics are
// folded and spaces collapsed to hyphens.
func Slugify(s string) string {
	folded, _, err := transform.String(slugFolder, s)
	if err != nil {
		folded = s
	}
	return strings.ReplaceAll(folded, " ", "-")
}

// isMarkdownFile checks if a file is a markdown file
func isMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".md" || ext == ".markdown"
}
