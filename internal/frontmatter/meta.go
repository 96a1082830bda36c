package frontmatter

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Meta is the typed post metadata the pipeline consumes.
//
// Unknown keys are ignored; templates that want arbitrary keys should go
// through ParseYAML instead.
type Meta struct {
	Title    string   `yaml:"title"`
	Date     string   `yaml:"date,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
	Abstract string   `yaml:"abstract,omitempty"`
}

// dateLayouts are accepted frontmatter date formats, tried in order.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// ParsedDate returns the parsed frontmatter date. ok is false when the date
// field is empty or does not match a supported layout; callers fall back to
// path ordering in that case.
func (m Meta) ParsedDate() (time.Time, bool) {
	if m.Date == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, m.Date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Parse splits a post source into typed metadata and the Markdown body.
//
// A document with no frontmatter block yields a zero Meta and the full
// input as body. A block that opens but never closes, or whose YAML does
// not parse, is a malformed document.
func Parse(content []byte) (Meta, []byte, error) {
	raw, body, had, err := Split(content)
	if err != nil {
		return Meta{}, nil, err
	}
	if !had {
		return Meta{}, body, nil
	}

	var meta Meta
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return Meta{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, body, nil
}
