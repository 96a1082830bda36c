package frontmatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitNoFrontmatter(t *testing.T) {
	content := []byte("# Just a heading\n\nBody text.\n")

	fm, body, had, err := Split(content)
	require.NoError(t, err)
	assert.False(t, had)
	assert.Nil(t, fm)
	assert.Equal(t, content, body)
}

func TestSplitBasic(t *testing.T) {
	content := []byte("---\ntitle: Hello\n---\nBody.\n")

	fm, body, had, err := Split(content)
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "title: Hello\n", string(fm))
	assert.Equal(t, "Body.\n", string(body))
}

func TestSplitCRLF(t *testing.T) {
	content := []byte("---\r\ntitle: Hello\r\n---\r\nBody.\r\n")

	fm, body, had, err := Split(content)
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "title: Hello\r\n", string(fm))
	assert.Equal(t, "Body.\r\n", string(body))
}

func TestSplitEmptyBlock(t *testing.T) {
	content := []byte("---\n---\nBody.\n")

	fm, body, had, err := Split(content)
	require.NoError(t, err)
	assert.True(t, had)
	assert.Empty(t, fm)
	assert.Equal(t, "Body.\n", string(body))
}

func TestSplitMissingClosingDelimiter(t *testing.T) {
	content := []byte("---\ntitle: Hello\nno closing here\n")

	_, _, _, err := Split(content)
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestParseTypedMeta(t *testing.T) {
	content := []byte(`---
title: Monads for the Working Programmer
date: 2021-09-19
tags: [haskell, category-theory]
abstract: A gentle tour.
---
Body goes here.
`)

	meta, body, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, "Monads for the Working Programmer", meta.Title)
	assert.Equal(t, []string{"haskell", "category-theory"}, meta.Tags)
	assert.Equal(t, "A gentle tour.", meta.Abstract)
	assert.Equal(t, "Body goes here.\n", string(body))

	d, ok := meta.ParsedDate()
	require.True(t, ok)
	assert.Equal(t, time.Date(2021, 9, 19, 0, 0, 0, 0, time.UTC), d)
}

func TestParseMalformedYAML(t *testing.T) {
	content := []byte("---\ntitle: [unterminated\n---\nBody.\n")

	_, _, err := Parse(content)
	require.Error(t, err)
}

func TestParsedDateRFC3339(t *testing.T) {
	m := Meta{Date: "2022-01-02T15:04:05Z"}
	d, ok := m.ParsedDate()
	require.True(t, ok)
	assert.Equal(t, 2022, d.Year())
}

func TestParsedDateInvalid(t *testing.T) {
	m := Meta{Date: "sometime in spring"}
	_, ok := m.ParsedDate()
	assert.False(t, ok)
}
