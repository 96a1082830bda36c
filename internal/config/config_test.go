package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blogsmith.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "site:\n  title: Essays\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Essays", cfg.Site.Title)
	assert.Equal(t, "posts", cfg.Content.Dir)
	assert.Equal(t, SortPath, cfg.Content.Sort)
	assert.Equal(t, "./site", cfg.Output.Dir)
	assert.Equal(t, 1, cfg.Build.RenderWorkers)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsUnknownSortOrder(t *testing.T) {
	path := writeConfig(t, "content:\n  sort: alphabetical\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content.sort")
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("BLOG_BASE_URL", "https://essays.example.org")
	path := writeConfig(t, "site:\n  title: Essays\n  base_url: ${BLOG_BASE_URL}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://essays.example.org", cfg.Site.BaseURL)
}

func TestLoadDateSort(t *testing.T) {
	path := writeConfig(t, "content:\n  sort: date\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SortDate, cfg.Content.Sort)
}

func TestInitRefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blogsmith.yaml")

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "My Blog", cfg.Site.Title)
	assert.Contains(t, cfg.Content.Static, "style.css")
}
