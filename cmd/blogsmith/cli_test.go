package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogsmith/internal/config"
)

func TestRunBuildEndToEnd(t *testing.T) {
	workDir := t.TempDir()
	contentDir := filepath.Join(workDir, "posts")
	outputDir := filepath.Join(workDir, "site")
	require.NoError(t, os.MkdirAll(contentDir, 0755))

	post := "---\ntitle: Hello\ndate: 2024-03-01\nabstract: First post.\n---\nHello *world*.\n"
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "2024-03-01-hello.md"), []byte(post), 0644))

	css := filepath.Join(workDir, "style.css")
	require.NoError(t, os.WriteFile(css, []byte("body { max-width: 40em; }"), 0644))

	configPath := filepath.Join(workDir, "blogsmith.yaml")
	configYAML := fmt.Sprintf(`site:
  title: Test Blog
  base_url: https://test.example.com
content:
  dir: %s
  static:
    - %s
output:
  dir: %s
  clean: true
`, contentDir, css, outputDir)
	require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0644))

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	require.NoError(t, runBuild(cfg))

	page, err := os.ReadFile(filepath.Join(outputDir, "2024-03-01-hello.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<h1>Hello</h1>")
	assert.Contains(t, string(page), "<em>world</em>")

	assert.FileExists(t, filepath.Join(outputDir, "index.html"))
	assert.FileExists(t, filepath.Join(outputDir, "rss.xml"))
	assert.FileExists(t, filepath.Join(outputDir, "style.css"))

	rss, err := os.ReadFile(filepath.Join(outputDir, "rss.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(rss), "<title>Test Blog</title>")
	assert.Contains(t, string(rss), "<link>https://test.example.com/2024-03-01-hello.html</link>")
}

func TestRunBuildMissingContentRoot(t *testing.T) {
	cfg := &config.Config{
		Site:    config.SiteConfig{Title: "Test"},
		Content: config.ContentConfig{Dir: filepath.Join(t.TempDir(), "missing"), Sort: config.SortPath},
		Output:  config.OutputConfig{Dir: filepath.Join(t.TempDir(), "site")},
		Build:   config.BuildConfig{RenderWorkers: 1},
	}
	require.Error(t, runBuild(cfg))
}
