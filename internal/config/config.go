package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SortOrder selects how collected posts are ordered.
type SortOrder string

const (
	// SortPath orders posts by descending lexicographic relative path.
	// Date-prefixed filenames (YYYY-MM-DD-slug.md) make this newest-first.
	SortPath SortOrder = "path"
	// SortDate orders posts by descending frontmatter date, falling back
	// to path order for posts without a parseable date.
	SortDate SortOrder = "date"
)

// Config represents the application configuration
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`
	Build   BuildConfig   `yaml:"build"`
}

// SiteConfig holds site-wide metadata injected into templates and the feed.
type SiteConfig struct {
	Title       string `yaml:"title"`
	BaseURL     string `yaml:"base_url,omitempty"`
	Description string `yaml:"description,omitempty"`
	Author      string `yaml:"author,omitempty"`
}

// ContentConfig describes where source content lives.
type ContentConfig struct {
	Dir    string    `yaml:"dir"`              // Content root containing post sources
	Static []string  `yaml:"static,omitempty"` // Passthrough files copied verbatim
	Sort   SortOrder `yaml:"sort,omitempty"`   // "path" (default) or "date"
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Dir   string `yaml:"dir"`
	Clean bool   `yaml:"clean"` // Clean output directory before build
}

// BuildConfig holds build execution knobs.
type BuildConfig struct {
	RenderWorkers int `yaml:"render_workers,omitempty"` // Concurrent post renders; 1 = serial
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist, just log it
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Site.Title == "" {
		config.Site.Title = "Blog"
	}
	if config.Content.Dir == "" {
		config.Content.Dir = "posts"
	}
	if config.Content.Sort == "" {
		config.Content.Sort = SortPath
	}
	if config.Output.Dir == "" {
		config.Output.Dir = "./site"
	}
	if config.Build.RenderWorkers < 1 {
		config.Build.RenderWorkers = 1
	}
}

func validate(config *Config) error {
	switch config.Content.Sort {
	case SortPath, SortDate:
	default:
		return fmt.Errorf("invalid content.sort %q (want %q or %q)", config.Content.Sort, SortPath, SortDate)
	}
	return nil
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Site: SiteConfig{
			Title:       "My Blog",
			Description: "Essays and notes",
			BaseURL:     "https://blog.example.com",
			Author:      "author@example.com",
		},
		Content: ContentConfig{
			Dir:    "posts",
			Static: []string{"style.css", "CNAME"},
			Sort:   SortPath,
		},
		Output: OutputConfig{
			Dir:   "./site",
			Clean: true,
		},
		Build: BuildConfig{
			RenderWorkers: 1,
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
