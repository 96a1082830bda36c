package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/metrics"
	"git.home.luguber.info/inful/blogsmith/internal/render"
	"git.home.luguber.info/inful/blogsmith/internal/server"
	"git.home.luguber.info/inful/blogsmith/internal/site"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"blogsmith.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Content string `help:"Content root containing post sources (overrides config)"`
		Output  string `short:"o" help:"Output directory for the generated site (overrides config)"`
		Clean   bool   `help:"Remove the output directory before building"`
	} `cmd:"" help:"Build the site from the content root"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Serve struct {
		Addr    string `help:"Listen address" default:":8080"`
		Metrics bool   `help:"Expose Prometheus metrics on /metrics"`
	} `cmd:"" help:"Build the site, serve it locally, and rebuild on content changes"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "build":
		cfg, err := loadConfig()
		if err != nil {
			os.Exit(1)
		}
		if CLI.Build.Content != "" {
			cfg.Content.Dir = CLI.Build.Content
		}
		if CLI.Build.Output != "" {
			cfg.Output.Dir = CLI.Build.Output
		}
		if CLI.Build.Clean {
			cfg.Output.Clean = true
		}
		if err := runBuild(cfg); err != nil {
			slog.Error("Build failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Configuration written", "path", CLI.Config)
	case "serve":
		cfg, err := loadConfig()
		if err != nil {
			os.Exit(1)
		}
		if err := runServe(cfg, CLI.Serve.Addr, CLI.Serve.Metrics); err != nil {
			slog.Error("Serve failed", "error", err)
			os.Exit(1)
		}
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return nil, err
	}
	return cfg, nil
}

func newRenderer(cfg *config.Config) (*render.Goldmark, error) {
	return render.NewGoldmark(render.SiteMeta{
		Title:       cfg.Site.Title,
		BaseURL:     cfg.Site.BaseURL,
		Description: cfg.Site.Description,
		Author:      cfg.Site.Author,
	})
}

func runBuild(cfg *config.Config) error {
	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	builder := site.NewBuilder(cfg, renderer, cfg.Output.Dir)
	_, err = builder.Run(ctx)
	return err
}

func runServe(cfg *config.Config, addr string, exposeMetrics bool) error {
	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	builder := site.NewBuilder(cfg, renderer, cfg.Output.Dir)

	var registry *prom.Registry
	if exposeMetrics {
		registry = prom.NewRegistry()
		builder.WithRecorder(metrics.NewPrometheusRecorder(registry))
	}

	return server.NewPreview(cfg, builder, addr, registry).Run(ctx)
}
