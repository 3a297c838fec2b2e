package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jonathan/site-builder/internal/build"
	"github.com/jonathan/site-builder/internal/config"
	"github.com/jonathan/site-builder/internal/content"
	"github.com/jonathan/site-builder/internal/db"
	"github.com/jonathan/site-builder/internal/logging"
	"github.com/jonathan/site-builder/internal/metrics"
	"github.com/jonathan/site-builder/internal/publish"
	"github.com/jonathan/site-builder/internal/rendering"
	"github.com/jonathan/site-builder/internal/site"
	"github.com/jonathan/site-builder/internal/validation"
	"github.com/prometheus/client_golang/prometheus"
)

// app holds the wired components shared by the build and serve commands
type app struct {
	builder   *build.Builder
	publisher *publish.FSPublisher
	database  *db.DB
	registry  *prometheus.Registry
}

// appOptions selects where content comes from
type appOptions struct {
	// ContentFile builds from one JSON or YAML bundle instead of the configured sources.
	ContentFile string

	// Migrate applies the embedded schema after connecting to the database.
	Migrate bool
}

// loadConfig reads the config file and environment, then applies root flag overrides
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *log.Logger {
	lc := logging.DefaultConfig()
	lc.Level = cfg.LogLevel
	lc.JSON = cfg.LogJSON
	return logging.New(lc)
}

// newApp wires the content provider, renderer, publisher, tracker and metrics.
// Content comes from opts.ContentFile, else the database, else the content directory.
func newApp(ctx context.Context, cfg config.Config, logger *log.Logger, opts appOptions) (*app, error) {
	logger = logging.OrDiscard(logger)
	a := &app{registry: prometheus.NewRegistry()}

	var provider content.Provider
	switch {
	case opts.ContentFile != "":
		provider = content.NewFileProvider(filepath.Dir(opts.ContentFile),
			content.WithFile(opts.ContentFile),
			content.WithFileLogger(logger),
		)
	case cfg.DatabaseURL != "":
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if opts.Migrate {
			if err := database.Migrate(ctx); err != nil {
				database.Close()
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		a.database = database
		provider = database
	case cfg.ContentDir != "":
		provider = content.NewFileProvider(cfg.ContentDir, content.WithFileLogger(logger))
	default:
		return nil, fmt.Errorf("no content source: pass --in, set %s or set %s", config.EnvDatabaseURL, config.EnvContentDir)
	}

	renderer, err := rendering.LoadRenderer(cfg.TemplatesDir)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	a.publisher = publish.NewFSPublisher(cfg.OutputDir, cfg.BaseURL, publish.WithLogger(logger))

	generator := site.NewGenerator(renderer,
		site.WithLogger(logger),
		site.WithDefaultTitle(cfg.SiteTitle),
	)

	builderOpts := []build.Option{
		build.WithValidator(validation.New(validation.WithLogger(logger))),
		build.WithRecorder(metrics.NewPrometheusRecorder(a.registry)),
		build.WithLogger(logger),
	}
	var tracker build.Tracker
	if a.database != nil {
		tracker = a.database
		builderOpts = append(builderOpts, build.WithVersionStore(a.database))
	}
	a.builder = build.New(provider, generator, a.publisher, tracker, builderOpts...)

	return a, nil
}

// Close releases the database pool, if any
func (a *app) Close() {
	if a.database != nil {
		a.database.Close()
	}
}

// resolveUserID parses raw, or derives a stable ID from the content file path
func resolveUserID(raw, contentFile string) (uuid.UUID, error) {
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid --user %q: %w", raw, err)
		}
		return id, nil
	}
	if contentFile == "" {
		return uuid.Nil, fmt.Errorf("--user is required unless --in is given")
	}
	abs, err := filepath.Abs(contentFile)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to resolve %s: %w", contentFile, err)
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(abs))), nil
}
