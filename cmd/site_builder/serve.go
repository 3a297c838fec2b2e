package main

import (
	"context"
	"fmt"

	"github.com/jonathan/site-builder/internal/metrics"
	"github.com/jonathan/site-builder/internal/server"
	"github.com/jonathan/site-builder/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the build API server",
	Long:  `Start an HTTP server that queues site builds, reports their status, serves previews and the published files.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT or 8080)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply the database schema before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)
	a, err := newApp(context.Background(), cfg, logger, appOptions{Migrate: serveMigrate})
	if err != nil {
		return err
	}

	srvCfg := server.Config{
		Port:           cfg.Port,
		Builder:        a.builder,
		Metrics:        metrics.HTTPHandler(a.registry),
		FilesDir:       a.publisher.Root(),
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      ratelimit.LoadConfig(),
		Logger:         logger,
		OnShutdown:     a.Close,
	}
	if a.database != nil {
		srvCfg.Versions = a.database
		srvCfg.Health = a.database
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		a.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
