package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/toolhub/toolhub/internal/config"
	"github.com/toolhub/toolhub/internal/db"
	"github.com/toolhub/toolhub/internal/repo"
	"github.com/toolhub/toolhub/internal/scheduler"
)

func main() {

	// Load configuration
	cfg := config.Load()

	setupLogging(cfg.LogFormat)

	// Connect to database FIRST
	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
	)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	database.SetMaxIdleConns(cfg.DBMaxIdleConns)

	slog.Info("connected to the database", "host", cfg.DBHost, "name", cfg.DBName)

	// Apply pending migrations
	if err := db.Run(cfg.DatabaseURL()); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	// Catalog stats refresher
	go scheduler.Run(context.Background(), repo.NewToolRepo(database), repo.NewUserRepo(database))

	handler := newRouter(database, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	// Start server LAST
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		slog.Info("starting server with TLS", "port", cfg.Port)
		err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
	} else {
		slog.Info("starting server", "port", cfg.Port)
		err = srv.ListenAndServe()
	}
	if err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// setupLogging installs the default slog handler: text for dev, json when
// LOG_FORMAT=json.
func setupLogging(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
