// Package main provides the enrichment HTTP server.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/umaroster/internal/app"
	"github.com/cory-johannsen/umaroster/internal/config"
	"github.com/cory-johannsen/umaroster/internal/httpapi"
	"github.com/cory-johannsen/umaroster/internal/observability"
	"github.com/cory-johannsen/umaroster/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "enrichd")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	rt, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("building runtime", zap.Error(err))
	}
	defer rt.Close()

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      httpapi.NewRouter(rt.Enricher, rt.Store, logger, httpapi.Options{
			MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
			HealthCheck:  rt.Health,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	lc := server.NewLifecycle(logger)
	lc.Add("http", server.NewHTTPService(srv, logger))

	logger.Info("enrichd ready", zap.Duration("startup", time.Since(start)))
	if err := lc.Run(ctx); err != nil {
		logger.Error("server exited", zap.Error(err))
	}
}
