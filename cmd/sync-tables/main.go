// Package main copies a directory of reference table documents into
// PostgreSQL, replacing each namespace atomically.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/umaroster/internal/config"
	"github.com/cory-johannsen/umaroster/internal/observability"
	"github.com/cory-johannsen/umaroster/internal/reftable"
	"github.com/cory-johannsen/umaroster/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (optional)")
	dir := flag.String("dir", "", "table directory (default: tables.dir from config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if err := cfg.Database.Validate(); err != nil {
		log.Fatalf("database config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging, "sync-tables")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	tableDir := *dir
	if tableDir == "" {
		tableDir = cfg.Tables.Dir
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()
	repo := postgres.NewReferenceRepository(pool.DB())
	src := reftable.NewDirSource(tableDir)

	failed := 0
	for _, ns := range reftable.All() {
		entries, err := src.Load(ctx, ns)
		if errors.Is(err, reftable.ErrTableNotFound) {
			logger.Warn("no document for namespace; leaving database copy untouched", zap.String("namespace", string(ns)))
			continue
		}
		if err != nil {
			logger.Error("reading table", zap.String("namespace", string(ns)), zap.Error(err))
			failed++
			continue
		}
		n, err := repo.ReplaceNamespace(ctx, ns, entries)
		if err != nil {
			logger.Error("syncing table", zap.String("namespace", string(ns)), zap.Error(err))
			failed++
			continue
		}
		logger.Info("table synced", zap.String("namespace", string(ns)), zap.Int64("rows", n))
	}

	fields := []zap.Field{
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)),
	}
	counts, err := repo.Counts(ctx)
	if err != nil {
		logger.Warn("counting stored entries", zap.Error(err))
	} else {
		for ns, n := range counts {
			fields = append(fields, zap.Int(string(ns), n))
		}
	}
	logger.Info("sync complete", fields...)
	if failed > 0 {
		pool.Close()
		log.Fatalf("%d namespace(s) failed to sync", failed)
	}
}
