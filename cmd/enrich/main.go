// Package main provides the batch enrichment CLI: it reads a JSON array of
// character records and writes the enriched array.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/umaroster/internal/app"
	"github.com/cory-johannsen/umaroster/internal/config"
	"github.com/cory-johannsen/umaroster/internal/enrich"
	"github.com/cory-johannsen/umaroster/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (optional)")
	input := flag.String("input", "data.json", "path to the JSON array of records")
	output := flag.String("output", "", "output path (default: "+enrich.DefaultOutputName+" next to the input)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "enrich")
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

	outPath := *output
	if outPath == "" {
		outPath = enrich.DefaultOutputPath(*input)
	}
	stats, err := rt.Enricher.EnrichFile(ctx, *input, outPath)
	if err != nil {
		rt.Close()
		fmt.Fprintf(os.Stderr, "error: %s: %v\n", describe(err), err)
		os.Exit(1)
	}

	logger.Info("enrichment complete",
		zap.String("input", *input),
		zap.String("output", outPath),
		zap.Int("records", stats.Records),
		zap.Int("with_names", stats.WithNames),
		zap.Int("with_skill_names", stats.WithSkillNames),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func describe(err error) string {
	switch {
	case errors.Is(err, enrich.ErrReadInput):
		return "input file could not be read"
	case errors.Is(err, enrich.ErrDecodeInput):
		return "input is not a JSON array of records"
	case errors.Is(err, enrich.ErrWriteOutput):
		return "output file could not be written"
	default:
		return "enrichment failed"
	}
}
