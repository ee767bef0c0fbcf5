// Package main generates the display-name reference tables from a local copy
// of the upstream text dictionary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/umaroster/internal/config"
	"github.com/cory-johannsen/umaroster/internal/observability"
	"github.com/cory-johannsen/umaroster/internal/tablegen"
	"github.com/cory-johannsen/umaroster/internal/terms"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (optional)")
	source := flag.String("source", "", "path to text_data_dict.json")
	outputDir := flag.String("output", "", "output directory (default: tables.dir from config)")
	flag.Parse()

	if *source == "" {
		fmt.Fprintln(os.Stderr, "usage: gen-tables -source <text_data_dict.json> [-output <dir>] [-config <file>]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging, "gen-tables")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	t := terms.Default()
	if cfg.Tables.TermsFile != "" {
		if t, err = terms.Load(cfg.Tables.TermsFile); err != nil {
			logger.Fatal("loading terms", zap.Error(err))
		}
	}

	out := *outputDir
	if out == "" {
		out = cfg.Tables.Dir
	}

	start := time.Now()
	gen := tablegen.New(tablegen.NewFileSource(*source), t, logger)
	if err := gen.Run(context.Background(), out); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("generation complete in %s\n", time.Since(start).Round(time.Millisecond))
}
