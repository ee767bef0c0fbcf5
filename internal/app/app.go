// Package app assembles the enrichment runtime from configuration: display
// terms, reference tables, the optional name hook, and the Enricher.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/umaroster/internal/config"
	"github.com/cory-johannsen/umaroster/internal/enrich"
	"github.com/cory-johannsen/umaroster/internal/reftable"
	"github.com/cory-johannsen/umaroster/internal/resolve"
	"github.com/cory-johannsen/umaroster/internal/scripting"
	"github.com/cory-johannsen/umaroster/internal/skill"
	"github.com/cory-johannsen/umaroster/internal/storage/postgres"
	"github.com/cory-johannsen/umaroster/internal/terms"
)

// HealthTimeout bounds a database health check.
const HealthTimeout = 2 * time.Second

// Runtime holds the assembled components. Close releases the resources it
// opened.
type Runtime struct {
	Terms    *terms.Terms
	Store    *reftable.Store
	Enricher *enrich.Enricher
	// Health checks the table backend; nil when tables come from files.
	Health func(context.Context) error

	closers []func()
}

// Build loads terms and tables according to cfg and wires the Enricher.
//
// Precondition: cfg must have passed Validate; logger must be non-nil.
// Postcondition: Returns a ready Runtime or a non-nil error; on error nothing
// is left open.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Runtime, error) {
	rt := &Runtime{}
	ok := false
	defer func() {
		if !ok {
			rt.Close()
		}
	}()

	t, err := loadTerms(cfg.Tables)
	if err != nil {
		return nil, err
	}
	rt.Terms = t

	src, err := rt.tableSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rt.Store = reftable.Load(ctx, src, logger)
	logger.Info("reference tables ready",
		zap.String("source", cfg.Tables.Source),
		zap.Duration("elapsed", time.Since(start)),
	)

	var opts []resolve.Option
	if cfg.Scripting.NameHook != "" {
		hook, err := scripting.LoadNameHook(cfg.Scripting.NameHook, cfg.Scripting.InstructionLimit, logger)
		if err != nil {
			return nil, fmt.Errorf("loading name hook: %w", err)
		}
		rt.closers = append(rt.closers, hook.Close)
		opts = append(opts, resolve.WithNameFilter(hook))
	}

	rt.Enricher = enrich.New(
		resolve.New(rt.Store, t, opts...),
		skill.NewDetailer(t),
		logger,
		enrich.WithWorkers(cfg.Enrich.Workers),
	)
	ok = true
	return rt, nil
}

// Close releases resources in reverse order of acquisition.
func (r *Runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

func loadTerms(cfg config.TablesConfig) (*terms.Terms, error) {
	if cfg.TermsFile == "" {
		return terms.Default(), nil
	}
	t, err := terms.Load(cfg.TermsFile)
	if err != nil {
		return nil, fmt.Errorf("loading terms: %w", err)
	}
	return t, nil
}

func (r *Runtime) tableSource(ctx context.Context, cfg config.Config, logger *zap.Logger) (reftable.Source, error) {
	switch cfg.Tables.Source {
	case config.SourcePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		r.closers = append(r.closers, pool.Close)
		r.Health = func(ctx context.Context) error {
			return pool.Health(ctx, HealthTimeout)
		}
		logger.Info("database connected", zap.String("host", cfg.Database.Host))
		return postgres.NewReferenceRepository(pool.DB()), nil
	default:
		return reftable.NewDirSource(cfg.Tables.Dir), nil
	}
}
