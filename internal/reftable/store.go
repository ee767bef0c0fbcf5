package reftable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// ErrTableNotFound is returned by a Source when a namespace has no document.
var ErrTableNotFound = errors.New("reference table not found")

// Source provides raw table documents by namespace.
type Source interface {
	Load(ctx context.Context, ns Namespace) (map[string]json.RawMessage, error)
}

// Store is the full set of reference tables.
type Store struct {
	tables map[Namespace]*Table
}

// NewStore builds a Store from already-loaded tables. Namespaces without a
// table behave as empty.
func NewStore(tables ...*Table) *Store {
	s := &Store{tables: make(map[Namespace]*Table, len(tables))}
	for _, t := range tables {
		if t != nil {
			s.tables[t.ns] = t
		}
	}
	return s
}

// Empty returns a Store in which every lookup misses.
func Empty() *Store {
	return NewStore()
}

// Table returns the table for ns.
//
// Postcondition: never returns nil; a missing namespace yields an empty table.
func (s *Store) Table(ns Namespace) *Table {
	if s != nil {
		if t, ok := s.tables[ns]; ok {
			return t
		}
	}
	return NewTable(ns, nil)
}

// Counts returns the entry count of every known namespace.
func (s *Store) Counts() map[Namespace]int {
	out := make(map[Namespace]int, len(All()))
	for _, ns := range All() {
		out[ns] = s.Table(ns).Len()
	}
	return out
}

// Load reads every namespace from src. A namespace that is missing or fails to
// parse degrades to an empty table and is logged; Load itself never fails so
// that one bad document cannot abort a run.
//
// Precondition: src and logger must be non-nil.
// Postcondition: Returns a non-nil Store holding one table per namespace.
func Load(ctx context.Context, src Source, logger *zap.Logger) *Store {
	tables := make([]*Table, 0, len(All()))
	for _, ns := range All() {
		start := time.Now()
		entries, err := src.Load(ctx, ns)
		switch {
		case errors.Is(err, ErrTableNotFound):
			logger.Warn("reference table missing; namespace will not be enriched",
				zap.String("namespace", string(ns)),
			)
			entries = nil
		case err != nil:
			logger.Warn("reference table unreadable; namespace will not be enriched",
				zap.String("namespace", string(ns)),
				zap.Error(err),
			)
			entries = nil
		default:
			logger.Info("reference table loaded",
				zap.String("namespace", string(ns)),
				zap.Int("entries", len(entries)),
				zap.Duration("elapsed", time.Since(start)),
			)
		}
		tables = append(tables, NewTable(ns, entries))
	}
	return NewStore(tables...)
}

// DirSource reads table documents named <namespace>.json from a directory.
type DirSource struct {
	dir string
}

var _ Source = (*DirSource)(nil)

// NewDirSource returns a Source backed by dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Load reads and parses the document for ns.
//
// Postcondition: returns ErrTableNotFound (wrapped) when the file is absent.
func (d *DirSource) Load(_ context.Context, ns Namespace) (map[string]json.RawMessage, error) {
	path := filepath.Join(d.dir, ns.FileName())
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrTableNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	entries, err := ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}
