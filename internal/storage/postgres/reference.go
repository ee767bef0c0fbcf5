package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/umaroster/internal/reftable"
)

// ReferenceRepository stores reference table entries, one row per
// (namespace, entry_id), with the entry value as JSONB.
type ReferenceRepository struct {
	db *pgxpool.Pool
}

var _ reftable.Source = (*ReferenceRepository)(nil)

// NewReferenceRepository creates a ReferenceRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewReferenceRepository(db *pgxpool.Pool) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// Load returns every entry of ns.
//
// Postcondition: Returns reftable.ErrTableNotFound (wrapped) when ns has no rows.
func (r *ReferenceRepository) Load(ctx context.Context, ns reftable.Namespace) (map[string]json.RawMessage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT entry_id, payload FROM reference_entries WHERE namespace = $1`,
		string(ns),
	)
	if err != nil {
		return nil, fmt.Errorf("querying reference entries for %s: %w", ns, err)
	}
	defer rows.Close()

	entries := make(map[string]json.RawMessage)
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scanning reference entry for %s: %w", ns, err)
		}
		entries[id] = json.RawMessage(payload)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reference entries for %s: %w", ns, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("namespace %s: %w", ns, reftable.ErrTableNotFound)
	}
	return entries, nil
}

// ReplaceNamespace atomically replaces every entry of ns with entries.
//
// Precondition: every entry value must be valid JSON.
// Postcondition: Returns the number of rows written; on error ns is unchanged.
func (r *ReferenceRepository) ReplaceNamespace(ctx context.Context, ns reftable.Namespace, entries map[string]json.RawMessage) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM reference_entries WHERE namespace = $1`, string(ns)); err != nil {
		return 0, fmt.Errorf("clearing namespace %s: %w", ns, err)
	}

	rows := make([][]any, 0, len(entries))
	for id, payload := range entries {
		rows = append(rows, []any{string(ns), id, payload})
	}
	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"reference_entries"},
		[]string{"namespace", "entry_id", "payload"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("copying entries into %s: %w", ns, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing namespace %s: %w", ns, err)
	}
	return n, nil
}

// Counts returns the number of stored entries per namespace.
func (r *ReferenceRepository) Counts(ctx context.Context) (map[reftable.Namespace]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT namespace, COUNT(*) FROM reference_entries GROUP BY namespace`,
	)
	if err != nil {
		return nil, fmt.Errorf("counting reference entries: %w", err)
	}
	defer rows.Close()

	out := make(map[reftable.Namespace]int)
	for rows.Next() {
		var ns string
		var n int
		if err := rows.Scan(&ns, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		out[reftable.Namespace(ns)] = n
	}
	return out, rows.Err()
}
