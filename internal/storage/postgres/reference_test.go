package postgres_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/umaroster/internal/reftable"
	"github.com/cory-johannsen/umaroster/internal/storage/postgres"
	"github.com/cory-johannsen/umaroster/internal/testutil"
)

func TestReferenceRepository_RoundTrip(t *testing.T) {
	repo := postgres.NewReferenceRepository(testutil.NewPool(t))
	ctx := context.Background()

	entries := map[string]json.RawMessage{
		"101":  json.RawMessage(`"Speed"`),
		"2101": json.RawMessage(`"Front Runner"`),
	}
	n, err := repo.ReplaceNamespace(ctx, reftable.SparkNames, entries)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := repo.Load(ctx, reftable.SparkNames)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.JSONEq(t, `"Speed"`, string(got["101"]))

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[reftable.SparkNames])
}

func TestReferenceRepository_ReplaceDropsOldEntries(t *testing.T) {
	repo := postgres.NewReferenceRepository(testutil.NewPool(t))
	ctx := context.Background()

	_, err := repo.ReplaceNamespace(ctx, reftable.Nicknames, map[string]json.RawMessage{
		"1": json.RawMessage(`"Old"`),
		"2": json.RawMessage(`"Gone"`),
	})
	require.NoError(t, err)
	_, err = repo.ReplaceNamespace(ctx, reftable.Nicknames, map[string]json.RawMessage{
		"1": json.RawMessage(`"New"`),
	})
	require.NoError(t, err)

	got, err := repo.Load(ctx, reftable.Nicknames)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.JSONEq(t, `"New"`, string(got["1"]))
}

func TestReferenceRepository_MissingNamespace(t *testing.T) {
	repo := postgres.NewReferenceRepository(testutil.NewPool(t))
	_, err := repo.Load(context.Background(), reftable.RaceTitles)
	assert.ErrorIs(t, err, reftable.ErrTableNotFound)
}

func TestReferenceRepository_ServesStore(t *testing.T) {
	repo := postgres.NewReferenceRepository(testutil.NewPool(t))
	ctx := context.Background()

	for ns, doc := range testutil.ReferenceDocs {
		entries, err := reftable.ParseTable([]byte(doc))
		require.NoError(t, err)
		_, err = repo.ReplaceNamespace(ctx, ns, entries)
		require.NoError(t, err)
	}

	store := reftable.Load(ctx, repo, zap.NewNop())
	name, ok := store.Table(reftable.SkillNamesGlobal).List("200492").Get()
	require.True(t, ok)
	assert.Equal(t, []string{"Nimble Navigator"}, name)
	assert.Equal(t, len(testutil.ReferenceDocs), countNonEmpty(store.Counts()))
}

func countNonEmpty(counts map[reftable.Namespace]int) int {
	n := 0
	for _, c := range counts {
		if c > 0 {
			n++
		}
	}
	return n
}
