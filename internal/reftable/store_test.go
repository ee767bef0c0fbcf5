package reftable_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/umaroster/internal/reftable"
)

func writeTable(t *testing.T, dir string, ns reftable.Namespace, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ns.FileName()), []byte(body), 0644))
}

func TestTable_String(t *testing.T) {
	tbl := reftable.NewTable(reftable.RaceNames, map[string]json.RawMessage{
		"1010": json.RawMessage(`"Japanese Derby"`),
		"1011": json.RawMessage(`""`),
		"1012": json.RawMessage(`["not", "a", "string"]`),
	})
	got, ok := tbl.String("1010").Get()
	require.True(t, ok)
	assert.Equal(t, "Japanese Derby", got)
	assert.False(t, tbl.String("1011").IsPresent())
	assert.False(t, tbl.String("1012").IsPresent())
	assert.False(t, tbl.String("9999").IsPresent())
}

func TestTable_List(t *testing.T) {
	tbl := reftable.NewTable(reftable.SkillNamesJP, map[string]json.RawMessage{
		"200491": json.RawMessage(`["ノンストップガール", "Nimble Navigator"]`),
		"200492": json.RawMessage(`[null, "Only English"]`),
		"200493": json.RawMessage(`{"name": "record"}`),
	})
	got, ok := tbl.List("200491").Get()
	require.True(t, ok)
	assert.Equal(t, []string{"ノンストップガール", "Nimble Navigator"}, got)

	got, ok = tbl.List("200492").Get()
	require.True(t, ok)
	assert.Equal(t, []string{"", "Only English"}, got)

	assert.False(t, tbl.List("200493").IsPresent())
}

func TestNilTable_Misses(t *testing.T) {
	var tbl *reftable.Table
	assert.Equal(t, 0, tbl.Len())
	assert.False(t, tbl.String("1").IsPresent())
	assert.False(t, tbl.List("1").IsPresent())
	var v map[string]any
	assert.False(t, tbl.Decode("1", &v))
}

func TestStore_MissingNamespaceIsEmpty(t *testing.T) {
	s := reftable.Empty()
	tbl := s.Table(reftable.Nicknames)
	require.NotNil(t, tbl)
	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, reftable.Nicknames, tbl.Namespace())
}

func TestParseTable_RejectsNonObject(t *testing.T) {
	_, err := reftable.ParseTable([]byte(`[1,2,3]`))
	assert.Error(t, err)
	_, err = reftable.ParseTable([]byte(`null`))
	assert.Error(t, err)
	_, err = reftable.ParseTable([]byte(`{"1": "ok"}`))
	assert.NoError(t, err)
}

func TestLoad_DegradesCorruptAndMissingTables(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, reftable.Nicknames, `{"33": "Derby Winner"}`)
	writeTable(t, dir, reftable.RaceTitles, `{"1": "Satsuki Sho"`)

	store := reftable.Load(context.Background(), reftable.NewDirSource(dir), zap.NewNop())

	assert.Equal(t, "Derby Winner", store.Table(reftable.Nicknames).String("33").OrElse(""))
	assert.Equal(t, 0, store.Table(reftable.RaceTitles).Len())
	assert.Equal(t, 0, store.Table(reftable.SkillData).Len())

	counts := store.Counts()
	assert.Len(t, counts, len(reftable.All()))
	assert.Equal(t, 1, counts[reftable.Nicknames])
}

func TestDirSource_NotFound(t *testing.T) {
	_, err := reftable.NewDirSource(t.TempDir()).Load(context.Background(), reftable.SkillData)
	assert.ErrorIs(t, err, reftable.ErrTableNotFound)
}
