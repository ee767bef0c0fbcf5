package enrich_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/umaroster/internal/enrich"
	"github.com/cory-johannsen/umaroster/internal/reftable"
	"github.com/cory-johannsen/umaroster/internal/resolve"
	"github.com/cory-johannsen/umaroster/internal/skill"
	"github.com/cory-johannsen/umaroster/internal/terms"
	"github.com/cory-johannsen/umaroster/internal/testutil"
)

func newEnricher(t testing.TB, store *reftable.Store, opts ...enrich.Option) *enrich.Enricher {
	t.Helper()
	tm := terms.Default()
	return enrich.New(resolve.New(store, tm), skill.NewDetailer(tm), zap.NewNop(), opts...)
}

// decodeRecord parses a record the same way the file reader does.
func decodeRecord(t testing.TB, doc string) map[string]any {
	t.Helper()
	records, err := enrich.ReadRecords(strings.NewReader("[" + doc + "]"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec, ok := records[0].(map[string]any)
	require.True(t, ok)
	return rec
}

func encode(t require.TestingT, v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(v))
	return buf.String()
}

const fullRecord = `{
	"card_id": 100101,
	"race_cloth_id": 100101,
	"skill_array": [{"skill_id": 200492, "level": 3}, {"skill_id": 999999}, "junk"],
	"factor_id_array": [10060102, 101, "bad"],
	"factor_info_array": [{"factor_id": 2004903}],
	"win_saddle_id_array": [1, 2],
	"nickname_id_array": [33],
	"support_card_list": [{"support_card_id": 30028}],
	"succession_chara_array": [
		{"card_id": 100601, "factor_info_array": [{"factor_id": 1001002}, {"factor_id": 0}]}
	]
}`

func TestEnrichRecord_TopLevelNames(t *testing.T) {
	out := newEnricher(t, testutil.ReferenceStore(t)).EnrichRecord(decodeRecord(t, fullRecord))
	assert.Equal(t, "Special Week", out["chara_name_en"])
	assert.Equal(t, "[Special Dreamer]", out["costume_name_en"])
	assert.Equal(t, "[Special Dreamer] Special Week", out["card_name_en"])
	assert.Equal(t, "Special Dreamer", out["race_cloth_name_en"])
}

func TestEnrichRecord_Skills(t *testing.T) {
	out := newEnricher(t, testutil.ReferenceStore(t)).EnrichRecord(decodeRecord(t, fullRecord))
	skills := out["skill_array"].([]any)
	require.Len(t, skills, 3)

	white := skills[0].(map[string]any)
	assert.Equal(t, "Nimble Navigator", white["skill_name_en"])
	assert.Equal(t, "White", white["rarity"])
	assert.Equal(t, "white", white["skill_type"])
	assert.Equal(t, "Final Leg & Last Spurt", white["condition"])
	assert.Equal(t, "18.0s", white["duration"])
	assert.Equal(t, "Final Leg & Last Spurt → Acceleration +0.2000", white["summary"])
	assert.Equal(t, json.Number("3"), white["level"])
	effects := white["effects"].([]any)
	require.Len(t, effects, 1)
	assert.Equal(t, map[string]any{
		"type":      31,
		"type_name": "Acceleration +",
		"modifier":  2000,
		"readable":  "Acceleration +0.2000",
	}, effects[0])

	unknown := skills[1].(map[string]any)
	assert.NotContains(t, unknown, "skill_name_en")
	assert.NotContains(t, unknown, "rarity")

	assert.Equal(t, "junk", skills[2])
}

func TestEnrichRecord_SkillWithoutAlternatives(t *testing.T) {
	out := newEnricher(t, testutil.ReferenceStore(t)).EnrichRecord(decodeRecord(t, `{"skill_array": [{"skill_id": 200802}]}`))
	s := out["skill_array"].([]any)[0].(map[string]any)
	assert.Equal(t, "Gold Named", s["skill_name_en"])
	assert.Equal(t, "Gold", s["rarity"])
	for _, key := range []string{"skill_type", "condition", "effects", "duration", "summary"} {
		assert.NotContains(t, s, key)
	}
}

func TestEnrichRecord_Sparks(t *testing.T) {
	out := newEnricher(t, testutil.ReferenceStore(t)).EnrichRecord(decodeRecord(t, fullRecord))
	sparks := out["spark_array_enriched"].([]any)
	require.Len(t, sparks, 3)
	assert.Equal(t, map[string]any{
		"spark_id":      json.Number("10060102"),
		"spark_name_en": "Triumphant Pulse",
		"stars":         2,
	}, sparks[0])
	assert.Equal(t, map[string]any{
		"spark_id":      json.Number("101"),
		"spark_name_en": "Speed",
		"stars":         1,
	}, sparks[1])
	assert.Equal(t, map[string]any{"spark_id": "bad"}, sparks[2])

	info := out["factor_info_array"].([]any)[0].(map[string]any)
	assert.Equal(t, "Nimble Navigator", info["spark_name_en"])
	assert.NotContains(t, info, "stars")
}

func TestEnrichRecord_WinsNicknamesSupportCards(t *testing.T) {
	out := newEnricher(t, testutil.ReferenceStore(t)).EnrichRecord(decodeRecord(t, fullRecord))
	assert.Equal(t, []any{
		map[string]any{"saddle_id": json.Number("1"), "race_name_en": "Classic Triple Crown"},
		map[string]any{"saddle_id": json.Number("2")},
	}, out["win_saddle_array_enriched"])
	assert.Equal(t, []any{
		map[string]any{"nickname_id": json.Number("33"), "nickname_name_en": "Derby Winner"},
	}, out["nickname_array_enriched"])

	sc := out["support_card_list"].([]any)[0].(map[string]any)
	assert.Equal(t, "[Fire at My Heels] Kitasan Black", sc["support_card_name_en"])
	assert.Equal(t, "[Fire at My Heels]", sc["support_card_title_en"])
	assert.Equal(t, "Kitasan Black", sc["support_card_chara_en"])
	assert.Equal(t, "Power", sc["support_card_type"])
}

func TestEnrichRecord_SuccessionParents(t *testing.T) {
	out := newEnricher(t, testutil.ReferenceStore(t)).EnrichRecord(decodeRecord(t, fullRecord))
	parent := out["succession_chara_array"].([]any)[0].(map[string]any)
	assert.Equal(t, "オグリキャップ", parent["chara_name_en"])
	assert.Equal(t, "[Starlight Beat]", parent["costume_name_en"])

	factors := parent["factor_info_array"].([]any)
	race := factors[0].(map[string]any)
	assert.Equal(t, "Japanese Derby", race["spark_name_en"])
	assert.Equal(t, 2, race["stars"])
	zero := factors[1].(map[string]any)
	assert.NotContains(t, zero, "spark_name_en")
	assert.NotContains(t, zero, "stars")
}

func TestEnrichRecord_ParentWithoutCardStillGetsTraits(t *testing.T) {
	out := newEnricher(t, testutil.ReferenceStore(t)).EnrichRecord(decodeRecord(t,
		`{"succession_chara_array": [{"factor_info_array": [{"factor_id": 2101}]}]}`))
	parent := out["succession_chara_array"].([]any)[0].(map[string]any)
	assert.NotContains(t, parent, "chara_name_en")
	info := parent["factor_info_array"].([]any)[0].(map[string]any)
	assert.Equal(t, "Front Runner", info["spark_name_en"])
	assert.Equal(t, 1, info["stars"])
}

func TestEnrichRecord_EmptyListsAddNothing(t *testing.T) {
	rec := decodeRecord(t, `{"card_id": 0, "factor_id_array": [], "win_saddle_id_array": [], "nickname_id_array": []}`)
	out := newEnricher(t, testutil.ReferenceStore(t)).EnrichRecord(rec)
	assert.Equal(t, rec, out)
}

func TestEnrichRecord_DoesNotMutateInput(t *testing.T) {
	rec := decodeRecord(t, fullRecord)
	before := encode(t, rec)
	_ = newEnricher(t, testutil.ReferenceStore(t)).EnrichRecord(rec)
	assert.Equal(t, before, encode(t, rec))
}

func TestEnrichRecord_Idempotent(t *testing.T) {
	e := newEnricher(t, testutil.ReferenceStore(t))
	once := e.EnrichRecord(decodeRecord(t, fullRecord))
	twice := e.EnrichRecord(once)
	assert.Equal(t, encode(t, once), encode(t, twice))
}

func TestEnrichRecord_EmptyStoreOnlyAddsStructuralFields(t *testing.T) {
	out := newEnricher(t, reftable.Empty()).EnrichRecord(decodeRecord(t, fullRecord))
	for _, key := range []string{"chara_name_en", "costume_name_en", "card_name_en", "race_cloth_name_en"} {
		assert.NotContains(t, out, key)
	}
	sparks := out["spark_array_enriched"].([]any)
	assert.Equal(t, map[string]any{"spark_id": json.Number("101"), "stars": 1}, sparks[1])
	s := out["skill_array"].([]any)[0].(map[string]any)
	assert.NotContains(t, s, "skill_name_en")
}

func TestEnrichAll_PreservesOrderAndPassesThrough(t *testing.T) {
	records, err := enrich.ReadRecords(strings.NewReader(`[{"card_id": 100101}, 7, null, {"card_id": 999901}, {"skill_array": [{"skill_id": 200352}]}]`))
	require.NoError(t, err)

	out, stats, err := newEnricher(t, testutil.ReferenceStore(t), enrich.WithWorkers(2)).EnrichAll(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, out, 5)
	assert.Equal(t, "Special Week", out[0].(map[string]any)["chara_name_en"])
	assert.Equal(t, json.Number("7"), out[1])
	assert.Nil(t, out[2])
	assert.NotContains(t, out[3].(map[string]any), "chara_name_en")
	assert.Equal(t, enrich.Stats{Records: 5, WithNames: 1, WithSkillNames: 1}, stats)
}

func TestEnrichAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := newEnricher(t, testutil.ReferenceStore(t)).EnrichAll(ctx, []any{map[string]any{}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnrichAll_Empty(t *testing.T) {
	out, stats, err := newEnricher(t, testutil.ReferenceStore(t)).EnrichAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, enrich.Stats{}, stats)
}

func TestProperty_EnrichmentIsAdditiveAndIdempotent(t *testing.T) {
	e := newEnricher(t, testutil.ReferenceStore(t))
	ids := []uint64{0, 1, 33, 101, 2101, 100101, 100601, 200492, 1001002, 2004901, 3000101, 10060101, 30028, 999999}
	rapid.Check(t, func(rt *rapid.T) {
		pick := func(label string) uint64 { return rapid.SampledFrom(ids).Draw(rt, label) }
		rec := map[string]any{
			"card_id":             pick("card"),
			"race_cloth_id":       pick("cloth"),
			"skill_array":         []any{map[string]any{"skill_id": pick("skill")}},
			"factor_id_array":     []any{pick("factor")},
			"win_saddle_id_array": []any{pick("saddle")},
			"nickname_id_array":   []any{pick("nickname")},
			"support_card_list":   []any{map[string]any{"support_card_id": pick("card_support")}},
		}
		once := e.EnrichRecord(rec)
		for k, v := range rec {
			if k == "skill_array" || k == "support_card_list" {
				continue
			}
			assert.Equal(rt, v, once[k], "field %s", k)
		}
		assert.Equal(rt, encode(rt, once), encode(rt, e.EnrichRecord(once)))
	})
}

func TestReadRecords_RejectsNonArray(t *testing.T) {
	for _, doc := range []string{`{"a": 1}`, `"x"`, `not json`, ``} {
		_, err := enrich.ReadRecords(strings.NewReader(doc))
		assert.ErrorIs(t, err, enrich.ErrDecodeInput, "doc %q", doc)
	}
}

func TestReadRecords_RejectsTrailingData(t *testing.T) {
	for _, doc := range []string{`[{"card_id": 100101}] garbage`, `[] {`, `[1][2]`, `[] 3`} {
		records, err := enrich.ReadRecords(strings.NewReader(doc))
		assert.ErrorIs(t, err, enrich.ErrDecodeInput, "doc %q", doc)
		assert.Nil(t, records, "doc %q", doc)
	}
}

func TestReadRecords_AllowsTrailingWhitespace(t *testing.T) {
	records, err := enrich.ReadRecords(strings.NewReader("[{\"card_id\": 100101}]\n\t \n"))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestWriteRecords_KeepsUnicodeAndIndents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, enrich.WriteRecords(&buf, []any{map[string]any{"name": "オグリキャップ <&>"}}))
	assert.Equal(t, "[\n  {\n    \"name\": \"オグリキャップ <&>\"\n  }\n]\n", buf.String())

	buf.Reset()
	require.NoError(t, enrich.WriteRecords(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestEnrichFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(in, []byte(`[{"card_id": 100101, "viewer_id": 123456789012345678}]`), 0644))

	stats, err := newEnricher(t, testutil.ReferenceStore(t)).EnrichFile(context.Background(), in, "")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.WithNames)

	raw, err := os.ReadFile(filepath.Join(dir, enrich.DefaultOutputName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"viewer_id": 123456789012345678`)
	assert.Contains(t, string(raw), `"card_name_en": "[Special Dreamer] Special Week"`)
}

func TestEnrichFile_Errors(t *testing.T) {
	e := newEnricher(t, testutil.ReferenceStore(t))
	dir := t.TempDir()

	_, err := e.EnrichFile(context.Background(), filepath.Join(dir, "missing.json"), "")
	assert.ErrorIs(t, err, enrich.ErrReadInput)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"not": "a list"}`), 0644))
	out := filepath.Join(dir, "out.json")
	_, err = e.EnrichFile(context.Background(), bad, out)
	assert.ErrorIs(t, err, enrich.ErrDecodeInput)
	assert.NoFileExists(t, out)

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`[]`), 0644))
	_, err = e.EnrichFile(context.Background(), good, filepath.Join(dir, "no-such-dir", "out.json"))
	assert.ErrorIs(t, err, enrich.ErrWriteOutput)
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("exports", "enriched_data.json"), enrich.DefaultOutputPath(filepath.Join("exports", "data.json")))
}
