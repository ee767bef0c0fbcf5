package enrich

import (
	"encoding/json"
	"math"
	"strconv"
)

// Input field names.
const (
	fieldCardID          = "card_id"
	fieldRaceClothID     = "race_cloth_id"
	fieldSkills          = "skill_array"
	fieldSkillID         = "skill_id"
	fieldFactorIDs       = "factor_id_array"
	fieldFactorInfos     = "factor_info_array"
	fieldFactorID        = "factor_id"
	fieldWinSaddleIDs    = "win_saddle_id_array"
	fieldNicknameIDs     = "nickname_id_array"
	fieldSupportCards    = "support_card_list"
	fieldSupportCardID   = "support_card_id"
	fieldSuccessionChara = "succession_chara_array"
)

// Derived field names.
const (
	outCharaName        = "chara_name_en"
	outCostumeName      = "costume_name_en"
	outCardName         = "card_name_en"
	outClothName        = "race_cloth_name_en"
	outSkillName        = "skill_name_en"
	outRarity           = "rarity"
	outSkillType        = "skill_type"
	outCondition        = "condition"
	outEffects          = "effects"
	outDuration         = "duration"
	outSummary          = "summary"
	outSparks           = "spark_array_enriched"
	outSparkID          = "spark_id"
	outSparkName        = "spark_name_en"
	outStars            = "stars"
	outWins             = "win_saddle_array_enriched"
	outSaddleID         = "saddle_id"
	outRaceName         = "race_name_en"
	outNicknames        = "nickname_array_enriched"
	outNicknameID       = "nickname_id"
	outNicknameName     = "nickname_name_en"
	outSupportCardName  = "support_card_name_en"
	outSupportCardTitle = "support_card_title_en"
	outSupportCardChara = "support_card_chara_en"
	outSupportCardType  = "support_card_type"
)

// toID converts a decoded JSON number to an unsigned ID.
//
// Postcondition: ok is false for non-numbers, negatives, and non-integral values.
func toID(v any) (uint64, bool) {
	switch n := v.(type) {
	case json.Number:
		id, err := strconv.ParseUint(n.String(), 10, 64)
		if err == nil {
			return id, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatID(f)
	case float64:
		return floatID(n)
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case uint64:
		return n, true
	default:
		return 0, false
	}
}

func floatID(f float64) (uint64, bool) {
	if f < 0 || f != math.Trunc(f) || f >= math.MaxUint64 {
		return 0, false
	}
	return uint64(f), true
}

// nonZeroID reads a scalar ID field; absent, malformed and zero IDs miss.
func nonZeroID(m map[string]any, key string) (uint64, bool) {
	id, ok := toID(m[key])
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

func list(m map[string]any, key string) []any {
	l, _ := m[key].([]any)
	return l
}

// objects returns the object elements of a list field, skipping anything else.
func objects(m map[string]any, key string) []map[string]any {
	var out []map[string]any
	for _, item := range list(m, key) {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// clone deep-copies a decoded JSON value.
func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = clone(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = clone(val)
		}
		return out
	default:
		return v
	}
}
