// Package skill classifies skills and assembles the display bundle for one
// skill: rarity label, readable activation condition, formatted effects,
// duration and summary.
package skill

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/umaroster/internal/condition"
	"github.com/cory-johannsen/umaroster/internal/decode"
	"github.com/cory-johannsen/umaroster/internal/effect"
	"github.com/cory-johannsen/umaroster/internal/terms"
)

// Alternative is one activation variant of a skill.
type Alternative struct {
	Condition    string          `json:"condition"`
	BaseDuration int             `json:"baseDuration"`
	Effects      []effect.Effect `json:"effects"`
}

// Definition is a skill_data entry.
type Definition struct {
	Rarity       int           `json:"rarity"`
	Alternatives []Alternative `json:"alternatives"`
}

// Type is the colour-coding category of a skill.
type Type string

const (
	TypeGreen     Type = "green"
	TypeBlue      Type = "blue"
	TypeUnique    Type = "unique"
	TypeInherited Type = "inherited"
	TypeGold      Type = "gold"
	TypeWhite     Type = "white"
)

type classRule struct {
	typ   Type
	match func(skillID uint64, effects []effect.Effect) bool
}

// classRules is evaluated first-match-wins.
var classRules = []classRule{
	{TypeGreen, func(_ uint64, effects []effect.Effect) bool {
		for _, e := range effects {
			if e.IsStatBuff() {
				return true
			}
		}
		return false
	}},
	{TypeBlue, func(_ uint64, effects []effect.Effect) bool {
		for _, e := range effects {
			if e.Modifier < 0 {
				return true
			}
		}
		return false
	}},
	{TypeUnique, prefixIn("10", "11")},
	{TypeInherited, prefixIn("90", "91")},
}

func prefixIn(prefixes ...string) func(uint64, []effect.Effect) bool {
	return func(skillID uint64, _ []effect.Effect) bool {
		p, ok := decode.SkillPrefix(skillID)
		if !ok {
			return false
		}
		for _, want := range prefixes {
			if p == want {
				return true
			}
		}
		return false
	}
}

// Classify returns the skill's type from its ID and effects.
//
// Postcondition: ok is false when no rule applies; the caller then falls back
// to the rarity tier via RarityType.
func Classify(skillID uint64, effects []effect.Effect) (Type, bool) {
	for _, r := range classRules {
		if r.match(skillID, effects) {
			return r.typ, true
		}
	}
	return "", false
}

// RarityType maps a rarity label to the fallback skill type.
func RarityType(rarityLabel string) Type {
	switch rarityLabel {
	case "Gold":
		return TypeGold
	case "Unique":
		return TypeUnique
	default:
		return TypeWhite
	}
}

// EffectDetail is one rendered effect.
type EffectDetail struct {
	Type     int    `json:"type"`
	TypeName string `json:"type_name"`
	Modifier int    `json:"modifier"`
	Readable string `json:"readable"`
}

// Details is the display bundle for one skill. Fields other than Rarity are
// only populated when the definition has at least one alternative.
type Details struct {
	Rarity         string
	HasAlternative bool
	Condition      string
	ConditionText  string
	DurationBaseMS int
	Duration       string
	Effects        []EffectDetail
	Type           Type
	Summary        string
}

// Detailer builds Details using an injected vocabulary.
type Detailer struct {
	terms     *terms.Terms
	parser    *condition.Parser
	formatter *effect.Formatter
}

// NewDetailer returns a Detailer.
//
// Precondition: t must be non-nil.
func NewDetailer(t *terms.Terms) *Detailer {
	return &Detailer{
		terms:     t,
		parser:    condition.NewParser(t),
		formatter: effect.NewFormatter(t),
	}
}

// Details renders def for skillID. Only the first alternative is rendered.
func (d *Detailer) Details(skillID uint64, def Definition) Details {
	out := Details{Rarity: d.terms.RarityLabel(def.Rarity)}
	if len(def.Alternatives) == 0 {
		return out
	}
	alt := def.Alternatives[0]

	out.HasAlternative = true
	out.Condition = alt.Condition
	out.ConditionText = d.parser.Parse(alt.Condition)
	if alt.BaseDuration != 0 {
		out.DurationBaseMS = alt.BaseDuration
		out.Duration = fmt.Sprintf("%.1fs", float64(alt.BaseDuration)/1000)
	}

	out.Effects = make([]EffectDetail, 0, len(alt.Effects))
	readable := make([]string, 0, len(alt.Effects))
	for _, e := range alt.Effects {
		r := d.formatter.Format(e)
		out.Effects = append(out.Effects, EffectDetail{
			Type:     e.Type,
			TypeName: d.formatter.TypeName(e),
			Modifier: e.Modifier,
			Readable: r,
		})
		readable = append(readable, r)
	}

	if typ, ok := Classify(skillID, alt.Effects); ok {
		out.Type = typ
	} else {
		out.Type = RarityType(out.Rarity)
	}
	out.Summary = fmt.Sprintf("%s → %s", out.ConditionText, strings.Join(readable, ", "))
	return out
}
