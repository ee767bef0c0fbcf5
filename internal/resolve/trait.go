package resolve

import (
	"github.com/cory-johannsen/umaroster/internal/decode"
	"github.com/cory-johannsen/umaroster/internal/optional"
	"github.com/cory-johannsen/umaroster/internal/reftable"
)

// Tier names one step of trait resolution.
type Tier string

const (
	TierUniqueSkill Tier = "unique_skill"
	TierSkill       Tier = "skill"
	TierRace        Tier = "race"
	TierGeneric     Tier = "generic"
)

type traitTier struct {
	tier    Tier
	applies func(id uint64) bool
	resolve func(r *Resolver, id uint64) optional.Value[string]
}

// traitTiers is evaluated in order; the first tier that applies and yields a
// name wins. A tier that applies but misses falls through to the next.
var traitTiers = []traitTier{
	{TierUniqueSkill, decode.InUniqueTraitRange, (*Resolver).uniqueTraitName},
	{TierSkill, decode.InSkillTraitRange, (*Resolver).skillTraitName},
	{TierRace, decode.InRaceTraitRange, (*Resolver).raceTraitName},
	{TierGeneric, func(uint64) bool { return true }, (*Resolver).genericTraitName},
}

// TraitName resolves a trait (spark/factor) ID to its display name. The star
// level encoded in the final two digits never affects the result.
func (r *Resolver) TraitName(id uint64) optional.Value[string] {
	name, _ := r.ResolveTrait(id)
	return name
}

// ResolveTrait is TraitName that also reports which tier produced the name.
//
// Postcondition: tier is empty when the name is absent.
func (r *Resolver) ResolveTrait(id uint64) (optional.Value[string], Tier) {
	for _, t := range traitTiers {
		if !t.applies(id) {
			continue
		}
		if name := t.resolve(r, id); name.IsPresent() {
			return r.named(KindTrait, id, name), t.tier
		}
	}
	return optional.None[string](), ""
}

func (r *Resolver) uniqueTraitName(id uint64) optional.Value[string] {
	u, ok := decode.UniqueTraitOf(id)
	if !ok {
		return optional.None[string]()
	}
	return r.rawSkillName(u.SkillID)
}

// skillTraitName returns the name of the group's white (rarity 1) skill. The
// first white candidate decides the outcome even when it has no name; only a
// group without any white candidate falls back to the first named skill.
func (r *Resolver) skillTraitName(id uint64) optional.Value[string] {
	candidates, ok := decode.SkillTraitCandidates(id)
	if !ok {
		return optional.None[string]()
	}
	data := r.table(reftable.SkillData)
	for _, c := range candidates {
		var def struct {
			Rarity int `json:"rarity"`
		}
		if data.Decode(decode.Key(c), &def) && def.Rarity == 1 {
			return r.rawSkillName(c)
		}
	}
	for _, c := range candidates {
		if name := r.rawSkillName(c); name.IsPresent() {
			return name
		}
	}
	return optional.None[string]()
}

func (r *Resolver) raceTraitName(id uint64) optional.Value[string] {
	textID, ok := decode.RaceTraitTextID(id)
	if !ok {
		return optional.None[string]()
	}
	return r.table(reftable.RaceNames).String(decode.Key(textID))
}

func (r *Resolver) genericTraitName(id uint64) optional.Value[string] {
	return r.table(reftable.SparkNames).String(decode.Key(id))
}
