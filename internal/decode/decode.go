// Package decode splits composite integer identifiers into their semantic
// components. Every function is pure and total: a malformed ID yields ok=false,
// never a panic.
package decode

import "strconv"

// Trait ID ranges. Bounds are half-open: [Min, Max).
const (
	UniqueTraitMin = 10_000_000
	UniqueTraitMax = 20_000_000
	SkillTraitMin  = 2_000_000
	SkillTraitMax  = 3_000_000
	RaceTraitMin   = 1_000_000
	RaceTraitMax   = 10_000_000
)

const (
	uniqueTraitDigits = 8
	maxCharaIndex     = 999

	baseUniqueSkillOffset = 100_001
	altUniqueSkillOffset  = 110_001
	altOutfitVariant      = 2

	raceTextBase = 1000
	raceTextSpan = 1000

	skillGroupSize = 9
)

// UniqueTrait is the decoded form of an 8-digit unique-skill trait ID
// laid out as 10[CCC][V][SS].
type UniqueTrait struct {
	// CharaIndex is the three-digit character index (digits 3-5).
	CharaIndex int
	// Variant is the outfit variant digit; 2 selects the alternate outfit.
	Variant int
	// SkillID is the unique skill the trait was inherited from.
	SkillID uint64
}

// InUniqueTraitRange reports whether id falls in the unique-skill trait range.
func InUniqueTraitRange(id uint64) bool {
	return id >= UniqueTraitMin && id < UniqueTraitMax
}

// InSkillTraitRange reports whether id falls in the skill trait range.
func InSkillTraitRange(id uint64) bool {
	return id >= SkillTraitMin && id < SkillTraitMax
}

// InRaceTraitRange reports whether id falls in the race trait range.
func InRaceTraitRange(id uint64) bool {
	return id >= RaceTraitMin && id < RaceTraitMax
}

// UniqueTraitOf decodes a unique-skill trait ID.
//
// Postcondition: ok is false unless id is in range, has exactly eight digits,
// and the character index fits the three-digit namespace.
func UniqueTraitOf(id uint64) (UniqueTrait, bool) {
	if !InUniqueTraitRange(id) {
		return UniqueTrait{}, false
	}
	s := strconv.FormatUint(id, 10)
	if len(s) != uniqueTraitDigits {
		return UniqueTrait{}, false
	}
	idx, err := strconv.Atoi(s[2:5])
	if err != nil || idx < 0 || idx > maxCharaIndex {
		return UniqueTrait{}, false
	}
	variant := int(s[5] - '0')

	offset := uint64(baseUniqueSkillOffset)
	if variant == altOutfitVariant {
		offset = altUniqueSkillOffset
	}
	return UniqueTrait{
		CharaIndex: idx,
		Variant:    variant,
		SkillID:    offset + uint64(idx),
	}, true
}

// SkillTraitCandidates returns the nine skill IDs of the group a skill trait
// belongs to, in scan order. A trait 200XXYY maps to group base 200XX0.
func SkillTraitCandidates(id uint64) ([]uint64, bool) {
	if !InSkillTraitRange(id) {
		return nil, false
	}
	base := (id / 100) * 10
	out := make([]uint64, 0, skillGroupSize)
	for d := uint64(1); d <= skillGroupSize; d++ {
		out = append(out, base+d)
	}
	return out, true
}

// RaceTraitTextID returns the race-name text ID a race trait refers to.
func RaceTraitTextID(id uint64) (uint64, bool) {
	if !InRaceTraitRange(id) {
		return 0, false
	}
	program := id / 100
	return raceTextBase + program%raceTextSpan, true
}

// StarLevel extracts the star level encoded in the final two digits of a trait
// ID. Only levels 1 through 3 are valid.
func StarLevel(id uint64) (int, bool) {
	star := int(id % 100)
	if star < 1 || star > 3 {
		return 0, false
	}
	return star, true
}

// CharaID returns the character ID a card (outfit) ID belongs to.
func CharaID(cardID uint64) uint64 {
	return cardID / 100
}

// LeadingDigit returns the most significant decimal digit of id.
func LeadingDigit(id uint64) byte {
	for id >= 10 {
		id /= 10
	}
	return byte('0' + id)
}

// SkillPrefix returns the two leading digits of a six-digit skill ID.
//
// Postcondition: ok is false for IDs that are not exactly six digits.
func SkillPrefix(skillID uint64) (string, bool) {
	if skillID < 100_000 || skillID > 999_999 {
		return "", false
	}
	return strconv.FormatUint(skillID/10_000, 10), true
}

// Key renders id the way reference tables key their entries.
func Key(id uint64) string {
	return strconv.FormatUint(id, 10)
}
