// Package resolve turns composite IDs into display names by consulting the
// reference tables in a fixed fallback order. Every lookup is total: it yields
// a present optional.Value or an absent one, never an error.
package resolve

import (
	"strings"

	"github.com/cory-johannsen/umaroster/internal/decode"
	"github.com/cory-johannsen/umaroster/internal/optional"
	"github.com/cory-johannsen/umaroster/internal/reftable"
	"github.com/cory-johannsen/umaroster/internal/skill"
	"github.com/cory-johannsen/umaroster/internal/terms"
)

// Kind names the family of a resolved display name.
type Kind string

const (
	KindSkill       Kind = "skill"
	KindTrait       Kind = "trait"
	KindChara       Kind = "chara"
	KindCostume     Kind = "costume"
	KindCloth       Kind = "cloth"
	KindRaceTitle   Kind = "race_title"
	KindNickname    Kind = "nickname"
	KindSupportCard Kind = "support_card"
)

// NameFilter may rewrite a resolved name before it is returned. It is called
// only for names that were found.
type NameFilter interface {
	Filter(kind Kind, id uint64, name string) string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithNameFilter installs f as the Resolver's name filter.
func WithNameFilter(f NameFilter) Option {
	return func(r *Resolver) { r.filter = f }
}

// Resolver answers name lookups against one table snapshot.
// It holds no mutable state and is safe for concurrent use provided the
// installed NameFilter is.
type Resolver struct {
	store  *reftable.Store
	terms  *terms.Terms
	filter NameFilter
}

// New returns a Resolver over store.
//
// Precondition: store and t must be non-nil.
func New(store *reftable.Store, t *terms.Terms, opts ...Option) *Resolver {
	r := &Resolver{store: store, terms: t}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) table(ns reftable.Namespace) *reftable.Table {
	return r.store.Table(ns)
}

func (r *Resolver) named(kind Kind, id uint64, v optional.Value[string]) optional.Value[string] {
	if r.filter == nil {
		return v
	}
	name, ok := v.Get()
	if !ok {
		return v
	}
	if filtered := r.filter.Filter(kind, id, name); filtered != "" {
		return optional.Some(filtered)
	}
	return v
}

// SkillName returns the display name of a skill: the official name first,
// then the community translation (second element of the secondary entry).
func (r *Resolver) SkillName(skillID uint64) optional.Value[string] {
	return r.named(KindSkill, skillID, r.rawSkillName(skillID))
}

func (r *Resolver) rawSkillName(skillID uint64) optional.Value[string] {
	key := decode.Key(skillID)
	return listElement(r.table(reftable.SkillNamesGlobal), key, 0).Or(func() optional.Value[string] {
		return listElement(r.table(reftable.SkillNamesJP), key, 1)
	})
}

func listElement(t *reftable.Table, key string, idx int) optional.Value[string] {
	items, ok := t.List(key).Get()
	if !ok || len(items) <= idx || items[idx] == "" {
		return optional.None[string]()
	}
	return optional.Some(items[idx])
}

// SkillDefinition returns the skill_data entry for skillID.
func (r *Resolver) SkillDefinition(skillID uint64) optional.Value[skill.Definition] {
	var def skill.Definition
	if !r.table(reftable.SkillData).Decode(decode.Key(skillID), &def) {
		return optional.None[skill.Definition]()
	}
	return optional.Some(def)
}

// ClothName returns the racing outfit name for a race_cloth_id.
func (r *Resolver) ClothName(clothID uint64) optional.Value[string] {
	return r.named(KindCloth, clothID, r.table(reftable.OutfitNames).String(decode.Key(clothID)))
}

// RaceTitle returns the race win title for a saddle ID.
func (r *Resolver) RaceTitle(saddleID uint64) optional.Value[string] {
	return r.named(KindRaceTitle, saddleID, r.table(reftable.RaceTitles).String(decode.Key(saddleID)))
}

// Nickname returns the epithet text for a nickname ID.
func (r *Resolver) Nickname(nicknameID uint64) optional.Value[string] {
	return r.named(KindNickname, nicknameID, r.table(reftable.Nicknames).String(decode.Key(nicknameID)))
}

// CharaInfo is the resolved naming for a card.
type CharaInfo struct {
	CharaName   optional.Value[string]
	CostumeName optional.Value[string]
	CardName    optional.Value[string]
}

type umaEntry struct {
	Name    []string          `json:"name"`
	Outfits map[string]string `json:"outfits"`
}

func (u umaEntry) displayName() optional.Value[string] {
	if len(u.Name) > 1 && u.Name[1] != "" {
		return optional.Some(u.Name[1])
	}
	if len(u.Name) > 0 && u.Name[0] != "" {
		return optional.Some(u.Name[0])
	}
	return optional.None[string]()
}

// CharaInfo resolves character, costume and card names for cardID. The
// official source is consulted first; the full source fills only the fields
// the official one left empty.
func (r *Resolver) CharaInfo(cardID uint64) CharaInfo {
	charaKey := decode.Key(decode.CharaID(cardID))
	cardKey := decode.Key(cardID)

	var info CharaInfo
	for _, ns := range []reftable.Namespace{reftable.UmasGlobal, reftable.UmasFull} {
		var entry umaEntry
		if !r.table(ns).Decode(charaKey, &entry) {
			continue
		}
		if !info.CharaName.IsPresent() {
			info.CharaName = entry.displayName()
		}
		if !info.CostumeName.IsPresent() {
			if label := entry.Outfits[cardKey]; label != "" {
				info.CostumeName = optional.Some(label)
			}
		}
	}

	info.CharaName = r.named(KindChara, cardID, info.CharaName)
	info.CostumeName = r.named(KindCostume, cardID, info.CostumeName)
	if costume, ok := info.CostumeName.Get(); ok {
		info.CardName = optional.Some(strings.TrimSpace(costume + " " + info.CharaName.OrElse("")))
	}
	return info
}

// SupportCard is the resolved naming for a support card.
type SupportCard struct {
	Name  optional.Value[string]
	Title optional.Value[string]
	Chara optional.Value[string]
	Type  optional.Value[string]
}

type supportCardEntry struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Chara string `json:"chara"`
}

func nonEmpty(s string) optional.Value[string] {
	if s == "" {
		return optional.None[string]()
	}
	return optional.Some(s)
}

// SupportCard resolves a support card's names and its category, which is
// derived from the leading digit of the ID.
func (r *Resolver) SupportCard(cardID uint64) SupportCard {
	var out SupportCard
	var entry supportCardEntry
	if r.table(reftable.SupportCardNames).Decode(decode.Key(cardID), &entry) {
		out.Name = r.named(KindSupportCard, cardID, nonEmpty(entry.Name))
		out.Title = nonEmpty(entry.Title)
		out.Chara = nonEmpty(entry.Chara)
	}
	if typ, ok := r.terms.SupportCardType(decode.LeadingDigit(cardID)); ok {
		out.Type = optional.Some(typ)
	}
	return out
}
