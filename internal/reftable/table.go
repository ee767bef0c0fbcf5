// Package reftable holds the named reference tables that map decimal-string
// IDs to display text. Tables are loaded once and are read-only afterwards,
// so a Store may be shared across goroutines without locking.
package reftable

import (
	"encoding/json"
	"fmt"

	"github.com/cory-johannsen/umaroster/internal/optional"
)

// Namespace names one reference table.
type Namespace string

// The fixed set of reference tables.
const (
	SkillNamesGlobal Namespace = "skillnames_global"
	SkillNamesJP     Namespace = "skillnames_jp"
	SkillData        Namespace = "skill_data"
	UmasGlobal       Namespace = "umas_global"
	UmasFull         Namespace = "umas_full"
	SparkNames       Namespace = "sparknames_global"
	RaceNames        Namespace = "racenames_global"
	OutfitNames      Namespace = "outfitnames_global"
	SupportCardNames Namespace = "supportcardnames_global"
	RaceTitles       Namespace = "racetitles_global"
	Nicknames        Namespace = "nicknames_global"
)

// All returns every known namespace in load order.
func All() []Namespace {
	return []Namespace{
		SkillNamesGlobal, SkillNamesJP, SkillData, UmasGlobal, UmasFull,
		SparkNames, RaceNames, OutfitNames, SupportCardNames, RaceTitles, Nicknames,
	}
}

// FileName returns the document name a namespace is stored under.
func (n Namespace) FileName() string {
	return string(n) + ".json"
}

// Table is one read-only ID-keyed reference table. Entry values stay as raw
// JSON and are decoded into the caller's expected shape on lookup, so a
// wrongly shaped entry is a miss rather than a load failure.
//
// A nil *Table behaves as an empty table.
type Table struct {
	ns      Namespace
	entries map[string]json.RawMessage
}

// NewTable wraps entries as the table for ns.
//
// Postcondition: the table takes ownership of entries; callers must not
// mutate the map afterwards.
func NewTable(ns Namespace, entries map[string]json.RawMessage) *Table {
	if entries == nil {
		entries = map[string]json.RawMessage{}
	}
	return &Table{ns: ns, entries: entries}
}

// ParseTable decodes a table document: a flat JSON object keyed by ID.
func ParseTable(data []byte) (map[string]json.RawMessage, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing table document: %w", err)
	}
	if entries == nil {
		return nil, fmt.Errorf("parsing table document: top-level value must be an object")
	}
	return entries, nil
}

// Namespace returns the table's namespace.
func (t *Table) Namespace() Namespace {
	if t == nil {
		return ""
	}
	return t.ns
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Raw returns the undecoded entry for id.
func (t *Table) Raw(id string) (json.RawMessage, bool) {
	if t == nil {
		return nil, false
	}
	raw, ok := t.entries[id]
	return raw, ok
}

// Decode unmarshals the entry for id into v.
//
// Postcondition: returns false when the entry is absent or not shaped like v.
func (t *Table) Decode(id string, v any) bool {
	raw, ok := t.Raw(id)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// String returns a non-empty string entry.
func (t *Table) String(id string) optional.Value[string] {
	var s string
	if !t.Decode(id, &s) || s == "" {
		return optional.None[string]()
	}
	return optional.Some(s)
}

// List returns a list entry. Non-string elements decode as empty strings so
// that positional access stays meaningful.
func (t *Table) List(id string) optional.Value[[]string] {
	var items []json.RawMessage
	if !t.Decode(id, &items) {
		return optional.None[[]string]()
	}
	out := make([]string, len(items))
	for i, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil {
			out[i] = s
		}
	}
	return optional.Some(out)
}
