package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cory-johannsen/umaroster/internal/reftable"
)

// ReferenceDocs is a small, self-consistent set of reference table documents
// used across package tests.
//
// Notable groups:
//   - skill group 20049x: gold 200491 precedes white 200492.
//   - skill group 20060x: white 200602 is only named in the community table.
//   - skill group 20070x: no white skill at all.
//   - skill group 20080x: white 200801 exists but has no name.
var ReferenceDocs = map[reftable.Namespace]string{
	reftable.SkillNamesGlobal: `{
		"100011": ["Shooting Star"],
		"100041": ["Red Shift/LP1211-M"],
		"110041": ["A Kiss for Courage"],
		"100061": ["Triumphant Pulse"],
		"110061": ["Festive Miracle"],
		"200351": ["Swinging Maestro"],
		"200352": ["Corner Recovery ○"],
		"200491": ["No Stopping Me!"],
		"200492": ["Nimble Navigator"],
		"200701": ["Gold Only"],
		"200802": ["Gold Named"],
		"900061": ["Triumphant Pulse"]
	}`,
	reftable.SkillNamesJP: `{
		"200602": ["スリーセブン", "Slick Surge"],
		"200603": ["only-native"],
		"100061": ["勝利の鼓動", "Community Pulse"]
	}`,
	reftable.SkillData: `{
		"100061": {"rarity": 6, "alternatives": [{"condition": "phase>=2&order<=3", "baseDuration": 50000, "effects": [{"type": 27, "modifier": 3500}]}]},
		"200351": {"rarity": 4, "alternatives": [{"condition": "corner!=0", "baseDuration": 0, "effects": [{"type": 9, "modifier": 550}]}]},
		"200352": {"rarity": 1, "alternatives": [{"condition": "corner!=0", "baseDuration": 0, "effects": [{"type": 9, "modifier": 350}]}]},
		"200491": {"rarity": 4, "alternatives": [{"condition": "order_rate>=70", "baseDuration": 30000, "effects": [{"type": 27, "modifier": 3500}]}]},
		"200492": {"rarity": 1, "alternatives": [{"condition": "phase==2&is_lastspurt=1", "baseDuration": 18000, "effects": [{"type": 31, "modifier": 2000}]}]},
		"200602": {"rarity": 1, "alternatives": []},
		"200701": {"rarity": 4, "alternatives": [{"condition": "", "baseDuration": 24000, "effects": [{"type": 1, "modifier": 60}]}]},
		"200801": {"rarity": 1, "alternatives": []},
		"200802": {"rarity": 4, "alternatives": []},
		"201611": {"rarity": 2, "alternatives": [{"condition": "running_style==1", "baseDuration": 30000, "effects": [{"type": 21, "modifier": -1500}]}]}
	}`,
	reftable.UmasGlobal: `{
		"1001": {"name": ["スペシャルウィーク", "Special Week"], "outfits": {"100101": "[Special Dreamer]"}},
		"1006": {"name": ["オグリキャップ", ""], "outfits": {}}
	}`,
	reftable.UmasFull: `{
		"1001": {"name": ["スペシャルウィーク", "Special Week (full)"], "outfits": {"100101": "[full label]", "100102": "[Alt Dreamer]"}},
		"1006": {"name": ["オグリキャップ", "Oguri Cap"], "outfits": {"100601": "[Starlight Beat]"}}
	}`,
	reftable.SparkNames: `{
		"101": "Speed",
		"102": "Speed",
		"103": "Speed",
		"2101": "Front Runner",
		"3000101": "URA Finale"
	}`,
	reftable.RaceNames: `{
		"1010": "Japanese Derby",
		"1049": "Race Named 1049"
	}`,
	reftable.OutfitNames: `{
		"100101": "Special Dreamer"
	}`,
	reftable.SupportCardNames: `{
		"30028": {"name": "[Fire at My Heels] Kitasan Black", "title": "[Fire at My Heels]", "chara": "Kitasan Black"},
		"10001": {"title": "[Title Only]"}
	}`,
	reftable.RaceTitles: `{
		"1": "Classic Triple Crown"
	}`,
	reftable.Nicknames: `{
		"33": "Derby Winner"
	}`,
}

// ReferenceStore returns a Store built from ReferenceDocs.
//
// Postcondition: Returns a Store with every namespace populated, or fails the test.
func ReferenceStore(t testing.TB) *reftable.Store {
	t.Helper()
	tables := make([]*reftable.Table, 0, len(ReferenceDocs))
	for ns, doc := range ReferenceDocs {
		entries, err := reftable.ParseTable([]byte(doc))
		if err != nil {
			t.Fatalf("parsing fixture %s: %v", ns, err)
		}
		tables = append(tables, reftable.NewTable(ns, entries))
	}
	return reftable.NewStore(tables...)
}

// WriteReferenceDir writes ReferenceDocs as table documents into a fresh
// temporary directory and returns its path.
func WriteReferenceDir(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	for ns, doc := range ReferenceDocs {
		var check map[string]json.RawMessage
		if err := json.Unmarshal([]byte(doc), &check); err != nil {
			t.Fatalf("fixture %s is not valid JSON: %v", ns, err)
		}
		if err := os.WriteFile(filepath.Join(dir, ns.FileName()), []byte(doc), 0644); err != nil {
			t.Fatalf("writing fixture %s: %v", ns, err)
		}
	}
	return dir
}
