// Package tablegen derives the display-name reference tables from an upstream
// text dictionary, applying terminology corrections on the way.
package tablegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/umaroster/internal/reftable"
	"github.com/cory-johannsen/umaroster/internal/terms"
)

// Upstream dictionary categories.
const (
	CategorySparkNames        = "147"
	CategoryRaceNames         = "36"
	CategoryOutfitNames       = "14"
	CategorySupportCardName   = "75"
	CategorySupportCardTitle  = "76"
	CategorySupportCardChara  = "77"
	CategoryRaceTitles        = "111"
	CategoryNicknamesEarned   = "130"
	CategoryNicknamesSupports = "151"
)

// Doc is one generated table document: entry ID -> JSON-encodable value.
type Doc map[string]any

type table struct {
	ns    reftable.Namespace
	build func(g *Generator, d Dictionary) (doc Doc, corrected int)
}

// tables lists every generated namespace in output order.
var tables = []table{
	{reftable.SparkNames, (*Generator).sparkNames},
	{reftable.RaceNames, (*Generator).raceNames},
	{reftable.OutfitNames, (*Generator).outfitNames},
	{reftable.SupportCardNames, (*Generator).supportCardNames},
	{reftable.RaceTitles, (*Generator).raceTitles},
	{reftable.Nicknames, (*Generator).nicknames},
}

// Namespaces returns the namespaces a Generator produces.
func Namespaces() []reftable.Namespace {
	out := make([]reftable.Namespace, len(tables))
	for i, t := range tables {
		out[i] = t.ns
	}
	return out
}

// Generator builds reference table documents from a Source.
type Generator struct {
	source Source
	terms  *terms.Terms
	logger *zap.Logger
}

// New constructs a Generator.
//
// Precondition: source, t and logger must be non-nil.
// Postcondition: returns a non-nil Generator.
func New(source Source, t *terms.Terms, logger *zap.Logger) *Generator {
	return &Generator{source: source, terms: t, logger: logger}
}

// Generate loads the dictionary and builds every table document.
//
// Postcondition: the result holds one Doc per entry of Namespaces(), or an error is returned.
func (g *Generator) Generate(ctx context.Context) (map[reftable.Namespace]Doc, error) {
	start := time.Now()
	dict, err := g.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading source: %w", err)
	}
	g.logger.Info("text dictionary loaded",
		zap.Int("categories", len(dict)),
		zap.Duration("elapsed", time.Since(start)),
	)

	out := make(map[reftable.Namespace]Doc, len(tables))
	for _, t := range tables {
		doc, corrected := t.build(g, dict)
		out[t.ns] = doc
		g.logger.Info("table generated",
			zap.String("namespace", string(t.ns)),
			zap.Int("entries", len(doc)),
			zap.Int("corrected", corrected),
		)
	}
	return out, nil
}

// Run generates every table and writes each as <namespace>.json in outputDir.
// Each document is checked to load as a reference table before it is written.
//
// Precondition: outputDir must exist or be creatable.
// Postcondition: one document per namespace is written, or an error is returned.
func (g *Generator) Run(ctx context.Context, outputDir string) error {
	overall := time.Now()
	docs, err := g.Generate(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	for _, ns := range Namespaces() {
		data, err := Encode(docs[ns])
		if err != nil {
			return fmt.Errorf("serialising %s: %w", ns, err)
		}
		if _, err := reftable.ParseTable(data); err != nil {
			return fmt.Errorf("%s failed validation: %w", ns, err)
		}
		outPath := filepath.Join(outputDir, ns.FileName())
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return fmt.Errorf("writing %s to %s: %w", ns, outPath, err)
		}
		g.logger.Info("table written", zap.String("path", outPath))
	}

	g.logger.Info("generation complete", zap.Duration("elapsed", time.Since(overall)))
	return nil
}

// Encode renders doc as indented JSON with non-ASCII text kept literal.
func Encode(doc Doc) ([]byte, error) {
	if doc == nil {
		doc = Doc{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) corrected(cat map[string]string, corrections []terms.Correction) (Doc, int) {
	doc := make(Doc, len(cat))
	n := 0
	for id, name := range cat {
		fixed := terms.Correct(name, corrections)
		if fixed != name {
			n++
		}
		doc[id] = fixed
	}
	return doc, n
}

func (g *Generator) sparkNames(d Dictionary) (Doc, int) {
	return g.corrected(d.Category(CategorySparkNames), g.terms.Corrections.Trait)
}

func (g *Generator) raceNames(d Dictionary) (Doc, int) {
	return g.corrected(d.Category(CategoryRaceNames), g.terms.Corrections.Trait)
}

func (g *Generator) outfitNames(d Dictionary) (Doc, int) {
	doc := make(Doc)
	for id, name := range d.Category(CategoryOutfitNames) {
		doc[id] = name
	}
	return doc, 0
}

// supportCardEntry is the merged name/title/chara record of one card.
type supportCardEntry struct {
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
	Chara string `json:"chara,omitempty"`
}

func (g *Generator) supportCardNames(d Dictionary) (Doc, int) {
	entries := make(map[string]*supportCardEntry)
	entry := func(id string) *supportCardEntry {
		e, ok := entries[id]
		if !ok {
			e = &supportCardEntry{}
			entries[id] = e
		}
		return e
	}
	for id, v := range d.Category(CategorySupportCardName) {
		entry(id).Name = v
	}
	for id, v := range d.Category(CategorySupportCardTitle) {
		entry(id).Title = v
	}
	for id, v := range d.Category(CategorySupportCardChara) {
		entry(id).Chara = v
	}

	doc := make(Doc, len(entries))
	for id, e := range entries {
		doc[id] = e
	}
	return doc, 0
}

func (g *Generator) raceTitles(d Dictionary) (Doc, int) {
	doc := make(Doc)
	for id, name := range d.Category(CategoryRaceTitles) {
		doc[id] = strings.TrimSpace(strings.ReplaceAll(name, "\n", " "))
	}
	return doc, 0
}

// nicknames merges support-card bonus epithets with earned epithets; earned
// epithets win on overlapping IDs.
func (g *Generator) nicknames(d Dictionary) (Doc, int) {
	doc := make(Doc)
	n := 0
	for _, cat := range []string{CategoryNicknamesSupports, CategoryNicknamesEarned} {
		part, corrected := g.corrected(d.Category(cat), g.terms.Corrections.Nickname)
		for id, name := range part {
			doc[id] = name
		}
		n += corrected
	}
	return doc, n
}
