// Package enrich annotates roster character records with display names and
// skill details resolved from the reference tables. Enrichment is additive:
// every original field is kept and only derived fields are written, so
// enriching an already-enriched record yields the same result.
package enrich

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/umaroster/internal/decode"
	"github.com/cory-johannsen/umaroster/internal/optional"
	"github.com/cory-johannsen/umaroster/internal/resolve"
	"github.com/cory-johannsen/umaroster/internal/skill"
)

// DefaultWorkers is the batch parallelism used when none is configured.
const DefaultWorkers = 4

// Stats summarises one batch.
type Stats struct {
	// Records is the number of input elements.
	Records int
	// WithNames counts records that gained at least one top-level field.
	WithNames int
	// WithSkillNames counts records with at least one named skill.
	WithSkillNames int
}

// Enricher annotates character records.
// It is safe for concurrent use.
type Enricher struct {
	resolver *resolve.Resolver
	detailer *skill.Detailer
	logger   *zap.Logger
	workers  int
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithWorkers bounds the number of records enriched concurrently by EnrichAll.
// Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(e *Enricher) {
		if n >= 1 {
			e.workers = n
		}
	}
}

// New returns an Enricher.
//
// Precondition: resolver, detailer and logger must be non-nil.
func New(resolver *resolve.Resolver, detailer *skill.Detailer, logger *zap.Logger, opts ...Option) *Enricher {
	e := &Enricher{
		resolver: resolver,
		detailer: detailer,
		logger:   logger,
		workers:  DefaultWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnrichAll enriches every object element of records. Non-object elements are
// passed through unchanged. The result has the same length and order as the
// input; the input is not modified.
//
// Postcondition: returns a non-nil error only when ctx is cancelled.
func (e *Enricher) EnrichAll(ctx context.Context, records []any) ([]any, Stats, error) {
	runID := uuid.NewString()
	start := time.Now()
	e.logger.Info("enrichment started",
		zap.String("run_id", runID),
		zap.Int("records", len(records)),
		zap.Int("workers", e.workers),
	)

	out := make([]any, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, item := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, ok := item.(map[string]any)
			if !ok {
				e.logger.Debug("skipping non-object record",
					zap.String("run_id", runID),
					zap.Int("index", i),
				)
				out[i] = clone(item)
				return nil
			}
			out[i] = e.EnrichRecord(rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Records: len(records)}
	for i, item := range out {
		after, ok := item.(map[string]any)
		if !ok {
			continue
		}
		before := records[i].(map[string]any)
		if len(after) > len(before) {
			stats.WithNames++
		}
		for _, s := range objects(after, fieldSkills) {
			if _, named := s[outSkillName]; named {
				stats.WithSkillNames++
				break
			}
		}
	}

	e.logger.Info("enrichment finished",
		zap.String("run_id", runID),
		zap.Int("records", stats.Records),
		zap.Int("with_names", stats.WithNames),
		zap.Int("with_skill_names", stats.WithSkillNames),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, stats, nil
}

// EnrichRecord returns an annotated deep copy of rec.
//
// Postcondition: rec is not modified; the copy holds every field of rec.
func (e *Enricher) EnrichRecord(rec map[string]any) map[string]any {
	out := clone(rec).(map[string]any)

	e.charaFields(out)

	if id, ok := nonZeroID(out, fieldRaceClothID); ok {
		setOpt(out, outClothName, e.resolver.ClothName(id))
	}

	for _, s := range objects(out, fieldSkills) {
		e.skillFields(s)
	}

	if ids := list(out, fieldFactorIDs); len(ids) > 0 {
		sparks := make([]any, 0, len(ids))
		for _, raw := range ids {
			sparks = append(sparks, e.sparkEntry(raw))
		}
		out[outSparks] = sparks
	}

	for _, info := range objects(out, fieldFactorInfos) {
		if id, ok := nonZeroID(info, fieldFactorID); ok {
			setOpt(info, outSparkName, e.resolver.TraitName(id))
		}
	}

	if ids := list(out, fieldWinSaddleIDs); len(ids) > 0 {
		out[outWins] = lookupEntries(ids, outSaddleID, outRaceName, e.resolver.RaceTitle)
	}
	if ids := list(out, fieldNicknameIDs); len(ids) > 0 {
		out[outNicknames] = lookupEntries(ids, outNicknameID, outNicknameName, e.resolver.Nickname)
	}

	for _, sc := range objects(out, fieldSupportCards) {
		e.supportCardFields(sc)
	}

	for _, parent := range objects(out, fieldSuccessionChara) {
		e.parentFields(parent)
	}
	return out
}

func (e *Enricher) charaFields(rec map[string]any) {
	id, ok := nonZeroID(rec, fieldCardID)
	if !ok {
		return
	}
	info := e.resolver.CharaInfo(id)
	setOpt(rec, outCharaName, info.CharaName)
	setOpt(rec, outCostumeName, info.CostumeName)
	setOpt(rec, outCardName, info.CardName)
}

func (e *Enricher) skillFields(s map[string]any) {
	id, ok := nonZeroID(s, fieldSkillID)
	if !ok {
		return
	}
	setOpt(s, outSkillName, e.resolver.SkillName(id))

	def, ok := e.resolver.SkillDefinition(id).Get()
	if !ok {
		return
	}
	d := e.detailer.Details(id, def)
	s[outRarity] = d.Rarity
	if !d.HasAlternative {
		return
	}
	s[outSkillType] = string(d.Type)
	s[outCondition] = d.ConditionText
	effects := make([]any, 0, len(d.Effects))
	for _, eff := range d.Effects {
		effects = append(effects, map[string]any{
			"type":      eff.Type,
			"type_name": eff.TypeName,
			"modifier":  eff.Modifier,
			"readable":  eff.Readable,
		})
	}
	s[outEffects] = effects
	if d.Duration != "" {
		s[outDuration] = d.Duration
	}
	s[outSummary] = d.Summary
}

// sparkEntry builds one spark_array_enriched element. Malformed IDs keep
// their raw value and gain nothing.
func (e *Enricher) sparkEntry(raw any) map[string]any {
	entry := map[string]any{outSparkID: raw}
	id, ok := toID(raw)
	if !ok {
		return entry
	}
	setOpt(entry, outSparkName, e.resolver.TraitName(id))
	if stars, ok := decode.StarLevel(id); ok {
		entry[outStars] = stars
	}
	return entry
}

func (e *Enricher) supportCardFields(sc map[string]any) {
	id, ok := nonZeroID(sc, fieldSupportCardID)
	if !ok {
		return
	}
	info := e.resolver.SupportCard(id)
	setOpt(sc, outSupportCardName, info.Name)
	setOpt(sc, outSupportCardTitle, info.Title)
	setOpt(sc, outSupportCardChara, info.Chara)
	setOpt(sc, outSupportCardType, info.Type)
}

// parentFields enriches a succession parent one level deep: names and traits
// only, no skills or support cards.
func (e *Enricher) parentFields(parent map[string]any) {
	e.charaFields(parent)
	for _, info := range objects(parent, fieldFactorInfos) {
		id, ok := nonZeroID(info, fieldFactorID)
		if !ok {
			continue
		}
		setOpt(info, outSparkName, e.resolver.TraitName(id))
		if stars, ok := decode.StarLevel(id); ok {
			info[outStars] = stars
		}
	}
}

func lookupEntries(ids []any, idKey, nameKey string, lookup func(uint64) optional.Value[string]) []any {
	out := make([]any, 0, len(ids))
	for _, raw := range ids {
		entry := map[string]any{idKey: raw}
		if id, ok := toID(raw); ok {
			setOpt(entry, nameKey, lookup(id))
		}
		out = append(out, entry)
	}
	return out
}

func setOpt(m map[string]any, key string, v optional.Value[string]) {
	if s, ok := v.Get(); ok {
		m[key] = s
	}
}
