// Package terms holds the fixed display vocabulary used to render reference
// data: effect-type labels, activation-condition terms, rarity labels,
// support-card categories, and terminology corrections. Terms are loaded once
// from YAML and never mutated, so one instance may be shared by every
// resolver component.
package terms

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// ConditionTerms maps categorical condition values to display text.
type ConditionTerms struct {
	Phase        map[string]string `yaml:"phase"`
	RunningStyle map[string]string `yaml:"running_style"`
	GroundType   map[string]string `yaml:"ground_type"`
	DistanceType map[string]string `yaml:"distance_type"`
}

// Correction rewrites a community term to its official equivalent.
type Correction struct {
	From string
	To   string
}

// UnmarshalYAML decodes a correction written as a two-element sequence.
func (c *Correction) UnmarshalYAML(node *yaml.Node) error {
	var pair []string
	if err := node.Decode(&pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("line %d: correction must have exactly 2 elements, got %d", node.Line, len(pair))
	}
	c.From, c.To = pair[0], pair[1]
	return nil
}

// Corrections holds ordered correction lists per table family.
type Corrections struct {
	Trait    []Correction `yaml:"trait"`
	Nickname []Correction `yaml:"nickname"`
}

// Terms is the full fixed vocabulary.
type Terms struct {
	EffectTypes      map[int]string    `yaml:"effect_types"`
	Conditions       ConditionTerms    `yaml:"conditions"`
	Rarity           map[int]string    `yaml:"rarity"`
	SupportCardTypes map[string]string `yaml:"support_card_types"`
	Corrections      Corrections       `yaml:"corrections"`
}

// Default returns the built-in vocabulary.
//
// Postcondition: Returns a validated Terms; panics only if the embedded file
// is broken, which is a build defect.
func Default() *Terms {
	t, err := LoadFromBytes(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("terms: embedded default.yaml: %v", err))
	}
	return t
}

// Load reads a vocabulary file from path.
//
// Precondition: path must point to a YAML file following the default.yaml schema.
// Postcondition: Returns a validated Terms or a non-nil error.
func Load(path string) (*Terms, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading terms file %s: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses and validates a vocabulary from YAML bytes.
func LoadFromBytes(data []byte) (*Terms, error) {
	var t Terms
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("parsing terms YAML: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks that every section the renderers depend on is populated.
func (t *Terms) Validate() error {
	var errs []string
	if len(t.EffectTypes) == 0 {
		errs = append(errs, "effect_types must not be empty")
	}
	if len(t.Rarity) == 0 {
		errs = append(errs, "rarity must not be empty")
	}
	if len(t.SupportCardTypes) == 0 {
		errs = append(errs, "support_card_types must not be empty")
	}
	for digit := range t.SupportCardTypes {
		if len(digit) != 1 || digit[0] < '0' || digit[0] > '9' {
			errs = append(errs, fmt.Sprintf("support_card_types key %q must be a single digit", digit))
		}
	}
	if len(errs) > 0 {
		return errors.New("terms validation failed: " + strings.Join(errs, "; "))
	}
	return nil
}

// EffectLabel returns the label for an effect type code.
func (t *Terms) EffectLabel(code int) (string, bool) {
	l, ok := t.EffectTypes[code]
	return l, ok
}

// RarityLabel returns the label for a rarity tier, or "Rarity N" when the
// tier is unknown.
func (t *Terms) RarityLabel(rarity int) string {
	if l, ok := t.Rarity[rarity]; ok {
		return l
	}
	return fmt.Sprintf("Rarity %d", rarity)
}

// SupportCardType returns the category label for a support card's leading digit.
func (t *Terms) SupportCardType(leading byte) (string, bool) {
	l, ok := t.SupportCardTypes[string(leading)]
	return l, ok
}

// Correct applies corrections to name: an exact match wins outright,
// otherwise every correction is applied as a substring replacement in order.
func Correct(name string, corrections []Correction) string {
	if name == "" {
		return name
	}
	for _, c := range corrections {
		if c.From == name {
			return c.To
		}
	}
	out := name
	for _, c := range corrections {
		if strings.Contains(out, c.From) {
			out = strings.ReplaceAll(out, c.From, c.To)
		}
	}
	return out
}
