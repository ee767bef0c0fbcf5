// Package condition renders skill activation-condition expressions such as
// "phase==2&is_lastspurt=1" as readable text.
//
// An expression is a list of clauses joined by '&'. Each clause is split into
// key, operator and value, then rendered by the first matching rule in an
// ordered rule list.
package condition

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cory-johannsen/umaroster/internal/terms"
)

// Always is the rendering of an expression with no renderable clauses.
const Always = "Always"

// Operators in match priority order; two-character operators precede their
// one-character prefixes.
var Operators = []string{">=", "<=", "==", "!=", ">", "<", "="}

// Clause is one key/operator/value comparison.
type Clause struct {
	Key   string
	Op    string
	Value string
}

// ParseClause splits raw on the first operator (in priority order) it contains.
//
// Postcondition: ok is false when raw contains no operator.
func ParseClause(raw string) (Clause, bool) {
	for _, op := range Operators {
		key, value, found := strings.Cut(raw, op)
		if found {
			return Clause{
				Key:   strings.TrimSpace(key),
				Op:    op,
				Value: strings.TrimSpace(value),
			}, true
		}
	}
	return Clause{}, false
}

type rule struct {
	name   string
	match  func(c Clause) bool
	render func(p *Parser, c Clause) (string, bool)
}

func keyIs(key string) func(Clause) bool {
	return func(c Clause) bool { return c.Key == key }
}

func keyValueIs(key, value string) func(Clause) bool {
	return func(c Clause) bool { return c.Key == key && c.Value == value }
}

func fixed(text string) func(*Parser, Clause) (string, bool) {
	return func(*Parser, Clause) (string, bool) { return text, true }
}

// rules is evaluated first-match-wins. A render returning false drops the clause.
var rules = []rule{
	{name: "phase", match: keyIs("phase"), render: (*Parser).renderPhase},
	{name: "distance_rate", match: keyIs("distance_rate"), render: (*Parser).renderDistanceRate},
	{name: "order", match: keyIs("order"), render: (*Parser).renderOrder},
	{name: "order_rate", match: keyIs("order_rate"), render: (*Parser).renderOrderRate},
	{name: "running_style", match: keyIs("running_style"), render: func(p *Parser, c Clause) (string, bool) {
		return lookup(p.terms.Conditions.RunningStyle, c.Value, "Style"), true
	}},
	{name: "corner", match: keyIs("corner"), render: func(_ *Parser, c Clause) (string, bool) {
		if c.Value == "0" {
			return "Not in corner", true
		}
		return "Corner " + c.Value, true
	}},
	{name: "is_lastspurt", match: keyValueIs("is_lastspurt", "1"), render: fixed("Last Spurt")},
	{name: "is_finalcorner", match: keyValueIs("is_finalcorner", "1"), render: fixed("Final Corner")},
	{name: "hp_per", match: keyIs("hp_per"), render: (*Parser).renderHP},
	{name: "activate_count_heal", match: keyIs("activate_count_heal"), render: func(_ *Parser, c Clause) (string, bool) {
		return fmt.Sprintf("After %s recovery skill(s)", c.Value), true
	}},
	{name: "ground_type", match: keyIs("ground_type"), render: func(p *Parser, c Clause) (string, bool) {
		return lookup(p.terms.Conditions.GroundType, c.Value, "Ground"), true
	}},
	{name: "distance_type", match: keyIs("distance_type"), render: func(p *Parser, c Clause) (string, bool) {
		return lookup(p.terms.Conditions.DistanceType, c.Value, "Distance"), true
	}},
	{name: "random", match: func(c Clause) bool {
		return strings.HasSuffix(c.Key, "_random") && c.Value == "1"
	}, render: func(_ *Parser, c Clause) (string, bool) {
		area := strings.ReplaceAll(c.Key, "_random", "")
		return "Random in " + titleWords(area), true
	}},
	{name: "always", match: keyIs("always"), render: func(*Parser, Clause) (string, bool) {
		return "", false
	}},
	{name: "generic", match: func(Clause) bool { return true }, render: func(_ *Parser, c Clause) (string, bool) {
		return fmt.Sprintf("%s %s %s", titleWords(c.Key), c.Op, c.Value), true
	}},
}

// Parser renders condition expressions using an injected vocabulary.
// A Parser is stateless after construction and safe for concurrent use.
type Parser struct {
	terms *terms.Terms
}

// NewParser returns a Parser.
//
// Precondition: t must be non-nil.
func NewParser(t *terms.Terms) *Parser {
	return &Parser{terms: t}
}

// Parse renders expr.
//
// Postcondition: returns Always for an empty expression or one whose clauses
// all drop; never returns an empty string.
func (p *Parser) Parse(expr string) string {
	if expr == "" {
		return Always
	}
	var parts []string
	for _, raw := range strings.Split(expr, "&") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		c, ok := ParseClause(raw)
		if !ok {
			parts = append(parts, titleWords(raw))
			continue
		}
		if text, keep := p.RenderClause(c); keep {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return Always
	}
	return strings.Join(parts, " & ")
}

// RenderClause renders one clause with the first matching rule.
//
// Postcondition: keep is false only for clauses that render to nothing.
func (p *Parser) RenderClause(c Clause) (text string, keep bool) {
	for _, r := range rules {
		if r.match(c) {
			return r.render(p, c)
		}
	}
	return "", false
}

func (p *Parser) renderPhase(c Clause) (string, bool) {
	name := lookup(p.terms.Conditions.Phase, c.Value, "Phase")
	switch c.Op {
	case "==", "=":
		return name, true
	case ">=":
		return name + "+", true
	default:
		return "phase" + c.Op + c.Value, true
	}
}

func (p *Parser) renderDistanceRate(c Clause) (string, bool) {
	switch c.Op {
	case ">=":
		return fmt.Sprintf("After %s%% of race", c.Value), true
	case "<=":
		return fmt.Sprintf("Before %s%% of race", c.Value), true
	default:
		return fmt.Sprintf("%s%% of race", c.Value), true
	}
}

func (p *Parser) renderOrder(c Clause) (string, bool) {
	switch c.Op {
	case "<=":
		return "Top " + c.Value, true
	case ">=":
		return fmt.Sprintf("Position %s+", c.Value), true
	default:
		return "Position " + c.Value, true
	}
}

func (p *Parser) renderOrderRate(c Clause) (string, bool) {
	switch c.Op {
	case "<=":
		return fmt.Sprintf("Top %s%%", c.Value), true
	case ">=":
		if n, err := strconv.Atoi(c.Value); err == nil {
			return fmt.Sprintf("Back %d%%", 100-n), true
		}
	}
	return fmt.Sprintf("%s%% of field", c.Value), true
}

func (p *Parser) renderHP(c Clause) (string, bool) {
	switch c.Op {
	case "<=":
		return fmt.Sprintf("HP ≤%s%%", c.Value), true
	case ">=":
		return fmt.Sprintf("HP ≥%s%%", c.Value), true
	default:
		return fmt.Sprintf("HP %s%%", c.Value), true
	}
}

func lookup(m map[string]string, value, prefix string) string {
	if name, ok := m[value]; ok {
		return name
	}
	return prefix + " " + value
}

// titleWords turns a snake_case token into space-separated title case.
// Words follow Unicode word boundaries, so a word that starts with a digit
// keeps its letters lower case ("2nd", not "2Nd").
// Casers carry state, so one is built per call.
func titleWords(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}
