// Package effect renders skill effects, an effect-type code paired with a
// modifier whose scale depends on the type, into display strings.
package effect

import (
	"fmt"

	"github.com/cory-johannsen/umaroster/internal/terms"
)

// Effect type codes with special scaling.
const (
	TypeSpeed          = 1
	TypeStamina        = 2
	TypePower          = 3
	TypeGuts           = 4
	TypeWit            = 5
	TypeRecovery       = 9
	TypeStartDelay     = 10
	TypeCurrentSpeed   = 21
	TypeDecelSpeed     = 22
	TypeTargetSpeed    = 27
	TypeAcceleration   = 31
	speedScale         = 10_000.0
	accelerationScale  = 10_000.0
	recoveryPercentDiv = 100.0
)

// Effect is one entry in a skill alternative's effect list.
type Effect struct {
	Type     int `json:"type"`
	Modifier int `json:"modifier"`
}

// IsStatBuff reports whether the effect raises a base stat.
func (e Effect) IsStatBuff() bool {
	return e.Type >= TypeSpeed && e.Type <= TypeWit
}

// Formatter renders effects using an injected vocabulary.
type Formatter struct {
	terms *terms.Terms
}

// NewFormatter returns a Formatter.
//
// Precondition: t must be non-nil.
func NewFormatter(t *terms.Terms) *Formatter {
	return &Formatter{terms: t}
}

// TypeName returns the label for e's type, or "Unknown".
func (f *Formatter) TypeName(e Effect) string {
	if l, ok := f.terms.EffectLabel(e.Type); ok {
		return l
	}
	return "Unknown"
}

// Format renders e as display text.
//
// Postcondition: always returns a non-empty string.
func (f *Formatter) Format(e Effect) string {
	label, ok := f.terms.EffectLabel(e.Type)
	if !ok {
		label = fmt.Sprintf("Effect %d", e.Type)
	}
	switch {
	case e.IsStatBuff():
		return fmt.Sprintf("%s%d", label, e.Modifier)
	case e.Type == TypeRecovery:
		return fmt.Sprintf("Recover %.0f%% Stamina", float64(e.Modifier)/recoveryPercentDiv)
	case e.Type == TypeCurrentSpeed, e.Type == TypeDecelSpeed, e.Type == TypeTargetSpeed:
		return fmt.Sprintf("%s%.2fm/s", label, float64(e.Modifier)/speedScale)
	case e.Type == TypeAcceleration:
		return fmt.Sprintf("%s%.4f", label, float64(e.Modifier)/accelerationScale)
	case e.Type == TypeStartDelay:
		return fmt.Sprintf("Start Delay x%d", e.Modifier)
	default:
		return fmt.Sprintf("%s (%d)", label, e.Modifier)
	}
}
