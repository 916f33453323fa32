// Package tki maps (tension, assertiveness) scores onto the five
// Thomas-Kilmann conflict-handling styles.
package tki

import "fmt"

// Style is one of the five Thomas-Kilmann conflict modes.
type Style int

const (
	Competing Style = iota
	Collaborating
	Compromising
	Avoiding
	Accommodating
)

// Styles lists every style in declaration order.
var Styles = []Style{Competing, Collaborating, Compromising, Avoiding, Accommodating}

// Classification thresholds.
const (
	HighAssertiveness = 0.60
	LowAssertiveness  = 0.35
	HighTension       = 0.60 // applies when assertiveness is high
	LowTension        = 0.35 // applies when assertiveness is low
)

var names = [...]string{
	Competing:     "Competing",
	Collaborating: "Collaborating",
	Compromising:  "Compromising",
	Avoiding:      "Avoiding",
	Accommodating: "Accommodating",
}

var qualifiers = [...]string{
	Competing:     "assertive, high tension",
	Collaborating: "assertive, constructive",
	Compromising:  "moderate assertiveness/tension",
	Avoiding:      "withdrawal, anxious",
	Accommodating: "yielding, low tension",
}

func (s Style) valid() bool { return s >= Competing && s <= Accommodating }

func (s Style) String() string {
	if !s.valid() {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return names[s]
}

// Qualifier is the short human-readable description of the style.
func (s Style) Qualifier() string {
	if !s.valid() {
		return ""
	}
	return qualifiers[s]
}

// Label renders the style as "Name (qualifier)".
func (s Style) Label() string {
	return fmt.Sprintf("%s (%s)", s, s.Qualifier())
}

// MarshalText encodes the style by name.
func (s Style) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("tki: invalid style %d", int(s))
	}
	return []byte(names[s]), nil
}

// UnmarshalText decodes a style name.
func (s *Style) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Parse returns the style with the given name.
func Parse(name string) (Style, error) {
	for _, s := range Styles {
		if names[s] == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("tki: unknown style %q", name)
}

// Classify maps a score pair onto a style. Assertiveness selects the band;
// inside the high and low bands tension picks between the two styles.
// Every input, including values outside [0,1], yields exactly one style.
func Classify(tension, assertiveness float64) Style {
	switch {
	case assertiveness >= HighAssertiveness:
		if tension >= HighTension {
			return Competing
		}
		return Collaborating
	case assertiveness >= LowAssertiveness:
		return Compromising
	default:
		if tension >= LowTension {
			return Avoiding
		}
		return Accommodating
	}
}

// Explain describes which thresholds fired for the given scores.
func Explain(tension, assertiveness float64) string {
	s := Classify(tension, assertiveness)
	switch {
	case assertiveness >= HighAssertiveness:
		return fmt.Sprintf("assertiveness %.2f >= %.2f, tension %.2f >= %.2f is %t: %s",
			assertiveness, HighAssertiveness, tension, HighTension, tension >= HighTension, s)
	case assertiveness >= LowAssertiveness:
		return fmt.Sprintf("%.2f <= assertiveness %.2f < %.2f: %s",
			LowAssertiveness, assertiveness, HighAssertiveness, s)
	default:
		return fmt.Sprintf("assertiveness %.2f < %.2f, tension %.2f >= %.2f is %t: %s",
			assertiveness, LowAssertiveness, tension, LowTension, tension >= LowTension, s)
	}
}
