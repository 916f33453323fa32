// Package sentiment estimates the polarity and subjectivity of an utterance.
package sentiment

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Result is the sentiment of one utterance.
type Result struct {
	Polarity     float64 `json:"polarity"`     // [-1,1]
	Subjectivity float64 `json:"subjectivity"` // [0,1]
}

// Analyzer scores the sentiment of free text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) Result
}

//go:embed lexicon.yaml
var lexiconYAML []byte

type entry struct {
	Polarity     float64
	Subjectivity float64
}

func (e *entry) UnmarshalYAML(n *yaml.Node) error {
	var pair []float64
	if err := n.Decode(&pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("line %d: want [polarity, subjectivity], got %d values", n.Line, len(pair))
	}
	e.Polarity, e.Subjectivity = pair[0], pair[1]
	return nil
}

type lexiconFile struct {
	Negations    []string           `yaml:"negations"`
	Intensifiers map[string]float64 `yaml:"intensifiers"`
	Words        map[string]entry   `yaml:"words"`
}

// Lexicon averages the polarity and subjectivity of known adjectives.
// A preceding intensifier scales the word, a negation within the two
// previous tokens flips and halves its polarity.
type Lexicon struct {
	negations    map[string]struct{}
	intensifiers map[string]float64
	words        map[string]entry
}

// NewLexicon loads the embedded lexicon.
func NewLexicon() (*Lexicon, error) {
	return ParseLexicon(lexiconYAML)
}

// MustLexicon is like NewLexicon but panics on a malformed lexicon.
func MustLexicon() *Lexicon {
	l, err := NewLexicon()
	if err != nil {
		panic(err)
	}
	return l
}

// ParseLexicon builds a Lexicon from YAML.
func ParseLexicon(b []byte) (*Lexicon, error) {
	var f lexiconFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("sentiment lexicon: %w", err)
	}
	l := &Lexicon{
		negations:    make(map[string]struct{}, len(f.Negations)),
		intensifiers: f.Intensifiers,
		words:        f.Words,
	}
	for _, n := range f.Negations {
		l.negations[n] = struct{}{}
	}
	if l.intensifiers == nil {
		l.intensifiers = map[string]float64{}
	}
	return l, nil
}

func (l *Lexicon) Analyze(_ context.Context, text string) Result {
	toks := tokenize(text)
	var (
		pol, subj float64
		n         int
	)
	for i, w := range toks {
		e, ok := l.words[w]
		if !ok {
			continue
		}
		p, s := e.Polarity, e.Subjectivity
		if i > 0 {
			if m, ok := l.intensifiers[toks[i-1]]; ok {
				p *= m
				s *= m
			}
		}
		if l.negated(toks, i) {
			p *= -0.5
		}
		pol += clamp(p, -1, 1)
		subj += clamp(s, 0, 1)
		n++
	}
	if n == 0 {
		return Result{}
	}
	return Result{Polarity: pol / float64(n), Subjectivity: subj / float64(n)}
}

func (l *Lexicon) negated(toks []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-2; j-- {
		if _, ok := l.negations[toks[j]]; ok {
			return true
		}
	}
	return false
}

// tokenize lower-cases text and splits it into words. Contractions are
// split so that "don't" yields "do" and "n't".
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f == "" {
			continue
		}
		if strings.HasSuffix(f, "n't") && len(f) > 3 {
			out = append(out, strings.TrimSuffix(f, "n't"), "n't")
			continue
		}
		out = append(out, f)
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
