// Package lexical derives tension and assertiveness from what was said.
package lexical

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/johnrychristian11/conflict-resolution-tki/scores"
	"github.com/johnrychristian11/conflict-resolution-tki/sentiment"
)

// Assertiveness levels picked by the keyword detectors, highest priority first.
const (
	CollaborativeAssertiveness = 0.35
	AvoidantAssertiveness      = 0.15
	CompliantAssertiveness     = 0.25
	DefaultAssertiveness       = 0.65
)

// Features are the intermediate text measurements of one utterance.
type Features struct {
	Polarity      float64 `json:"polarity"`
	Subjectivity  float64 `json:"subjectivity"`
	Compliance    float64 `json:"compliance"`
	Collaboration float64 `json:"collaboration"`
	Avoidance     float64 `json:"avoidance"`
}

// Scorer turns an utterance into a score pair.
type Scorer struct {
	sentiment sentiment.Analyzer
	log       logrus.FieldLogger
}

func NewScorer(a sentiment.Analyzer, log logrus.FieldLogger) *Scorer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scorer{sentiment: a, log: log}
}

// Extract measures sentiment and keyword patterns.
func (s *Scorer) Extract(ctx context.Context, text string) Features {
	r := s.sentiment.Analyze(ctx, text)
	return Features{
		Polarity:      r.Polarity,
		Subjectivity:  r.Subjectivity,
		Compliance:    Compliance(text),
		Collaboration: Collaboration(text),
		Avoidance:     Avoidance(text),
	}
}

// Score returns the text-derived tension and assertiveness.
func (s *Scorer) Score(ctx context.Context, text string) scores.Pair {
	f := s.Extract(ctx, text)
	p := FromFeatures(f)
	s.log.WithFields(logrus.Fields{
		"polarity":      f.Polarity,
		"subjectivity":  f.Subjectivity,
		"compliance":    f.Compliance,
		"collaboration": f.Collaboration,
		"avoidance":     f.Avoidance,
		"tension":       p.Tension,
		"assertiveness": p.Assertiveness,
	}).Debug("text scored")
	return p
}

// FromFeatures applies the scoring rules to measured features. Negative
// polarity and subjective wording raise tension; the first keyword pattern
// that fires sets assertiveness.
func FromFeatures(f Features) scores.Pair {
	tension := 1 - (f.Polarity+1)/2 + 0.2*f.Subjectivity

	var assertiveness float64
	switch {
	case f.Collaboration > 0.6:
		assertiveness = CollaborativeAssertiveness
	case f.Avoidance > 0.7:
		assertiveness = AvoidantAssertiveness
	case f.Compliance > 0.8:
		assertiveness = CompliantAssertiveness
	default:
		assertiveness = DefaultAssertiveness
	}
	return scores.Pair{Tension: scores.Clamp01(tension), Assertiveness: assertiveness}
}
