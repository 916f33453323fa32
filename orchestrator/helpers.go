package orchestrator

import (
	"github.com/johnrychristian11/conflict-resolution-tki/scores"
	"github.com/johnrychristian11/conflict-resolution-tki/tki"
)

func summarize(a ConversationAnalysis) Summary {
	s := Summary{Turns: len(a), StyleShare: map[tki.Style]float64{}}
	if len(a) == 0 {
		return s
	}

	idx := map[string]int{}
	for i, t := range a {
		j, ok := idx[t.Speaker]
		if !ok {
			j = len(s.Speakers)
			idx[t.Speaker] = j
			s.Speakers = append(s.Speakers, SpeakerSummary{Speaker: t.Speaker, Styles: map[tki.Style]int{}})
		}
		sp := &s.Speakers[j]
		sp.Turns++
		sp.MeanTension += t.Tension
		sp.MeanAssertiveness += t.Assertiveness
		sp.Styles[t.Style]++
		s.StyleShare[t.Style]++

		if i == 0 || t.Tension > s.PeakTension {
			s.PeakTension = t.Tension
			s.PeakTurn = i + 1
		}
	}

	total := float64(len(a))
	for i := range s.Speakers {
		sp := &s.Speakers[i]
		n := float64(sp.Turns)
		sp.Share = scores.Round2(n / total)
		sp.MeanTension = scores.Round2(sp.MeanTension / n)
		sp.MeanAssertiveness = scores.Round2(sp.MeanAssertiveness / n)
		sp.Dominant = dominant(sp.Styles)
	}
	for k := range s.StyleShare {
		s.StyleShare[k] = scores.Round2(s.StyleShare[k] / total)
	}
	s.TensionTrend = scores.Round2(a[len(a)-1].Tension - a[0].Tension)
	return s
}

// dominant returns the most frequent style; ties go to the style declared
// first.
func dominant(counts map[tki.Style]int) tki.Style {
	best := tki.Styles[0]
	for _, st := range tki.Styles {
		if counts[st] > counts[best] {
			best = st
		}
	}
	return best
}

// styleVector is the share of each style in tki.Styles order.
func styleVector(sp SpeakerSummary) []float64 {
	vec := make([]float64, 0, len(tki.Styles))
	for _, st := range tki.Styles {
		vec = append(vec, float64(sp.Styles[st])/float64(max(sp.Turns, 1)))
	}
	return vec
}
