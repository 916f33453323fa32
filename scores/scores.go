package scores

import "math"

// Fusion weights. Prosody is the more reliable tension signal, so audio
// carries the larger share of both scores.
const (
	TextWeight  = 0.4
	AudioWeight = 0.6
)

// Pair is a (tension, assertiveness) estimate, both in [0,1].
type Pair struct {
	Tension       float64 `json:"tension" yaml:"tension"`
	Assertiveness float64 `json:"assertiveness" yaml:"assertiveness"`
}

// Neutral is returned by scorers when no signal is available: no tension,
// mid assertiveness.
func Neutral() Pair { return Pair{Tension: 0.0, Assertiveness: 0.5} }

// Fuse blends the text and audio estimates of one turn and rounds the
// result to two decimals.
func Fuse(text, audio Pair) Pair {
	return Pair{
		Tension:       Round2(TextWeight*text.Tension + AudioWeight*audio.Tension),
		Assertiveness: Round2(TextWeight*text.Assertiveness + AudioWeight*audio.Assertiveness),
	}
}

// Clamp01 limits x to [0,1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Round2 rounds x to two decimal places, half away from zero.
func Round2(x float64) float64 { return math.Round(x*100) / 100 }

// Clamped returns p with both components limited to [0,1].
func (p Pair) Clamped() Pair {
	return Pair{Tension: Clamp01(p.Tension), Assertiveness: Clamp01(p.Assertiveness)}
}
