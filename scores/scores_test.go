package scores

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuseWeightsAudioHigher(t *testing.T) {
	got := Fuse(Pair{Tension: 1.0, Assertiveness: 1.0}, Pair{Tension: 0.0, Assertiveness: 0.0})
	assert.Equal(t, Pair{Tension: 0.4, Assertiveness: 0.4}, got)

	got = Fuse(Pair{Tension: 0.0, Assertiveness: 0.0}, Pair{Tension: 1.0, Assertiveness: 1.0})
	assert.Equal(t, Pair{Tension: 0.6, Assertiveness: 0.6}, got)
}

func TestFuseRoundsToTwoDecimals(t *testing.T) {
	got := Fuse(Pair{Tension: 0.06, Assertiveness: 0.35}, Neutral())
	assert.Equal(t, 0.02, got.Tension)
	assert.Equal(t, 0.44, got.Assertiveness)

	got = Fuse(Pair{Tension: 0.333, Assertiveness: 0.777}, Pair{Tension: 0.111, Assertiveness: 0.999})
	assert.Equal(t, 0.2, got.Tension)
	assert.Equal(t, 0.91, got.Assertiveness)
}

func TestFuseIsPure(t *testing.T) {
	a := Pair{Tension: 0.71, Assertiveness: 0.23}
	b := Pair{Tension: 0.12, Assertiveness: 0.88}
	assert.Equal(t, Fuse(a, b), Fuse(a, b))
}

func TestClamp01(t *testing.T) {
	for _, tc := range []struct{ in, want float64 }{
		{-0.5, 0}, {0, 0}, {0.42, 0.42}, {1, 1}, {1.3, 1},
	} {
		assert.Equal(t, tc.want, Clamp01(tc.in), "Clamp01(%v)", tc.in)
	}
	assert.Equal(t, Pair{Tension: 1, Assertiveness: 0}, Pair{Tension: 2, Assertiveness: -1}.Clamped())
}

func TestNeutralCannotBeChangedByCallers(t *testing.T) {
	n := Neutral()
	n.Tension, n.Assertiveness = 0.9, 0.9
	assert.Equal(t, Pair{Tension: 0.0, Assertiveness: 0.5}, Neutral())
}
