package prosody

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnrychristian11/conflict-resolution-tki/scores"
)

const sr = 16000

func sine(freq, amp float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/sr)
	}
	return out
}

type fakeDecoder struct {
	samples []float64
	rate    int
	err     error
	calls   int
}

func (f *fakeDecoder) Decode(context.Context, string) ([]float64, int, error) {
	f.calls++
	return f.samples, f.rate, f.err
}

func TestNoAudioIsNeutral(t *testing.T) {
	d := &fakeDecoder{}
	s := NewScorer(d, nil)
	assert.Equal(t, scores.Pair{Tension: 0.0, Assertiveness: 0.5}, s.ScoreFile(context.Background(), ""))
	assert.Equal(t, scores.Neutral(), s.Score(nil, sr))
	assert.Zero(t, d.calls)
}

func TestFailuresFallBackToNeutral(t *testing.T) {
	logger, hook := test.NewNullLogger()

	cases := []struct {
		name string
		dec  *fakeDecoder
	}{
		{"decode error", &fakeDecoder{err: errors.New("ffmpeg: exit status 1")}},
		{"empty waveform", &fakeDecoder{samples: []float64{}, rate: sr}},
		{"bad sample rate", &fakeDecoder{samples: sine(220, 0.5, sr), rate: 0}},
		{"nan sample", &fakeDecoder{samples: []float64{0, math.NaN(), 0}, rate: sr}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hook.Reset()
			got := NewScorer(tc.dec, logger).ScoreFile(context.Background(), "turn.mp3")
			assert.Equal(t, scores.Neutral(), got)
			require.NotEmpty(t, hook.Entries)
			assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		})
	}

	hook.Reset()
	assert.Equal(t, scores.Neutral(), NewScorer(nil, logger).ScoreFile(context.Background(), "turn.mp3"))
	assert.Len(t, hook.Entries, 1)
}

func TestSilence(t *testing.T) {
	f, err := Extract(make([]float64, sr), sr)
	require.NoError(t, err)
	assert.Equal(t, 1+sr/HopLength, f.Frames)
	assert.Zero(t, f.PitchMean)
	assert.Zero(t, f.EnergyMax)
	assert.Zero(t, f.ZCR)
	assert.Zero(t, f.SpectralCentroid)

	p := NewScorer(nil, nil).Score(make([]float64, sr), sr)
	assert.InDelta(t, 0.0, p.Tension, 1e-12)
	assert.InDelta(t, 0.1, p.Assertiveness, 1e-12)
}

func TestExtractSine(t *testing.T) {
	f, err := Extract(sine(220, 0.5, sr), sr)
	require.NoError(t, err)

	assert.InDelta(t, 220, f.PitchMean, 5)
	assert.InDelta(t, 0.5/math.Sqrt2, f.EnergyMax, 0.01)
	assert.Greater(t, f.EnergyMean, 0.3)
	assert.InDelta(t, 2*220.0/sr, f.ZCR, 0.004)
	assert.Zero(t, f.SilenceRatio)
	assert.Equal(t, 1.0, f.SpeechRatio)
	assert.Zero(t, f.SustainedRatio)
}

func TestScoreSine(t *testing.T) {
	s := NewScorer(nil, nil)
	x := sine(220, 0.5, sr)
	p := s.Score(x, sr)

	// Loud and continuous: full energy and speech credit, no sustained peaks.
	assert.InDelta(t, 0.7, p.Assertiveness, 1e-9)
	assert.GreaterOrEqual(t, p.Tension, 0.2)
	assert.LessOrEqual(t, p.Tension, 1.0)

	assert.Equal(t, p, s.Score(x, sr))
}

func TestScoreFileDecodes(t *testing.T) {
	x := sine(440, 0.2, sr/2)
	d := &fakeDecoder{samples: x, rate: sr}
	s := NewScorer(d, nil)
	assert.Equal(t, s.Score(x, sr), s.ScoreFile(context.Background(), "turn.wav"))
	assert.Equal(t, 1, d.calls)
}

func TestFromFeatures(t *testing.T) {
	maxed := Features{
		EnergyMean: 0.08, SustainedRatio: 0.3, SpeechRatio: 1,
		PitchStd: 50, EnergyStd: 0.05, ZCR: 0.15, SpectralCentroid: 3000,
	}
	cases := []struct {
		name                   string
		f                      func(Features) Features
		tension, assertiveness float64
	}{
		{"saturated", func(f Features) Features { return f }, 1.0, 1.0},
		{"pauses halve assertiveness", func(f Features) Features { f.SilenceRatio = 0.4; return f }, 1.0, 0.48},
		{"silence at threshold is not penalised", func(f Features) Features { f.SilenceRatio = 0.3; return f }, 1.0, 0.97},
		{"quiet speaker damps variability", func(f Features) Features { f.EnergyMean = 0.02; return f }, 0.475, 0.7},
		{"values above the ceilings saturate", func(f Features) Features {
			f.EnergyMean, f.PitchStd, f.ZCR, f.SpectralCentroid = 1, 500, 1, 8000
			return f
		}, 1.0, 1.0},
		{"zero", func(Features) Features { return Features{} }, 0, 0.1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := FromFeatures(tc.f(maxed))
			assert.InDelta(t, tc.tension, p.Tension, 1e-9)
			assert.InDelta(t, tc.assertiveness, p.Assertiveness, 1e-9)
		})
	}
}

func TestLongestRunAbove(t *testing.T) {
	assert.Equal(t, 0, longestRunAbove(nil, 0))
	assert.Equal(t, 2, longestRunAbove([]float64{1, 1, 0, 1, 0}, 0.5))
	assert.Equal(t, 3, longestRunAbove([]float64{1, 0, 1, 1, 1}, 0.5))
	assert.Equal(t, 0, longestRunAbove([]float64{0.5, 0.5}, 0.5))
}

func TestCentroidOfSingleBin(t *testing.T) {
	s := &spectrogram{sampleRate: sr}
	row := make([]float64, FrameLength/2+1)
	row[64] = 3
	assert.InDelta(t, 64.0*sr/FrameLength, s.centroid(row), 1e-9)
	assert.Zero(t, s.centroid(make([]float64, len(row))))
}

func TestDecodeF32LE(t *testing.T) {
	b := make([]byte, 12)
	for i, v := range []float32{0.5, -0.25, 1} {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	got, err := decodeF32LE(b)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -0.25, 1}, got)

	_, err = decodeF32LE(b[:5])
	require.Error(t, err)
}

func TestParseProbe(t *testing.T) {
	got, err := parseProbe([]byte(`{"programs":[],"streams":[{"sample_rate":"44100"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 44100, got)

	_, err = parseProbe([]byte(`{"streams":[]}`))
	require.Error(t, err)
	_, err = parseProbe([]byte(`{"streams":[{"sample_rate":"n/a"}]}`))
	require.Error(t, err)
}

func TestFFmpegDecoderMissingFile(t *testing.T) {
	_, _, err := NewFFmpegDecoder("", "").Decode(context.Background(), "does/not/exist.mp3")
	require.Error(t, err)
}
