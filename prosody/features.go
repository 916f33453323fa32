package prosody

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Framing parameters shared by every per-frame feature. Frames are centred:
// the signal is padded by FrameLength/2 on both sides.
const (
	FrameLength = 2048
	HopLength   = 512
)

var (
	ErrEmptyAudio        = errors.New("prosody: empty waveform")
	ErrInvalidSampleRate = errors.New("prosody: invalid sample rate")
	ErrNonFinite         = errors.New("prosody: waveform contains NaN or Inf")
)

// Features are the raw prosodic measurements of one utterance.
type Features struct {
	PitchMean float64 `json:"pitch_mean"` // Hz, voiced frames only
	PitchStd  float64 `json:"pitch_std"`

	EnergyMean float64 `json:"energy_mean"` // frame RMS
	EnergyStd  float64 `json:"energy_std"`
	EnergyMax  float64 `json:"energy_max"`

	SilenceRatio   float64 `json:"silence_ratio"`
	SpeechRatio    float64 `json:"speech_ratio"`
	SustainedRatio float64 `json:"sustained_ratio"`

	ZCR              float64 `json:"zcr"`
	SpectralCentroid float64 `json:"spectral_centroid"` // Hz

	Frames int `json:"frames"`
}

// Extract measures pitch, energy, pause and spectral features of a mono
// waveform.
func Extract(samples []float64, sampleRate int) (Features, error) {
	if sampleRate <= 0 {
		return Features{}, ErrInvalidSampleRate
	}
	if len(samples) == 0 {
		return Features{}, ErrEmptyAudio
	}
	for _, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Features{}, ErrNonFinite
		}
	}

	var f Features

	spec := newSpectrogram(samples, sampleRate)
	f.Frames = len(spec.mags)

	pitches := spec.pitchTrack(PitchFmin, PitchFmax, PitchThreshold)
	var voiced []float64
	for _, p := range pitches {
		if p > 0 {
			voiced = append(voiced, p)
		}
	}
	if len(voiced) > 0 {
		f.PitchMean, f.PitchStd = stat.PopMeanStdDev(voiced, nil)
	}

	rms := frameRMS(samples)
	f.EnergyMean, f.EnergyStd = stat.PopMeanStdDev(rms, nil)
	f.EnergyMax = floats.Max(rms)

	n := float64(len(rms))
	f.SilenceRatio = float64(countBelow(rms, 0.4*f.EnergyMean)) / n
	f.SpeechRatio = float64(countAbove(rms, 0.2*f.EnergyMean)) / n
	f.SustainedRatio = float64(longestRunAbove(rms, 1.5*f.EnergyMean)) / n

	f.ZCR = stat.Mean(frameZCR(samples), nil)
	f.SpectralCentroid = stat.Mean(spec.centroids(), nil)
	return f, nil
}

func frameCount(n int) int { return 1 + n/HopLength }

// padCentered pads x by FrameLength/2 on both sides, with zeros or by
// repeating the edge samples.
func padCentered(x []float64, edge bool) []float64 {
	half := FrameLength / 2
	out := make([]float64, len(x)+2*half)
	copy(out[half:], x)
	if edge {
		for i := 0; i < half; i++ {
			out[i] = x[0]
			out[len(out)-1-i] = x[len(x)-1]
		}
	}
	return out
}

func frameRMS(x []float64) []float64 {
	padded := padCentered(x, false)
	out := make([]float64, frameCount(len(x)))
	for i := range out {
		var sum float64
		for _, v := range padded[i*HopLength : i*HopLength+FrameLength] {
			sum += v * v
		}
		out[i] = math.Sqrt(sum / FrameLength)
	}
	return out
}

// frameZCR is the fraction of sign changes per frame. Values within 1e-10
// of zero count as positive.
func frameZCR(x []float64) []float64 {
	padded := padCentered(x, true)
	out := make([]float64, frameCount(len(x)))
	for i := range out {
		frame := padded[i*HopLength : i*HopLength+FrameLength]
		crossings := 0
		for j := 1; j < len(frame); j++ {
			if negative(frame[j]) != negative(frame[j-1]) {
				crossings++
			}
		}
		out[i] = float64(crossings) / FrameLength
	}
	return out
}

func negative(v float64) bool { return v < -1e-10 }

func countBelow(xs []float64, thr float64) int {
	n := 0
	for _, v := range xs {
		if v < thr {
			n++
		}
	}
	return n
}

func countAbove(xs []float64, thr float64) int {
	n := 0
	for _, v := range xs {
		if v > thr {
			n++
		}
	}
	return n
}

// longestRunAbove returns the length of the longest run of consecutive
// values above thr, including a run that reaches the end of xs.
func longestRunAbove(xs []float64, thr float64) int {
	best, cur := 0, 0
	for _, v := range xs {
		if v > thr {
			cur++
			best = max(best, cur)
		} else {
			cur = 0
		}
	}
	return best
}
