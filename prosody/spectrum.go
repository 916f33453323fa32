package prosody

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Pitch tracking limits.
const (
	PitchFmin      = 150.0
	PitchFmax      = 4000.0
	PitchThreshold = 0.1 // peaks below this share of the frame maximum are ignored
)

// spectrogram holds the magnitude STFT of a signal, one row per frame.
type spectrogram struct {
	mags       [][]float64
	sampleRate int
}

func newSpectrogram(x []float64, sampleRate int) *spectrogram {
	padded := padCentered(x, false)
	window := hann(FrameLength)
	fft := fourier.NewFFT(FrameLength)

	frames := frameCount(len(x))
	s := &spectrogram{mags: make([][]float64, frames), sampleRate: sampleRate}
	buf := make([]float64, FrameLength)
	var coeffs []complex128
	for i := 0; i < frames; i++ {
		for j, v := range padded[i*HopLength : i*HopLength+FrameLength] {
			buf[j] = v * window[j]
		}
		coeffs = fft.Coefficients(coeffs, buf)
		row := make([]float64, len(coeffs))
		for k, c := range coeffs {
			row[k] = cmplx.Abs(c)
		}
		s.mags[i] = row
	}
	return s
}

// binFreq is the centre frequency of FFT bin k in Hz.
func (s *spectrogram) binFreq(k float64) float64 {
	return k * float64(s.sampleRate) / FrameLength
}

// pitchTrack returns one pitch estimate per frame, or 0 for frames without
// a spectral peak in [fmin, fmax). Peaks are refined by parabolic
// interpolation and the strongest one wins.
func (s *spectrogram) pitchTrack(fmin, fmax, threshold float64) []float64 {
	out := make([]float64, len(s.mags))
	for i, row := range s.mags {
		out[i] = s.framePitch(row, fmin, fmax, threshold)
	}
	return out
}

func (s *spectrogram) framePitch(row []float64, fmin, fmax, threshold float64) float64 {
	ref := 0.0
	for _, v := range row {
		ref = math.Max(ref, v)
	}
	ref *= threshold

	var bestMag, bestPitch float64
	for k := 1; k < len(row)-1; k++ {
		f := s.binFreq(float64(k))
		if f < fmin || f >= fmax {
			continue
		}
		if !(row[k] > row[k-1] && row[k] >= row[k+1] && row[k] > ref) {
			continue
		}
		avg := 0.5 * (row[k+1] - row[k-1])
		curv := 2*row[k] - row[k+1] - row[k-1]
		shift := 0.0
		if math.Abs(curv) > math.SmallestNonzeroFloat64 {
			shift = avg / curv
		}
		mag := row[k] + 0.5*avg*shift
		if mag > bestMag {
			bestMag = mag
			bestPitch = s.binFreq(float64(k) + shift)
		}
	}
	return bestPitch
}

// centroids returns the magnitude-weighted mean frequency of every frame.
// Silent frames have a centroid of 0.
func (s *spectrogram) centroids() []float64 {
	out := make([]float64, len(s.mags))
	for i, row := range s.mags {
		out[i] = s.centroid(row)
	}
	return out
}

func (s *spectrogram) centroid(row []float64) float64 {
	var num, den float64
	for k, v := range row {
		num += s.binFreq(float64(k)) * v
		den += v
	}
	if den <= 0 {
		return 0
	}
	return num / den
}

// hann returns a periodic Hann window of length n.
func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}
