// Package prosody derives tension and assertiveness from how an utterance
// was spoken: pitch movement, loudness, pauses and brightness.
package prosody

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/johnrychristian11/conflict-resolution-tki/scores"
)

// Normalisation ceilings for the raw features.
const (
	energyRef    = 0.08   // RMS treated as fully energetic
	sustainRef   = 0.3    // share of frames in one loud run
	pitchStdRef  = 50.0   // Hz
	energyStdRef = 0.05
	zcrRef       = 0.15
	centroidRef  = 3000.0 // Hz

	stutterSilence = 0.3 // silence ratio above which assertiveness is halved
)

// Decoder loads a mono waveform and its sample rate.
type Decoder interface {
	Decode(ctx context.Context, path string) ([]float64, int, error)
}

// Scorer turns audio into a score pair. It never fails: when audio is
// missing or cannot be analysed it returns the neutral pair.
type Scorer struct {
	decoder Decoder
	log     logrus.FieldLogger
}

func NewScorer(d Decoder, log logrus.FieldLogger) *Scorer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scorer{decoder: d, log: log}
}

// ScoreFile decodes and scores the audio at path. An empty path means the
// turn has no recording.
func (s *Scorer) ScoreFile(ctx context.Context, path string) scores.Pair {
	if path == "" {
		return scores.Neutral()
	}
	if s.decoder == nil {
		s.log.WithField("audio", path).Warn("no audio decoder configured")
		return scores.Neutral()
	}
	samples, sampleRate, err := s.decoder.Decode(ctx, path)
	if err != nil {
		s.log.WithError(err).WithField("audio", path).Warn("audio decode failed")
		return scores.Neutral()
	}
	return s.score(samples, sampleRate, s.log.WithField("audio", path))
}

// Score analyses a mono waveform. A nil waveform means no audio.
func (s *Scorer) Score(samples []float64, sampleRate int) scores.Pair {
	if samples == nil {
		return scores.Neutral()
	}
	return s.score(samples, sampleRate, s.log)
}

func (s *Scorer) score(samples []float64, sampleRate int, log logrus.FieldLogger) scores.Pair {
	f, err := Extract(samples, sampleRate)
	if err != nil {
		log.WithError(err).Warn("prosody extraction failed")
		return scores.Neutral()
	}
	p := FromFeatures(f)
	log.WithFields(logrus.Fields{
		"pitch_mean":      f.PitchMean,
		"pitch_std":       f.PitchStd,
		"energy_mean":     f.EnergyMean,
		"energy_std":      f.EnergyStd,
		"energy_max":      f.EnergyMax,
		"silence_ratio":   f.SilenceRatio,
		"speech_ratio":    f.SpeechRatio,
		"sustained_ratio": f.SustainedRatio,
		"zcr":             f.ZCR,
		"centroid":        f.SpectralCentroid,
		"tension":         p.Tension,
		"assertiveness":   p.Assertiveness,
	}).Debug("prosody scored")
	return p
}

// FromFeatures combines raw features into tension and assertiveness.
//
// Assertiveness rewards loud, sustained, continuous speech and is halved
// when more than stutterSilence of the frames are pauses. Tension rewards
// loudness, pitch and loudness variability, noisiness and brightness;
// variability only counts in proportion to how loud the speaker is.
func FromFeatures(f Features) scores.Pair {
	energy := min(f.EnergyMean/energyRef, 1)
	sustained := min(f.SustainedRatio/sustainRef, 1)

	assertiveness := 0.40*energy +
		0.30*sustained +
		0.20*f.SpeechRatio +
		0.10*(1-f.SilenceRatio)
	if f.SilenceRatio > stutterSilence {
		assertiveness *= 0.5
	}

	loudness := min(energy*1.5, 1)
	pitchVar := min(f.PitchStd/pitchStdRef, 1) * loudness
	energyVar := min(f.EnergyStd/energyStdRef, 1) * loudness

	tension := 0.20*energy +
		0.30*pitchVar +
		0.30*energyVar +
		0.10*min(f.ZCR/zcrRef, 1) +
		0.10*min(f.SpectralCentroid/centroidRef, 1)

	return scores.Pair{Tension: tension, Assertiveness: assertiveness}.Clamped()
}
