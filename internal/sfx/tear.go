// Package sfx synthesizes the paper tearing sound that accompanies a
// transition run.
package sfx

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/wav"

	"github.com/gogpu/tear"
)

// DefaultSampleRate is used when a caller passes zero.
const DefaultSampleRate = beep.SampleRate(44100)

// Grain frequencies, in noise lattice cells per second of audio.
const (
	rumbleCells  = 180.0
	crackleCells = 2400.0
)

// tearStreamer is one run's worth of tearing noise. The loudness follows
// the speed of the tear (the slope of the ease curve) and the texture of
// the noise follows the band thickness parameters.
type tearStreamer struct {
	ease     tear.Ease
	total    int
	position int
	rate     beep.SampleRate

	seed    float64
	rumble  float64 // weight of the broad layer
	crackle float64 // weight of the fine layer
	peak    float64 // normalization for the envelope
}

// NewTear returns a streamer for one transition of the given duration.
// params select the grain: the broad thickness noise drives the low
// rumble and the harmonics drive the crackle. The shape offset seeds the
// noise so every run sounds different.
func NewTear(params *tear.Params, ease tear.Ease, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	if ease == nil {
		ease = tear.Power2Out
	}

	harmonics := 0.0
	for _, h := range params.Harmonics {
		harmonics += math.Abs(h.Amp)
	}
	rumble := math.Abs(params.TearThickness.NoiseAmp) + params.TearThickness.Base
	sum := rumble + harmonics*50
	if sum <= 0 {
		rumble, sum = 1, 1
	}

	s := &tearStreamer{
		ease:    ease,
		total:   rate.N(duration),
		rate:    rate,
		seed:    params.TearShape.NoiseOffset,
		rumble:  rumble / sum,
		crackle: harmonics * 50 / sum,
	}
	s.peak = s.maxSlope()
	return s
}

// slope is the numeric derivative of the ease curve at t.
func (s *tearStreamer) slope(t float64) float64 {
	const h = 1e-3
	a := s.ease(max(t-h, 0))
	b := s.ease(min(t+h, 1))
	return math.Abs(b-a) / (min(t+h, 1) - max(t-h, 0))
}

func (s *tearStreamer) maxSlope() float64 {
	peak := 0.0
	for i := 0; i <= 100; i++ {
		peak = max(peak, s.slope(float64(i)/100))
	}
	if peak == 0 {
		return 1
	}
	return peak
}

func (s *tearStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.position >= s.total {
		return 0, false
	}
	for i := range samples {
		if s.position >= s.total {
			return i, true
		}
		t := float64(s.position) / float64(max(s.total-1, 1))
		sec := float64(s.position) / float64(s.rate)

		env := s.slope(t) / s.peak
		// 2% fade in and out
		env *= min(t*50, 1) * min((1-t)*50, 1)

		grain := s.rumble*tear.Noise(sec*rumbleCells, s.seed) +
			s.crackle*tear.Noise(sec*crackleCells, s.seed+1)
		val := math.Max(-1, math.Min(1, grain*env))

		// slight stereo spread from a decorrelated row
		spread := 0.15 * env * tear.Noise(sec*crackleCells, s.seed+2)
		samples[i][0] = math.Max(-1, math.Min(1, val+spread))
		samples[i][1] = math.Max(-1, math.Min(1, val-spread))
		s.position++
	}
	return len(samples), true
}

func (s *tearStreamer) Err() error { return nil }

// WithVolume scales s by vol in [0, 1]. Zero is silent.
func WithVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(min(vol, 1)), Silent: false}
}

// Timeline places runs at the given start offsets, filling the space
// between them with silence. starts must be ascending; a run that would
// begin before the previous one ends is delayed until it does.
func Timeline(runs []beep.Streamer, starts []time.Duration, lengths []time.Duration, rate beep.SampleRate) beep.Streamer {
	parts := make([]beep.Streamer, 0, 2*len(runs))
	cursor := 0
	for i, r := range runs {
		at := rate.N(starts[i])
		if gap := at - cursor; gap > 0 {
			parts = append(parts, beep.Silence(gap))
			cursor = at
		}
		parts = append(parts, r)
		cursor += rate.N(lengths[i])
	}
	return beep.Seq(parts...)
}

// WriteWAV encodes s as 16-bit stereo WAV.
func WriteWAV(w io.WriteSeeker, s beep.Streamer, rate beep.SampleRate) error {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(w, s, format); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}
