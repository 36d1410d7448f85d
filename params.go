package tear

import (
	"fmt"
	"math"
)

// ShapeParams bend the tear centerline.
type ShapeParams struct {
	NoiseAmp    float64 `toml:"noise_amp"`
	NoiseFreq   float64 `toml:"noise_freq"`
	NoiseOffset float64 `toml:"noise_offset"`
}

// ThicknessParams set the broad width of the tear band.
type ThicknessParams struct {
	Base      float64 `toml:"base"`
	NoiseAmp  float64 `toml:"noise_amp"`
	NoiseFreq float64 `toml:"noise_freq"`
}

// Harmonic is one fine noise layer added on top of the band thickness.
type Harmonic struct {
	Amp  float64 `toml:"amp"`
	Freq float64 `toml:"freq"`
}

// FrameParams perturb the outer silhouette of the plane.
type FrameParams struct {
	Thickness float64 `toml:"thickness"`
	NoiseAmp  float64 `toml:"noise_amp"`
	NoiseFreq float64 `toml:"noise_freq"`
}

// Params is the full set of effect parameters. One value is owned by the
// driver and passed by pointer to the Controller, which writes Progress
// and TearShape.NoiseOffset, and to the Renderer, which only reads.
type Params struct {
	Progress float64 `toml:"progress"`

	TearShape     ShapeParams     `toml:"tear_shape"`
	TearThickness ThicknessParams `toml:"tear_thickness"`
	Harmonics     [2]Harmonic     `toml:"tear_thickness_harmonics"`

	OutlineThickness float64 `toml:"tear_outline_thickness"`
	OutlineColor     RGBA    `toml:"tear_outline_color"`

	Frame FrameParams `toml:"frame"`
}

// DefaultParams returns the startup parameter values.
func DefaultParams() Params {
	return Params{
		Progress: 0,
		TearShape: ShapeParams{
			NoiseAmp:    0.3,
			NoiseFreq:   0.5,
			NoiseOffset: 8.15,
		},
		TearThickness: ThicknessParams{
			Base:      0.05,
			NoiseAmp:  0.02,
			NoiseFreq: 1.5,
		},
		Harmonics: [2]Harmonic{
			{Amp: 0.0035, Freq: 30},
			{Amp: 0.001, Freq: 115},
		},
		OutlineThickness: 0,
		OutlineColor:     White,
		Frame: FrameParams{
			Thickness: 0.03,
			NoiseAmp:  0.01,
			NoiseFreq: 5,
		},
	}
}

// Validate reports the first amplitude, frequency or thickness field that
// is negative or not finite, and a progress outside [0, 1].
func (p *Params) Validate() error {
	for _, info := range paramTable {
		v := p.Get(info.Param)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidParams, info.Name)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s = %g, must be >= 0", ErrInvalidParams, info.Name, v)
		}
	}
	if p.Progress > 1 {
		return fmt.Errorf("%w: progress = %g, must be <= 1", ErrInvalidParams, p.Progress)
	}
	return nil
}

// Sanitized returns a copy with negative or non-finite fields set to zero
// and progress clamped to [0, 1].
func (p *Params) Sanitized() Params {
	out := *p
	for _, info := range paramTable {
		v := out.Get(info.Param)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			out.Set(info.Param, 0)
		}
	}
	out.Progress = clamp01(out.Progress)
	return out
}
