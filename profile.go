package tear

import "math"

// Profile evaluates the tear centerline and band thickness along the
// tear's running axis.
type Profile struct {
	Shape     ShapeParams
	Thickness ThicknessParams
	Harmonics [2]Harmonic
}

// NewProfile snapshots the tear fields of p.
func NewProfile(p *Params) Profile {
	return Profile{
		Shape:     p.TearShape,
		Thickness: p.TearThickness,
		Harmonics: p.Harmonics,
	}
}

// CenterOffset is the lateral displacement of the centerline at coord.
func (pr Profile) CenterOffset(coord float64) float64 {
	return Noise(coord*pr.Shape.NoiseFreq, pr.Shape.NoiseOffset) * pr.Shape.NoiseAmp
}

// RawThickness is the unclamped band width at coord: the base width, one
// broad noise term and the harmonic layers. It can be negative.
func (pr Profile) RawThickness(coord float64) float64 {
	t := pr.Thickness.Base + Noise(coord*pr.Thickness.NoiseFreq, 0)*pr.Thickness.NoiseAmp
	for i, h := range pr.Harmonics {
		t += Noise(coord*h.Freq, float64(i)) * h.Amp
	}
	return t
}

// BandWidth is RawThickness clamped to zero; a zero width closes the tear
// at coord.
func (pr Profile) BandWidth(coord float64) float64 {
	return max(pr.RawThickness(coord), 0)
}

// MaxReach bounds |CenterOffset| + BandWidth/2 over every coord. Noise is
// confined to [-1, 1], so the bound follows from the amplitudes alone.
func (pr Profile) MaxReach() float64 {
	width := pr.Thickness.Base + math.Abs(pr.Thickness.NoiseAmp)
	for _, h := range pr.Harmonics {
		width += math.Abs(h.Amp)
	}
	return math.Abs(pr.Shape.NoiseAmp) + max(width, 0)/2
}
