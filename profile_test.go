package tear

import (
	"math"
	"testing"
)

func TestBandWidthNeverNegative(t *testing.T) {
	p := DefaultParams()
	// zero base with broad noise: the raw sum goes negative on half the axis
	p.TearThickness = ThicknessParams{Base: 0, NoiseAmp: 0.3, NoiseFreq: 2}
	pr := NewProfile(&p)

	sawNegative := false
	for i := range 4000 {
		coord := float64(i) * 0.01
		if pr.RawThickness(coord) < 0 {
			sawNegative = true
		}
		if w := pr.BandWidth(coord); w < 0 {
			t.Fatalf("BandWidth(%g) = %g, want >= 0", coord, w)
		}
	}
	if !sawNegative {
		t.Error("test parameters never produced a negative raw thickness")
	}
}

func TestMaxReachBoundsProfile(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params)
	}{
		{"defaults", func(*Params) {}},
		{"wide band", func(p *Params) { p.TearThickness.Base = 0.3 }},
		{"wild shape", func(p *Params) { p.TearShape.NoiseAmp = 0.5; p.TearShape.NoiseFreq = 2 }},
		{"flat", func(p *Params) { p.TearShape.NoiseAmp = 0; p.TearThickness = ThicknessParams{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			pr := NewProfile(&p)
			reach := pr.MaxReach()
			for i := range 3000 {
				coord := float64(i) / 3000
				got := math.Abs(pr.CenterOffset(coord)) + pr.BandWidth(coord)/2
				if got > reach+1e-12 {
					t.Fatalf("reach at %g = %g exceeds MaxReach() = %g", coord, got, reach)
				}
			}
		})
	}
}

func TestCenterOffsetFollowsShapeOffset(t *testing.T) {
	p := DefaultParams()
	a := NewProfile(&p)
	p.TearShape.NoiseOffset += 3.3
	b := NewProfile(&p)

	same := true
	for i := range 50 {
		coord := float64(i) / 50
		if a.CenterOffset(coord) != b.CenterOffset(coord) {
			same = false
			break
		}
	}
	if same {
		t.Error("changing the shape offset did not change the centerline")
	}
}

func TestDefaultBandWidthNearBase(t *testing.T) {
	p := DefaultParams()
	pr := NewProfile(&p)
	jitter := p.TearThickness.NoiseAmp + p.Harmonics[0].Amp + p.Harmonics[1].Amp
	for i := range 1000 {
		coord := float64(i) / 1000
		w := pr.BandWidth(coord)
		if math.Abs(w-p.TearThickness.Base) > jitter+1e-12 {
			t.Fatalf("BandWidth(%g) = %g, want %g ± %g", coord, w, p.TearThickness.Base, jitter)
		}
	}
}
