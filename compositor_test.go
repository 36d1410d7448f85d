package tear

import "testing"

// solid samples as one color everywhere.
type solid RGBA

func (s solid) Sample(u, v float64) RGBA { return RGBA(s) }

var (
	red  = RGBA{R: 1, A: 1}
	blue = RGBA{B: 1, A: 1}
)

// planeGrid calls fn for a grid of plane points.
func planeGrid(n int, fn func(u, v float64)) {
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			fn(float64(i)/float64(n), float64(j)/float64(n))
		}
	}
}

func TestCompositorEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		progress float64
		want     RGBA
	}{
		{"start shows previous", 0, red},
		{"end shows next", 1, blue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			p.OutlineThickness = 0.005
			p.Progress = tt.progress
			c := NewCompositor(&p)
			f := NewFrame(&p)

			planeGrid(100, func(u, v float64) {
				got := c.Shade(u, v, solid(red), solid(blue))
				if !f.Inside(u, v) {
					if got != Transparent {
						t.Fatalf("Shade(%g, %g) outside frame = %v, want transparent", u, v, got)
					}
					return
				}
				if got != tt.want {
					t.Fatalf("Shade(%g, %g) = %v, want %v", u, v, got, tt.want)
				}
			})
		})
	}
}

func TestCompositorMidwayHasAllRegions(t *testing.T) {
	p := DefaultParams()
	p.Progress = 0.5
	p.OutlineThickness = 0.005
	c := NewCompositor(&p)

	seen := map[Region]int{}
	planeGrid(400, func(u, v float64) {
		seen[c.Classify(u, v)]++
	})
	for _, r := range []Region{RegionPrevious, RegionNext, RegionOutline, RegionGap, RegionOutside} {
		if seen[r] == 0 {
			t.Errorf("region %v never produced at progress 0.5", r)
		}
	}
}

func TestCompositorNextOnLeft(t *testing.T) {
	p := DefaultParams()
	p.Progress = 0.5
	c := NewCompositor(&p)

	if got := c.Classify(0.1, 0.5); got != RegionNext {
		t.Errorf("Classify(0.1, 0.5) = %v, want next", got)
	}
	if got := c.Classify(0.9, 0.5); got != RegionPrevious {
		t.Errorf("Classify(0.9, 0.5) = %v, want previous", got)
	}
}

func TestCompositorNoOutlineWhenZero(t *testing.T) {
	p := DefaultParams()
	p.Progress = 0.5
	p.OutlineThickness = 0
	c := NewCompositor(&p)

	planeGrid(300, func(u, v float64) {
		if r := c.Classify(u, v); r == RegionOutline {
			t.Fatalf("Classify(%g, %g) = outline with zero outline thickness", u, v)
		}
	})
}

func TestCompositorOutlineColor(t *testing.T) {
	p := DefaultParams()
	p.Progress = 0.5
	p.OutlineThickness = 0.01
	p.OutlineColor = RGBA{G: 1, A: 1}
	c := NewCompositor(&p)

	found := false
	planeGrid(300, func(u, v float64) {
		if c.Classify(u, v) == RegionOutline {
			found = true
			if got := c.Shade(u, v, solid(red), solid(blue)); got != p.OutlineColor {
				t.Fatalf("Shade(%g, %g) on outline = %v, want %v", u, v, got, p.OutlineColor)
			}
		}
	})
	if !found {
		t.Error("no outline pixel found")
	}
}

func TestCompositorSweepMonotonic(t *testing.T) {
	p := DefaultParams()
	last := -1e9
	for i := 0; i <= 100; i++ {
		p.Progress = float64(i) / 100
		c := NewCompositor(&p)
		if s := c.Sweep(); s < last {
			t.Fatalf("Sweep() decreased at progress %g: %g < %g", p.Progress, s, last)
		} else {
			last = s
		}
	}
}

func TestRegionString(t *testing.T) {
	tests := []struct {
		r    Region
		want string
	}{
		{RegionPrevious, "previous"},
		{RegionNext, "next"},
		{RegionOutline, "outline"},
		{RegionGap, "gap"},
		{RegionOutside, "outside"},
		{Region(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("Region(%d).String() = %q, want %q", tt.r, got, tt.want)
		}
	}
}
