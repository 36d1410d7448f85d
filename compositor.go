package tear

import "math"

// Sampler returns the color of an image at plane coordinates (u, v) in
// [0, 1], v pointing up.
type Sampler interface {
	Sample(u, v float64) RGBA
}

// Region classifies a plane point for one frame.
type Region uint8

const (
	// RegionPrevious shows the outgoing image.
	RegionPrevious Region = iota
	// RegionNext shows the incoming image.
	RegionNext
	// RegionOutline is the stroke along the edges of the tear band.
	RegionOutline
	// RegionGap is the open tear, fully transparent.
	RegionGap
	// RegionOutside is cut away by the torn frame border.
	RegionOutside
)

var regionNames = [...]string{"previous", "next", "outline", "gap", "outside"}

func (r Region) String() string {
	if int(r) < len(regionNames) {
		return regionNames[r]
	}
	return "unknown"
}

// tearMargin keeps the band strictly off the plane at progress 0 and 1.
const tearMargin = 1e-3

// Compositor decides the color of every plane point for one frame. It is
// a value snapshot of Params: build one per frame with NewCompositor and
// share it read-only between goroutines.
//
// The tear runs along v. Progress sweeps the centerline along u from just
// left of the plane (everything shows the previous image) to just right
// of it (everything shows the next image).
type Compositor struct {
	profile  Profile
	frame    Frame
	progress float64
	outline  float64
	color    RGBA
	reach    float64
}

// NewCompositor snapshots p. Progress is used as given.
func NewCompositor(p *Params) Compositor {
	profile := NewProfile(p)
	return Compositor{
		profile:  profile,
		frame:    NewFrame(p),
		progress: p.Progress,
		outline:  max(p.OutlineThickness, 0),
		color:    p.OutlineColor,
		reach:    profile.MaxReach() + tearMargin,
	}
}

// Sweep is the u position of the undisplaced centerline.
func (c *Compositor) Sweep() float64 {
	return -c.reach + (1+2*c.reach)*c.progress
}

// Classify returns the region of (u, v). The frame test runs after the
// tear test and overrides it.
func (c *Compositor) Classify(u, v float64) Region {
	d := u - (c.Sweep() + c.profile.CenterOffset(v))
	half := c.profile.BandWidth(v) / 2
	ad := math.Abs(d)

	var region Region
	switch {
	case ad > half && d < 0:
		region = RegionNext
	case ad > half:
		region = RegionPrevious
	case half-ad <= c.outline && c.outline > 0:
		region = RegionOutline
	default:
		region = RegionGap
	}

	if !c.frame.Inside(u, v) {
		return RegionOutside
	}
	return region
}

// Shade returns the final color of (u, v).
func (c *Compositor) Shade(u, v float64, prev, next Sampler) RGBA {
	switch c.Classify(u, v) {
	case RegionPrevious:
		return prev.Sample(u, v)
	case RegionNext:
		return next.Sample(u, v)
	case RegionOutline:
		return c.color
	}
	return Transparent
}
