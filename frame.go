package tear

// Seeds for the four frame edges. Distinct rows keep opposite edges from
// mirroring each other.
const (
	frameSeedLeft   = 17
	frameSeedRight  = 29
	frameSeedBottom = 41
	frameSeedTop    = 53
)

// Frame is the torn outer border of the plane.
type Frame struct {
	FrameParams
}

// NewFrame snapshots the frame fields of p.
func NewFrame(p *Params) Frame {
	return Frame{FrameParams: p.Frame}
}

// Inset is how far the silhouette reaches into the plane on the edge
// selected by seed, at position along that edge. Never negative.
func (f Frame) Inset(along, seed float64) float64 {
	return max(f.Thickness+Noise(along*f.NoiseFreq, seed)*f.NoiseAmp, 0)
}

// Inside reports whether the plane point (u, v) survives the border.
func (f Frame) Inside(u, v float64) bool {
	left := u - f.Inset(v, frameSeedLeft)
	right := (1 - u) - f.Inset(v, frameSeedRight)
	bottom := v - f.Inset(u, frameSeedBottom)
	top := (1 - v) - f.Inset(u, frameSeedTop)
	return min(left, right, bottom, top) >= 0
}
