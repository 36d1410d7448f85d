package tear

import (
	"fmt"
	"image"
	"math"
)

// Camera is a perspective camera on the +z axis looking at the origin,
// where the plane sits.
type Camera struct {
	FovY     float64 // vertical field of view, degrees
	Distance float64 // distance to the plane
	Near     float64
	Far      float64
}

// DefaultCamera returns a 35° camera at z = 10.
func DefaultCamera() Camera {
	return Camera{FovY: 35, Distance: 10, Near: 0.1, Far: 100}
}

// VisibleHeight is the world-space height visible at the plane.
func (c Camera) VisibleHeight() float64 {
	return 2 * math.Tan(c.FovY*math.Pi/360) * c.Distance
}

// Projection returns the column-major perspective matrix for aspect.
func (c Camera) Projection(aspect float64) [16]float64 {
	f := 1 / math.Tan(c.FovY*math.Pi/360)
	nf := 1 / (c.Near - c.Far)
	return [16]float64{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (c.Far + c.Near) * nf, -1,
		0, 0, 2 * c.Far * c.Near * nf, 0,
	}
}

// planeDivisor shrinks the plane relative to the visible area.
const planeDivisor = 1.5

// Viewport is the output surface size plus everything derived from it.
// Resize recomputes all derived values and swaps them in one assignment.
type Viewport struct {
	camera     Camera
	width      int
	height     int
	aspect     float64
	projection [16]float64
	planeWorld float64
	planeRect  image.Rectangle
}

// NewViewport creates a viewport. A degenerate size falls back to 1×1.
func NewViewport(width, height int, camera Camera) Viewport {
	if width <= 0 || height <= 0 {
		width, height = 1, 1
	}
	return computeViewport(width, height, camera)
}

func computeViewport(width, height int, camera Camera) Viewport {
	aspect := float64(width) / float64(height)
	visH := camera.VisibleHeight()
	visW := visH * aspect

	vp := Viewport{
		camera:     camera,
		width:      width,
		height:     height,
		aspect:     aspect,
		projection: camera.Projection(aspect),
		planeWorld: min(visH, visW) / planeDivisor,
	}

	// the plane's pixel side is its projected world extent
	half := vp.PlaneWorldSize() / 2
	left, _ := vp.Project(-half, 0)
	right, _ := vp.Project(half, 0)
	extent := right - left
	if !(extent > 0) {
		extent = 0
	}
	side := min(int(math.Round(extent)), width, height)
	x0 := (width - side) / 2
	y0 := (height - side) / 2
	vp.planeRect = image.Rect(x0, y0, x0+side, y0+side)
	return vp
}

// Project maps a world point on the plane (z = 0) to pixel coordinates
// with y pointing down.
func (vp Viewport) Project(x, y float64) (px, py float64) {
	m := vp.Projection()
	z := -vp.camera.Distance // view space: the camera looks down -z
	cx := m[0]*x + m[4]*y + m[8]*z + m[12]
	cy := m[1]*x + m[5]*y + m[9]*z + m[13]
	cw := m[3]*x + m[7]*y + m[11]*z + m[15]
	return (cx/cw + 1) / 2 * float64(vp.width), (1 - cy/cw) / 2 * float64(vp.height)
}

// Resize applies a new surface size. A zero or negative dimension leaves
// the viewport unchanged and returns ErrDegenerateViewport.
func (vp *Viewport) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		Logger().Warn("tear: ignoring degenerate resize", "width", width, "height", height)
		return fmt.Errorf("%w: %dx%d", ErrDegenerateViewport, width, height)
	}
	*vp = computeViewport(width, height, vp.camera)
	Logger().Debug("tear: viewport resized", "width", width, "height", height, "plane", vp.planeRect.Dx())
	return nil
}

// Size returns the surface size in pixels.
func (vp Viewport) Size() (width, height int) { return vp.width, vp.height }

// Aspect returns width / height.
func (vp Viewport) Aspect() float64 { return vp.aspect }

// Projection returns the camera projection for the current aspect.
func (vp Viewport) Projection() [16]float64 { return vp.projection }

// PlaneWorldSize is the side of the square plane in world units.
func (vp Viewport) PlaneWorldSize() float64 { return vp.planeWorld }

// PlaneRect is the plane's pixel rectangle, centered on the surface.
func (vp Viewport) PlaneRect() image.Rectangle { return vp.planeRect }
