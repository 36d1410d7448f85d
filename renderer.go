package tear

import (
	"github.com/gogpu/tear/internal/parallel"
)

// Renderer shades frames on the CPU. Rows are split into bands and run
// on a worker pool; every pixel is independent so bands never share
// writes.
//
// A Renderer may be shared by several players. Render calls on the same
// destination must not overlap.
type Renderer struct {
	pool       *parallel.WorkerPool
	bandHeight int
	background RGBA
}

// NewRenderer creates a renderer and starts its workers.
func NewRenderer(opts ...RendererOption) *Renderer {
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Renderer{
		pool:       parallel.NewWorkerPool(o.workers),
		bandHeight: o.bandHeight,
		background: o.background,
	}
}

// Render draws one frame into dst, which is resized to the viewport. The
// plane occupies vp.PlaneRect(); pixel centers map to (u, v) with v
// pointing up. Pixels off the plane get the background color.
func (r *Renderer) Render(dst *Pixmap, vp Viewport, params *Params, prev, next Sampler) {
	w, h := vp.Size()
	if dst.Width() != w || dst.Height() != h {
		dst.Resize(w, h)
	}

	comp := NewCompositor(params)
	rect := vp.PlaneRect()
	side := float64(rect.Dx())
	bg := r.background

	bands := parallel.Bands(h, r.bandHeight)
	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() {
			for y := b.Y0; y < b.Y1; y++ {
				for x := 0; x < w; x++ {
					if side <= 0 || x < rect.Min.X || x >= rect.Max.X || y < rect.Min.Y || y >= rect.Max.Y {
						dst.SetPixel(x, y, bg)
						continue
					}
					u := (float64(x-rect.Min.X) + 0.5) / side
					v := 1 - (float64(y-rect.Min.Y)+0.5)/side
					c := comp.Shade(u, v, prev, next)
					if c.A < 1 && bg.A > 0 {
						c = over(c, bg)
					}
					dst.SetPixel(x, y, c)
				}
			}
		}
	}
	r.pool.ExecuteAll(work)
}

// over composites straight-alpha src onto dst.
func over(src, dst RGBA) RGBA {
	a := src.A + dst.A*(1-src.A)
	if a <= 0 {
		return Transparent
	}
	blend := func(s, d float64) float64 {
		return (s*src.A + d*dst.A*(1-src.A)) / a
	}
	return RGBA{R: blend(src.R, dst.R), G: blend(src.G, dst.G), B: blend(src.B, dst.B), A: a}
}

// FrameBackend shades one frame into dst, resizing it to the viewport.
// Renderer is the CPU backend; internal/gpu provides a GPU one.
type FrameBackend interface {
	RenderFrame(dst *Pixmap, vp Viewport, params *Params, prev, next *Texture) error
}

// RenderFrame implements FrameBackend. It never fails.
func (r *Renderer) RenderFrame(dst *Pixmap, vp Viewport, params *Params, prev, next *Texture) error {
	r.Render(dst, vp, params, prev, next)
	return nil
}

// Background returns the color painted off the plane.
func (r *Renderer) Background() RGBA { return r.background }

// Close stops the render workers.
func (r *Renderer) Close() {
	r.pool.Close()
}
