package tear

import (
	"math/rand/v2"
	"time"
)

// ControllerOption configures a Controller during creation.
//
// Example:
//
//	params := tear.DefaultParams()
//	ctrl := tear.NewController(&params, set,
//	    tear.WithDuration(2*time.Second),
//	    tear.WithEase(tear.Power3Out))
type ControllerOption func(*controllerOptions)

type controllerOptions struct {
	fixed    bool
	duration time.Duration
	ease     Ease
	rng      *rand.Rand
	onDone   func()
}

func defaultControllerOptions() controllerOptions {
	return controllerOptions{
		duration: DefaultDuration,
		ease:     Power2Out,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
	}
}

// WithFixedPair makes the controller blend texture 0 into texture 1 on
// every run instead of rotating through the set.
func WithFixedPair() ControllerOption {
	return func(o *controllerOptions) {
		o.fixed = true
	}
}

// WithDuration sets the length of one run. Zero jumps straight to the end
// on the next Update. Negative values are ignored.
func WithDuration(d time.Duration) ControllerOption {
	return func(o *controllerOptions) {
		if d >= 0 {
			o.duration = d
		}
	}
}

// WithEase sets the progress curve. nil keeps the default.
func WithEase(e Ease) ControllerOption {
	return func(o *controllerOptions) {
		if e != nil {
			o.ease = e
		}
	}
}

// WithSeed makes the random shape offsets reproducible.
func WithSeed(seed uint64) ControllerOption {
	return func(o *controllerOptions) {
		o.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithOnDone registers a callback invoked when a run reaches progress 1.
func WithOnDone(fn func()) ControllerOption {
	return func(o *controllerOptions) {
		o.onDone = fn
	}
}

// RendererOption configures a Renderer during creation.
type RendererOption func(*rendererOptions)

type rendererOptions struct {
	workers    int
	bandHeight int
	background RGBA
}

func defaultRendererOptions() rendererOptions {
	return rendererOptions{
		workers:    0,
		bandHeight: 16,
		background: Transparent,
	}
}

// WithWorkers sets the number of render goroutines. Zero or negative uses
// GOMAXPROCS.
func WithWorkers(n int) RendererOption {
	return func(o *rendererOptions) {
		o.workers = n
	}
}

// WithBandHeight sets how many rows one render task covers.
func WithBandHeight(rows int) RendererOption {
	return func(o *rendererOptions) {
		if rows > 0 {
			o.bandHeight = rows
		}
	}
}

// WithBackground sets the color outside the plane and behind cut-away
// pixels. The default is transparent.
func WithBackground(c RGBA) RendererOption {
	return func(o *rendererOptions) {
		o.background = c
	}
}

// PlayerOption configures a Player during creation.
type PlayerOption func(*playerOptions)

type playerOptions struct {
	introDelay   time.Duration
	overlay      bool
	pixelOverlay bool
	camera       Camera
	renderer     *Renderer
	backend      FrameBackend
	controllers  []ControllerOption
}

func defaultPlayerOptions() playerOptions {
	return playerOptions{
		introDelay:   DefaultIntroDelay,
		pixelOverlay: true,
		camera:       DefaultCamera(),
	}
}

// WithIntroDelay sets how long the player waits before the intro run.
// Negative disables the intro run; triggers are accepted immediately.
func WithIntroDelay(d time.Duration) PlayerOption {
	return func(o *playerOptions) {
		o.introDelay = d
	}
}

// WithOverlay shows the debug overlay from the first frame.
func WithOverlay(show bool) PlayerOption {
	return func(o *playerOptions) {
		o.overlay = show
	}
}

// WithPixelOverlay controls whether Render paints the overlay into the
// frame. Front ends that print OverlayLines themselves pass false.
func WithPixelOverlay(draw bool) PlayerOption {
	return func(o *playerOptions) {
		o.pixelOverlay = draw
	}
}

// WithCamera replaces the default camera.
func WithCamera(c Camera) PlayerOption {
	return func(o *playerOptions) {
		o.camera = c
	}
}

// WithRenderer shares an existing renderer. The player does not close it.
func WithRenderer(r *Renderer) PlayerOption {
	return func(o *playerOptions) {
		o.renderer = r
	}
}

// WithBackend renders frames through b instead of the CPU renderer. The
// player falls back to the CPU renderer if b fails.
func WithBackend(b FrameBackend) PlayerOption {
	return func(o *playerOptions) {
		o.backend = b
	}
}

// WithControllerOptions forwards options to the player's controller.
func WithControllerOptions(opts ...ControllerOption) PlayerOption {
	return func(o *playerOptions) {
		o.controllers = append(o.controllers, opts...)
	}
}
