package tear

import (
	"time"
)

// DefaultIntroDelay is how long a player waits before its intro run.
const DefaultIntroDelay = 250 * time.Millisecond

// Player drives one transition on a single goroutine: Tick advances the
// controller and then renders. Window and terminal front ends feed it
// elapsed time, triggers and resizes.
//
// A new player shows the blank placeholder. After the intro delay it runs
// once from the placeholder to the first texture; triggers are ignored
// until that run completes.
type Player struct {
	params   *Params
	ctrl     *Controller
	renderer *Renderer
	ownsRend bool
	backend  FrameBackend

	viewport Viewport
	frame    *Pixmap

	clock      time.Duration
	introDelay time.Duration
	introState introState

	overlay      bool
	pixelOverlay bool
	stats        FrameStats
}

type introState uint8

const (
	introWaiting introState = iota
	introRunning
	introDone
)

// NewPlayer creates a player for a width×height surface. params is
// shared with the caller; the player writes its progress and shape
// offset through its controller.
func NewPlayer(params *Params, set *TextureSet, width, height int, opts ...PlayerOption) *Player {
	o := defaultPlayerOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Player{
		params:       params,
		ctrl:         NewController(params, set, o.controllers...),
		renderer:     o.renderer,
		backend:      o.backend,
		viewport:     NewViewport(width, height, o.camera),
		frame:        NewPixmap(width, height),
		introDelay:   o.introDelay,
		overlay:      o.overlay,
		pixelOverlay: o.pixelOverlay,
	}
	if p.renderer == nil {
		p.renderer = NewRenderer()
		p.ownsRend = true
	}
	if o.introDelay < 0 {
		p.introState = introDone
	}
	return p
}

// Tick advances time by dt and renders a frame. The returned pixmap is
// reused by the next Tick.
func (p *Player) Tick(dt time.Duration) *Pixmap {
	p.Update(dt)
	return p.Render()
}

// Update advances time by dt without rendering.
func (p *Player) Update(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	p.clock += dt
	p.stats.add(dt)

	switch p.introState {
	case introWaiting:
		if p.clock >= p.introDelay {
			p.ctrl.Start()
			p.introState = introRunning
			Logger().Debug("tear: intro run started")
			p.ctrl.Update(p.clock - p.introDelay)
		}
	default:
		p.ctrl.Update(dt)
	}

	if p.introState == introRunning && !p.ctrl.Animating() {
		p.introState = introDone
		Logger().Debug("tear: intro run done")
	}
}

// Render draws the current state into the player's frame. A failing
// backend is dropped and the CPU renderer takes over from that frame on.
func (p *Player) Render() *Pixmap {
	prev, next := p.ctrl.Textures()
	if p.backend != nil {
		if err := p.backend.RenderFrame(p.frame, p.viewport, p.params, prev, next); err != nil {
			Logger().Warn("tear: frame backend failed, using CPU renderer", "err", err)
			p.backend = nil
		}
	}
	if p.backend == nil {
		p.renderer.Render(p.frame, p.viewport, p.params, prev, next)
	}
	if p.overlay && p.pixelOverlay {
		drawOverlay(p.frame, p.OverlayLines())
	}
	return p.frame
}

// Trigger activates the next transition. It reports false while the
// intro run has not finished.
func (p *Player) Trigger() bool {
	if p.introState != introDone {
		Logger().Debug("tear: trigger ignored during intro")
		return false
	}
	p.ctrl.Activate()
	return true
}

// SetBackend replaces the frame backend. Nil selects the CPU renderer.
func (p *Player) SetBackend(b FrameBackend) { p.backend = b }

// Backend returns the active frame backend, nil for the CPU renderer.
func (p *Player) Backend() FrameBackend { return p.backend }

// Ready reports whether triggers are accepted.
func (p *Player) Ready() bool { return p.introState == introDone }

// Resize applies a new surface size. Degenerate sizes are rejected with
// ErrDegenerateViewport and leave the player unchanged.
func (p *Player) Resize(width, height int) error {
	return p.viewport.Resize(width, height)
}

// ToggleOverlay flips the debug overlay and returns the new visibility.
func (p *Player) ToggleOverlay() bool {
	p.overlay = !p.overlay
	return p.overlay
}

// OverlayLines returns the debug readout: frame rate, progress, state
// and texture indices.
func (p *Player) OverlayLines() []string {
	return overlayLines(p.stats, p.ctrl)
}

// OverlayVisible reports whether the debug overlay is drawn.
func (p *Player) OverlayVisible() bool { return p.overlay }

// Controller returns the player's controller.
func (p *Player) Controller() *Controller { return p.ctrl }

// Params returns the shared parameters.
func (p *Player) Params() *Params { return p.params }

// Viewport returns the current viewport.
func (p *Player) Viewport() Viewport { return p.viewport }

// Stats returns the smoothed frame timing.
func (p *Player) Stats() FrameStats { return p.stats }

// Close releases the renderer if the player created it.
func (p *Player) Close() {
	if p.ownsRend {
		p.renderer.Close()
	}
}
