package tear

import (
	"math/rand/v2"
	"time"
)

// State is the controller state.
type State int

const (
	// StateIdle means progress is at rest.
	StateIdle State = iota
	// StateAnimating means progress is advancing toward 1.
	StateAnimating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnimating:
		return "animating"
	}
	return "unknown"
}

// DefaultDuration is the length of one transition run.
const DefaultDuration = 1500 * time.Millisecond

// shapeOffsetRange bounds the random shape offset drawn per run: [0, 10).
const shapeOffsetRange = 10.0

// noPrevious marks the empty placeholder before the first rotation.
const noPrevious = -1

// Controller owns the transition state and drives Params.Progress.
//
// A rotating controller walks an ordered TextureSet: every Activate makes
// the current texture the previous one and advances the current index
// with wraparound. A fixed pair controller (WithFixedPair) always blends
// texture 0 into texture 1 and Activate only restarts the run.
//
// Re-activating while a run is in progress restarts it from zero; runs
// are never queued. Controller is not safe for concurrent use: call it
// from the goroutine that renders.
type Controller struct {
	params *Params
	set    *TextureSet
	empty  *Texture

	fixed    bool
	previous int
	current  int

	state    State
	elapsed  time.Duration
	duration time.Duration
	ease     Ease
	rng      *rand.Rand
	onDone   func()
}

// NewController creates an idle controller over set that writes into
// params. Progress is reset to 0.
func NewController(params *Params, set *TextureSet, opts ...ControllerOption) *Controller {
	o := defaultControllerOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Controller{
		params:   params,
		set:      set,
		empty:    EmptyTexture(),
		fixed:    o.fixed,
		previous: noPrevious,
		current:  0,
		duration: o.duration,
		ease:     o.ease,
		rng:      o.rng,
		onDone:   o.onDone,
	}
	if c.fixed {
		c.previous, c.current = 0, 1
	}
	params.Progress = 0
	return c
}

// Activate handles one trigger: rotate the texture pointer (rotating
// variant only), then restart the run.
func (c *Controller) Activate() {
	if !c.fixed {
		c.previous = c.current
		c.current = (c.current + 1) % c.set.Len()
	}
	c.Start()
	Logger().Debug("tear: activate",
		"previous", c.previous, "current", c.current,
		"shapeOffset", c.params.TearShape.NoiseOffset)
}

// Start restarts the run from progress 0 with a fresh shape offset,
// without touching the texture pointer.
func (c *Controller) Start() {
	c.params.Progress = 0
	c.params.TearShape.NoiseOffset = c.rng.Float64() * shapeOffsetRange
	c.elapsed = 0
	c.state = StateAnimating
}

// Update advances a running animation by dt and writes the eased
// progress. It reports whether progress changed. Negative dt is ignored.
func (c *Controller) Update(dt time.Duration) bool {
	if c.state != StateAnimating || dt < 0 {
		return false
	}
	c.elapsed += dt

	t := 1.0
	if c.duration > 0 {
		t = clamp01(float64(c.elapsed) / float64(c.duration))
	}
	c.params.Progress = clamp01(c.ease(t))

	if t >= 1 {
		c.params.Progress = 1
		c.state = StateIdle
		if c.onDone != nil {
			c.onDone()
		}
	}
	return true
}

// Progress returns the current progress value.
func (c *Controller) Progress() float64 { return c.params.Progress }

// State returns the controller state.
func (c *Controller) State() State { return c.state }

// Animating reports whether a run is in progress.
func (c *Controller) Animating() bool { return c.state == StateAnimating }

// Previous returns the previous texture index, or -1 before the first
// rotation.
func (c *Controller) Previous() int { return c.previous }

// Current returns the current texture index.
func (c *Controller) Current() int { return c.current }

// Duration returns the length of one run.
func (c *Controller) Duration() time.Duration { return c.duration }

// Textures returns the outgoing and incoming textures. The outgoing
// texture is the blank placeholder until a previous index exists.
func (c *Controller) Textures() (prev, next *Texture) {
	prev = c.empty
	if c.previous != noPrevious {
		prev = c.set.At(c.previous)
	}
	return prev, c.set.At(c.current)
}
