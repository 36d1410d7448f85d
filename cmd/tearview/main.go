// Command tearview plays the torn paper transition in a window.
//
// A left click, space or enter tears to the next image and d toggles the
// debug overlay. Frames are shaded by the GPU pipeline on the window's
// device when it is available and by the CPU renderer otherwise. Images are given as arguments; without
// arguments every image in the working directory's "images" folder is
// used.
//
// Rendering mode: event-driven with an animation token. The window only
// redraws at VSync while the player has something to animate.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/integration/ggcanvas"
	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
	"github.com/spf13/cobra"

	"github.com/gogpu/tear"
	"github.com/gogpu/tear/internal/config"
	"github.com/gogpu/tear/internal/gpu"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type viewOpts struct {
	preset  string
	overlay bool
	gpu     bool
	verbose bool
}

func rootCommand() *cobra.Command {
	var opts viewOpts
	cmd := &cobra.Command{
		Use:          "tearview [images...]",
		Short:        "Play the torn paper transition in a window",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.preset, "preset", "", "TOML parameter preset")
	f.BoolVar(&opts.overlay, "overlay", false, "show the debug overlay")
	f.BoolVar(&opts.gpu, "gpu", true, "shade frames on the window's GPU device")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	return cmd
}

func run(ctx context.Context, opts viewOpts, refs []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, TimeFormat: "15:04:05.00"})
	if opts.verbose {
		logger.SetLevel(log.DebugLevel)
	}
	tear.SetLogger(slog.New(logger))

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	params := tear.DefaultParams()
	if path := firstNonEmpty(opts.preset, cfg.Preset); path != "" {
		if params, err = tear.LoadPreset(path); err != nil {
			return err
		}
	}
	ease, ok := tear.EaseByName(cfg.Ease)
	if !ok {
		return fmt.Errorf("unknown ease %q", cfg.Ease)
	}

	if len(refs) == 0 {
		refs, _ = filepath.Glob(filepath.Join("images", "*"))
	}
	loader := tear.NewLoader(tear.WithMaxTextureSize(cfg.MaxTexture))
	set, err := tear.NewTextureSet(loader.LoadAll(ctx, refs)...)
	if err != nil {
		return err
	}

	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle("tear").
		WithSize(cfg.Width, cfg.Height).
		WithContinuousRender(false))

	renderer := tear.NewRenderer(tear.WithWorkers(cfg.Workers), tear.WithBackground(tear.Black))
	defer renderer.Close()

	player := tear.NewPlayer(&params, set, cfg.Width, cfg.Height,
		tear.WithIntroDelay(cfg.IntroDelay),
		tear.WithOverlay(opts.overlay),
		tear.WithRenderer(renderer),
		tear.WithControllerOptions(tear.WithDuration(cfg.Duration), tear.WithEase(ease)),
	)

	v := &viewer{app: app, player: player, logger: logger, useGPU: opts.gpu}
	app.OnDraw(v.draw)
	events := app.EventSource()
	events.OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		if handleKey(player, key) {
			v.animate()
		}
	})
	events.OnMousePress(func(button gpucontext.MouseButton, _, _ float64) {
		if handleMouse(player, button) {
			v.animate()
		}
	})
	app.OnClose(v.close)

	if err := app.Run(); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}

// viewer presents Player frames on a gogpu surface.
type viewer struct {
	app    *gogpu.App
	player *tear.Player
	logger *log.Logger

	useGPU bool
	pipe   *gpu.Pipeline

	canvas *ggcanvas.Canvas
	token  *gogpu.AnimationToken
	last   time.Time
	frame  int
}

// handleKey applies a key press and reports whether the window has to
// redraw.
func handleKey(p *tear.Player, key gpucontext.Key) bool {
	switch key {
	case gpucontext.KeySpace, gpucontext.KeyEnter:
		return p.Trigger()
	case gpucontext.KeyD:
		p.ToggleOverlay()
		return true
	}
	return false
}

// handleMouse triggers a run on a left click.
func handleMouse(p *tear.Player, button gpucontext.MouseButton) bool {
	return button == gpucontext.MouseButtonLeft && p.Trigger()
}

// animate keeps the window redrawing at VSync until the player is idle.
func (v *viewer) animate() {
	if v.token == nil {
		v.token = v.app.StartAnimation()
		v.last = time.Now()
	}
}

func (v *viewer) draw(dc *gogpu.Context) {
	if v.frame == 0 {
		v.logger.Info("backend", "name", dc.Backend())
		v.animate()
	}
	v.frame++

	w, h := dc.Width(), dc.Height()
	if w <= 0 || h <= 0 {
		return
	}
	if !v.ensureCanvas(w, h) {
		return
	}
	if err := v.player.Resize(w, h); err != nil {
		v.logger.Debug("resize", "err", err)
	}

	now := time.Now()
	dt := now.Sub(v.last)
	v.last = now
	img := gg.ImageBufFromImage(v.player.Tick(dt).ToImage())

	if err := v.canvas.Draw(func(cc *gg.Context) {
		cc.SetRGBA(0, 0, 0, 1)
		cc.Clear()
		cc.DrawImage(img, 0, 0)
	}); err != nil {
		v.logger.Warn("draw", "err", err)
	}

	sw, sh := dc.SurfaceSize()
	if err := v.canvas.RenderDirect(dc.RenderTarget().SurfaceView(), sw, sh); err != nil {
		v.logger.Warn("present", "frame", v.frame, "err", err)
	}

	// intro pending or a run in flight: keep the token
	if v.player.Ready() && !v.player.Controller().Animating() && v.token != nil {
		v.token.Stop()
		v.token = nil
	}
}

func (v *viewer) ensureCanvas(w, h int) bool {
	if v.canvas == nil {
		provider := v.app.GPUContextProvider()
		if provider == nil {
			return false
		}
		canvas, err := ggcanvas.New(provider, w, h)
		if err != nil {
			v.logger.Error("create canvas", "err", err)
			return false
		}
		v.canvas = canvas
		if v.useGPU {
			v.attachGPU(provider)
		}
	}
	if cw, ch := v.canvas.Size(); cw != w || ch != h {
		if err := v.canvas.Resize(w, h); err != nil {
			v.logger.Warn("resize canvas", "err", err)
		}
	}
	return true
}

// attachGPU builds the tear pipeline on the window's device. On failure
// the player keeps the CPU renderer.
func (v *viewer) attachGPU(provider any) {
	dev, err := gpu.Shared(provider)
	if err != nil {
		v.logger.Warn("GPU shading unavailable, using CPU", "err", err)
		return
	}
	pipe, err := gpu.NewPipeline(dev.Device, dev.Queue)
	if err != nil {
		v.logger.Warn("GPU shading unavailable, using CPU", "err", err)
		return
	}
	pipe.SetBackground(tear.Black)
	v.pipe = pipe
	v.player.SetBackend(pipe)
	v.logger.Info("shading on GPU")
}

func (v *viewer) close() {
	if v.token != nil {
		v.token.Stop()
	}
	v.player.SetBackend(nil)
	if v.pipe != nil {
		v.pipe.Destroy()
		v.pipe = nil
	}
	v.player.Close()
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return ""
}
