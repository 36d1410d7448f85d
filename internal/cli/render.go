package cli

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gopxl/beep"
	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"github.com/gogpu/tear"
	"github.com/gogpu/tear/internal/sfx"
)

type renderOpts struct {
	session sessionOpts
	runs    int
	fps     int
	width   int
	height  int
	output  string
	sound   string
	volume  float64
	overlay bool
}

// renderCommand records the intro run plus a number of triggered runs.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		runs:   3,
		fps:    c.Config.FPS,
		width:  c.Config.Width,
		height: c.Config.Height,
		output: ".",
		volume: 1,
	}

	cmd := &cobra.Command{
		Use:   "render [images...]",
		Short: "Record transition frames to PNG files or an animated GIF",
		Long: `Record the intro run followed by --runs triggered transitions.

The output is a directory, in which a tear-<id> folder of numbered PNG
frames is created, or a path ending in .gif for a single animation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, opts, args)
		},
	}

	c.addSessionFlags(cmd, &opts.session)
	f := cmd.Flags()
	f.IntVarP(&opts.runs, "runs", "n", opts.runs, "number of triggered transitions after the intro")
	f.IntVar(&opts.fps, "fps", opts.fps, "frames per second")
	f.IntVar(&opts.width, "width", opts.width, "frame width in pixels")
	f.IntVar(&opts.height, "height", opts.height, "frame height in pixels")
	f.StringVarP(&opts.output, "output", "o", opts.output, "output directory or .gif path")
	f.StringVar(&opts.sound, "sound", "", "also write the tearing sound as WAV")
	f.Float64Var(&opts.volume, "volume", opts.volume, "sound volume in [0, 1]")
	f.BoolVar(&opts.overlay, "overlay", false, "draw the debug overlay")
	return cmd
}

// recording is the frame sequence of one render plus the run timing the
// sound track needs.
type recording struct {
	frames   []*image.NRGBA
	interval time.Duration
	starts   []time.Duration
	offsets  []float64 // shape offset drawn for each run
}

func (c *CLI) runRender(cmd *cobra.Command, opts renderOpts, args []string) error {
	if opts.fps <= 0 {
		return fmt.Errorf("fps %d must be positive", opts.fps)
	}
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("%w: %dx%d", tear.ErrDegenerateViewport, opts.width, opts.height)
	}
	if !(opts.volume >= 0 && opts.volume <= 1) {
		return fmt.Errorf("volume %g outside [0, 1]", opts.volume)
	}
	s, err := c.newSession(cmd.Context(), opts.session, args)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	rec, err := c.record(cmd, s, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d frames", len(rec.frames)))

	out := cmd.OutOrStdout()
	if strings.EqualFold(filepath.Ext(opts.output), ".gif") {
		if err := writeGIF(opts.output, rec); err != nil {
			return err
		}
		printSuccess(out, "Wrote animation")
		printFile(out, opts.output)
	} else {
		dir, err := writeFrames(opts.output, rec)
		if err != nil {
			return err
		}
		printSuccess(out, "Wrote %d frames", len(rec.frames))
		printFile(out, dir)
	}

	if opts.sound != "" {
		if err := writeSound(opts.sound, s, rec, opts.volume); err != nil {
			return err
		}
		printFile(out, opts.sound)
	}
	return nil
}

// record steps a player at the frame rate and triggers the next run
// whenever the previous one finishes.
func (c *CLI) record(cmd *cobra.Command, s *session, opts renderOpts) (*recording, error) {
	interval := time.Second / time.Duration(opts.fps)
	player := tear.NewPlayer(s.params, s.set, opts.width, opts.height,
		tear.WithIntroDelay(c.Config.IntroDelay),
		tear.WithOverlay(opts.overlay),
		tear.WithControllerOptions(s.ctrl...),
	)
	defer player.Close()

	rec := &recording{interval: interval}
	ctx := cmd.Context()
	triggered := 0
	wasAnimating := false
	var clock time.Duration
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ctrl := player.Controller()
		if player.Ready() && !ctrl.Animating() {
			if triggered == opts.runs {
				break
			}
			player.Trigger()
			triggered++
		}
		if ctrl.Animating() && !wasAnimating {
			rec.starts = append(rec.starts, clock)
			rec.offsets = append(rec.offsets, s.params.TearShape.NoiseOffset)
		}
		wasAnimating = ctrl.Animating()

		rec.frames = append(rec.frames, player.Tick(interval).ToImage())
		clock += interval
		c.Logger.Debug("frame", "n", len(rec.frames), "progress", ctrl.Progress(), "state", ctrl.State())
	}
	// last frame shows the finished run
	rec.frames = append(rec.frames, player.Render().ToImage())
	return rec, nil
}

// writeFrames stores numbered PNGs in a fresh run directory under root.
func writeFrames(root string, rec *recording) (string, error) {
	dir := filepath.Join(root, appName+"-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // output directory is user-provided
		return "", fmt.Errorf("create output directory: %w", err)
	}
	for i, img := range rec.frames {
		path := filepath.Join(dir, fmt.Sprintf("frame-%04d.png", i))
		if err := savePNG(path, img); err != nil {
			return "", err
		}
	}
	return dir, nil
}

func savePNG(path string, img *image.NRGBA) error {
	pm := tear.NewPixmap(img.Rect.Dx(), img.Rect.Dy())
	copy(pm.Data(), img.Pix)
	return pm.SavePNG(path)
}

// writeGIF encodes the frames with a web-safe palette and dithering.
func writeGIF(path string, rec *recording) error {
	anim := &gif.GIF{}
	delay := max(int(rec.interval/(10*time.Millisecond)), 1)
	for _, img := range rec.frames {
		pal := image.NewPaletted(img.Bounds(), palette.WebSafe)
		draw.FloydSteinberg.Draw(pal, img.Bounds(), img, image.Point{})
		anim.Image = append(anim.Image, pal)
		anim.Delay = append(anim.Delay, delay)
	}

	f, err := os.Create(path) //nolint:gosec // output path is user-provided
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// writeSound renders one tear per recorded run, aligned to the frames.
func writeSound(path string, s *session, rec *recording, volume float64) error {
	rate := sfx.DefaultSampleRate
	duration := rec.interval * time.Duration(len(rec.frames))

	runs := make([]beep.Streamer, len(rec.starts))
	lengths := make([]time.Duration, len(rec.starts))
	for i := range rec.starts {
		params := *s.params
		params.TearShape.NoiseOffset = rec.offsets[i]
		runs[i] = sfx.NewTear(&params, s.ease, s.duration, rate)
		lengths[i] = s.duration
	}
	track := beep.Seq(
		sfx.Timeline(runs, rec.starts, lengths, rate),
		beep.Silence(-1),
	)
	track = beep.Take(rate.N(duration), sfx.WithVolume(track, volume))

	f, err := os.Create(path) //nolint:gosec // output path is user-provided
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := sfx.WriteWAV(f, track, rate); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
