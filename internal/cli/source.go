package cli

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/tear"
)

// demoSize is the side of a procedural demo image.
const demoSize = 256

// demoPalette holds the base hues of the procedural images.
var demoPalette = []color.NRGBA{
	{R: 0xe0, G: 0x6c, B: 0x4f, A: 0xff},
	{R: 0x3f, G: 0x8e, B: 0xc9, A: 0xff},
	{R: 0x6a, G: 0xb0, B: 0x5a, A: 0xff},
	{R: 0xd9, G: 0xb4, B: 0x3c, A: 0xff},
	{R: 0x8c, G: 0x5c, B: 0xc4, A: 0xff},
	{R: 0x4c, G: 0xb5, B: 0xae, A: 0xff},
}

// sessionOpts are the flags shared by every command that animates.
type sessionOpts struct {
	preset   string
	demo     int
	duration time.Duration
	ease     string
	seed     uint64
	fixed    bool
}

// session is everything a command needs to run transitions.
type session struct {
	params   *tear.Params
	set      *tear.TextureSet
	ctrl     []tear.ControllerOption
	ease     tear.Ease
	duration time.Duration
}

// newSession loads the preset and textures named by opts and refs.
func (c *CLI) newSession(ctx context.Context, opts sessionOpts, refs []string) (*session, error) {
	params := tear.DefaultParams()
	preset := opts.preset
	if preset == "" {
		preset = c.Config.Preset
	}
	if preset != "" {
		p, err := tear.LoadPreset(preset)
		if err != nil {
			return nil, err
		}
		params = p
		c.Logger.Debug("preset loaded", "path", preset)
	}

	if opts.duration < 0 {
		return nil, fmt.Errorf("duration %s must not be negative", opts.duration)
	}
	ease, ok := tear.EaseByName(opts.ease)
	if !ok {
		return nil, fmt.Errorf("unknown ease %q (known: %v)", opts.ease, tear.EaseNames())
	}

	var textures []*tear.Texture
	if len(refs) > 0 {
		loader := tear.NewLoader(tear.WithMaxTextureSize(c.Config.MaxTexture))
		textures = loader.LoadAll(ctx, refs)
	} else {
		textures = demoTextures(max(opts.demo, 2))
	}
	set, err := tear.NewTextureSet(textures...)
	if err != nil {
		return nil, err
	}

	ctrl := []tear.ControllerOption{
		tear.WithDuration(opts.duration),
		tear.WithEase(ease),
	}
	if opts.seed != 0 {
		ctrl = append(ctrl, tear.WithSeed(opts.seed))
	}
	if opts.fixed {
		ctrl = append(ctrl, tear.WithFixedPair())
	}
	return &session{params: &params, set: set, ctrl: ctrl, ease: ease, duration: opts.duration}, nil
}

// demoTextures draws n numbered images with distinct hues and stripes.
func demoTextures(n int) []*tear.Texture {
	out := make([]*tear.Texture, n)
	for i := range n {
		out[i] = tear.NewTexture(fmt.Sprintf("demo-%d", i), demoImage(i))
	}
	return out
}

func demoImage(i int) image.Image {
	base := demoPalette[i%len(demoPalette)]
	img := image.NewNRGBA(image.Rect(0, 0, demoSize, demoSize))
	angle := float64(i) * math.Pi / 5
	dx, dy := math.Cos(angle), math.Sin(angle)
	for y := range demoSize {
		for x := range demoSize {
			stripe := math.Sin((float64(x)*dx+float64(y)*dy)/9) * 0.5
			shade := 0.75 + 0.25*stripe
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(float64(base.R) * shade),
				G: uint8(float64(base.G) * shade),
				B: uint8(float64(base.B) * shade),
				A: 0xff,
			})
		}
	}

	label := fmt.Sprintf("%d", i)
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
	}
	width := d.MeasureString(label).Ceil()
	d.Dot = fixed.P((demoSize-width)/2, demoSize/2+5)
	d.DrawString(label)
	return img
}

// addSessionFlags registers the flags shared by animating commands.
func (c *CLI) addSessionFlags(cmd *cobra.Command, opts *sessionOpts) {
	f := cmd.Flags()
	f.StringVar(&opts.preset, "preset", "", "TOML parameter preset")
	f.IntVar(&opts.demo, "demo", defaultDemoTextures, "number of procedural images when no files are given")
	f.DurationVar(&opts.duration, "duration", c.Config.Duration, "length of one transition")
	f.StringVar(&opts.ease, "ease", c.Config.Ease, "progress curve")
	f.Uint64Var(&opts.seed, "seed", 0, "seed for the random tear shape (0 = random)")
	f.BoolVar(&opts.fixed, "fixed-pair", false, "always blend the first image into the second")
}
