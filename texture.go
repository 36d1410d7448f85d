package tear

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Texture is an immutable image sampled by the compositor. The zero-size
// texture samples as transparent everywhere and stands in for the empty
// placeholder and for assets that failed to load.
type Texture struct {
	name   string
	width  int
	height int
	pix    []uint8 // NRGBA
}

// NewTexture copies img into a texture.
func NewTexture(name string, img image.Image) *Texture {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Texture{
		name:   name,
		width:  b.Dx(),
		height: b.Dy(),
		pix:    dst.Pix,
	}
}

// EmptyTexture returns the blank placeholder.
func EmptyTexture() *Texture {
	return &Texture{name: "empty"}
}

// Name identifies the texture in logs.
func (t *Texture) Name() string { return t.name }

// Size returns the texture dimensions.
func (t *Texture) Size() (width, height int) { return t.width, t.height }

// Empty reports whether the texture has no pixels.
func (t *Texture) Empty() bool { return t.width == 0 || t.height == 0 }

// Image returns a copy of the pixels as image.NRGBA.
func (t *Texture) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.width, t.height))
	copy(img.Pix, t.pix)
	return img
}

// Scaled returns a copy no larger than maxSide on either axis, resampled
// with Catmull-Rom. Textures already small enough are returned as is.
func (t *Texture) Scaled(maxSide int) *Texture {
	if maxSide <= 0 || t.Empty() || (t.width <= maxSide && t.height <= maxSide) {
		return t
	}
	scale := float64(maxSide) / float64(max(t.width, t.height))
	w := max(int(math.Round(float64(t.width)*scale)), 1)
	h := max(int(math.Round(float64(t.height)*scale)), 1)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), t.Image(), image.Rect(0, 0, t.width, t.height), draw.Src, nil)
	return &Texture{name: t.name, width: w, height: h, pix: dst.Pix}
}

// Sample implements Sampler with "cover" fitting onto the square plane:
// the shorter image side spans the plane and the longer one is cropped
// symmetrically. Bilinear filtering, clamped at the edges.
func (t *Texture) Sample(u, v float64) RGBA {
	if t.Empty() {
		return Transparent
	}
	w, h := float64(t.width), float64(t.height)
	if w > h {
		u = 0.5 + (u-0.5)*h/w
	} else if h > w {
		v = 0.5 + (v-0.5)*w/h
	}

	x := u*w - 0.5
	y := (1-v)*h - 0.5
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := x - x0
	fy := y - y0

	c00 := t.texel(int(x0), int(y0))
	c10 := t.texel(int(x0)+1, int(y0))
	c01 := t.texel(int(x0), int(y0)+1)
	c11 := t.texel(int(x0)+1, int(y0)+1)
	return c00.Lerp(c10, fx).Lerp(c01.Lerp(c11, fx), fy)
}

func (t *Texture) texel(x, y int) RGBA {
	x = min(max(x, 0), t.width-1)
	y = min(max(y, 0), t.height-1)
	i := (y*t.width + x) * 4
	return RGBA{
		R: float64(t.pix[i+0]) / 255,
		G: float64(t.pix[i+1]) / 255,
		B: float64(t.pix[i+2]) / 255,
		A: float64(t.pix[i+3]) / 255,
	}
}

// TextureSet is the ordered, fixed image sequence a Controller walks.
type TextureSet struct {
	textures []*Texture
}

// NewTextureSet returns a set over textures. At least two are required.
func NewTextureSet(textures ...*Texture) (*TextureSet, error) {
	if len(textures) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewTextures, len(textures))
	}
	own := append([]*Texture(nil), textures...)
	for i, t := range own {
		if t == nil {
			own[i] = EmptyTexture()
		}
	}
	return &TextureSet{textures: own}, nil
}

// Len returns the number of textures.
func (s *TextureSet) Len() int { return len(s.textures) }

// At returns texture i modulo Len.
func (s *TextureSet) At(i int) *Texture {
	n := len(s.textures)
	return s.textures[((i%n)+n)%n]
}
