package tear

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
)

// Pixmap is a rectangular straight-alpha RGBA pixel buffer. It implements
// draw.Image so text and standard image operations can target it.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // 4 bytes per pixel, NRGBA order
}

// NewPixmap creates a transparent pixmap. Negative sizes are treated as zero.
func NewPixmap(width, height int) *Pixmap {
	width, height = max(width, 0), max(height, 0)
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width in pixels.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height in pixels.
func (p *Pixmap) Height() int { return p.height }

// Data returns the raw NRGBA bytes.
func (p *Pixmap) Data() []uint8 { return p.data }

// Resize changes the dimensions, reusing the backing array when it is
// large enough. Contents are undefined afterwards.
func (p *Pixmap) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	n := width * height * 4
	if cap(p.data) >= n {
		p.data = p.data[:n]
	} else {
		p.data = make([]uint8, n)
	}
	p.width, p.height = width, height
}

// SetPixel writes one pixel. Out of range coordinates are ignored.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	n := c.NRGBA()
	i := (y*p.width + x) * 4
	p.data[i+0] = n.R
	p.data[i+1] = n.G
	p.data[i+2] = n.B
	p.data[i+3] = n.A
}

// GetPixel reads one pixel. Out of range coordinates read as transparent.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	i := (y*p.width + x) * 4
	return RGBA{
		R: float64(p.data[i+0]) / 255,
		G: float64(p.data[i+1]) / 255,
		B: float64(p.data[i+2]) / 255,
		A: float64(p.data[i+3]) / 255,
	}
}

// Clear fills the pixmap with c.
func (p *Pixmap) Clear(c RGBA) {
	n := c.NRGBA()
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = n.R
		p.data[i+1] = n.G
		p.data[i+2] = n.B
		p.data[i+3] = n.A
	}
}

// Underlay composites bg beneath every pixel that is not opaque.
func (p *Pixmap) Underlay(bg RGBA) {
	if bg.A <= 0 {
		return
	}
	n := bg.NRGBA()
	for i := 0; i < len(p.data); i += 4 {
		switch p.data[i+3] {
		case 0xff:
		case 0:
			p.data[i+0], p.data[i+1], p.data[i+2], p.data[i+3] = n.R, n.G, n.B, n.A
		default:
			x := (i / 4) % p.width
			y := (i / 4) / p.width
			p.SetPixel(x, y, over(p.GetPixel(x, y), bg))
		}
	}
}

// ToImage copies the pixmap into an image.NRGBA.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// EncodePNG writes the pixmap as PNG.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	return png.Encode(w, p.ToImage())
}

// SavePNG writes the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := p.EncodePNG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// At implements image.Image.
func (p *Pixmap) At(x, y int) color.Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.NRGBA{}
	}
	i := (y*p.width + x) * 4
	return color.NRGBA{R: p.data[i], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Set implements draw.Image.
func (p *Pixmap) Set(x, y int, c color.Color) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	i := (y*p.width + x) * 4
	p.data[i+0] = n.R
	p.data[i+1] = n.G
	p.data[i+2] = n.B
	p.data[i+3] = n.A
}

// Bounds implements image.Image.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements image.Image.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
