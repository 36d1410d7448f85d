package tear

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// statsSmoothing is the weight of the newest sample in the frame time
// moving average.
const statsSmoothing = 0.1

// FrameStats is a smoothed frame timing record for the debug overlay.
type FrameStats struct {
	FrameTime time.Duration
	Frames    uint64
}

// FPS returns frames per second derived from the smoothed frame time.
func (s FrameStats) FPS() float64 {
	if s.FrameTime <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.FrameTime)
}

func (s *FrameStats) add(dt time.Duration) {
	s.Frames++
	if s.Frames == 1 || s.FrameTime == 0 {
		s.FrameTime = dt
		return
	}
	s.FrameTime += time.Duration(statsSmoothing * float64(dt-s.FrameTime))
}

var (
	overlayBackground = color.NRGBA{A: 160}
	overlayText       = color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
)

const (
	overlayPad        = 4
	overlayLineHeight = 14
)

// overlayLines formats the debug readout.
func overlayLines(stats FrameStats, ctrl *Controller) []string {
	return []string{
		fmt.Sprintf("fps %5.1f  %6.2fms", stats.FPS(), float64(stats.FrameTime)/float64(time.Millisecond)),
		fmt.Sprintf("progress %.3f  %s", ctrl.Progress(), ctrl.State()),
		fmt.Sprintf("prev %d  next %d", ctrl.Previous(), ctrl.Current()),
	}
}

// drawOverlay paints lines in the top left corner of dst.
func drawOverlay(dst draw.Image, lines []string) {
	face := basicfont.Face7x13
	width := 0
	for _, l := range lines {
		width = max(width, font.MeasureString(face, l).Ceil())
	}
	box := image.Rect(0, 0, width+2*overlayPad, len(lines)*overlayLineHeight+2*overlayPad)
	draw.Draw(dst, box.Intersect(dst.Bounds()), image.NewUniform(overlayBackground), image.Point{}, draw.Over)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(overlayText),
		Face: face,
	}
	for i, l := range lines {
		d.Dot = fixed.P(overlayPad, overlayPad+(i+1)*overlayLineHeight-3)
		d.DrawString(l)
	}
}
