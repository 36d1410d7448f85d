package tear

import (
	"errors"
	"testing"
	"time"
)

func TestPlayerIntro(t *testing.T) {
	p := DefaultParams()
	pl := NewPlayer(&p, testSet(t, 3), 64, 48,
		WithIntroDelay(100*time.Millisecond),
		WithControllerOptions(WithDuration(200*time.Millisecond)))
	defer pl.Close()

	if pl.Ready() {
		t.Fatal("player ready before the intro run")
	}
	if pl.Trigger() {
		t.Error("Trigger() accepted while waiting for the intro")
	}

	pl.Update(50 * time.Millisecond)
	if pl.Controller().Animating() {
		t.Fatal("intro started before the delay")
	}

	pl.Update(100 * time.Millisecond) // 50ms into the intro run
	if !pl.Controller().Animating() {
		t.Fatal("intro did not start after the delay")
	}
	if pl.Controller().Progress() <= 0 {
		t.Error("intro run did not carry the time past the delay")
	}
	if pl.Trigger() {
		t.Error("Trigger() accepted during the intro run")
	}

	// the intro shows the placeholder turning into texture 0
	prev, _ := pl.Controller().Textures()
	if !prev.Empty() || pl.Controller().Current() != 0 {
		t.Error("intro run should reveal texture 0 from the placeholder")
	}

	pl.Update(time.Second)
	if !pl.Ready() {
		t.Fatal("player not ready after the intro run")
	}
	if !pl.Trigger() {
		t.Error("Trigger() rejected after the intro")
	}
	if pl.Controller().Current() != 1 {
		t.Errorf("Current() = %d, want 1", pl.Controller().Current())
	}
}

func TestPlayerNoIntro(t *testing.T) {
	p := DefaultParams()
	pl := NewPlayer(&p, testSet(t, 2), 32, 32, WithIntroDelay(-1))
	defer pl.Close()

	if !pl.Ready() {
		t.Error("negative intro delay should make the player ready at once")
	}
	pl.Update(time.Second)
	if pl.Controller().Animating() {
		t.Error("no intro run expected")
	}
}

func TestPlayerTick(t *testing.T) {
	p := DefaultParams()
	pl := NewPlayer(&p, testSet(t, 2), 50, 40, WithIntroDelay(0))
	defer pl.Close()

	frame := pl.Tick(16 * time.Millisecond)
	if frame.Width() != 50 || frame.Height() != 40 {
		t.Errorf("frame = %dx%d, want 50x40", frame.Width(), frame.Height())
	}
	if pl.Stats().Frames != 1 {
		t.Errorf("Stats().Frames = %d, want 1", pl.Stats().Frames)
	}

	if err := pl.Resize(30, 20); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	frame = pl.Tick(16 * time.Millisecond)
	if frame.Width() != 30 || frame.Height() != 20 {
		t.Errorf("frame after resize = %dx%d, want 30x20", frame.Width(), frame.Height())
	}

	if err := pl.Resize(0, 20); !errors.Is(err, ErrDegenerateViewport) {
		t.Errorf("Resize(0, 20) error = %v, want ErrDegenerateViewport", err)
	}
	if w, h := pl.Viewport().Size(); w != 30 || h != 20 {
		t.Errorf("viewport after degenerate resize = %dx%d, want 30x20", w, h)
	}
}

func TestPlayerOverlay(t *testing.T) {
	r := NewRenderer(WithBackground(Black))
	defer r.Close()

	p := DefaultParams()
	pl := NewPlayer(&p, testSet(t, 2), 200, 100, WithIntroDelay(-1), WithRenderer(r))
	defer pl.Close()

	base := append([]byte(nil), pl.Tick(0).Data()...)

	if !pl.ToggleOverlay() || !pl.OverlayVisible() {
		t.Fatal("ToggleOverlay() did not show the overlay")
	}
	withOverlay := pl.Tick(0).Data()
	if string(withOverlay) == string(base) {
		t.Error("overlay did not change the frame")
	}
	if len(pl.OverlayLines()) != 3 {
		t.Errorf("OverlayLines() = %q, want 3 lines", pl.OverlayLines())
	}

	if pl.ToggleOverlay() {
		t.Error("second ToggleOverlay() should hide the overlay")
	}
}

func TestPlayerTextOnlyOverlay(t *testing.T) {
	p := DefaultParams()
	pl := NewPlayer(&p, testSet(t, 2), 200, 100, WithIntroDelay(-1), WithPixelOverlay(false))
	defer pl.Close()

	base := append([]byte(nil), pl.Tick(0).Data()...)
	pl.ToggleOverlay()
	if string(pl.Tick(0).Data()) != string(base) {
		t.Error("WithPixelOverlay(false) should leave the frame untouched")
	}
}

func TestPlayerSharedParams(t *testing.T) {
	p := DefaultParams()
	pl := NewPlayer(&p, testSet(t, 2), 16, 16, WithIntroDelay(-1))
	defer pl.Close()

	pl.Trigger()
	pl.Update(100 * time.Millisecond)
	if pl.Params() != &p {
		t.Error("Params() should return the caller's parameters")
	}
	if p.Progress == 0 {
		t.Error("controller progress not written into the shared parameters")
	}
}

// fillBackend paints every frame one color, or fails when err is set.
type fillBackend struct {
	color RGBA
	err   error
	calls int
}

func (b *fillBackend) RenderFrame(dst *Pixmap, vp Viewport, _ *Params, _, _ *Texture) error {
	b.calls++
	if b.err != nil {
		return b.err
	}
	w, h := vp.Size()
	dst.Resize(w, h)
	dst.Clear(b.color)
	return nil
}

func TestPlayerBackend(t *testing.T) {
	p := DefaultParams()
	b := &fillBackend{color: RGBA{R: 1, A: 1}}
	pl := NewPlayer(&p, testSet(t, 2), 20, 10, WithIntroDelay(-1), WithBackend(b))
	defer pl.Close()

	frame := pl.Tick(16 * time.Millisecond)
	if b.calls != 1 {
		t.Errorf("backend calls = %d, want 1", b.calls)
	}
	if got := frame.GetPixel(0, 0); got != b.color {
		t.Errorf("GetPixel(0, 0) = %v, want %v", got, b.color)
	}
	if pl.Backend() != b {
		t.Error("Backend() did not return the configured backend")
	}
}

func TestPlayerBackendFallback(t *testing.T) {
	p := DefaultParams()
	b := &fillBackend{err: errors.New("device lost")}
	pl := NewPlayer(&p, testSet(t, 2), 30, 30, WithIntroDelay(-1))
	defer pl.Close()
	pl.SetBackend(b)
	pl.Trigger()

	frame := pl.Tick(16 * time.Millisecond)
	if pl.Backend() != nil {
		t.Error("failing backend was kept")
	}
	// early in the run the plane center still shows the previous image
	rect := pl.Viewport().PlaneRect()
	center := rect.Min.Add(rect.Size().Div(2))
	if got := frame.GetPixel(center.X, center.Y); got.A == 0 {
		t.Errorf("center pixel = %v, want a shaded pixel from the CPU renderer", got)
	}

	pl.Tick(16 * time.Millisecond)
	if b.calls != 1 {
		t.Errorf("backend calls = %d, want 1 (dropped after failing)", b.calls)
	}
}
