package sfx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/gogpu/tear"
)

func drain(s beep.Streamer) (samples [][2]float64) {
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		samples = append(samples, buf[:n]...)
		if !ok {
			return samples
		}
	}
}

// =============================================================================
// Tear Streamer Tests
// =============================================================================

func TestNewTear_Length(t *testing.T) {
	params := tear.DefaultParams()
	rate := beep.SampleRate(8000)
	s := NewTear(&params, tear.Power2Out, 250*time.Millisecond, rate)

	got := drain(s)
	if want := rate.N(250 * time.Millisecond); len(got) != want {
		t.Errorf("streamed %d samples, want %d", len(got), want)
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v, want nil", s.Err())
	}
}

func TestNewTear_Range(t *testing.T) {
	params := tear.DefaultParams()
	s := NewTear(&params, tear.Linear, 100*time.Millisecond, 8000)

	nonZero := false
	for i, smp := range drain(s) {
		for ch, v := range smp {
			if v < -1 || v > 1 {
				t.Fatalf("sample %d channel %d = %v, outside [-1, 1]", i, ch, v)
			}
			if v != 0 {
				nonZero = true
			}
		}
	}
	if !nonZero {
		t.Error("all samples are silent")
	}
}

func TestNewTear_Deterministic(t *testing.T) {
	params := tear.DefaultParams()
	a := drain(NewTear(&params, nil, 50*time.Millisecond, 0))
	b := drain(NewTear(&params, nil, 50*time.Millisecond, 0))
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestNewTear_EndsQuiet(t *testing.T) {
	params := tear.DefaultParams()
	got := drain(NewTear(&params, tear.Power2Out, 200*time.Millisecond, 8000))
	first, last := got[0], got[len(got)-1]
	if first[0] != 0 || last[0] != 0 {
		t.Errorf("first/last samples = %v/%v, want silent ends", first[0], last[0])
	}
}

func TestTimeline(t *testing.T) {
	params := tear.DefaultParams()
	rate := beep.SampleRate(8000)
	run := 100 * time.Millisecond
	runs := []beep.Streamer{
		NewTear(&params, nil, run, rate),
		NewTear(&params, nil, run, rate),
	}
	starts := []time.Duration{50 * time.Millisecond, 300 * time.Millisecond}
	lengths := []time.Duration{run, run}

	got := drain(Timeline(runs, starts, lengths, rate))
	if want := rate.N(300*time.Millisecond) + rate.N(run); len(got) != want {
		t.Errorf("Timeline streamed %d samples, want %d", len(got), want)
	}
	for i := range rate.N(50 * time.Millisecond) {
		if got[i] != [2]float64{} {
			t.Fatalf("sample %d = %v before the first run, want silence", i, got[i])
		}
	}
}

func TestTimeline_Overlap(t *testing.T) {
	params := tear.DefaultParams()
	rate := beep.SampleRate(8000)
	run := 100 * time.Millisecond
	runs := []beep.Streamer{
		NewTear(&params, nil, run, rate),
		NewTear(&params, nil, run, rate),
	}
	// second start lies inside the first run
	got := drain(Timeline(runs, []time.Duration{0, 50 * time.Millisecond}, []time.Duration{run, run}, rate))
	if want := 2 * rate.N(run); len(got) != want {
		t.Errorf("Timeline streamed %d samples, want %d", len(got), want)
	}
}

// =============================================================================
// WAV Tests
// =============================================================================

func TestWriteWAV(t *testing.T) {
	params := tear.DefaultParams()
	path := filepath.Join(t.TempDir(), "tear.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	s := WithVolume(NewTear(&params, nil, 100*time.Millisecond, 8000), 0.5)
	if err := WriteWAV(f, s, 8000); err != nil {
		t.Fatalf("WriteWAV() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 44 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Errorf("WriteWAV() header = %q, want RIFF/WAVE", data[:min(len(data), 12)])
	}
	// 800 frames × 2 channels × 2 bytes after the 44 byte header
	if want := 44 + 800*4; len(data) != want {
		t.Errorf("WriteWAV() size = %d, want %d", len(data), want)
	}
}
