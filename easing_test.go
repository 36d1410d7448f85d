package tear

import (
	"math"
	"slices"
	"testing"
)

func TestEaseEndpointsAndMonotonic(t *testing.T) {
	for _, name := range EaseNames() {
		t.Run(name, func(t *testing.T) {
			e, ok := EaseByName(name)
			if !ok {
				t.Fatalf("EaseByName(%q) not found", name)
			}
			if got := e(0); math.Abs(got) > 1e-12 {
				t.Errorf("ease(0) = %g, want 0", got)
			}
			if got := e(1); math.Abs(got-1) > 1e-12 {
				t.Errorf("ease(1) = %g, want 1", got)
			}
			last := e(0)
			for i := 1; i <= 1000; i++ {
				v := e(float64(i) / 1000)
				if v < last-1e-12 {
					t.Fatalf("ease decreases at t=%g: %g < %g", float64(i)/1000, v, last)
				}
				last = v
			}
		})
	}
}

func TestEaseOutCurves(t *testing.T) {
	tests := []struct {
		name string
		e    Ease
		want float64
	}{
		{"linear", Linear, 0.5},
		{"power1.out", Power1Out, 0.75},
		{"power2.out", Power2Out, 0.875},
		{"power3.out", Power3Out, 0.9375},
		{"power2.inOut", Power2InOut, 0.5},
	}
	for _, tt := range tests {
		if got := tt.e(0.5); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s(0.5) = %g, want %g", tt.name, got, tt.want)
		}
	}
}

func TestEaseNames(t *testing.T) {
	names := EaseNames()
	if !slices.IsSorted(names) {
		t.Errorf("EaseNames() = %v, want sorted", names)
	}
	if !slices.Contains(names, "power2.out") {
		t.Errorf("EaseNames() = %v, missing power2.out", names)
	}
	if _, ok := EaseByName("bounce"); ok {
		t.Error("EaseByName(bounce) should not be found")
	}
}
