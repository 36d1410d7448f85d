package tear

import (
	"math"
	"sort"
)

// Ease maps normalized time t in [0, 1] to progress in [0, 1]. Every
// built-in curve is monotonically non-decreasing with Ease(0) = 0 and
// Ease(1) = 1.
type Ease func(t float64) float64

// Linear is the identity curve.
func Linear(t float64) float64 { return t }

// Power1Out decelerates quadratically.
func Power1Out(t float64) float64 { return 1 - (1-t)*(1-t) }

// Power2Out decelerates cubically. It is the default transition curve.
func Power2Out(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// Power3Out decelerates with a quartic.
func Power3Out(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u*u
}

// Power2InOut accelerates then decelerates cubically.
func Power2InOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

var eases = map[string]Ease{
	"linear":       Linear,
	"power1.out":   Power1Out,
	"power2.out":   Power2Out,
	"power3.out":   Power3Out,
	"power2.inOut": Power2InOut,
}

// EaseByName looks up a curve by its animation-library name, for example
// "power2.out".
func EaseByName(name string) (Ease, bool) {
	e, ok := eases[name]
	return e, ok
}

// EaseNames lists the registered curve names in sorted order.
func EaseNames() []string {
	names := make([]string, 0, len(eases))
	for name := range eases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
