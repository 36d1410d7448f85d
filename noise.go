package tear

import "math"

// Noise returns band-limited value noise for coord on the row selected by
// seed. The result lies in [-1, 1], is continuous in both arguments and
// depends on nothing but its inputs.
//
// Noise(c, s) is Noise2(c, s): a fractional seed moves smoothly between
// lattice rows, so a random shape offset reshapes the tear continuously.
func Noise(coord, seed float64) float64 {
	return Noise2(coord, seed)
}

// Noise2 is 2D value noise: hashed lattice values in [-1, 1] blended with
// a quintic fade. shaders/tear.wgsl carries the same hash and fade.
func Noise2(x, y float64) float64 {
	fx := math.Floor(x)
	fy := math.Floor(y)
	ix := int32(int64(fx))
	iy := int32(int64(fy))
	tx := fade(x - fx)
	ty := fade(y - fy)

	a := lattice(ix, iy)
	b := lattice(ix+1, iy)
	c := lattice(ix, iy+1)
	d := lattice(ix+1, iy+1)

	ab := a + (b-a)*tx
	cd := c + (d-c)*tx
	return ab + (cd-ab)*ty
}

// fade is 6t^5 - 15t^4 + 10t^3; zero first and second derivative at 0 and 1.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

// lattice maps an integer lattice point to [-1, 1].
func lattice(ix, iy int32) float64 {
	h := pcgHash(uint32(ix)*0x27d4eb2d ^ pcgHash(uint32(iy)))
	return float64(h)/float64(math.MaxUint32)*2 - 1
}

// pcgHash is the PCG-RXS-M-XS output permutation used as an integer hash.
func pcgHash(v uint32) uint32 {
	state := v*747796405 + 2891336453
	word := ((state >> ((state >> 28) + 4)) ^ state) * 277803737
	return (word >> 22) ^ word
}
