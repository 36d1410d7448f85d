package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/tear"
)

// Uniform block layout of shaders/tear.wgsl:
//
//	scalars      15 × f32 in tear.ParamTable order, 1 × f32 pad = 64 bytes
//	outline      vec4<f32>                                      = 16 bytes
//	fit          vec4<f32> (prev.xy, next.zw)                   = 16 bytes
//
// Total = 96 bytes.
const (
	UniformSize   = 96
	outlineOffset = 64
	fitOffset     = 80
)

// PackUniforms encodes params and the cover-fit scales of the two
// textures into the uniform block.
func PackUniforms(params *tear.Params, prev, next *tear.Texture) []byte {
	buf := make([]byte, UniformSize)
	for i, info := range tear.ParamTable() {
		putF32(buf, i*4, params.Get(info.Param))
	}

	c := params.OutlineColor
	putF32(buf, outlineOffset+0, c.R)
	putF32(buf, outlineOffset+4, c.G)
	putF32(buf, outlineOffset+8, c.B)
	putF32(buf, outlineOffset+12, c.A)

	pu, pv := CoverScale(prev)
	nu, nv := CoverScale(next)
	putF32(buf, fitOffset+0, pu)
	putF32(buf, fitOffset+4, pv)
	putF32(buf, fitOffset+8, nu)
	putF32(buf, fitOffset+12, nv)
	return buf
}

// CoverScale returns the factors that crop t's longer side so it covers
// the square plane. Empty textures scale by 1.
func CoverScale(t *tear.Texture) (su, sv float64) {
	if t == nil || t.Empty() {
		return 1, 1
	}
	w, h := t.Size()
	switch {
	case w > h:
		return float64(h) / float64(w), 1
	case h > w:
		return 1, float64(w) / float64(h)
	}
	return 1, 1
}

func putF32(buf []byte, off int, v float64) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(v)))
}
