package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// quadVertexStride is one vec2<f32> clip-space position.
const quadVertexStride = 8

// quadVertexCount is two triangles covering the target.
const quadVertexCount = 6

// QuadVertices returns the full-target quad as little-endian f32 pairs.
func QuadVertices() []byte {
	pts := [quadVertexCount][2]float32{
		{-1, -1}, {1, -1}, {1, 1},
		{-1, -1}, {1, 1}, {-1, 1},
	}
	buf := make([]byte, quadVertexCount*quadVertexStride)
	for i, p := range pts {
		binary.LittleEndian.PutUint32(buf[i*8:], math.Float32bits(p[0]))
		binary.LittleEndian.PutUint32(buf[i*8+4:], math.Float32bits(p[1]))
	}
	return buf
}

func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
			},
		},
	}
}
