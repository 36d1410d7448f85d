package tear

import (
	_ "embed"
)

//go:embed shaders/tear.wgsl
var shaderSource string

// ShaderSource returns the WGSL twin of Compositor.Shade. Its uniform
// block lists the ParamTable uniforms in table order, then the outline
// color and the two cover-fit scales.
func ShaderSource() string {
	return shaderSource
}
