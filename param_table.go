package tear

import "fmt"

// Param identifies one scalar effect parameter.
type Param int

// The scalar parameters, in uniform block order.
const (
	ParamProgress Param = iota
	ParamTearShapeNoiseAmp
	ParamTearShapeNoiseFreq
	ParamTearShapeNoiseOffset
	ParamTearThickness
	ParamTearThicknessNoiseAmp
	ParamTearThicknessNoiseFreq
	ParamTearThicknessHarmonics1NoiseAmp
	ParamTearThicknessHarmonics1NoiseFreq
	ParamTearThicknessHarmonics2NoiseAmp
	ParamTearThicknessHarmonics2NoiseFreq
	ParamTearOutlineThickness
	ParamFrameThickness
	ParamFrameNoiseAmp
	ParamFrameNoiseFreq

	// ParamCount is the number of scalar parameters.
	ParamCount
)

// ParamInfo binds a parameter to its shader uniform and its tuning
// panel control.
type ParamInfo struct {
	Param   Param
	Name    string // stable identifier used in logs and the HTTP API
	Uniform string // field name in shaders/tear.wgsl
	Folder  string // panel folder path, "/" separated
	Label   string
	Min     float64
	Max     float64
	Step    float64
}

// Clamp limits v to the panel range.
func (i ParamInfo) Clamp(v float64) float64 {
	return min(max(v, i.Min), i.Max)
}

var paramTable = [ParamCount]ParamInfo{
	{ParamProgress, "progress", "uProgress", "", "Progress", 0, 1, 0.01},
	{ParamTearShapeNoiseAmp, "tearShapeNoiseAmp", "uTearShapeNoiseAmp", "Tear/Shape", "Amplitude", 0, 0.5, 0.01},
	{ParamTearShapeNoiseFreq, "tearShapeNoiseFreq", "uTearShapeNoiseFreq", "Tear/Shape", "Frequency", 0, 2, 0.01},
	{ParamTearShapeNoiseOffset, "tearShapeNoiseOffset", "uTearShapeNoiseOffset", "Tear/Shape", "Offset", 0, 10, 0.01},
	{ParamTearThickness, "tearThickness", "uTearThickness", "Tear/Thickness", "Thickness", 0, 0.4, 0.001},
	{ParamTearThicknessNoiseAmp, "tearThicknessNoiseAmp", "uTearThicknessNoiseAmp", "Tear/Thickness", "Amplitude", 0, 1, 0.01},
	{ParamTearThicknessNoiseFreq, "tearThicknessNoiseFreq", "uTearThicknessNoiseFreq", "Tear/Thickness", "Frequency", 0, 10, 0.01},
	{ParamTearThicknessHarmonics1NoiseAmp, "tearThicknessHarmonics1NoiseAmp", "uTearThicknessHarmonics1NoiseAmp", "Tear/Noisy harmonics", "Amplitude 1", 0, 0.01, 0.0001},
	{ParamTearThicknessHarmonics1NoiseFreq, "tearThicknessHarmonics1NoiseFreq", "uTearThicknessHarmonics1NoiseFreq", "Tear/Noisy harmonics", "Frequency 1", 0, 200, 0.01},
	{ParamTearThicknessHarmonics2NoiseAmp, "tearThicknessHarmonics2NoiseAmp", "uTearThicknessHarmonics2NoiseAmp", "Tear/Noisy harmonics", "Amplitude 2", 0, 0.01, 0.0001},
	{ParamTearThicknessHarmonics2NoiseFreq, "tearThicknessHarmonics2NoiseFreq", "uTearThicknessHarmonics2NoiseFreq", "Tear/Noisy harmonics", "Frequency 2", 0, 200, 0.01},
	{ParamTearOutlineThickness, "tearOutlineThickness", "uTearOutlineThickness", "Tear/Outline", "Thickness", 0, 0.01, 0.0001},
	{ParamFrameThickness, "frameThickness", "uFrameThickness", "Frame", "Thickness", 0, 1, 0.01},
	{ParamFrameNoiseAmp, "frameNoiseAmp", "uFrameNoiseAmp", "Frame", "Amplitude", 0, 0.1, 0.01},
	{ParamFrameNoiseFreq, "frameNoiseFreq", "uFrameNoiseFreq", "Frame", "Frequency", 0, 10, 0.01},
}

// ParamTable returns every parameter in uniform block order.
func ParamTable() []ParamInfo {
	out := make([]ParamInfo, len(paramTable))
	copy(out, paramTable[:])
	return out
}

// Info returns the table entry for p. It panics for values outside the
// enumeration.
func (p Param) Info() ParamInfo {
	return paramTable[p]
}

// String returns the parameter name.
func (p Param) String() string {
	if p < 0 || p >= ParamCount {
		return fmt.Sprintf("Param(%d)", int(p))
	}
	return paramTable[p].Name
}

// LookupParam finds a parameter by Name or Uniform.
func LookupParam(name string) (Param, bool) {
	for _, info := range paramTable {
		if info.Name == name || info.Uniform == name {
			return info.Param, true
		}
	}
	return 0, false
}

// Get returns the value of p.
func (p *Params) Get(param Param) float64 {
	switch param {
	case ParamProgress:
		return p.Progress
	case ParamTearShapeNoiseAmp:
		return p.TearShape.NoiseAmp
	case ParamTearShapeNoiseFreq:
		return p.TearShape.NoiseFreq
	case ParamTearShapeNoiseOffset:
		return p.TearShape.NoiseOffset
	case ParamTearThickness:
		return p.TearThickness.Base
	case ParamTearThicknessNoiseAmp:
		return p.TearThickness.NoiseAmp
	case ParamTearThicknessNoiseFreq:
		return p.TearThickness.NoiseFreq
	case ParamTearThicknessHarmonics1NoiseAmp:
		return p.Harmonics[0].Amp
	case ParamTearThicknessHarmonics1NoiseFreq:
		return p.Harmonics[0].Freq
	case ParamTearThicknessHarmonics2NoiseAmp:
		return p.Harmonics[1].Amp
	case ParamTearThicknessHarmonics2NoiseFreq:
		return p.Harmonics[1].Freq
	case ParamTearOutlineThickness:
		return p.OutlineThickness
	case ParamFrameThickness:
		return p.Frame.Thickness
	case ParamFrameNoiseAmp:
		return p.Frame.NoiseAmp
	case ParamFrameNoiseFreq:
		return p.Frame.NoiseFreq
	}
	return 0
}

// Set writes v into the field bound to param. Unknown params are ignored.
func (p *Params) Set(param Param, v float64) {
	switch param {
	case ParamProgress:
		p.Progress = v
	case ParamTearShapeNoiseAmp:
		p.TearShape.NoiseAmp = v
	case ParamTearShapeNoiseFreq:
		p.TearShape.NoiseFreq = v
	case ParamTearShapeNoiseOffset:
		p.TearShape.NoiseOffset = v
	case ParamTearThickness:
		p.TearThickness.Base = v
	case ParamTearThicknessNoiseAmp:
		p.TearThickness.NoiseAmp = v
	case ParamTearThicknessNoiseFreq:
		p.TearThickness.NoiseFreq = v
	case ParamTearThicknessHarmonics1NoiseAmp:
		p.Harmonics[0].Amp = v
	case ParamTearThicknessHarmonics1NoiseFreq:
		p.Harmonics[0].Freq = v
	case ParamTearThicknessHarmonics2NoiseAmp:
		p.Harmonics[1].Amp = v
	case ParamTearThicknessHarmonics2NoiseFreq:
		p.Harmonics[1].Freq = v
	case ParamTearOutlineThickness:
		p.OutlineThickness = v
	case ParamFrameThickness:
		p.Frame.Thickness = v
	case ParamFrameNoiseAmp:
		p.Frame.NoiseAmp = v
	case ParamFrameNoiseFreq:
		p.Frame.NoiseFreq = v
	}
}
