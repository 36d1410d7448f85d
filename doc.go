// Package tear implements a torn paper reveal transition.
//
// # Overview
//
// A square plane shows one image. On every trigger a ragged tear sweeps
// across it and reveals the next image of an ordered set. The tear is a
// noisy band: its centerline wanders with value noise, its width is a
// base thickness plus broad and fine noise layers, and an optional
// outline strokes both edges. The plane's outer border is torn as well.
//
// # Quick Start
//
//	params := tear.DefaultParams()
//	set, err := tear.NewTextureSet(a, b, c)
//	if err != nil {
//	    return err
//	}
//	player := tear.NewPlayer(&params, set, 800, 600)
//	defer player.Close()
//
//	for {
//	    frame := player.Tick(16 * time.Millisecond)
//	    // present frame
//	}
//
// # Components
//
//   - Noise: deterministic value noise in [-1, 1]
//   - Profile: tear centerline offset and band width
//   - Frame: torn plane border
//   - Compositor: the per-pixel decision
//   - Controller: progress animation and texture rotation
//   - Renderer and Player: CPU rendering and the frame loop
//
// The same per-pixel logic ships as WGSL (ShaderSource) for the GPU
// pipeline in internal/gpu.
//
// # Parameters
//
// Params is passed explicitly; there is no global state besides the
// logger. ParamTable binds every scalar to its shader uniform and panel
// range. Presets are TOML (LoadPreset, SavePreset).
//
// # Logging
//
// The package is silent by default. Use SetLogger to route its slog
// output to a handler of your choice.
package tear
