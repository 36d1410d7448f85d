package tear

import "errors"

var (
	// ErrAssetLoad reports a texture that could not be opened or decoded.
	// Loader never returns it; it is logged and the blank texture is used.
	ErrAssetLoad = errors.New("tear: asset load failed")

	// ErrDegenerateViewport is returned by Viewport.Resize for a zero or
	// negative size. The viewport keeps its previous state.
	ErrDegenerateViewport = errors.New("tear: degenerate viewport")

	// ErrTooFewTextures is returned when a TextureSet has fewer than two entries.
	ErrTooFewTextures = errors.New("tear: texture set needs at least two textures")

	// ErrInvalidParams is returned by Params.Validate.
	ErrInvalidParams = errors.New("tear: invalid parameters")
)
