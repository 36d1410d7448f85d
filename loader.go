package tear

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io/fs"
	"os"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Loader turns image references into textures. A failed load never
// stops the animation: it is logged as ErrAssetLoad and the blank
// texture takes its place.
type Loader struct {
	fsys    fs.FS
	maxSide int
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFS resolves references inside fsys instead of the OS file system.
func WithFS(fsys fs.FS) LoaderOption {
	return func(l *Loader) {
		l.fsys = fsys
	}
}

// WithMaxTextureSize downsamples textures whose longer side exceeds n.
func WithMaxTextureSize(n int) LoaderOption {
	return func(l *Loader) {
		l.maxSide = n
	}
}

// NewLoader creates a loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load decodes ref. It always returns a usable texture.
func (l *Loader) Load(ctx context.Context, ref string) *Texture {
	tex, err := l.load(ctx, ref)
	if err != nil {
		Logger().Warn("tear: texture substituted with blank",
			"ref", ref, "err", fmt.Errorf("%w: %w", ErrAssetLoad, err))
		return &Texture{name: ref}
	}
	Logger().Debug("tear: texture loaded", "ref", ref, "width", tex.width, "height", tex.height)
	return tex
}

// LoadAll loads refs in order. After ctx is done the remaining entries
// are blank.
func (l *Loader) LoadAll(ctx context.Context, refs []string) []*Texture {
	out := make([]*Texture, len(refs))
	for i, ref := range refs {
		out[i] = l.Load(ctx, ref)
	}
	return out
}

func (l *Loader) load(ctx context.Context, ref string) (*Texture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		f   fs.File
		err error
	)
	if l.fsys != nil {
		f, err = l.fsys.Open(ref)
	} else {
		f, err = os.Open(ref) //nolint:gosec // references are user-provided intentionally
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decode %s: empty image", format)
	}
	return NewTexture(ref, img).Scaled(l.maxSide), nil
}
