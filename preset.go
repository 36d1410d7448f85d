package tear

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// DecodePreset reads a TOML preset. Keys missing from the document keep
// their DefaultParams value. The result is validated.
func DecodePreset(r io.Reader) (Params, error) {
	p := DefaultParams()
	md, err := toml.NewDecoder(r).Decode(&p)
	if err != nil {
		return Params{}, fmt.Errorf("decode preset: %w", err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		Logger().Warn("tear: unknown preset keys ignored", "keys", fmt.Sprint(keys))
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// LoadPreset reads a TOML preset file.
func LoadPreset(path string) (Params, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return Params{}, fmt.Errorf("open preset: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	p, err := DecodePreset(f)
	if err != nil {
		return Params{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// EncodePreset writes p as TOML.
func EncodePreset(w io.Writer, p Params) error {
	if err := toml.NewEncoder(w).Encode(p); err != nil {
		return fmt.Errorf("encode preset: %w", err)
	}
	return nil
}

// SavePreset writes p to a TOML file.
func SavePreset(path string, p Params) error {
	var buf bytes.Buffer
	if err := EncodePreset(&buf, p); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // presets are not secret
		return fmt.Errorf("write preset: %w", err)
	}
	return nil
}
