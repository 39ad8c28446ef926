package visreg

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// LoadPNG loads a PNG image from the given file path.
func LoadPNG(path string) (*PixelBuffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("visreg: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return DecodePNG(f)
}

// DecodePNG decodes a PNG image from the given reader.
func DecodePNG(r io.Reader) (*PixelBuffer, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("visreg: decode PNG: %w", err)
	}
	return FromImage(img)
}

// EncodePNG writes the image as PNG to the given writer.
func (b *PixelBuffer) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, b.ToImage()); err != nil {
		return fmt.Errorf("visreg: encode PNG: %w", err)
	}
	return nil
}

// SavePNG saves the image as a PNG file, creating parent directories as
// needed.
func (b *PixelBuffer) SavePNG(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("visreg: create directory: %w", err)
		}
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("visreg: create file: %w", err)
	}

	if err := b.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
