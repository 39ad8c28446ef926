package visreg

import (
	"bytes"
	"image"
	"image/draw"
)

// bytesPerPixel is the storage cost of one RGBA8 pixel.
const bytesPerPixel = 4

// PixelBuffer is a tightly packed, non-premultiplied RGBA8 image.
//
// The invariant len(pix) == width*height*4 is enforced by every
// constructor, so code receiving a PixelBuffer never needs to re-validate
// it. Buffers are treated as read-only once handed to the comparator or
// the reference store; the setter exists for construction only.
type PixelBuffer struct {
	width  int
	height int
	pix    []byte
}

// NewPixelBuffer creates a zeroed (transparent black) pixel buffer.
// Returns ErrInvalidDimensions if width or height is non-positive.
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &PixelBuffer{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*bytesPerPixel),
	}, nil
}

// FromRaw creates a PixelBuffer that takes ownership of data, which must
// hold at least width*height*4 bytes of tightly packed RGBA. The caller
// must not modify data afterward.
func FromRaw(data []byte, width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	required := width * height * bytesPerPixel
	if len(data) < required {
		return nil, ErrDataTooSmall
	}
	return &PixelBuffer{
		width:  width,
		height: height,
		pix:    data[:required],
	}, nil
}

// FromImage converts any image.Image into a PixelBuffer, preserving
// non-premultiplied channel values. NRGBA images with a tight stride are
// copied row-wise; everything else goes through a draw conversion.
func FromImage(img image.Image) (*PixelBuffer, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	pb, err := NewPixelBuffer(w, h)
	if err != nil {
		return nil, err
	}

	if src, ok := img.(*image.NRGBA); ok {
		rowBytes := w * bytesPerPixel
		for y := 0; y < h; y++ {
			srcOff := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(pb.pix[y*rowBytes:(y+1)*rowBytes], src.Pix[srcOff:srcOff+rowBytes])
		}
		return pb, nil
	}

	dst := &image.NRGBA{
		Pix:    pb.pix,
		Stride: w * bytesPerPixel,
		Rect:   image.Rect(0, 0, w, h),
	}
	draw.Draw(dst, dst.Rect, img, bounds.Min, draw.Src)
	return pb, nil
}

// Width returns the image width in pixels.
func (b *PixelBuffer) Width() int { return b.width }

// Height returns the image height in pixels.
func (b *PixelBuffer) Height() int { return b.height }

// Bounds returns the image dimensions as (width, height).
func (b *PixelBuffer) Bounds() (int, int) { return b.width, b.height }

// Bytes returns the raw RGBA pixel data. The slice is a view, not a copy;
// callers must treat it as read-only.
func (b *PixelBuffer) Bytes() []byte { return b.pix }

// RGBAAt returns the color at (x, y) in 0-255 range.
// Returns (0,0,0,0) if coordinates are out of bounds.
func (b *PixelBuffer) RGBAAt(x, y int) (r, g, bl, a uint8) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0, 0, 0, 0
	}
	off := (y*b.width + x) * bytesPerPixel
	return b.pix[off], b.pix[off+1], b.pix[off+2], b.pix[off+3]
}

// SetRGBA sets the color at (x, y) in 0-255 range.
// Returns ErrOutOfBounds if coordinates are outside the buffer.
func (b *PixelBuffer) SetRGBA(x, y int, r, g, bl, a uint8) error {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return ErrOutOfBounds
	}
	off := (y*b.width + x) * bytesPerPixel
	b.pix[off] = r
	b.pix[off+1] = g
	b.pix[off+2] = bl
	b.pix[off+3] = a
	return nil
}

// Clone creates a deep copy of the pixel buffer.
func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]byte, len(b.pix))
	copy(pix, b.pix)
	return &PixelBuffer{width: b.width, height: b.height, pix: pix}
}

// Equal reports whether two buffers have identical dimensions and pixel
// data. A nil buffer equals only another nil buffer.
func (b *PixelBuffer) Equal(other *PixelBuffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.width == other.width &&
		b.height == other.height &&
		bytes.Equal(b.pix, other.pix)
}

// ToImage returns the buffer as an *image.NRGBA sharing the underlying
// pixel data. NRGBA (not RGBA) keeps channel values non-premultiplied so
// PNG encoding round-trips exactly.
func (b *PixelBuffer) ToImage() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.pix,
		Stride: b.width * bytesPerPixel,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}
