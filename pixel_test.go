package visreg

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewPixelBufferInvalidDimensions(t *testing.T) {
	cases := []struct{ w, h int }{
		{0, 10}, {10, 0}, {-1, 10}, {10, -3}, {0, 0},
	}
	for _, tc := range cases {
		if _, err := NewPixelBuffer(tc.w, tc.h); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("NewPixelBuffer(%d, %d) err = %v, want ErrInvalidDimensions", tc.w, tc.h, err)
		}
	}
}

func TestNewPixelBufferZeroed(t *testing.T) {
	pb, err := NewPixelBuffer(5, 3)
	if err != nil {
		t.Fatalf("NewPixelBuffer: %v", err)
	}
	if pb.Width() != 5 || pb.Height() != 3 {
		t.Errorf("dims = %dx%d, want 5x3", pb.Width(), pb.Height())
	}
	if got, want := len(pb.Bytes()), 5*3*4; got != want {
		t.Errorf("len(Bytes()) = %d, want %d", got, want)
	}
	for i, v := range pb.Bytes() {
		if v != 0 {
			t.Fatalf("byte %d = %d, want 0", i, v)
		}
	}
}

func TestFromRaw(t *testing.T) {
	data := make([]byte, 2*2*4)
	for i := range data {
		data[i] = byte(i)
	}
	pb, err := FromRaw(data, 2, 2)
	if err != nil {
		t.Fatalf("FromRaw: %v", err)
	}
	if diff := cmp.Diff(data, pb.Bytes()); diff != "" {
		t.Errorf("pixel data mismatch (-want +got):\n%s", diff)
	}

	if _, err := FromRaw(make([]byte, 15), 2, 2); !errors.Is(err, ErrDataTooSmall) {
		t.Errorf("short data err = %v, want ErrDataTooSmall", err)
	}
	if _, err := FromRaw(data, 0, 2); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("zero width err = %v, want ErrInvalidDimensions", err)
	}
}

func TestFromRawTruncatesExcess(t *testing.T) {
	data := make([]byte, 1*1*4+12)
	pb, err := FromRaw(data, 1, 1)
	if err != nil {
		t.Fatalf("FromRaw: %v", err)
	}
	if got := len(pb.Bytes()); got != 4 {
		t.Errorf("len(Bytes()) = %d, want 4", got)
	}
}

func TestGetSetRGBA(t *testing.T) {
	pb, err := NewPixelBuffer(4, 4)
	if err != nil {
		t.Fatalf("NewPixelBuffer: %v", err)
	}
	if err := pb.SetRGBA(2, 3, 10, 20, 30, 40); err != nil {
		t.Fatalf("SetRGBA: %v", err)
	}
	if r, g, b, a := pb.RGBAAt(2, 3); r != 10 || g != 20 || b != 30 || a != 40 {
		t.Errorf("RGBAAt(2, 3) = (%d,%d,%d,%d), want (10,20,30,40)", r, g, b, a)
	}

	if err := pb.SetRGBA(4, 0, 1, 1, 1, 1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SetRGBA(4, 0) err = %v, want ErrOutOfBounds", err)
	}
	if err := pb.SetRGBA(0, -1, 1, 1, 1, 1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SetRGBA(0, -1) err = %v, want ErrOutOfBounds", err)
	}
	if r, g, b, a := pb.RGBAAt(-1, 0); r != 0 || g != 0 || b != 0 || a != 0 {
		t.Errorf("RGBAAt(-1, 0) = (%d,%d,%d,%d), want zeros", r, g, b, a)
	}
}

func TestFromImageNRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	src.SetNRGBA(2, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 128})

	pb, err := FromImage(src)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if r, g, b, a := pb.RGBAAt(0, 0); r != 255 || g != 0 || b != 0 || a != 255 {
		t.Errorf("pixel (0,0) = (%d,%d,%d,%d), want (255,0,0,255)", r, g, b, a)
	}
	// Non-premultiplied values survive untouched, including partial alpha.
	if r, g, b, a := pb.RGBAAt(2, 1); r != 10 || g != 20 || b != 30 || a != 128 {
		t.Errorf("pixel (2,1) = (%d,%d,%d,%d), want (10,20,30,128)", r, g, b, a)
	}
}

// Sub-images carry a non-zero bounds origin; the row-copy fast path must
// honor it.
func TestFromImageNRGBASubImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	src.SetNRGBA(5, 6, color.NRGBA{R: 42, G: 43, B: 44, A: 255})

	sub := src.SubImage(image.Rect(4, 5, 8, 8)).(*image.NRGBA)
	pb, err := FromImage(sub)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if pb.Width() != 4 || pb.Height() != 3 {
		t.Fatalf("dims = %dx%d, want 4x3", pb.Width(), pb.Height())
	}
	if r, g, b, a := pb.RGBAAt(1, 1); r != 42 || g != 43 || b != 44 || a != 255 {
		t.Errorf("pixel (1,1) = (%d,%d,%d,%d), want (42,43,44,255)", r, g, b, a)
	}
}

func TestFromImageGray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.SetGray(1, 0, color.Gray{Y: 200})

	pb, err := FromImage(src)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if r, g, b, a := pb.RGBAAt(1, 0); r != 200 || g != 200 || b != 200 || a != 255 {
		t.Errorf("pixel (1,0) = (%d,%d,%d,%d), want (200,200,200,255)", r, g, b, a)
	}
}

func TestToImageSharesPixels(t *testing.T) {
	pb, err := NewPixelBuffer(2, 2)
	if err != nil {
		t.Fatalf("NewPixelBuffer: %v", err)
	}
	img := pb.ToImage()
	img.SetNRGBA(1, 1, color.NRGBA{R: 9, G: 8, B: 7, A: 255})

	if r, g, b, a := pb.RGBAAt(1, 1); r != 9 || g != 8 || b != 7 || a != 255 {
		t.Errorf("write through ToImage not visible: got (%d,%d,%d,%d)", r, g, b, a)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig, err := NewPixelBuffer(2, 2)
	if err != nil {
		t.Fatalf("NewPixelBuffer: %v", err)
	}
	if err := orig.SetRGBA(0, 0, 1, 2, 3, 4); err != nil {
		t.Fatalf("SetRGBA: %v", err)
	}

	clone := orig.Clone()
	if !orig.Equal(clone) {
		t.Fatal("clone differs from original")
	}
	if err := clone.SetRGBA(0, 0, 99, 99, 99, 99); err != nil {
		t.Fatalf("SetRGBA: %v", err)
	}
	if r, _, _, _ := orig.RGBAAt(0, 0); r != 1 {
		t.Error("mutating the clone changed the original")
	}
}

func TestEqual(t *testing.T) {
	a, _ := NewPixelBuffer(2, 2)
	b, _ := NewPixelBuffer(2, 2)
	c, _ := NewPixelBuffer(2, 3)

	if !a.Equal(b) {
		t.Error("identical empty buffers should be equal")
	}
	if a.Equal(c) {
		t.Error("buffers with different dimensions should not be equal")
	}
	_ = b.SetRGBA(1, 1, 5, 5, 5, 5)
	if a.Equal(b) {
		t.Error("buffers with different pixels should not be equal")
	}

	var nilBuf *PixelBuffer
	if nilBuf.Equal(a) || a.Equal(nil) {
		t.Error("nil buffer should not equal a non-nil buffer")
	}
	if !nilBuf.Equal(nil) {
		t.Error("nil buffers should be equal to each other")
	}
}
