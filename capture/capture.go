//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/visreg"
)

// Errors reported by texture capture. All are fatal to the individual
// test and never retried: a single rendering pass is deterministic by
// assumption, so retrying would only mask real instability.
var (
	// ErrInvalidTarget is returned for nil textures or zero dimensions.
	ErrInvalidTarget = errors.New("capture: invalid target")

	// ErrUnsupportedFormat is returned when the texture's pixel format
	// cannot be read back as 8-bit RGBA.
	ErrUnsupportedFormat = errors.New("capture: unsupported texture format")

	// ErrMapFailed is returned when the staging buffer cannot be read.
	ErrMapFailed = errors.New("capture: buffer map failed")

	// ErrDeviceLost is returned when device-side work does not complete
	// within the fence timeout.
	ErrDeviceLost = errors.New("capture: device lost")
)

// copyPitchAlignment is the row alignment WebGPU (and DX12) require for
// texture-to-buffer copies. Copying rows without this padding corrupts the
// image whenever width*4 is not already a multiple of it.
const copyPitchAlignment = 256

// captureTimeout bounds the fence wait after submission. Hung devices
// surface as ErrDeviceLost; no additional watchdog is layered on top.
const captureTimeout = 5 * time.Second

// Target identifies a renderable 2D color texture with known dimensions
// and pixel format. The texture must have been created with CopySrc usage.
type Target struct {
	Texture hal.Texture
	Width   uint32
	Height  uint32
	Format  gputypes.TextureFormat
}

// alignedRowBytes rounds a tight RGBA row up to the copy pitch alignment.
func alignedRowBytes(width uint32) uint32 {
	return (width*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// Capture reads a GPU color texture into a tightly packed RGBA8
// PixelBuffer.
//
// The texture is copied into a staging buffer whose rows are padded to the
// copy pitch alignment, the submission is fenced and waited on, and the
// padding is stripped on readback. BGRA8 textures are swizzled to RGBA;
// any other format fails with ErrUnsupportedFormat before touching the
// device. The staging buffer, fence, and command buffer are released on
// every path.
func Capture(device hal.Device, queue hal.Queue, target Target) (*visreg.PixelBuffer, error) {
	if target.Width == 0 || target.Height == 0 {
		return nil, fmt.Errorf("%w: size=%dx%d", ErrInvalidTarget, target.Width, target.Height)
	}

	var swizzleBGRA bool
	switch target.Format {
	case gputypes.TextureFormatRGBA8Unorm:
	case gputypes.TextureFormatBGRA8Unorm:
		swizzleBGRA = true
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, target.Format)
	}

	if target.Texture == nil {
		return nil, fmt.Errorf("%w: nil texture", ErrInvalidTarget)
	}

	w, h := target.Width, target.Height
	rowBytes := w * 4
	paddedRowBytes := alignedRowBytes(w)
	stagingSize := uint64(paddedRowBytes) * uint64(h)

	visreg.Logger().Debug("capture: staging buffer",
		slog.Uint64("size", stagingSize),
		slog.Int("row_bytes", int(rowBytes)),
		slog.Int("padded_row_bytes", int(paddedRowBytes)))

	stagingBuf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "visreg_capture_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("capture: create staging buffer: %w", err)
	}
	defer device.DestroyBuffer(stagingBuf)

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "visreg_capture_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("capture: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("visreg_capture"); err != nil {
		return nil, fmt.Errorf("capture: begin encoding: %w", err)
	}

	// The source texture was last written as a render attachment.
	// CopyTextureToBuffer needs it in copy-source state; transition
	// explicitly and restore afterwards so the next frame's render pass
	// sees the usage it expects. No-op on backends without layouts.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: target.Texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	encoder.CopyTextureToBuffer(target.Texture, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: paddedRowBytes, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: target.Texture, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: target.Texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("capture: end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	fence, err := device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("capture: create fence: %w", err)
	}
	defer device.DestroyFence(fence)

	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("capture: submit: %w", err)
	}
	fenceOK, err := device.Wait(fence, 1, captureTimeout)
	if err != nil || !fenceOK {
		return nil, fmt.Errorf("%w: fence wait ok=%v err=%v", ErrDeviceLost, fenceOK, err)
	}

	readback := make([]byte, stagingSize)
	if err := queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMapFailed, err)
	}

	pixels := stripRowPadding(readback, rowBytes, paddedRowBytes, h)
	if swizzleBGRA {
		swizzleBGRAToRGBA(pixels)
	}

	return visreg.FromRaw(pixels, int(w), int(h))
}

// stripRowPadding copies the first rowBytes of each padded row into a
// tightly packed buffer. When the rows are already tight it returns a
// single full copy.
func stripRowPadding(src []byte, rowBytes, paddedRowBytes, height uint32) []byte {
	if rowBytes == paddedRowBytes {
		tight := make([]byte, uint64(rowBytes)*uint64(height))
		copy(tight, src)
		return tight
	}

	tight := make([]byte, uint64(rowBytes)*uint64(height))
	for row := uint32(0); row < height; row++ {
		srcOff := uint64(row) * uint64(paddedRowBytes)
		dstOff := uint64(row) * uint64(rowBytes)
		copy(tight[dstOff:dstOff+uint64(rowBytes)], src[srcOff:srcOff+uint64(rowBytes)])
	}
	return tight
}

// swizzleBGRAToRGBA swaps the blue and red channels of every pixel in
// place. pix must be tightly packed 4-byte pixels.
func swizzleBGRAToRGBA(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}
