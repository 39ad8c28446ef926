//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/visreg"
)

// NewRenderTarget creates a capture-ready RGBA8 color texture. The usage
// includes RenderAttachment (so render passes can draw to it), CopySrc
// (so Capture can read it back), and CopyDst (so UploadPixels can seed it
// with known data).
//
// The caller owns the target and must release it with Destroy.
func NewRenderTarget(device hal.Device, width, height uint32) (Target, error) {
	if width == 0 || height == 0 {
		return Target{}, fmt.Errorf("%w: size=%dx%d", ErrInvalidTarget, width, height)
	}

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "visreg_render_target",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage: gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageCopySrc |
			gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return Target{}, fmt.Errorf("capture: create render target: %w", err)
	}

	return Target{
		Texture: tex,
		Width:   width,
		Height:  height,
		Format:  gputypes.TextureFormatRGBA8Unorm,
	}, nil
}

// Destroy releases the target's texture. Safe to call on a zero Target.
func (t Target) Destroy(device hal.Device) {
	if t.Texture != nil {
		device.DestroyTexture(t.Texture)
	}
}

// ClearTarget fills the target with a solid color using a single render
// pass with a clear load op. This gives tests a deterministic renderable
// surface without any shader pipeline.
func ClearTarget(device hal.Device, queue hal.Queue, target Target, c gputypes.Color) error {
	if target.Texture == nil {
		return fmt.Errorf("%w: nil texture", ErrInvalidTarget)
	}

	view, err := device.CreateTextureView(target.Texture, &hal.TextureViewDescriptor{
		Label: "visreg_clear_view",
	})
	if err != nil {
		return fmt.Errorf("capture: create clear view: %w", err)
	}
	defer device.DestroyTextureView(view)

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "visreg_clear_encoder",
	})
	if err != nil {
		return fmt.Errorf("capture: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("visreg_clear"); err != nil {
		return fmt.Errorf("capture: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "visreg_clear_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: c,
		}},
	})
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("capture: end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("capture: create fence: %w", err)
	}
	defer device.DestroyFence(fence)

	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("capture: submit: %w", err)
	}
	fenceOK, err := device.Wait(fence, 1, captureTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("%w: fence wait ok=%v err=%v", ErrDeviceLost, fenceOK, err)
	}
	return nil
}

// UploadPixels writes a pixel buffer into the target texture. The buffer
// dimensions must match the target exactly and the target must be RGBA8.
// Combined with Capture this gives an exact GPU round-trip for tests.
func UploadPixels(queue hal.Queue, target Target, pb *visreg.PixelBuffer) error {
	if target.Texture == nil {
		return fmt.Errorf("%w: nil texture", ErrInvalidTarget)
	}
	if target.Format != gputypes.TextureFormatRGBA8Unorm {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, target.Format)
	}
	if uint32(pb.Width()) != target.Width || uint32(pb.Height()) != target.Height {
		return fmt.Errorf("%w: buffer %dx%d vs target %dx%d",
			ErrInvalidTarget, pb.Width(), pb.Height(), target.Width, target.Height)
	}

	queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  target.Texture,
			MipLevel: 0,
		},
		pb.Bytes(),
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  target.Width * 4,
			RowsPerImage: target.Height,
		},
		&hal.Extent3D{Width: target.Width, Height: target.Height, DepthOrArrayLayers: 1},
	)
	return nil
}
