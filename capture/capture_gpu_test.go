//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/visreg"
)

// openTestDevice opens a Vulkan device for integration tests, skipping
// when no GPU is available (expected in CI).
func openTestDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()

	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		t.Skip("GPU not available: vulkan backend not compiled in")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		t.Skipf("GPU not available: create instance: %v", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		t.Skip("GPU not available: no adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Skipf("GPU not available: open device: %v", err)
	}

	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

// Upload known pixels and read them straight back. The 70-pixel width
// makes the tight row 280 bytes, forcing real padding in the staging copy.
func TestCaptureUploadRoundTrip(t *testing.T) {
	device, queue := openTestDevice(t)

	const w, h = 70, 50
	target, err := NewRenderTarget(device, w, h)
	if err != nil {
		t.Fatalf("NewRenderTarget: %v", err)
	}
	defer target.Destroy(device)

	src, err := visreg.NewPixelBuffer(w, h)
	if err != nil {
		t.Fatalf("NewPixelBuffer: %v", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if err := src.SetRGBA(x, y, uint8(x*3), uint8(y*5), uint8(x+y), 255); err != nil {
				t.Fatalf("SetRGBA: %v", err)
			}
		}
	}

	if err := UploadPixels(queue, target, src); err != nil {
		t.Fatalf("UploadPixels: %v", err)
	}
	captured, err := Capture(device, queue, target)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	if !src.Equal(captured) {
		t.Error("captured pixels differ from uploaded pixels")
	}
}

func TestCaptureClearColor(t *testing.T) {
	device, queue := openTestDevice(t)

	target, err := NewRenderTarget(device, 32, 32)
	if err != nil {
		t.Fatalf("NewRenderTarget: %v", err)
	}
	defer target.Destroy(device)

	if err := ClearTarget(device, queue, target, gputypes.Color{R: 1, G: 0, B: 0, A: 1}); err != nil {
		t.Fatalf("ClearTarget: %v", err)
	}
	captured, err := Capture(device, queue, target)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if r, g, b, a := captured.RGBAAt(x, y); r != 255 || g != 0 || b != 0 || a != 255 {
				t.Fatalf("pixel (%d,%d) = (%d,%d,%d,%d), want (255,0,0,255)", x, y, r, g, b, a)
			}
		}
	}
}

// Full harness cycle: first run adopts the capture as reference, second
// run reproduces the frame and must match it exactly.
func TestRunVisualTestAdoptThenMatch(t *testing.T) {
	device, queue := openTestDevice(t)

	render := func(device hal.Device, queue hal.Queue) (Target, error) {
		target, err := NewRenderTarget(device, 16, 16)
		if err != nil {
			return Target{}, err
		}
		if err := ClearTarget(device, queue, target, gputypes.Color{R: 0, G: 0.5, B: 1, A: 1}); err != nil {
			target.Destroy(device)
			return Target{}, err
		}
		return target, nil
	}

	store := visreg.NewReferenceStore(t.TempDir())

	adoptCfg := visreg.DefaultConfig()
	adoptCfg.UpdateReferences = true
	result, err := RunVisualTest(device, queue, visreg.NewRunner(store, adoptCfg), "clear_blue", render)
	if err != nil {
		t.Fatalf("RunVisualTest (adopt): %v", err)
	}
	if !result.IsMatch || result.Difference != 0 {
		t.Fatalf("adoption result = %+v, want match with zero difference", result)
	}

	result, err = RunVisualTest(device, queue, visreg.NewRunner(store, visreg.DefaultConfig()), "clear_blue", render)
	if err != nil {
		t.Fatalf("RunVisualTest (compare): %v", err)
	}
	if !result.IsMatch {
		t.Errorf("repeat render did not match adopted reference: difference = %v", result.Difference)
	}
	if result.Difference != 0 {
		t.Errorf("Difference = %v, want 0 for a deterministic clear", result.Difference)
	}
}
