// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package capture reads wgpu textures back into visreg pixel buffers.
//
// The package wraps the GPU side of visual regression testing: it copies a
// rendered color texture into a CPU-visible staging buffer (correcting for
// the 256-byte copy pitch alignment that WebGPU-class APIs mandate), waits
// for device-side completion, and returns a tightly packed RGBA8
// PixelBuffer ready for comparison.
//
// It also provides small helpers for tests and harnesses: creating capture-
// ready render targets, clearing them to a solid color, uploading known
// pixel data, and running a full render-capture-compare cycle.
//
// The package assumes a valid device and queue; adapter and device
// acquisition belong to the host application. Environments without a GPU
// should skip capture entirely rather than expect it to degrade.
package capture
