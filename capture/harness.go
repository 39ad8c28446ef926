//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/visreg"
)

// RenderFunc renders a scene and returns the target it drew into. The
// harness takes ownership of the returned target and destroys it after
// capture.
type RenderFunc func(device hal.Device, queue hal.Queue) (Target, error)

// RunVisualTest renders a scene, captures the result, and checks it
// against the stored reference via the runner.
//
// Capture runs first; a capture failure aborts the test with that error
// and is never treated as a missing reference. The reference lifecycle
// (existing / adopted / missing) is then handled by the runner.
func RunVisualTest(device hal.Device, queue hal.Queue, runner *visreg.Runner, testName string, render RenderFunc) (visreg.ComparisonResult, error) {
	target, err := render(device, queue)
	if err != nil {
		return visreg.ComparisonResult{}, fmt.Errorf("capture: render %q: %w", testName, err)
	}
	defer target.Destroy(device)

	captured, err := Capture(device, queue, target)
	if err != nil {
		return visreg.ComparisonResult{}, err
	}

	return runner.Run(testName, captured)
}
