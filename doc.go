// Package visreg provides visual regression testing for GPU-rendered images.
//
// # Overview
//
// visreg validates rendering correctness by comparing a captured frame
// against a stored reference image within a numeric tolerance, producing a
// visual diff artifact when the two disagree. It is built for the GoGPU
// ecosystem: the capture side (package capture) reads wgpu textures back to
// the CPU, while this package holds the CPU-only pieces -- pixel buffers,
// the comparison engine, the reference store, and the test runner.
//
// # Quick Start
//
//	import "github.com/gogpu/visreg"
//
//	store := visreg.NewReferenceStore("testdata/visual")
//	runner := visreg.NewRunner(store, visreg.ConfigFromEnv())
//
//	result, err := runner.Run("triangle_basic", captured)
//	if err != nil {
//	    // ReferenceMissing, dimension mismatch, or I/O failure
//	}
//	if !result.IsMatch {
//	    // result.Difference vs config threshold; diff PNG on disk
//	}
//
// # Reference Lifecycle
//
// Each test name maps to exactly one reference file under
// <root>/reference/<name>.png. A missing reference is an error unless the
// UPDATE_VISUAL_REFERENCES environment variable is truthy, in which case
// the captured image is adopted as the new reference and the run reports a
// match by convention. Captured frames and diff images are written under
// <root>/output/.
//
// # Comparison Metric
//
// The difference between two images is the mean over all pixels of the
// per-pixel difference, which is itself the mean of the four per-channel
// absolute differences scaled to [0, 1]. Averaging over all pixels
// tolerates sparse single-pixel noise (driver and antialiasing variance)
// while catching gross structural regressions; the flip side is reduced
// sensitivity to small localized defects. This tradeoff is intentional.
//
// # Logging
//
// visreg produces no log output by default. Call SetLogger to enable it.
package visreg
