package visreg

import (
	"os"
	"strings"
)

// UpdateReferencesEnv is the environment variable that, when truthy ("1"
// or case-insensitive "true"), forces reference adoption for the entire
// run. It is the sole external trigger for the missing-to-present
// reference transition; there is no per-test override.
const UpdateReferencesEnv = "UPDATE_VISUAL_REFERENCES"

// ComparisonConfig controls image comparison and the reference lifecycle.
// It is constructed once per test invocation and passed by value; nothing
// in visreg reads the environment except ConfigFromEnv.
type ComparisonConfig struct {
	// Threshold is the maximum allowed average per-pixel difference as a
	// fraction in [0, 1], where 0 means exact match and 1 means completely
	// different. The comparison is inclusive: a difference exactly equal to
	// the threshold passes.
	Threshold float64

	// SaveDiff requests a diff image from every comparison, match or not,
	// so passing-but-close cases can be audited visually.
	SaveDiff bool

	// UpdateReferences adopts the captured image as the new reference when
	// none exists, instead of failing with ErrReferenceMissing.
	UpdateReferences bool
}

// DefaultConfig returns the standard comparison configuration:
// 1% threshold, diff images enabled, no reference adoption.
func DefaultConfig() ComparisonConfig {
	return ComparisonConfig{
		Threshold:        0.01,
		SaveDiff:         true,
		UpdateReferences: false,
	}
}

// ConfigFromEnv returns DefaultConfig with UpdateReferences forced on when
// the UPDATE_VISUAL_REFERENCES environment variable is truthy. Call this
// once at test-setup boundary and thread the value through.
func ConfigFromEnv() ComparisonConfig {
	cfg := DefaultConfig()
	v := os.Getenv(UpdateReferencesEnv)
	cfg.UpdateReferences = v == "1" || strings.EqualFold(v, "true")
	return cfg
}
