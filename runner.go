package visreg

import (
	"fmt"
	"log/slog"
)

// Runner sequences one visual regression check: persist the captured
// frame, resolve the reference, compare, and persist the diff artifact.
// It is the only component besides ReferenceStore that touches the
// filesystem.
type Runner struct {
	store  *ReferenceStore
	config ComparisonConfig
}

// NewRunner creates a runner over the given store and configuration.
func NewRunner(store *ReferenceStore, cfg ComparisonConfig) *Runner {
	return &Runner{store: store, config: cfg}
}

// Store returns the runner's reference store.
func (r *Runner) Store() *ReferenceStore { return r.store }

// Config returns the runner's comparison configuration.
func (r *Runner) Config() ComparisonConfig { return r.config }

// Run checks a captured image against the stored reference for testName.
//
// The captured frame is always written to the store's output path first,
// so it is available for inspection regardless of outcome. If the
// reference was just adopted, comparison is skipped and the result is an
// always-match by convention. Otherwise the images are compared, and when
// the config requests diff images the diff is persisted whether or not
// the comparison passed, to support audit of passing-but-close cases.
func (r *Runner) Run(testName string, captured *PixelBuffer) (ComparisonResult, error) {
	outPath := r.store.OutputPath(testName)
	if err := captured.SavePNG(outPath); err != nil {
		return ComparisonResult{}, fmt.Errorf("visreg: save output for %q: %w", testName, err)
	}
	Logger().Debug("visreg: captured frame saved",
		slog.String("test", testName),
		slog.String("path", outPath))

	outcome, err := r.store.Resolve(testName, captured, r.config)
	if err != nil {
		return ComparisonResult{}, err
	}
	if outcome.Adopted {
		return ComparisonResult{IsMatch: true, Difference: 0}, nil
	}

	result, err := Compare(captured, outcome.Reference, r.config)
	if err != nil {
		return ComparisonResult{}, err
	}

	if r.config.SaveDiff && result.DiffImage != nil {
		diffPath := r.store.DiffPath(testName)
		if err := result.DiffImage.SavePNG(diffPath); err != nil {
			return ComparisonResult{}, fmt.Errorf("visreg: save diff for %q: %w", testName, err)
		}
		if !result.IsMatch {
			Logger().Warn("visreg: mismatch",
				slog.String("test", testName),
				slog.Float64("difference", result.Difference),
				slog.Float64("threshold", r.config.Threshold),
				slog.String("diff", diffPath))
		}
	} else if !result.IsMatch {
		Logger().Warn("visreg: mismatch",
			slog.String("test", testName),
			slog.Float64("difference", result.Difference),
			slog.Float64("threshold", r.config.Threshold))
	}

	return result, nil
}
