package visreg

import (
	"errors"
	"fmt"
)

// Common errors for pixel buffer construction and reference resolution.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("visreg: invalid dimensions")

	// ErrDataTooSmall is returned when provided pixel data is smaller than
	// width*height*4 bytes.
	ErrDataTooSmall = errors.New("visreg: pixel data too small")

	// ErrOutOfBounds is returned when pixel coordinates are outside the
	// buffer bounds.
	ErrOutOfBounds = errors.New("visreg: coordinates out of bounds")

	// ErrReferenceMissing indicates that no usable reference image exists
	// for a test name. Match with errors.Is; the concrete value is always
	// a *ReferenceMissingError carrying the test name and remediation hint.
	ErrReferenceMissing = errors.New("visreg: reference image missing")
)

// DimensionMismatchError reports that a captured image and its reference
// have different dimensions. No partial or cropped comparison is attempted;
// this always indicates a test/reference size contract violation.
type DimensionMismatchError struct {
	// ExpectedWidth and ExpectedHeight are the reference dimensions.
	ExpectedWidth, ExpectedHeight int

	// ActualWidth and ActualHeight are the captured dimensions.
	ActualWidth, ActualHeight int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("visreg: dimension mismatch: expected %dx%d, got %dx%d",
		e.ExpectedWidth, e.ExpectedHeight, e.ActualWidth, e.ActualHeight)
}

// ReferenceMissingError reports that no reference image could be loaded for
// a test. It is returned both when the file does not exist and when it
// exists but fails to decode; the two cases are distinguished by Cause.
//
// A missing reference is recoverable by the operator (re-run with the
// adoption flag set) and must be reported as "needs baseline", not as a
// rendering regression.
type ReferenceMissingError struct {
	// TestName is the test whose reference is missing.
	TestName string

	// Path is the reference file path that was checked.
	Path string

	// Cause is non-nil when the reference file exists but failed to decode
	// (e.g. a corrupt PNG). The captured image is never silently adopted in
	// that case.
	Cause error
}

func (e *ReferenceMissingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("visreg: reference for %q unusable (%s): %v; "+
			"delete the file and re-run with UPDATE_VISUAL_REFERENCES=1 to recreate it",
			e.TestName, e.Path, e.Cause)
	}
	return fmt.Sprintf("visreg: reference for %q not found (%s); "+
		"re-run with UPDATE_VISUAL_REFERENCES=1 to create it",
		e.TestName, e.Path)
}

// Is reports a match against the ErrReferenceMissing sentinel so callers
// can use errors.Is without knowing the concrete type.
func (e *ReferenceMissingError) Is(target error) bool {
	return target == ErrReferenceMissing
}

// Unwrap returns the decode error for corrupt references, or nil for
// plainly absent ones.
func (e *ReferenceMissingError) Unwrap() error {
	return e.Cause
}
