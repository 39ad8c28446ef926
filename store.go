package visreg

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
)

// ReferenceStore resolves test names to reference images on disk.
//
// The on-disk layout is fixed for compatibility with existing suites:
//
//	<root>/reference/<test_name>.png   authoritative references
//	<root>/output/<test_name>.png      captured frames
//	<root>/output/<test_name>_diff.png diff images
//
// The store never detects stale references; dimension or content drift is
// caught by the comparator on the next comparison.
type ReferenceStore struct {
	root string
}

// NewReferenceStore creates a store rooted at the given directory.
// Directories are created lazily on first write.
func NewReferenceStore(root string) *ReferenceStore {
	return &ReferenceStore{root: root}
}

// Root returns the store's root directory.
func (s *ReferenceStore) Root() string { return s.root }

// ReferencePath returns the reference image path for a test name.
func (s *ReferenceStore) ReferencePath(testName string) string {
	return filepath.Join(s.root, "reference", testName+".png")
}

// OutputPath returns the captured-output image path for a test name.
func (s *ReferenceStore) OutputPath(testName string) string {
	return filepath.Join(s.root, "output", testName+".png")
}

// DiffPath returns the diff image path for a test name.
func (s *ReferenceStore) DiffPath(testName string) string {
	return filepath.Join(s.root, "output", testName+"_diff.png")
}

// ReferenceOutcome is the result of resolving a test name against the
// store. Exactly one of the two fields is meaningful: Reference is set
// when an authoritative image was loaded, Adopted is true when the
// captured image was just persisted as the new reference.
type ReferenceOutcome struct {
	// Adopted is true when no reference existed and the captured image was
	// persisted as the new one. The caller synthesizes an always-match
	// comparison result instead of invoking the comparator.
	Adopted bool

	// Reference is the decoded authoritative image, nil when Adopted.
	Reference *PixelBuffer
}

// Resolve loads the reference image for a test name.
//
// When the reference is missing and cfg.UpdateReferences is set, captured
// is adopted as the new reference. When it is missing and the flag is not
// set, the error is a *ReferenceMissingError naming the remediation. A
// reference that exists but fails to decode is also reported as missing,
// with the decode error as Cause -- it is never silently replaced.
func (s *ReferenceStore) Resolve(testName string, captured *PixelBuffer, cfg ComparisonConfig) (ReferenceOutcome, error) {
	path := s.ReferencePath(testName)

	ref, err := LoadPNG(path)
	if err == nil {
		return ReferenceOutcome{Reference: ref}, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		// File present but unreadable or corrupt.
		return ReferenceOutcome{}, &ReferenceMissingError{
			TestName: testName,
			Path:     path,
			Cause:    err,
		}
	}

	if !cfg.UpdateReferences {
		return ReferenceOutcome{}, &ReferenceMissingError{
			TestName: testName,
			Path:     path,
		}
	}

	if err := s.Overwrite(testName, captured); err != nil {
		return ReferenceOutcome{}, err
	}
	Logger().Info("visreg: reference adopted",
		slog.String("test", testName),
		slog.String("path", path))
	return ReferenceOutcome{Adopted: true}, nil
}

// Overwrite unconditionally replaces the stored reference for a test name.
// Used by the adoption path and by explicit update workflows.
func (s *ReferenceStore) Overwrite(testName string, img *PixelBuffer) error {
	path := s.ReferencePath(testName)
	if err := img.SavePNG(path); err != nil {
		return fmt.Errorf("visreg: save reference for %q: %w", testName, err)
	}
	return nil
}
