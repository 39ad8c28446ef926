package visreg

// ComparisonResult is the outcome of comparing a captured image against a
// reference. It is produced once per comparison and never mutated.
type ComparisonResult struct {
	// IsMatch reports whether Difference is within the configured
	// threshold. When a reference was just adopted, IsMatch is true and
	// Difference is 0 by convention.
	IsMatch bool

	// Difference is the computed average per-pixel difference in [0, 1].
	// It is reported even when it exceeds the threshold.
	Difference float64

	// DiffImage visualizes local disagreement: the red channel of each
	// pixel is proportional to that pixel's difference, so identical
	// pixels render pure black. Nil unless the config requested a diff.
	DiffImage *PixelBuffer
}

// Compare measures the difference between a captured image and a reference
// of the same dimensions.
//
// The per-pixel difference is the mean of the four per-channel absolute
// differences scaled to [0, 1]; Difference is the mean over all pixels.
// Averaging over the whole image tolerates sparse single-pixel noise while
// still catching gross structural regressions, at the cost of being
// insensitive to small localized defects. That tradeoff is deliberate.
//
// Images of different dimensions fail with *DimensionMismatchError; no
// cropped or resized comparison is ever attempted.
func Compare(captured, reference *PixelBuffer, cfg ComparisonConfig) (ComparisonResult, error) {
	if captured.width != reference.width || captured.height != reference.height {
		return ComparisonResult{}, &DimensionMismatchError{
			ExpectedWidth:  reference.width,
			ExpectedHeight: reference.height,
			ActualWidth:    captured.width,
			ActualHeight:   captured.height,
		}
	}

	var diff *PixelBuffer
	if cfg.SaveDiff {
		// Dimensions already validated, construction cannot fail.
		diff, _ = NewPixelBuffer(captured.width, captured.height)
	}

	// Channel sums stay in integers until the final division so that
	// uniform shifts measure exactly: a constant +k on every channel
	// yields Difference == k/255 with no rounding drift.
	//
	// Per pixel, the sum of the four |captured-reference| channel deltas
	// is in [0, 1020]; the per-pixel difference is sum/1020 and the diff
	// image intensity is round(sum*255/1020) = (sum+2)/4.
	var total uint64
	n := captured.width * captured.height
	for i := 0; i < n; i++ {
		off := i * bytesPerPixel
		sum := absDiff(captured.pix[off], reference.pix[off]) +
			absDiff(captured.pix[off+1], reference.pix[off+1]) +
			absDiff(captured.pix[off+2], reference.pix[off+2]) +
			absDiff(captured.pix[off+3], reference.pix[off+3])
		total += uint64(sum)

		if diff != nil {
			d := diff.pix[off : off+bytesPerPixel]
			d[0] = uint8((sum + 2) / 4)
			d[1] = 0
			d[2] = 0
			d[3] = 255
		}
	}

	difference := float64(total) / (1020 * float64(n))
	return ComparisonResult{
		IsMatch:    difference <= cfg.Threshold,
		Difference: difference,
		DiffImage:  diff,
	}, nil
}

// absDiff returns |a-b| for two channel values.
func absDiff(a, b uint8) uint32 {
	if a > b {
		return uint32(a - b)
	}
	return uint32(b - a)
}
