// Package engine provides the interchangeable text-recognition backends and
// the ordered-fallback selector that drives them.
package engine

import "context"

// Extraction is the raw output of a single recognition backend before any
// text post-processing.
type Extraction struct {
	// Text is the recognized text, region order preserved.
	Text string
	// Confidence is the mean of per-region confidences, scaled to [0,1].
	Confidence float64
	// RegionConfidences holds the per-detected-region confidences in [0,1].
	RegionConfidences []float64
	// Regions is the number of detected text regions. Zero regions means
	// the image yielded nothing recognizable; the selector turns that into
	// an unsuccessful result rather than trying further backends.
	Regions int
	// Note carries backend-specific caveats (e.g. structural analysis
	// instead of real recognition).
	Note string
}

// Engine is the capability contract every recognition backend implements.
// Attempt either produces an extraction or reports that this backend cannot
// handle the image, in which case the selector falls through to the next
// backend in order.
type Engine interface {
	Name() string
	Attempt(ctx context.Context, imagePath string) (Extraction, error)
}
