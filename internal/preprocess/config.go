package preprocess

import "fmt"

// Config provides per-stage configuration for the preprocessing pipeline.
// The zero value is not usable; start from DefaultConfig.
type Config struct {
	// MaxDimension bounds the longer image edge; larger images are scaled
	// down before any other stage runs.
	MaxDimension int

	// DeskewThresholdDegrees is the minimum estimated skew angle that
	// triggers rotation. Angles at or below the threshold leave the raster
	// untouched.
	DeskewThresholdDegrees float64

	// Stage toggles
	NoiseReduction      bool
	ContrastEnhancement bool
	Sharpen             bool
	AdaptiveThreshold   bool
}

// DefaultConfig returns the default preprocessing configuration. Defaults
// are deterministic: the same input raster always produces the same output.
func DefaultConfig() Config {
	return Config{
		MaxDimension:           3000,
		DeskewThresholdDegrees: 0.5,
		NoiseReduction:         true,
		ContrastEnhancement:    true,
		Sharpen:                true,
		AdaptiveThreshold:      true,
	}
}

// Validate checks the numeric invariants: all numeric values must be
// positive.
func (c Config) Validate() error {
	if c.MaxDimension <= 0 {
		return fmt.Errorf("max dimension must be positive (got %d)", c.MaxDimension)
	}
	if c.DeskewThresholdDegrees <= 0 {
		return fmt.Errorf("deskew threshold must be positive (got %g)", c.DeskewThresholdDegrees)
	}
	return nil
}

// WithMaxDimension returns a copy with a different size bound.
func (c Config) WithMaxDimension(maxDim int) Config {
	c.MaxDimension = maxDim
	return c
}

// WithDeskewThreshold returns a copy with a different deskew trigger angle.
func (c Config) WithDeskewThreshold(degrees float64) Config {
	c.DeskewThresholdDegrees = degrees
	return c
}

// WithoutBinarization returns a copy that skips the final adaptive
// threshold, leaving a continuous-tone grayscale raster.
func (c Config) WithoutBinarization() Config {
	c.AdaptiveThreshold = false
	return c
}

// Features reports the stage toggles by name, for engine info reporting.
func (c Config) Features() map[string]bool {
	return map[string]bool{
		"deskewing":             true,
		"noise_reduction":       c.NoiseReduction,
		"contrast_enhancement":  c.ContrastEnhancement,
		"sharpening":            c.Sharpen,
		"adaptive_thresholding": c.AdaptiveThreshold,
	}
}
