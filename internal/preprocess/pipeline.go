// Package preprocess implements the geometric and photometric correction
// pipeline that runs over a raster before text recognition: resize,
// grayscale, deskew, noise reduction, contrast enhancement, sharpening and
// adaptive binarization, each stage independently toggleable.
package preprocess

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"go-ocr-pipeline/internal/logger"
)

// Stage constants used by the enabled filtering stages.
const (
	bilateralDiameter   = 9
	bilateralSigmaColor = 75.0
	bilateralSigmaSpace = 75.0
	claheGridSize       = 8
	claheClipLimit      = 3.0
	unsharpAmount       = 1.5
	unsharpSigma        = 2.0
	thresholdBlockSize  = 11
	thresholdOffset     = 2.0
)

// Preprocess runs the full stage chain over a decoded image and returns the
// corrected single-channel raster. A failure in any stage after grayscale
// conversion degrades to the plain grayscale raster and skips the remaining
// stages; preprocessing never aborts the surrounding extraction. The second
// return value carries a note describing the degradation, empty on a clean
// run.
func Preprocess(img image.Image, cfg Config) (*image.Gray, string) {
	resized := ResizeToFit(img, cfg.MaxDimension)
	gray := ToGray(resized)
	return applyStages(gray, cfg)
}

func applyStages(gray *image.Gray, cfg Config) (out *image.Gray, note string) {
	// The grayscale raster is the guaranteed-valid fallback; stages are
	// pure and never modify their input, so it stays intact.
	out = gray
	defer func() {
		if r := recover(); r != nil {
			logger.WithFields(logrus.Fields{
				"panic": fmt.Sprint(r),
			}).Warn("preprocessing stage failed, falling back to grayscale raster")
			out = gray
			note = fmt.Sprintf("preprocessing degraded: %v", r)
		}
	}()

	cur := Deskew(gray, cfg.DeskewThresholdDegrees)
	if cfg.NoiseReduction {
		cur = BilateralFilter(cur, bilateralDiameter, bilateralSigmaColor, bilateralSigmaSpace)
	}
	if cfg.ContrastEnhancement {
		cur = CLAHE(cur, claheGridSize, claheClipLimit)
	}
	if cfg.Sharpen {
		cur = UnsharpMask(cur, unsharpAmount, unsharpSigma)
	}
	if cfg.AdaptiveThreshold {
		cur = AdaptiveThreshold(cur, thresholdBlockSize, thresholdOffset)
	}
	return cur, ""
}

// PreprocessFile decodes an image from disk and runs the stage chain. If the
// file cannot be decoded the error is returned as-is; decoding failures are
// input problems, not stage failures.
func PreprocessFile(imagePath string, cfg Config) (*image.Gray, string, error) {
	img, err := DecodeFile(imagePath)
	if err != nil {
		return nil, "", err
	}
	out, note := Preprocess(img, cfg)
	return out, note, nil
}
