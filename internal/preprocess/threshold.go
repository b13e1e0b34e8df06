package preprocess

import (
	"image"
	"image/color"
)

// AdaptiveThreshold binarizes the raster against a Gaussian-weighted local
// mean: a pixel becomes foreground (255) when it exceeds the mean of its
// blockSize neighborhood minus offset, and background (0) otherwise. The
// per-pixel cutoff is what makes the stage robust to lighting that varies
// across a photographed page, where any single global threshold fails.
func AdaptiveThreshold(gray *image.Gray, blockSize int, offset float64) *image.Gray {
	if blockSize < 3 {
		blockSize = 3
	}
	localMean := gaussianBlurBlock(gray, blockSize)

	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cutoff := float64(localMean.GrayAt(x, y).Y) - offset
			if float64(gray.GrayAt(x, y).Y) > cutoff {
				out.SetGray(x, y, color.Gray{Y: 255})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return out
}
