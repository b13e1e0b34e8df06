package preprocess

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// ResizeToFit scales the image down so its longer edge equals maxDimension,
// preserving the aspect ratio exactly (integer rounding on the shorter
// edge). Images already within the bound are returned unchanged. Catmull-Rom
// resampling keeps stroke edges usable for recognition after downscaling.
func ResizeToFit(img image.Image, maxDimension int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	longer := width
	if height > longer {
		longer = height
	}
	if longer <= maxDimension || longer == 0 {
		return img
	}

	scale := float64(maxDimension) / float64(longer)
	var newWidth, newHeight int
	if width >= height {
		newWidth = maxDimension
		newHeight = int(math.Round(float64(height) * scale))
	} else {
		newHeight = maxDimension
		newWidth = int(math.Round(float64(width) * scale))
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}
