package preprocess

import (
	"image"
	"image/color"
	"math"
)

// BilateralFilter performs edge-preserving smoothing: each pixel is replaced
// by a weighted average of its neighborhood where weights fall off with both
// spatial distance and intensity difference. Strokes keep sharp edges while
// sensor and paper noise is averaged away; a plain blur would merge adjacent
// thin strokes.
func BilateralFilter(gray *image.Gray, diameter int, sigmaColor, sigmaSpace float64) *image.Gray {
	if diameter < 3 {
		diameter = 3
	}
	radius := diameter / 2
	bounds := gray.Bounds()
	out := image.NewGray(bounds)

	// Precomputed weight tables: spatial falloff per offset, intensity
	// falloff per level difference.
	spatial := make([]float64, (2*radius+1)*(2*radius+1))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spatial[(dy+radius)*(2*radius+1)+(dx+radius)] = math.Exp(-d2 / (2 * sigmaSpace * sigmaSpace))
		}
	}
	var colorWeight [256]float64
	for d := 0; d < 256; d++ {
		colorWeight[d] = math.Exp(-float64(d*d) / (2 * sigmaColor * sigmaColor))
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			center := gray.GrayAt(x, y).Y
			var sum, weightSum float64
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					v := grayAtClamped(gray, x+dx, y+dy)
					diff := int(v) - int(center)
					if diff < 0 {
						diff = -diff
					}
					w := spatial[(dy+radius)*(2*radius+1)+(dx+radius)] * colorWeight[diff]
					sum += w * float64(v)
					weightSum += w
				}
			}
			out.SetGray(x, y, color.Gray{Y: clampToByte(sum / weightSum)})
		}
	}
	return out
}

// UnsharpMask sharpens by subtracting a Gaussian-blurred copy:
// out = amount*img - (amount-1)*blur(img, sigma). The weights sum to 1.0 so
// overall brightness is preserved.
func UnsharpMask(gray *image.Gray, amount, sigma float64) *image.Gray {
	blurred := GaussianBlur(gray, sigma)
	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	blurWeight := amount - 1.0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := amount*float64(gray.GrayAt(x, y).Y) - blurWeight*float64(blurred.GrayAt(x, y).Y)
			out.SetGray(x, y, color.Gray{Y: clampToByte(v)})
		}
	}
	return out
}

// GaussianBlur applies a separable Gaussian with the given sigma. The kernel
// radius covers three standard deviations; edges replicate.
func GaussianBlur(gray *image.Gray, sigma float64) *image.Gray {
	radius := int(math.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}
	kernel := gaussianKernel(radius, sigma)
	return convolveSeparable(gray, kernel)
}

// gaussianBlurBlock applies a Gaussian over a fixed odd window size, with
// sigma derived from the window the way adaptive thresholding expects
// (0.3*((ksize-1)*0.5 - 1) + 0.8).
func gaussianBlurBlock(gray *image.Gray, ksize int) *image.Gray {
	if ksize%2 == 0 {
		ksize++
	}
	radius := ksize / 2
	sigma := 0.3*(float64(ksize-1)*0.5-1) + 0.8
	kernel := gaussianKernel(radius, sigma)
	return convolveSeparable(gray, kernel)
}

func gaussianKernel(radius int, sigma float64) []float64 {
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// convolveSeparable runs the same 1-D kernel horizontally then vertically,
// replicating edge pixels.
func convolveSeparable(gray *image.Gray, kernel []float64) *image.Gray {
	radius := len(kernel) / 2
	bounds := gray.Bounds()
	tmp := image.NewGray(bounds)
	out := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sum += kernel[k+radius] * float64(grayAtClamped(gray, x+k, y))
			}
			tmp.SetGray(x, y, color.Gray{Y: clampToByte(sum)})
		}
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sum += kernel[k+radius] * float64(grayAtClamped(tmp, x, y+k))
			}
			out.SetGray(x, y, color.Gray{Y: clampToByte(sum)})
		}
	}
	return out
}
