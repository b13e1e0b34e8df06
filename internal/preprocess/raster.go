package preprocess

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	// Register decoders for the supported raster formats; png is imported
	// for encoding and registers its decoder as a side effect.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeFile reads and decodes an image from disk.
func DecodeFile(imagePath string) (image.Image, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// WritePNG encodes a raster to a PNG file. Used for the transient
// preprocessed artifact handed to the OCR backends.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	return nil
}

// ToGray converts any image to a single-channel raster.
func ToGray(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

// cloneGray returns an independent copy of a grayscale raster.
func cloneGray(gray *image.Gray) *image.Gray {
	out := image.NewGray(gray.Bounds())
	copy(out.Pix, gray.Pix)
	return out
}

// grayAtClamped samples a pixel with edge-replicate semantics.
func grayAtClamped(gray *image.Gray, x, y int) uint8 {
	b := gray.Bounds()
	if x < b.Min.X {
		x = b.Min.X
	} else if x >= b.Max.X {
		x = b.Max.X - 1
	}
	if y < b.Min.Y {
		y = b.Min.Y
	} else if y >= b.Max.Y {
		y = b.Max.Y - 1
	}
	return gray.GrayAt(x, y).Y
}

func clampToByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
