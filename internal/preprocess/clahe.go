package preprocess

import (
	"image"
	"image/color"
)

// CLAHE performs contrast-limited adaptive histogram equalization over a
// tile grid. Each tile gets its own clipped equalization lookup table and
// every pixel blends the four surrounding tile tables bilinearly, so
// unevenly lit photographed pages are equalized locally instead of globally.
func CLAHE(gray *image.Gray, gridSize int, clipLimit float64) *image.Gray {
	if gridSize < 1 {
		gridSize = 1
	}
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return gray
	}

	tileW := (width + gridSize - 1) / gridSize
	tileH := (height + gridSize - 1) / gridSize

	// Build one clipped-equalization LUT per tile.
	luts := make([][256]uint8, gridSize*gridSize)
	for ty := 0; ty < gridSize; ty++ {
		for tx := 0; tx < gridSize; tx++ {
			x0 := bounds.Min.X + tx*tileW
			y0 := bounds.Min.Y + ty*tileH
			x1 := min(x0+tileW, bounds.Max.X)
			y1 := min(y0+tileH, bounds.Max.Y)
			luts[ty*gridSize+tx] = tileLUT(gray, x0, y0, x1, y1, clipLimit)
		}
	}

	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			// Position relative to tile centers, for bilinear blending
			// between the four nearest tile tables.
			fx := (float64(x-bounds.Min.X) - float64(tileW)/2) / float64(tileW)
			fy := (float64(y-bounds.Min.Y) - float64(tileH)/2) / float64(tileH)

			tx0 := int(fx)
			ty0 := int(fy)
			if fx < 0 {
				tx0 = -1
			}
			if fy < 0 {
				ty0 = -1
			}
			wx := fx - float64(tx0)
			wy := fy - float64(ty0)

			v := gray.GrayAt(x, y).Y
			v00 := float64(lutAt(luts, gridSize, tx0, ty0, v))
			v10 := float64(lutAt(luts, gridSize, tx0+1, ty0, v))
			v01 := float64(lutAt(luts, gridSize, tx0, ty0+1, v))
			v11 := float64(lutAt(luts, gridSize, tx0+1, ty0+1, v))

			top := v00*(1-wx) + v10*wx
			bottom := v01*(1-wx) + v11*wx
			out.SetGray(x, y, color.Gray{Y: clampToByte(top*(1-wy) + bottom*wy)})
		}
	}
	return out
}

// tileLUT builds the clipped histogram equalization table for one tile.
// Excess above the clip ceiling is redistributed evenly across all bins
// before the CDF is formed, which caps local contrast amplification.
func tileLUT(gray *image.Gray, x0, y0, x1, y1 int, clipLimit float64) [256]uint8 {
	var lut [256]uint8
	total := (x1 - x0) * (y1 - y0)
	if total <= 0 {
		for i := range lut {
			lut[i] = uint8(i)
		}
		return lut
	}

	var hist [256]int
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[gray.GrayAt(x, y).Y]++
		}
	}

	ceiling := int(clipLimit * float64(total) / 256)
	if ceiling < 1 {
		ceiling = 1
	}
	excess := 0
	for i := range hist {
		if hist[i] > ceiling {
			excess += hist[i] - ceiling
			hist[i] = ceiling
		}
	}
	share := excess / 256
	remainder := excess % 256
	for i := range hist {
		hist[i] += share
		if i < remainder {
			hist[i]++
		}
	}

	cdf := 0
	for i := range hist {
		cdf += hist[i]
		lut[i] = clampToByte(float64(cdf) * 255 / float64(total))
	}
	return lut
}

// lutAt fetches a tile table with edge replication at the grid border.
func lutAt(luts [][256]uint8, gridSize, tx, ty int, v uint8) uint8 {
	if tx < 0 {
		tx = 0
	} else if tx >= gridSize {
		tx = gridSize - 1
	}
	if ty < 0 {
		ty = 0
	} else if ty >= gridSize {
		ty = gridSize - 1
	}
	return luts[ty*gridSize+tx][v]
}
