package preprocess

import (
	"image"
	"image/color"
	"math"
	"sort"
)

type point struct {
	x, y float64
}

// Deskew estimates the dominant rotation of the raster's foreground and
// rotates the image upright when the angle exceeds thresholdDegrees. Below
// the threshold the input raster is returned untouched, so the stage is a
// strict no-op for already-straight pages.
func Deskew(gray *image.Gray, thresholdDegrees float64) *image.Gray {
	angle := EstimateSkewAngle(gray)
	if math.Abs(angle) <= thresholdDegrees {
		return gray
	}
	return rotate(gray, angle)
}

// EstimateSkewAngle computes the rotation angle of the minimum-area bounding
// rectangle around all foreground (nonzero) pixels, normalized to
// (-45, 45]. The rectangle-angle ambiguity is resolved the conventional way:
// angles below -45 degrees are folded by adding 90.
func EstimateSkewAngle(gray *image.Gray) float64 {
	pts := foregroundExtremes(gray)
	if len(pts) < 3 {
		return 0
	}

	angle := minAreaRectAngle(pts)
	if angle < -45 {
		angle = 90 + angle
	}
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}
	return angle
}

// foregroundExtremes collects the leftmost and rightmost nonzero pixel of
// every row. The convex hull of these extremes equals the hull of the full
// foreground point set, so the full set never has to be materialized.
func foregroundExtremes(gray *image.Gray) []point {
	bounds := gray.Bounds()
	pts := make([]point, 0, 2*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		first, last := -1, -1
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if gray.GrayAt(x, y).Y > 0 {
				if first < 0 {
					first = x
				}
				last = x
			}
		}
		if first < 0 {
			continue
		}
		pts = append(pts, point{float64(first), float64(y)})
		if last != first {
			pts = append(pts, point{float64(last), float64(y)})
		}
	}
	return pts
}

// minAreaRectAngle finds the rotation of the minimum-area rectangle
// enclosing the points via rotating calipers over the convex hull. The
// returned angle lies in [-90, 0), matching the rectangle convention the
// fold in EstimateSkewAngle expects.
func minAreaRectAngle(pts []point) float64 {
	hull := convexHull(pts)
	if len(hull) < 3 {
		return 0
	}

	bestArea := math.MaxFloat64
	bestTheta := 0.0
	for i := 0; i < len(hull); i++ {
		j := (i + 1) % len(hull)
		edgeTheta := math.Atan2(hull[j].y-hull[i].y, hull[j].x-hull[i].x)

		cos, sin := math.Cos(-edgeTheta), math.Sin(-edgeTheta)
		minX, minY := math.MaxFloat64, math.MaxFloat64
		maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
		for _, p := range hull {
			rx := p.x*cos - p.y*sin
			ry := p.x*sin + p.y*cos
			minX = math.Min(minX, rx)
			minY = math.Min(minY, ry)
			maxX = math.Max(maxX, rx)
			maxY = math.Max(maxY, ry)
		}

		area := (maxX - minX) * (maxY - minY)
		if area < bestArea {
			bestArea = area
			bestTheta = edgeTheta
		}
	}

	deg := math.Mod(bestTheta*180/math.Pi, 90)
	if deg < 0 {
		deg += 90
	}
	// Fold [0, 90) into the rectangle convention [-90, 0).
	return deg - 90
}

// convexHull computes the convex hull with Andrew's monotone chain,
// returned in counter-clockwise order without the repeated first point.
func convexHull(pts []point) []point {
	if len(pts) < 3 {
		return pts
	}

	sorted := make([]point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].x != sorted[j].x {
			return sorted[i].x < sorted[j].x
		}
		return sorted[i].y < sorted[j].y
	})

	cross := func(o, a, b point) float64 {
		return (a.x-o.x)*(b.y-o.y) - (a.y-o.y)*(b.x-o.x)
	}

	var lower []point
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []point
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// rotate turns the raster counter-clockwise by angleDeg about its center
// using bilinear interpolation. Out-of-frame samples replicate the nearest
// edge pixel so no artificial black border is introduced for the later
// thresholding stage.
func rotate(gray *image.Gray, angleDeg float64) *image.Gray {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))

	theta := angleDeg * math.Pi / 180
	cos, sin := math.Cos(theta), math.Sin(theta)
	cx := float64(width-1) / 2
	cy := float64(height-1) / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Inverse mapping: rotate the destination coordinate back
			// into the source frame.
			dx := float64(x) - cx
			dy := float64(y) - cy
			sx := cx + dx*cos - dy*sin
			sy := cy + dx*sin + dy*cos
			out.SetGray(x, y, sampleBilinear(gray, sx, sy))
		}
	}
	return out
}

func sampleBilinear(gray *image.Gray, x, y float64) color.Gray {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	b := gray.Bounds()
	v00 := float64(grayAtClamped(gray, b.Min.X+x0, b.Min.Y+y0))
	v10 := float64(grayAtClamped(gray, b.Min.X+x0+1, b.Min.Y+y0))
	v01 := float64(grayAtClamped(gray, b.Min.X+x0, b.Min.Y+y0+1))
	v11 := float64(grayAtClamped(gray, b.Min.X+x0+1, b.Min.Y+y0+1))

	top := v00*(1-fx) + v10*fx
	bottom := v01*(1-fx) + v11*fx
	return color.Gray{Y: clampToByte(top*(1-fy) + bottom*fy)}
}
