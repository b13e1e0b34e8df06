package engine

import (
	"context"
	"image"
	"math"

	"gonum.org/v1/gonum/stat"

	"go-ocr-pipeline/internal/preprocess"
)

// HeuristicNote explains that the result came from structural analysis
// rather than real recognition.
const HeuristicNote = "structural analysis only - no recognition backend produced text"

// heuristicText is the fixed placeholder emitted when text-like structure is
// present but no recognition backend is available.
const heuristicText = "[Text structure detected - OCR processing recommended]"

// edgeMagnitudeThreshold is the Sobel gradient magnitude above which a pixel
// counts as part of a stroke edge.
const edgeMagnitudeThreshold = 50.0

// maxHeuristicConfidence caps the tertiary backend; structure density is a
// weak signal and must always read as low confidence.
const maxHeuristicConfidence = 0.3

// StructuralHeuristic is the tertiary backend. It never recognizes text;
// it estimates text-likeness from edge density so a batch can still report
// that an image probably contains text when every real backend failed.
type StructuralHeuristic struct{}

// NewStructuralHeuristic creates the tertiary fallback backend.
func NewStructuralHeuristic() *StructuralHeuristic {
	return &StructuralHeuristic{}
}

// Name returns the backend identifier.
func (h *StructuralHeuristic) Name() string {
	return "structural-heuristic"
}

// Attempt estimates text presence from Sobel edge density. Regions are an
// approximation of stroke groups; a flat image (near-zero edge response
// variance) yields zero regions.
func (h *StructuralHeuristic) Attempt(ctx context.Context, imagePath string) (Extraction, error) {
	select {
	case <-ctx.Done():
		return Extraction{}, ctx.Err()
	default:
	}

	img, err := preprocess.DecodeFile(imagePath)
	if err != nil {
		return Extraction{}, err
	}
	gray := preprocess.ToGray(img)

	regions, magnitudes := countEdgeRegions(gray)
	if regions == 0 || flatResponse(magnitudes) {
		return Extraction{Regions: 0, Note: HeuristicNote}, nil
	}

	confidence := math.Min(maxHeuristicConfidence, float64(regions)/100.0)
	return Extraction{
		Text:              heuristicText,
		Confidence:        confidence,
		RegionConfidences: []float64{confidence},
		Regions:           regions,
		Note:              HeuristicNote,
	}, nil
}

// countEdgeRegions counts Sobel edge pixels and groups them into an
// approximate region count, collecting the above-threshold magnitudes for
// the flatness check.
func countEdgeRegions(gray *image.Gray) (int, []float64) {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	edgeCount := 0
	var magnitudes []float64
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			gx := sobelX(gray, bounds.Min.X+x, bounds.Min.Y+y)
			gy := sobelY(gray, bounds.Min.X+x, bounds.Min.Y+y)
			magnitude := math.Sqrt(float64(gx*gx + gy*gy))
			if magnitude > edgeMagnitudeThreshold {
				edgeCount++
				magnitudes = append(magnitudes, magnitude)
			}
		}
	}

	// Edges clustered roughly ten per stroke group.
	return edgeCount / 10, magnitudes
}

// flatResponse reports whether the edge magnitudes carry almost no
// variation, which indicates uniform texture (noise) rather than strokes.
func flatResponse(magnitudes []float64) bool {
	if len(magnitudes) < 2 {
		return len(magnitudes) == 0
	}
	return stat.Variance(magnitudes, nil) < 1e-6
}

func sobelX(gray *image.Gray, x, y int) int {
	return -1*int(gray.GrayAt(x-1, y-1).Y) + 1*int(gray.GrayAt(x+1, y-1).Y) +
		-2*int(gray.GrayAt(x-1, y).Y) + 2*int(gray.GrayAt(x+1, y).Y) +
		-1*int(gray.GrayAt(x-1, y+1).Y) + 1*int(gray.GrayAt(x+1, y+1).Y)
}

func sobelY(gray *image.Gray, x, y int) int {
	return -1*int(gray.GrayAt(x-1, y-1).Y) - 2*int(gray.GrayAt(x, y-1).Y) - 1*int(gray.GrayAt(x+1, y-1).Y) +
		1*int(gray.GrayAt(x-1, y+1).Y) + 2*int(gray.GrayAt(x, y+1).Y) + 1*int(gray.GrayAt(x+1, y+1).Y)
}
