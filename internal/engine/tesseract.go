package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gonum.org/v1/gonum/stat"
)

// TesseractEngine recognizes text through the gosseract client. Two
// configurations are used in the default chain: an LSTM-tuned primary and a
// legacy-mode secondary that trades accuracy for robustness on degraded
// scans.
type TesseractEngine struct {
	name          string
	languages     []string
	pageSegMode   gosseract.PageSegMode
	variables     map[string]string
	clientFactory func() *gosseract.Client
}

// NewLSTMEngine constructs the primary neural recognition backend.
func NewLSTMEngine(languages []string) *TesseractEngine {
	return &TesseractEngine{
		name:        "tesseract-lstm",
		languages:   languages,
		pageSegMode: gosseract.PSM_AUTO,
		variables: map[string]string{
			"tessedit_ocr_engine_mode": "1", // LSTM only
		},
		clientFactory: gosseract.NewClient,
	}
}

// NewLegacyEngine constructs the secondary backend using the classic
// recognition engine with single-block segmentation.
func NewLegacyEngine(languages []string) *TesseractEngine {
	return &TesseractEngine{
		name:        "tesseract-legacy",
		languages:   languages,
		pageSegMode: gosseract.PSM_SINGLE_BLOCK,
		variables: map[string]string{
			"tessedit_ocr_engine_mode": "0", // legacy only
		},
		clientFactory: gosseract.NewClient,
	}
}

// Name returns the backend identifier used in results and logs.
func (e *TesseractEngine) Name() string {
	return e.name
}

// Attempt runs recognition over the image at imagePath. Word bounding boxes
// supply the per-region confidences; their mean, scaled to [0,1], becomes
// the extraction confidence.
func (e *TesseractEngine) Attempt(ctx context.Context, imagePath string) (Extraction, error) {
	select {
	case <-ctx.Done():
		return Extraction{}, ctx.Err()
	default:
	}

	client := e.clientFactory()
	defer client.Close()

	if err := client.SetImage(imagePath); err != nil {
		return Extraction{}, fmt.Errorf("set image: %w", err)
	}
	if len(e.languages) > 0 {
		if err := client.SetLanguage(e.languages...); err != nil {
			return Extraction{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if err := client.SetPageSegMode(e.pageSegMode); err != nil {
		return Extraction{}, fmt.Errorf("set page segmentation mode: %w", err)
	}
	for k, v := range e.variables {
		if err := client.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return Extraction{}, fmt.Errorf("set variable %s: %w", k, err)
		}
	}

	text, err := client.Text()
	if err != nil {
		return Extraction{}, fmt.Errorf("recognize text: %w", err)
	}
	text = strings.TrimSpace(text)

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return Extraction{}, fmt.Errorf("word boxes: %w", err)
	}
	if len(boxes) == 0 || text == "" {
		return Extraction{Regions: 0}, nil
	}

	confidences := make([]float64, 0, len(boxes))
	for _, b := range boxes {
		confidences = append(confidences, clampUnit(b.Confidence/100.0))
	}

	return Extraction{
		Text:              text,
		Confidence:        clampUnit(stat.Mean(confidences, nil)),
		RegionConfidences: confidences,
		Regions:           len(boxes),
	}, nil
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
