package textproc

import (
	"strings"

	"go-ocr-pipeline/pkg/models"
)

// mathSymbols are the characters whose presence classifies text as
// mathematical.
const mathSymbols = "+-*/=()[]{}"

// scientificTerms is the fixed vocabulary that classifies text as
// scientific.
var scientificTerms = []string{"equation", "formula", "theorem", "hypothesis", "experiment"}

// Classify labels cleaned text by subject-matter heuristic. Rules are
// evaluated in order with first match winning: symbol presence is a stronger
// signal than document length, so the mathematical and scientific checks
// deliberately precede the word-count rules.
func Classify(text string) models.ContentType {
	if strings.TrimSpace(text) == "" {
		return models.ContentUnknown
	}

	if strings.ContainsAny(text, mathSymbols) {
		return models.ContentMathematical
	}

	lower := strings.ToLower(text)
	for _, term := range scientificTerms {
		if strings.Contains(lower, term) {
			return models.ContentScientific
		}
	}

	words := len(strings.Fields(text))
	if words < 20 {
		return models.ContentHandwritten
	}
	if words > 50 {
		return models.ContentTextbook
	}
	return models.ContentGeneral
}
