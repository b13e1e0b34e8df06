// Package evaluation scores extracted text against known ground truth, for
// callers that have the expected content of an image (answer checking,
// regression suites).
package evaluation

import (
	"strings"

	"github.com/arbovm/levenshtein"
)

// Accuracy holds the comparison scores between expected and extracted text.
type Accuracy struct {
	// MatchScore is 1 - normalized edit distance, in [0,1]; 1 means an
	// exact match.
	MatchScore float64 `json:"match_score"`
	// WER is the word error rate against the expected text.
	WER float64 `json:"word_error_rate"`
	// CER is the character error rate against the expected text.
	CER float64 `json:"character_error_rate"`
}

// Evaluate compares extracted text against the expected ground truth. Both
// inputs are whitespace-normalized first so formatting differences do not
// count as errors.
func Evaluate(expected, actual string) Accuracy {
	expected = normalize(expected)
	actual = normalize(actual)

	if expected == "" && actual == "" {
		return Accuracy{MatchScore: 1}
	}

	distance := levenshtein.Distance(expected, actual)
	refLen := len([]rune(expected))
	actLen := len([]rune(actual))

	longer := refLen
	if actLen > longer {
		longer = actLen
	}

	acc := Accuracy{
		MatchScore: 1 - float64(distance)/float64(longer),
	}

	if refLen == 0 {
		acc.CER = 1
	} else {
		acc.CER = float64(distance) / float64(refLen)
	}

	acc.WER = wordErrorRate(expected, actual)
	return acc
}

func wordErrorRate(expected, actual string) float64 {
	refWords := strings.Fields(expected)
	hypWords := strings.Fields(actual)
	if len(refWords) == 0 {
		if len(hypWords) == 0 {
			return 0
		}
		return 1
	}
	return float64(wordDistance(refWords, hypWords)) / float64(len(refWords))
}

// wordDistance is the edit distance over word tokens: the minimum number of
// word substitutions, insertions and deletions turning ref into hyp.
func wordDistance(ref, hyp []string) int {
	prev := make([]int, len(hyp)+1)
	curr := make([]int, len(hyp)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ref); i++ {
		curr[0] = i
		for j := 1; j <= len(hyp); j++ {
			cost := 1
			if ref[i-1] == hyp[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j-1]+cost, min(prev[j]+1, curr[j-1]+1))
		}
		prev, curr = curr, prev
	}
	return prev[len(hyp)]
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
