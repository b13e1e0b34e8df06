// Package textproc cleans raw recognized text and derives the content
// classification and study suggestions attached to an extraction result.
package textproc

import (
	"regexp"
	"strings"
)

var (
	// Recurring recognition artifacts: broken vertical strokes read as
	// pipe runs, broken loops read as zero runs.
	pipeRuns = regexp.MustCompile(`[|]{2,}`)
	zeroRuns = regexp.MustCompile(`[0]{2,}`)

	// Isolated single letters are treated as noise tokens.
	isolatedLetters = regexp.MustCompile(`\b[a-zA-Z]\b`)

	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// Clean normalizes raw recognized text: artifact runs are corrected, noise
// tokens dropped, and whitespace collapsed to single spaces with the ends
// trimmed. The transform is idempotent: Clean(Clean(s)) == Clean(s) for
// every s. The artifact passes can feed each other (dropping the letter in
// "|a|" creates a fresh pipe run), so they repeat until a fixpoint before
// the final whitespace normalization.
func Clean(raw string) string {
	if raw == "" {
		return raw
	}

	// Each non-identity pass strictly shrinks the text, so this
	// terminates.
	text := raw
	for {
		next := pipeRuns.ReplaceAllString(text, "l")
		next = zeroRuns.ReplaceAllString(next, "o")
		next = isolatedLetters.ReplaceAllString(next, "")
		if next == text {
			break
		}
		text = next
	}

	return whitespaceRuns.ReplaceAllString(strings.TrimSpace(text), " ")
}
