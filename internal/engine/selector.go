package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"go-ocr-pipeline/internal/logger"
)

// Selection is what the selector hands back to the pipeline: the winning
// extraction plus the name of the backend that produced it. Err is set only
// when no backend produced a result; backend errors themselves never
// propagate past the selector.
type Selection struct {
	Extraction Extraction
	Engine     string
	// Note aggregates fallback information: which backends failed and why.
	Note string
	// Err describes total extraction unavailability (all backends
	// exhausted, zero regions detected, or context cancellation).
	Err error
}

// Selector drives an ordered list of recognition backends with fallback: on
// a backend error the next backend in order gets the image, and the last
// successful extraction carries a note naming the skipped backends.
type Selector struct {
	engines []Engine
}

// NewSelector creates a selector over the given backends, tried in argument
// order.
func NewSelector(engines ...Engine) *Selector {
	return &Selector{engines: engines}
}

// DefaultChain returns the standard backend order: LSTM recognition,
// legacy recognition, structural heuristic.
func DefaultChain(languages []string) []Engine {
	return []Engine{
		NewLSTMEngine(languages),
		NewLegacyEngine(languages),
		NewStructuralHeuristic(),
	}
}

// Engines lists the backend names in fallback order.
func (s *Selector) Engines() []string {
	names := make([]string, 0, len(s.engines))
	for _, e := range s.engines {
		names = append(names, e.Name())
	}
	return names
}

// Extract runs the fallback chain over the image at imagePath. The context
// bounds the only externally-unbounded stage of the pipeline; it is checked
// between backend attempts.
func (s *Selector) Extract(ctx context.Context, imagePath string) Selection {
	var failures []string

	for i, eng := range s.engines {
		if err := ctx.Err(); err != nil {
			return Selection{Err: err, Note: joinNotes(failures)}
		}

		ext, err := eng.Attempt(ctx, imagePath)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"engine": eng.Name(),
				"image":  imagePath,
			}).WithError(err).Warn("recognition backend failed, falling through")
			failures = append(failures, fmt.Sprintf("%s failed: %v", eng.Name(), err))
			continue
		}

		if ext.Regions == 0 {
			// A backend that ran cleanly but saw nothing ends the chain:
			// the image has no recognizable text.
			return Selection{
				Engine: eng.Name(),
				Note:   joinNotes(failures),
				Err:    fmt.Errorf("no text detected"),
			}
		}

		note := ext.Note
		if i > 0 {
			// Degraded mode: a lower-priority backend produced the text.
			note = joinNotes(append(failures, note))
		}
		return Selection{Extraction: ext, Engine: eng.Name(), Note: note}
	}

	return Selection{
		Note: joinNotes(failures),
		Err:  fmt.Errorf("all recognition backends exhausted"),
	}
}

func joinNotes(notes []string) string {
	parts := notes[:0:0]
	for _, n := range notes {
		if n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "; ")
}
