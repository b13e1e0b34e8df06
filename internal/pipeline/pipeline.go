// Package pipeline wires validation, preprocessing, engine selection and
// text post-processing into the two public call shapes: single-image
// extraction and batch processing.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-ocr-pipeline/internal/config"
	"go-ocr-pipeline/internal/engine"
	apperrors "go-ocr-pipeline/internal/errors"
	"go-ocr-pipeline/internal/logger"
	"go-ocr-pipeline/internal/observer"
	"go-ocr-pipeline/internal/preprocess"
	"go-ocr-pipeline/internal/storage"
	"go-ocr-pipeline/internal/textproc"
	"go-ocr-pipeline/pkg/models"
	"go-ocr-pipeline/pkg/validation"
)

// Pipeline runs the full image-to-text chain. It holds no per-run state;
// one Pipeline may serve any number of concurrent extractions.
type Pipeline struct {
	cfg       *config.Config
	preCfg    preprocess.Config
	validator *validation.ImageValidator
	selector  *engine.Selector
	source    storage.Source
	events    *observer.EventPublisher
}

// Option customizes pipeline construction.
type Option func(*Pipeline)

// WithEngines replaces the default recognition backend chain.
func WithEngines(engines ...engine.Engine) Option {
	return func(p *Pipeline) { p.selector = engine.NewSelector(engines...) }
}

// WithSource replaces the default local-file image source.
func WithSource(src storage.Source) Option {
	return func(p *Pipeline) { p.source = src }
}

// WithObserver subscribes an observer to extraction lifecycle events.
func WithObserver(obs observer.Observer) Option {
	return func(p *Pipeline) { p.events.Subscribe(obs) }
}

// WithPreprocessConfig overrides the preprocessing stage configuration.
func WithPreprocessConfig(preCfg preprocess.Config) Option {
	return func(p *Pipeline) { p.preCfg = preCfg }
}

// New builds a pipeline from the given configuration. A nil config uses the
// built-in defaults.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	if cfg == nil {
		cfg = config.Default()
	}
	p := &Pipeline{
		cfg:       cfg,
		preCfg:    preprocessConfigFrom(cfg),
		validator: validation.NewImageValidator(),
		selector:  engine.NewSelector(engine.DefaultChain(cfg.Languages)...),
		source:    storage.NewLocalSource(),
		events:    observer.NewEventPublisher(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func preprocessConfigFrom(cfg *config.Config) preprocess.Config {
	return preprocess.Config{
		MaxDimension:           cfg.MaxImageDimension,
		DeskewThresholdDegrees: cfg.DeskewThresholdDegrees,
		NoiseReduction:         cfg.NoiseReduction,
		ContrastEnhancement:    cfg.ContrastEnhancement,
		Sharpen:                cfg.Sharpen,
		AdaptiveThreshold:      cfg.AdaptiveThreshold,
	}
}

// ExtractText runs the single-image pipeline: validate, preprocess (when
// enabled), select a recognition backend, clean the text, classify it and
// attach study suggestions. Every failure mode resolves to a well-formed
// result with Success false and Confidence 0; no error ever escapes.
func (p *Pipeline) ExtractText(ctx context.Context, imagePath string, preprocessEnabled bool) *models.ExtractionResult {
	start := time.Now()
	p.notify(ctx, observer.ExtractionEvent{
		EventType: observer.ExtractionStarted,
		Timestamp: start,
		ImagePath: imagePath,
	})

	localPath, cleanup, err := p.source.Resolve(ctx, imagePath)
	if err != nil {
		return p.fail(ctx, imagePath, apperrors.NewValidationError("Invalid image file", err), "", preprocessEnabled, start)
	}
	defer cleanup()

	if !p.validator.Validate(localPath) {
		return p.fail(ctx, imagePath, apperrors.NewValidationError("Invalid image file", nil), "", preprocessEnabled, start)
	}

	targetPath := localPath
	var degradeNote string
	if preprocessEnabled {
		raster, note, err := preprocess.PreprocessFile(localPath, p.preCfg)
		if err != nil {
			return p.fail(ctx, imagePath, apperrors.NewPreprocessingError("Could not read image: "+err.Error(), err), "", preprocessEnabled, start)
		}
		degradeNote = note
		if degradeNote != "" {
			p.notify(ctx, observer.ExtractionEvent{
				EventType:    observer.PreprocessingDegraded,
				Timestamp:    time.Now(),
				ImagePath:    imagePath,
				ErrorMessage: degradeNote,
			})
		}

		// The preprocessed raster lives in a uniquely named transient
		// artifact owned by this invocation and removed on every exit
		// path.
		artifactPath := filepath.Join(os.TempDir(), "ocr-pre-"+uuid.NewString()+".png")
		if writeErr := preprocess.WritePNG(artifactPath, raster); writeErr != nil {
			logger.WithError(writeErr).Warn("failed to write preprocessed artifact, extracting from original image")
			degradeNote = joinNotes(degradeNote, "preprocessed artifact unavailable")
		} else {
			defer os.Remove(artifactPath)
			targetPath = artifactPath
		}
	}

	extractCtx, cancel := context.WithTimeout(ctx, p.cfg.ExtractionTimeout)
	defer cancel()
	sel := p.selector.Extract(extractCtx, targetPath)
	if sel.Err != nil {
		return p.fail(ctx, imagePath, apperrors.NewExtractionError(sel.Err.Error(), sel.Err), joinNotes(degradeNote, sel.Note), preprocessEnabled, start)
	}

	text := textproc.Clean(sel.Extraction.Text)
	contentType := textproc.Classify(text)

	result := &models.ExtractionResult{
		Success:           true,
		Text:              text,
		Confidence:        sel.Extraction.Confidence,
		WordCount:         len(strings.Fields(text)),
		CharCount:         len([]rune(text)),
		Note:              joinNotes(degradeNote, sel.Note),
		ContentType:       contentType,
		Suggestions:       textproc.Suggest(contentType),
		Engine:            sel.Engine,
		Preprocessed:      preprocessEnabled,
		ProcessingTimeSec: time.Since(start).Seconds(),
	}

	if names := p.selector.Engines(); len(names) > 0 && sel.Engine != names[0] {
		p.notify(ctx, observer.ExtractionEvent{
			EventType: observer.EngineFallback,
			Timestamp: time.Now(),
			ImagePath: imagePath,
			Engine:    sel.Engine,
			Success:   true,
		})
	}
	p.notify(ctx, observer.ExtractionEvent{
		EventType:      observer.ExtractionCompleted,
		Timestamp:      time.Now(),
		ImagePath:      imagePath,
		Engine:         sel.Engine,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata: map[string]interface{}{
			"content_type": contentType,
			"confidence":   result.Confidence,
		},
	})
	return result
}

// fail builds the uniform failure result: Success false always pairs with
// Confidence 0. The typed error is flattened into the result's Error field;
// its category travels on the failure event for observers.
func (p *Pipeline) fail(ctx context.Context, imagePath string, perr *apperrors.PipelineError, note string, preprocessed bool, start time.Time) *models.ExtractionResult {
	p.notify(ctx, observer.ExtractionEvent{
		EventType:      observer.ExtractionFailed,
		Timestamp:      time.Now(),
		ImagePath:      imagePath,
		ProcessingTime: time.Since(start),
		ErrorMessage:   perr.Message,
		Metadata: map[string]interface{}{
			"error_type": string(perr.Type),
		},
	})
	return &models.ExtractionResult{
		Success:           false,
		Confidence:        0.0,
		Error:             perr.Message,
		Note:              note,
		ContentType:       models.ContentUnknown,
		Preprocessed:      preprocessed,
		ProcessingTimeSec: time.Since(start).Seconds(),
	}
}

func (p *Pipeline) notify(ctx context.Context, event observer.ExtractionEvent) {
	p.events.NotifyObservers(ctx, event)
}

func joinNotes(notes ...string) string {
	parts := notes[:0:0]
	for _, n := range notes {
		if n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "; ")
}

// Log convenience for callers that want run-level fields.
func logFields(imagePath string, preprocessEnabled bool) logrus.Fields {
	return logrus.Fields{
		"image":      imagePath,
		"preprocess": preprocessEnabled,
	}
}
