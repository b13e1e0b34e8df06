package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"go-ocr-pipeline/internal/config"
	"go-ocr-pipeline/internal/engine"
	"go-ocr-pipeline/internal/observer"
	"go-ocr-pipeline/internal/preprocess"
	"go-ocr-pipeline/pkg/models"
)

// stubEngine is a scripted recognition backend that records invocations.
type stubEngine struct {
	name  string
	ext   engine.Extraction
	err   error
	calls int64
}

func (s *stubEngine) Name() string { return s.name }

func (s *stubEngine) Attempt(_ context.Context, _ string) (engine.Extraction, error) {
	atomic.AddInt64(&s.calls, 1)
	return s.ext, s.err
}

// writeSamplePNG renders a small page-like image into dir and returns its path.
func writeSamplePNG(t *testing.T, dir, name string) string {
	t.Helper()
	gray := image.NewGray(image.Rect(0, 0, 80, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 80; x++ {
			if (y/6)%2 == 0 && x > 8 && x < 72 {
				gray.SetGray(x, y, color.Gray{Y: 220})
			}
		}
	}
	path := filepath.Join(dir, name)
	if err := preprocess.WritePNG(path, gray); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	return path
}

func newTestPipeline(engines ...engine.Engine) *Pipeline {
	return New(config.Default(), WithEngines(engines...))
}

func TestExtractTextSuccess(t *testing.T) {
	path := writeSamplePNG(t, t.TempDir(), "page.png")
	primary := &stubEngine{
		name: "primary",
		ext:  engine.Extraction{Text: "the   experiment was clearly successful", Confidence: 0.87, Regions: 5},
	}

	result := newTestPipeline(primary).ExtractText(context.Background(), path, true)

	if !result.Success {
		t.Fatalf("Expected success, got error %q", result.Error)
	}
	if result.Text != "the experiment was clearly successful" {
		t.Errorf("Expected cleaned text, got %q", result.Text)
	}
	if result.Confidence != 0.87 {
		t.Errorf("Confidence = %f, want 0.87", result.Confidence)
	}
	if result.WordCount != 5 {
		t.Errorf("WordCount = %d, want 5", result.WordCount)
	}
	if result.CharCount != len("the experiment was clearly successful") {
		t.Errorf("CharCount = %d", result.CharCount)
	}
	if result.ContentType != models.ContentScientific {
		t.Errorf("ContentType = %q, want scientific", result.ContentType)
	}
	if result.Suggestions == nil || result.Suggestions.Summary == "" {
		t.Error("Expected populated suggestions")
	}
	if result.Engine != "primary" {
		t.Errorf("Engine = %q, want primary", result.Engine)
	}
	if !result.Preprocessed {
		t.Error("Expected Preprocessed true")
	}
	if result.ProcessingTimeSec < 0 {
		t.Errorf("Negative processing time %f", result.ProcessingTimeSec)
	}
	if atomic.LoadInt64(&primary.calls) != 1 {
		t.Errorf("Backend invoked %d times, want 1", primary.calls)
	}
}

func TestExtractTextUnsupportedExtension(t *testing.T) {
	// The validator rejects the path before any backend runs.
	dir := t.TempDir()
	path := writeSamplePNG(t, dir, "notes.png")
	docx := filepath.Join(dir, "notes.docx")
	if err := copyFile(t, path, docx); err != nil {
		t.Fatal(err)
	}
	primary := &stubEngine{name: "primary", ext: engine.Extraction{Text: "x", Regions: 1}}

	result := newTestPipeline(primary).ExtractText(context.Background(), docx, true)

	if result.Success {
		t.Fatal("Expected failure for unsupported extension")
	}
	if result.Error != "Invalid image file" {
		t.Errorf("Error = %q, want %q", result.Error, "Invalid image file")
	}
	if result.Confidence != 0 {
		t.Errorf("Failure carried confidence %f", result.Confidence)
	}
	if result.ContentType != models.ContentUnknown {
		t.Errorf("Failure carried content type %q", result.ContentType)
	}
	if atomic.LoadInt64(&primary.calls) != 0 {
		t.Error("Backend must not run for invalid input")
	}
}

func TestExtractTextMissingFile(t *testing.T) {
	result := newTestPipeline(&stubEngine{name: "primary"}).
		ExtractText(context.Background(), filepath.Join(t.TempDir(), "absent.png"), false)
	if result.Success {
		t.Fatal("Expected failure for missing file")
	}
	if result.Error != "Invalid image file" {
		t.Errorf("Error = %q", result.Error)
	}
}

func TestExtractTextFallbackNote(t *testing.T) {
	path := writeSamplePNG(t, t.TempDir(), "page.png")
	primary := &stubEngine{name: "primary", err: errors.New("backend unavailable")}
	secondary := &stubEngine{name: "secondary", ext: engine.Extraction{Text: "recovered words here", Confidence: 0.5, Regions: 2}}

	result := newTestPipeline(primary, secondary).ExtractText(context.Background(), path, false)

	if !result.Success {
		t.Fatalf("Expected degraded success, got %q", result.Error)
	}
	if result.Engine != "secondary" {
		t.Errorf("Engine = %q, want secondary", result.Engine)
	}
	if !strings.Contains(result.Note, "primary failed") {
		t.Errorf("Note %q does not name failed backend", result.Note)
	}
}

func TestExtractTextNoTextDetected(t *testing.T) {
	path := writeSamplePNG(t, t.TempDir(), "blank.png")
	primary := &stubEngine{name: "primary", ext: engine.Extraction{Regions: 0}}

	result := newTestPipeline(primary).ExtractText(context.Background(), path, false)

	if result.Success {
		t.Fatal("Expected failure when no text detected")
	}
	if !strings.Contains(result.Error, "no text detected") {
		t.Errorf("Error = %q", result.Error)
	}
}

func TestExtractTextObserverEvents(t *testing.T) {
	path := writeSamplePNG(t, t.TempDir(), "page.png")
	metrics := observer.NewMetricsObserver()
	primary := &stubEngine{name: "primary", ext: engine.Extraction{Text: "some recognized words", Confidence: 0.8, Regions: 3}}
	p := New(config.Default(), WithEngines(primary), WithObserver(metrics))

	p.ExtractText(context.Background(), path, false)
	p.ExtractText(context.Background(), filepath.Join(t.TempDir(), "absent.png"), false)

	m := metrics.GetMetrics()
	if m["total_extractions"].(int64) != 2 {
		t.Errorf("total_extractions = %v, want 2", m["total_extractions"])
	}
	if m["successful_extractions"].(int64) != 1 {
		t.Errorf("successful_extractions = %v, want 1", m["successful_extractions"])
	}
	if m["failed_extractions"].(int64) != 1 {
		t.Errorf("failed_extractions = %v, want 1", m["failed_extractions"])
	}
}

// eventRecorder captures lifecycle events for assertions.
type eventRecorder struct {
	events []observer.ExtractionEvent
}

func (r *eventRecorder) OnEvent(_ context.Context, e observer.ExtractionEvent) {
	r.events = append(r.events, e)
}

func (r *eventRecorder) GetObserverName() string { return "recorder" }

func (r *eventRecorder) lastFailure() *observer.ExtractionEvent {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].EventType == observer.ExtractionFailed {
			return &r.events[i]
		}
	}
	return nil
}

func TestExtractTextFailureEventCarriesErrorType(t *testing.T) {
	rec := &eventRecorder{}
	primary := &stubEngine{name: "primary", ext: engine.Extraction{Regions: 0}}
	p := New(config.Default(), WithEngines(primary), WithObserver(rec))

	p.ExtractText(context.Background(), filepath.Join(t.TempDir(), "absent.png"), false)
	failed := rec.lastFailure()
	if failed == nil {
		t.Fatal("Expected a failure event for the missing file")
	}
	if failed.Metadata["error_type"] != "validation" {
		t.Errorf("error_type = %v, want validation", failed.Metadata["error_type"])
	}

	path := writeSamplePNG(t, t.TempDir(), "blank.png")
	p.ExtractText(context.Background(), path, false)
	failed = rec.lastFailure()
	if failed == nil {
		t.Fatal("Expected a failure event for the blank image")
	}
	if failed.Metadata["error_type"] != "extraction" {
		t.Errorf("error_type = %v, want extraction", failed.Metadata["error_type"])
	}
}

func TestBatchProcessPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	good1 := writeSamplePNG(t, dir, "a.png")
	missing := filepath.Join(dir, "missing.png")
	good2 := writeSamplePNG(t, dir, "b.png")
	primary := &stubEngine{name: "primary", ext: engine.Extraction{Text: "batch item text", Confidence: 0.7, Regions: 2}}

	results := newTestPipeline(primary).BatchProcess(context.Background(), []string{good1, missing, good2}, false)

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if !results[0].Success || results[1].Success || !results[2].Success {
		t.Errorf("Unexpected success pattern: %v %v %v", results[0].Success, results[1].Success, results[2].Success)
	}
	if results[0].ImagePath != good1 || results[1].ImagePath != missing || results[2].ImagePath != good2 {
		t.Error("Results out of input order")
	}
	if results[0].ImageName != "a.png" || results[2].ImageName != "b.png" {
		t.Errorf("ImageName not set: %q, %q", results[0].ImageName, results[2].ImageName)
	}
}

func TestBatchProcessEmptyInput(t *testing.T) {
	results := newTestPipeline(&stubEngine{name: "primary"}).BatchProcess(context.Background(), nil, false)
	if len(results) != 0 {
		t.Errorf("Expected empty result set, got %d", len(results))
	}
}

func TestEngineInfo(t *testing.T) {
	info := newTestPipeline(&stubEngine{name: "primary"}, &stubEngine{name: "secondary"}).EngineInfo()
	if len(info.Engines) != 2 || info.Engines[0] != "primary" {
		t.Errorf("Unexpected engines %v", info.Engines)
	}
	if info.PrimaryEngine != "primary" {
		t.Errorf("PrimaryEngine = %q", info.PrimaryEngine)
	}
	if len(info.SupportedFormats) == 0 {
		t.Error("Expected supported formats")
	}
	if info.MaxImageSize != 3000 {
		t.Errorf("MaxImageSize = %d, want 3000", info.MaxImageSize)
	}
	if len(info.ContentTypes) != len(models.ContentTypes) {
		t.Errorf("ContentTypes length %d", len(info.ContentTypes))
	}
}

func TestNewNilConfigUsesDefaults(t *testing.T) {
	p := New(nil, WithEngines(&stubEngine{name: "only"}))
	info := p.EngineInfo()
	if info.MaxImageSize != 3000 {
		t.Errorf("Expected default max image size, got %d", info.MaxImageSize)
	}
}

func copyFile(t *testing.T, src, dst string) error {
	t.Helper()
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o600)
}
