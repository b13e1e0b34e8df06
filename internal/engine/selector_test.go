package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeEngine is a scripted backend for selector tests.
type fakeEngine struct {
	name string
	ext  Extraction
	err  error
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Attempt(_ context.Context, _ string) (Extraction, error) {
	return f.ext, f.err
}

func TestSelectorPrimarySucceeds(t *testing.T) {
	primary := &fakeEngine{name: "primary", ext: Extraction{Text: "hello", Confidence: 0.9, Regions: 3}}
	secondary := &fakeEngine{name: "secondary", err: errors.New("should not run")}
	sel := NewSelector(primary, secondary).Extract(context.Background(), "page.png")

	if sel.Err != nil {
		t.Fatalf("Unexpected error: %v", sel.Err)
	}
	if sel.Engine != "primary" {
		t.Errorf("Expected primary engine, got %q", sel.Engine)
	}
	if sel.Extraction.Text != "hello" {
		t.Errorf("Unexpected text %q", sel.Extraction.Text)
	}
	if sel.Note != "" {
		t.Errorf("Expected no note on clean primary run, got %q", sel.Note)
	}
}

func TestSelectorFallsThroughOnError(t *testing.T) {
	primary := &fakeEngine{name: "primary", err: errors.New("model file missing")}
	secondary := &fakeEngine{name: "secondary", ext: Extraction{Text: "fallback text", Confidence: 0.6, Regions: 2}}
	sel := NewSelector(primary, secondary).Extract(context.Background(), "page.png")

	if sel.Err != nil {
		t.Fatalf("Unexpected error: %v", sel.Err)
	}
	if sel.Engine != "secondary" {
		t.Errorf("Expected secondary engine, got %q", sel.Engine)
	}
	if !strings.Contains(sel.Note, "primary failed") {
		t.Errorf("Expected degraded-mode note naming the failed backend, got %q", sel.Note)
	}
}

func TestSelectorZeroRegionsEndsChain(t *testing.T) {
	primary := &fakeEngine{name: "primary", ext: Extraction{Regions: 0}}
	secondary := &fakeEngine{name: "secondary", ext: Extraction{Text: "never", Regions: 5}}
	sel := NewSelector(primary, secondary).Extract(context.Background(), "blank.png")

	if sel.Err == nil {
		t.Fatal("Expected no-text error")
	}
	if !strings.Contains(sel.Err.Error(), "no text detected") {
		t.Errorf("Unexpected error %v", sel.Err)
	}
	if sel.Engine != "primary" {
		t.Errorf("Expected chain to end at primary, got %q", sel.Engine)
	}
}

func TestSelectorAllExhausted(t *testing.T) {
	a := &fakeEngine{name: "a", err: errors.New("boom")}
	b := &fakeEngine{name: "b", err: errors.New("bang")}
	sel := NewSelector(a, b).Extract(context.Background(), "page.png")

	if sel.Err == nil {
		t.Fatal("Expected exhaustion error")
	}
	if !strings.Contains(sel.Note, "a failed") || !strings.Contains(sel.Note, "b failed") {
		t.Errorf("Expected note naming both failures, got %q", sel.Note)
	}
}

func TestSelectorContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sel := NewSelector(&fakeEngine{name: "a", ext: Extraction{Text: "x", Regions: 1}}).Extract(ctx, "page.png")
	if !errors.Is(sel.Err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", sel.Err)
	}
}

func TestSelectorEngineNames(t *testing.T) {
	sel := NewSelector(&fakeEngine{name: "a"}, &fakeEngine{name: "b"})
	names := sel.Engines()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Unexpected engine names %v", names)
	}
}

func TestDefaultChainOrder(t *testing.T) {
	chain := DefaultChain([]string{"eng"})
	if len(chain) != 3 {
		t.Fatalf("Expected 3 backends, got %d", len(chain))
	}
	expected := []string{"tesseract-lstm", "tesseract-legacy", "structural-heuristic"}
	for i, name := range expected {
		if chain[i].Name() != name {
			t.Errorf("Backend %d = %q, want %q", i, chain[i].Name(), name)
		}
	}
}
