package config

import (
	"testing"
	"time"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if len(cfg.Languages) != 1 || cfg.Languages[0] != "eng" {
		t.Errorf("Languages = %v, want [eng]", cfg.Languages)
	}
	if cfg.ExtractionTimeout != 60*time.Second {
		t.Errorf("ExtractionTimeout = %v, want 60s", cfg.ExtractionTimeout)
	}
	if cfg.BatchWorkers != 4 {
		t.Errorf("BatchWorkers = %d, want 4", cfg.BatchWorkers)
	}
	if cfg.MaxImageDimension != 3000 {
		t.Errorf("MaxImageDimension = %d, want 3000", cfg.MaxImageDimension)
	}
	if cfg.DeskewThresholdDegrees != 0.5 {
		t.Errorf("DeskewThresholdDegrees = %g, want 0.5", cfg.DeskewThresholdDegrees)
	}
	if !cfg.NoiseReduction || !cfg.ContrastEnhancement || !cfg.Sharpen || !cfg.AdaptiveThreshold {
		t.Error("Expected all preprocessing stages enabled by default")
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("OCR_LANGUAGES", "eng, deu ,fra")
	t.Setenv("EXTRACTION_TIMEOUT", "90s")
	t.Setenv("BATCH_WORKERS", "8")
	t.Setenv("MAX_IMAGE_DIMENSION", "2048")
	t.Setenv("DESKEW_THRESHOLD_DEGREES", "1.25")
	t.Setenv("ADAPTIVE_THRESHOLD", "false")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	want := []string{"eng", "deu", "fra"}
	if len(cfg.Languages) != len(want) {
		t.Fatalf("Languages = %v, want %v", cfg.Languages, want)
	}
	for i, lang := range want {
		if cfg.Languages[i] != lang {
			t.Errorf("Languages[%d] = %q, want %q", i, cfg.Languages[i], lang)
		}
	}
	if cfg.ExtractionTimeout != 90*time.Second {
		t.Errorf("ExtractionTimeout = %v", cfg.ExtractionTimeout)
	}
	if cfg.BatchWorkers != 8 {
		t.Errorf("BatchWorkers = %d", cfg.BatchWorkers)
	}
	if cfg.MaxImageDimension != 2048 {
		t.Errorf("MaxImageDimension = %d", cfg.MaxImageDimension)
	}
	if cfg.DeskewThresholdDegrees != 1.25 {
		t.Errorf("DeskewThresholdDegrees = %g", cfg.DeskewThresholdDegrees)
	}
	if cfg.AdaptiveThreshold {
		t.Error("Expected adaptive threshold disabled")
	}
}

func TestLoadFromEnvInvalidValuesFallBack(t *testing.T) {
	t.Setenv("EXTRACTION_TIMEOUT", "not-a-duration")
	t.Setenv("BATCH_WORKERS", "plenty")
	t.Setenv("NOISE_REDUCTION", "maybe")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.ExtractionTimeout != 60*time.Second {
		t.Errorf("Expected default timeout, got %v", cfg.ExtractionTimeout)
	}
	if cfg.BatchWorkers != 4 {
		t.Errorf("Expected default workers, got %d", cfg.BatchWorkers)
	}
	if !cfg.NoiseReduction {
		t.Error("Expected default noise reduction")
	}
}

func TestLoadFromEnvRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"empty languages", "OCR_LANGUAGES", " , ,"},
		{"negative dimension", "MAX_IMAGE_DIMENSION", "-5"},
		{"negative workers", "BATCH_WORKERS", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadFromEnv(); err == nil {
				t.Errorf("Expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestDefaultMatchesEnvDefaults(t *testing.T) {
	cfg := Default()
	env, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.MaxImageDimension != env.MaxImageDimension ||
		cfg.ExtractionTimeout != env.ExtractionTimeout ||
		cfg.BatchWorkers != env.BatchWorkers {
		t.Error("Default() diverges from environment defaults")
	}
}
