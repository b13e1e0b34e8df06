package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all pipeline configuration. It is built once by the caller
// and passed by reference into each extraction call; no process-wide mutable
// state is kept.
type Config struct {
	// OCR backend settings
	Languages         []string
	ExtractionTimeout time.Duration

	// Batch settings
	BatchWorkers int

	// Preprocessing defaults (the richer per-stage config stays internal;
	// callers of the public API only get a boolean toggle)
	MaxImageDimension      int
	DeskewThresholdDegrees float64
	NoiseReduction         bool
	ContrastEnhancement    bool
	Sharpen                bool
	AdaptiveThreshold      bool
}

// LoadFromEnv builds a Config from environment variables with validated
// defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Languages:              splitLanguages(getEnvOrDefault("OCR_LANGUAGES", "eng")),
		ExtractionTimeout:      parseDurationOrDefault("EXTRACTION_TIMEOUT", 60*time.Second),
		BatchWorkers:           int(parseIntOrDefault("BATCH_WORKERS", 4)),
		MaxImageDimension:      int(parseIntOrDefault("MAX_IMAGE_DIMENSION", 3000)),
		DeskewThresholdDegrees: parseFloatOrDefault("DESKEW_THRESHOLD_DEGREES", 0.5),
		NoiseReduction:         parseBoolOrDefault("NOISE_REDUCTION", true),
		ContrastEnhancement:    parseBoolOrDefault("CONTRAST_ENHANCEMENT", true),
		Sharpen:                parseBoolOrDefault("SHARPEN", true),
		AdaptiveThreshold:      parseBoolOrDefault("ADAPTIVE_THRESHOLD", true),
	}

	if len(cfg.Languages) == 0 {
		return nil, fmt.Errorf("OCR_LANGUAGES must name at least one language")
	}
	if cfg.MaxImageDimension <= 0 {
		return nil, fmt.Errorf("MAX_IMAGE_DIMENSION must be > 0 (got %d)", cfg.MaxImageDimension)
	}
	if cfg.DeskewThresholdDegrees <= 0 {
		return nil, fmt.Errorf("DESKEW_THRESHOLD_DEGREES must be > 0 (got %g)", cfg.DeskewThresholdDegrees)
	}
	if cfg.BatchWorkers <= 0 {
		return nil, fmt.Errorf("BATCH_WORKERS must be > 0 (got %d)", cfg.BatchWorkers)
	}
	if cfg.ExtractionTimeout <= 0 {
		return nil, fmt.Errorf("EXTRACTION_TIMEOUT must be > 0 (got %s)", cfg.ExtractionTimeout)
	}
	return cfg, nil
}

// Default returns the built-in configuration without consulting the
// environment. Defaults produce a deterministic pipeline for a given input
// raster.
func Default() *Config {
	return &Config{
		Languages:              []string{"eng"},
		ExtractionTimeout:      60 * time.Second,
		BatchWorkers:           4,
		MaxImageDimension:      3000,
		DeskewThresholdDegrees: 0.5,
		NoiseReduction:         true,
		ContrastEnhancement:    true,
		Sharpen:                true,
		AdaptiveThreshold:      true,
	}
}

func splitLanguages(value string) []string {
	parts := strings.Split(value, ",")
	langs := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			langs = append(langs, trimmed)
		}
	}
	return langs
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
