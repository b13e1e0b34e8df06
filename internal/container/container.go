package container

import (
	"fmt"

	"go-ocr-pipeline/internal/config"
	"go-ocr-pipeline/internal/factory"
	"go-ocr-pipeline/internal/logger"
	"go-ocr-pipeline/internal/observer"
	"go-ocr-pipeline/internal/pipeline"
)

// Container holds all application dependencies
type Container struct {
	config   *config.Config
	metrics  *observer.MetricsObserver
	pipeline *pipeline.Pipeline
}

// NewContainer creates a new dependency injection container
func NewContainer(sourceType factory.SourceType, chainType factory.EngineChainType) (*Container, error) {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Build dependency graph
	components := factory.NewComponentFactory()
	source, err := components.SourceFactory.CreateSource(sourceType)
	if err != nil {
		return nil, err
	}
	engines, err := components.EngineFactory.CreateEngines(chainType, cfg.Languages)
	if err != nil {
		return nil, err
	}

	metrics := observer.NewMetricsObserver()
	p := pipeline.New(cfg,
		pipeline.WithEngines(engines...),
		pipeline.WithSource(source),
		pipeline.WithObserver(observer.NewLoggingObserver(logger.Logger)),
		pipeline.WithObserver(metrics),
	)

	return &Container{
		config:   cfg,
		metrics:  metrics,
		pipeline: p,
	}, nil
}

// Pipeline returns the extraction pipeline
func (c *Container) Pipeline() *pipeline.Pipeline {
	return c.pipeline
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Metrics returns the run metrics observer
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}
