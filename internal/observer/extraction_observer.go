package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ExtractionEvent describes one lifecycle event of a pipeline run
type ExtractionEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	ImagePath      string                 `json:"image_path"`
	Engine         string                 `json:"engine,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of extraction event
type EventType string

const (
	// ExtractionStarted when a pipeline run begins
	ExtractionStarted EventType = "extraction_started"
	// ExtractionCompleted when a pipeline run finishes successfully
	ExtractionCompleted EventType = "extraction_completed"
	// ExtractionFailed when a pipeline run yields a failed result
	ExtractionFailed EventType = "extraction_failed"
	// PreprocessingDegraded when a preprocessing stage failed and the run
	// continued on the grayscale fallback
	PreprocessingDegraded EventType = "preprocessing_degraded"
	// EngineFallback when a lower-priority backend produced the text
	EngineFallback EventType = "engine_fallback"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event ExtractionEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event ExtractionEvent)
}

// LoggingObserver logs extraction events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{logger: logger}
}

// OnEvent handles extraction events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event ExtractionEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"image_path":      event.ImagePath,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}
	if event.Engine != "" {
		fields["engine"] = event.Engine
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	switch event.EventType {
	case ExtractionStarted:
		o.logger.WithFields(fields).Debug("Text extraction started")
	case ExtractionCompleted:
		o.logger.WithFields(fields).Info("Text extraction completed")
	case ExtractionFailed:
		o.logger.WithFields(fields).Error("Text extraction failed")
	case PreprocessingDegraded:
		o.logger.WithFields(fields).Warn("Preprocessing degraded to grayscale fallback")
	case EngineFallback:
		o.logger.WithFields(fields).Warn("Recognition fell back to a lower-priority backend")
	default:
		o.logger.WithFields(fields).Info("Extraction event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects counters from extraction events
type MetricsObserver struct {
	mu                    sync.RWMutex
	totalExtractions      int64
	successfulExtractions int64
	failedExtractions     int64
	degradedRuns          int64
	totalProcessingTime   time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles extraction events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event ExtractionEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case ExtractionStarted:
		o.totalExtractions++
	case ExtractionCompleted:
		o.successfulExtractions++
		o.totalProcessingTime += event.ProcessingTime
	case ExtractionFailed:
		o.failedExtractions++
	case PreprocessingDegraded, EngineFallback:
		o.degradedRuns++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current counters
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingTime := time.Duration(0)
	if o.successfulExtractions > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(o.successfulExtractions)
	}

	return map[string]interface{}{
		"total_extractions":      o.totalExtractions,
		"successful_extractions": o.successfulExtractions,
		"failed_extractions":     o.failedExtractions,
		"degraded_runs":          o.degradedRuns,
		"total_processing_time":  o.totalProcessingTime,
		"avg_processing_time":    avgProcessingTime,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{observers: make([]Observer, 0)}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers an event to all observers synchronously, in
// subscription order. Observer panics are contained so a broken observer
// cannot abort an extraction.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event ExtractionEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, obs := range observers {
		func() {
			defer func() { _ = recover() }()
			obs.OnEvent(ctx, event)
		}()
	}
}
