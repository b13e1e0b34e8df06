package factory

import (
	"fmt"
	"os"

	"go-ocr-pipeline/internal/engine"
	"go-ocr-pipeline/internal/storage"
)

// EngineChainType represents different engine fallback chains
type EngineChainType string

const (
	// DefaultChain runs LSTM recognition, then legacy, then the structural heuristic
	DefaultChain EngineChainType = "default"
	// TesseractOnlyChain runs only the tesseract backends, no heuristic fallback
	TesseractOnlyChain EngineChainType = "tesseract-only"
	// HeuristicOnlyChain skips recognition entirely and reports structure detection
	HeuristicOnlyChain EngineChainType = "heuristic-only"
)

// SourceType represents different types of image sources
type SourceType string

const (
	// LocalSource for local file system paths
	LocalSource SourceType = "local"
	// HTTPSource for images fetched over HTTP
	HTTPSource SourceType = "http"
	// AzureSource for Azure blob storage
	AzureSource SourceType = "azure"
)

// EngineFactory creates engine fallback chains
type EngineFactory interface {
	CreateEngines(chainType EngineChainType, languages []string) ([]engine.Engine, error)
}

// SourceFactory creates image source implementations
type SourceFactory interface {
	CreateSource(sourceType SourceType) (storage.Source, error)
}

// engineFactory implements EngineFactory
type engineFactory struct{}

// NewEngineFactory creates a new engine factory
func NewEngineFactory() EngineFactory {
	return &engineFactory{}
}

// CreateEngines builds the ordered engine chain for the specified type
func (f *engineFactory) CreateEngines(chainType EngineChainType, languages []string) ([]engine.Engine, error) {
	switch chainType {
	case DefaultChain:
		return engine.DefaultChain(languages), nil
	case TesseractOnlyChain:
		return []engine.Engine{
			engine.NewLSTMEngine(languages),
			engine.NewLegacyEngine(languages),
		}, nil
	case HeuristicOnlyChain:
		return []engine.Engine{engine.NewStructuralHeuristic()}, nil
	default:
		return nil, fmt.Errorf("unsupported engine chain type: %s", chainType)
	}
}

// sourceFactory implements SourceFactory
type sourceFactory struct{}

// NewSourceFactory creates a new source factory
func NewSourceFactory() SourceFactory {
	return &sourceFactory{}
}

// CreateSource creates an image source based on the specified type. Azure
// sources read shared-key credentials from AZURE_STORAGE_ACCOUNT and
// AZURE_STORAGE_KEY.
func (f *sourceFactory) CreateSource(sourceType SourceType) (storage.Source, error) {
	switch sourceType {
	case LocalSource:
		return storage.NewLocalSource(), nil
	case HTTPSource:
		return storage.NewHTTPSource(), nil
	case AzureSource:
		account := os.Getenv("AZURE_STORAGE_ACCOUNT")
		key := os.Getenv("AZURE_STORAGE_KEY")
		if account == "" || key == "" {
			return nil, fmt.Errorf("azure source requires AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY")
		}
		return storage.NewAzureSource(account, key)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", sourceType)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	EngineFactory EngineFactory
	SourceFactory SourceFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory() *ComponentFactory {
	return &ComponentFactory{
		EngineFactory: NewEngineFactory(),
		SourceFactory: NewSourceFactory(),
	}
}
