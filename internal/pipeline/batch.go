package pipeline

import (
	"context"
	"path/filepath"
	"sync"

	"go-ocr-pipeline/internal/logger"
	"go-ocr-pipeline/pkg/models"
)

// BatchProcess runs the full single-image pipeline over every path on a
// bounded worker pool. Items are fully isolated: one item's failure occupies
// its own slot and never affects siblings, results preserve input order, and
// the batch length always equals the input length.
func (p *Pipeline) BatchProcess(ctx context.Context, imagePaths []string, preprocessEnabled bool) models.BatchResult {
	results := make(models.BatchResult, len(imagePaths))
	if len(imagePaths) == 0 {
		return results
	}

	pool := NewWorkerPool(p.cfg.BatchWorkers)
	pool.Start()
	defer pool.Close()

	var wg sync.WaitGroup
	for i, imagePath := range imagePaths {
		i, imagePath := i, imagePath
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			logger.WithFields(logFields(imagePath, preprocessEnabled)).Debug("processing batch item")

			item := *p.ExtractText(ctx, imagePath, preprocessEnabled)
			item.ImagePath = imagePath
			item.ImageName = filepath.Base(imagePath)
			results[i] = &item
		})
	}
	wg.Wait()

	return results
}
