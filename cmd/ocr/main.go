package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-ocr-pipeline/internal/container"
	"go-ocr-pipeline/internal/factory"
	"go-ocr-pipeline/pkg/evaluation"
	"go-ocr-pipeline/pkg/models"

	"github.com/sirupsen/logrus"
)

func main() {
	var (
		preprocessEnabled = flag.Bool("preprocess", true, "run the preprocessing chain before recognition")
		sourceType        = flag.String("source", "local", "image source: local, http or azure")
		chainType         = flag.String("engines", "default", "engine chain: default, tesseract-only or heuristic-only")
		expected          = flag.String("expected", "", "ground-truth text to score the extraction against")
		showInfo          = flag.Bool("info", false, "print engine and capability information and exit")
	)
	flag.Parse()

	// Setup structured logging
	logrus.SetFormatter(&logrus.JSONFormatter{})

	// Initialize dependency injection container
	c, err := container.NewContainer(factory.SourceType(*sourceType), factory.EngineChainType(*chainType))
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	if *showInfo {
		writeJSON(c.Pipeline().EngineInfo())
		return
	}

	images := flag.Args()
	if len(images) == 0 {
		fmt.Fprintln(os.Stderr, "usage: ocr [flags] image [image ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	// Cancel in-flight extractions on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(images) == 1 {
		result := c.Pipeline().ExtractText(ctx, images[0], *preprocessEnabled)
		writeJSON(singleOutput(result, *expected))
		exitFor(models.BatchResult{result})
		return
	}

	results := c.Pipeline().BatchProcess(ctx, images, *preprocessEnabled)
	writeJSON(results)
	logrus.WithFields(logrus.Fields{"metrics": c.Metrics().GetMetrics()}).Info("Batch complete")
	exitFor(results)
}

// singleOutput attaches an accuracy score when ground truth was supplied.
func singleOutput(result *models.ExtractionResult, expected string) interface{} {
	if expected == "" {
		return result
	}
	return struct {
		*models.ExtractionResult
		Accuracy evaluation.Accuracy `json:"accuracy"`
	}{result, evaluation.Evaluate(expected, result.Text)}
}

func writeJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logrus.WithError(err).Fatal("Failed to encode output")
	}
}

// exitFor maps results to the process exit code: zero only when every
// extraction succeeded.
func exitFor(results models.BatchResult) {
	for _, r := range results {
		if r == nil || !r.Success {
			os.Exit(1)
		}
	}
}
