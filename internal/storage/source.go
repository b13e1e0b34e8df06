// Package storage resolves image references into local files the extraction
// pipeline can read. The pipeline itself only ever sees a local path;
// sources that fetch from elsewhere materialize the image into a temp file
// and hand back a cleanup func.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	apperrors "go-ocr-pipeline/internal/errors"
)

// Source materializes an image reference as a local file. Resolve returns
// the local path plus a cleanup func the caller must invoke on every exit
// path; for already-local references the cleanup is a no-op.
type Source interface {
	Resolve(ctx context.Context, ref string) (string, func(), error)
}

// LocalSource resolves plain filesystem paths. It is the default source.
type LocalSource struct{}

// NewLocalSource creates the default local-file source.
func NewLocalSource() *LocalSource {
	return &LocalSource{}
}

// Resolve checks the path exists and returns it unchanged.
func (s *LocalSource) Resolve(_ context.Context, ref string) (string, func(), error) {
	if _, err := os.Stat(ref); err != nil {
		return "", func() {}, apperrors.NewStorageError(fmt.Sprintf("image not found: %s", ref), err)
	}
	return ref, func() {}, nil
}

// tempArtifactPath builds a uniquely named temp file path carrying the
// original extension, so format detection by extension keeps working on the
// materialized copy.
func tempArtifactPath(ref string) string {
	ext := filepath.Ext(ref)
	if ext == "" {
		ext = ".png"
	}
	return filepath.Join(os.TempDir(), "ocr-fetch-"+uuid.NewString()+ext)
}
