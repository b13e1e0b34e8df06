package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	apperrors "go-ocr-pipeline/internal/errors"
)

// HTTPSource fetches images over HTTP(S) into a local temp file. Transient
// failures are retried with a linear backoff; 4xx responses fail
// immediately.
type HTTPSource struct {
	client *http.Client
}

// NewHTTPSource creates an HTTP image source tuned for single image
// downloads.
func NewHTTPSource() *HTTPSource {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &HTTPSource{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

// Resolve downloads the image behind imageURL into a uniquely named temp
// file and returns its path with a cleanup func that removes the file.
func (s *HTTPSource) Resolve(ctx context.Context, imageURL string) (string, func(), error) {
	noop := func() {}

	resp, err := s.fetchWithRetry(ctx, imageURL)
	if err != nil {
		return "", noop, apperrors.NewStorageError("failed to fetch image", err)
	}
	defer resp.Body.Close()

	path := tempArtifactPath(imageURL)
	f, err := os.Create(path)
	if err != nil {
		return "", noop, apperrors.NewStorageError("failed to create temp artifact", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return "", noop, apperrors.NewStorageError("failed to write temp artifact", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", noop, apperrors.NewStorageError("failed to close temp artifact", err)
	}

	return path, func() { os.Remove(path) }, nil
}

func (s *HTTPSource) fetchWithRetry(ctx context.Context, imageURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")
	req.Header.Set("User-Agent", "go-ocr-pipeline/1.0")

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		resp, err := s.client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else {
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status code %d", resp.StatusCode)
			// 4xx client errors are non-retryable
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				break
			}
		}

		if attempt < 2 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt+1) * time.Second):
			}
		}
	}
	return nil, fmt.Errorf("failed to fetch image after 3 attempts: %w", lastErr)
}
