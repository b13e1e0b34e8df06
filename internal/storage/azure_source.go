package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	apperrors "go-ocr-pipeline/internal/errors"
)

// AzureSource materializes images stored as Azure blobs. References take
// the form of a blob URL whose path names the container and whose "blob"
// query parameter names the blob.
type AzureSource struct {
	client *azblob.Client
}

// NewAzureSource creates an Azure blob image source from shared-key
// credentials.
func NewAzureSource(accountName, accountKey string) (*AzureSource, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &AzureSource{client: client}, nil
}

// Resolve downloads the referenced blob into a uniquely named temp file and
// returns its path with a cleanup func that removes the file.
func (s *AzureSource) Resolve(ctx context.Context, blobURL string) (string, func(), error) {
	noop := func() {}

	parsedURL, err := url.Parse(blobURL)
	if err != nil {
		return "", noop, apperrors.NewStorageError("invalid blob URL", err)
	}
	if len(parsedURL.Path) < 2 {
		return "", noop, apperrors.NewStorageError("blob URL missing container", nil)
	}
	containerName := parsedURL.Path[1:]
	blobName := parsedURL.Query().Get("blob")
	if blobName == "" {
		return "", noop, apperrors.NewStorageError("blob URL missing blob name", nil)
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return "", noop, apperrors.NewStorageError("blob download failed", err)
	}
	retryReader := downloadResponse.Body
	defer retryReader.Close()

	path := tempArtifactPath(blobName)
	f, err := os.Create(path)
	if err != nil {
		return "", noop, apperrors.NewStorageError("failed to create temp artifact", err)
	}
	if _, err := io.Copy(f, retryReader); err != nil {
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
