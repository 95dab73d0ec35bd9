package storage

import (
	"context"
	"fmt"
	"image"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// AzureStorage reads source frames from and writes results to a blob
// container.
type AzureStorage struct {
	client    *azblob.Client
	container string
	maxPixels int64
}

// NewAzureStorage creates a shared key client for the given account. Results
// are written to the container; locations without one read from it too.
func NewAzureStorage(accountName, accountKey, container string) (*AzureStorage, error) {
	if container == "" {
		return nil, fmt.Errorf("%w: container name is required", ErrInvalidLocation)
	}
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure client: %w", err)
	}

	return &AzureStorage{client: client, container: container}, nil
}

// SetMaxPixels caps the declared size of downloaded images
func (s *AzureStorage) SetMaxPixels(n int64) {
	if n >= 0 {
		s.maxPixels = n
	}
}

// FetchImage downloads and decodes a blob. The location is either a blob URL
// (https://account.blob.core.windows.net/container/name) or a blob name in
// the configured container.
func (s *AzureStorage) FetchImage(ctx context.Context, location string) (image.Image, error) {
	container, name, err := parseBlobLocation(location, s.container)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.DownloadStream(ctx, container, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, container, name)
		}
		return nil, fmt.Errorf("download failed: %w", err)
	}
	body := resp.Body
	defer body.Close()

	img, _, err := DecodeImageLimited(body, s.maxPixels)
	return img, err
}

// Store uploads data as a block blob in the configured container
func (s *AzureStorage) Store(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	name = strings.TrimLeft(name, "/")
	if name == "" {
		return "", fmt.Errorf("%w: empty blob name", ErrInvalidLocation)
	}

	_, err := s.client.UploadBuffer(ctx, s.container, name, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	return strings.TrimRight(s.client.URL(), "/") + "/" + s.container + "/" + name, nil
}

func parseBlobLocation(location, defaultContainer string) (container, name string, err error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", "", fmt.Errorf("%w: empty blob location", ErrInvalidLocation)
	}

	if !strings.Contains(location, "://") {
		return defaultContainer, strings.TrimLeft(location, "/"), nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	parts := strings.SplitN(strings.TrimLeft(u.Path, "/"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: blob URL must name a container and a blob: %s", ErrInvalidLocation, location)
	}
	return parts[0], parts[1], nil
}
