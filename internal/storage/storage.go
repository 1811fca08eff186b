package storage

import (
	"context"
	"time"
)

// DefaultPresignedURLExpiry bounds how long clients can use a presigned URL.
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines object storage operations for progress photos. Image
// bytes move between the client and the bucket directly; this service only
// mints the URLs.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows a PUT
	// request uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows a GET
	// request downloading an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}
