package driven

import (
	"context"
	"time"
)

// BlobStore stores media bytes under opaque keys. The pipeline consumes this
// contract; S3-compatible and filesystem implementations exist behind it.
type BlobStore interface {
	// Put uploads the file at localPath under key, overwriting any
	// previous object.
	Put(ctx context.Context, key, localPath string) error

	// GetReadURL returns a URL from which the blob can be read for at
	// least ttl.
	GetReadURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Delete removes the blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
