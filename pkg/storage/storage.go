// Package storage is the blob storage boundary of the chat backend. Buckets
// are provisioned ahead of time (cmd/migrate); messages only ever hold URLs
// produced here, never the blobs themselves.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrBucketNotFound marks the "storage target does not exist" error class.
// It is the only class the uploader retries (once, into the fallback bucket).
var ErrBucketNotFound = errors.New("bucket not found")

// BlobStorage is implemented by storage backends. A signed URL, when the
// backend supports signing, takes precedence over the public URL.
type BlobStorage interface {
	Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) error
	PublicURL(bucket, path string) string
	SignedURL(bucket, path string, ttl time.Duration) (string, error)
}

// UploadError wraps an attachment upload failure. MissingTarget distinguishes
// the user-actionable "bucket must be provisioned" case from transient causes
// that are safe to retry from the caller.
type UploadError struct {
	Bucket        string
	MissingTarget bool
	Err           error
}

func (e *UploadError) Error() string {
	if e.MissingTarget {
		return fmt.Sprintf("upload to bucket %q: storage target missing: %v", e.Bucket, e.Err)
	}
	return fmt.Sprintf("upload to bucket %q: %v", e.Bucket, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
