package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var baseNameSanitizer = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SanitizeBaseName strips every character outside [A-Za-z0-9_-].
func SanitizeBaseName(name string) string {
	return baseNameSanitizer.ReplaceAllString(name, "")
}

// UploadInput describes one attachment upload. FileName is the user-facing
// name (may be empty for voice notes and camera images); Kind selects the
// target bucket.
type UploadInput struct {
	SenderID    uuid.UUID
	ReceiverID  uuid.UUID
	FileName    string
	ContentType string
	Kind        string // "image", "voice" or "file"
	Body        io.Reader
}

// Uploader applies the attachment upload policy: object naming, bucket
// selection by kind, and one fallback retry when the primary bucket is
// missing. It is the single implementation of what used to be duplicated
// per call site.
type Uploader struct {
	store          BlobStorage
	imageBucket    string
	fileBucket     string
	fallbackBucket string
	signTTL        time.Duration
	now            func() time.Time
}

func NewUploader(store BlobStorage, imageBucket, fileBucket, fallbackBucket string, signTTL time.Duration) *Uploader {
	return &Uploader{
		store:          store,
		imageBucket:    imageBucket,
		fileBucket:     fileBucket,
		fallbackBucket: fallbackBucket,
		signTTL:        signTTL,
		now:            time.Now,
	}
}

// Upload writes the attachment and returns a fetchable URL, preferring a
// signed URL when the backend can issue one. On ErrBucketNotFound it retries
// exactly once against the fallback bucket; any other failure propagates
// immediately as *UploadError.
func (u *Uploader) Upload(ctx context.Context, in UploadInput) (string, error) {
	bucket := u.fileBucket
	if in.Kind == "image" {
		bucket = u.imageBucket
	}

	path := u.objectPath(in)

	err := u.store.Upload(ctx, bucket, path, in.Body, in.ContentType)
	if err == nil {
		return u.url(bucket, path), nil
	}
	if !errors.Is(err, ErrBucketNotFound) {
		return "", &UploadError{Bucket: bucket, Err: err}
	}
	if u.fallbackBucket == "" || u.fallbackBucket == bucket {
		return "", &UploadError{Bucket: bucket, MissingTarget: true, Err: err}
	}

	// The body reader was not consumed: Upload fails the bucket check before
	// reading. Retry once into the fallback target.
	if err := u.store.Upload(ctx, u.fallbackBucket, path, in.Body, in.ContentType); err != nil {
		missing := errors.Is(err, ErrBucketNotFound)
		return "", &UploadError{Bucket: u.fallbackBucket, MissingTarget: missing, Err: err}
	}
	return u.url(u.fallbackBucket, path), nil
}

// objectPath builds sender/receiver/<sanitized-base>_<unix-ts><ext>. The
// timestamp is the uniqueness token: re-uploads always create new objects,
// and concurrent uploads from one sender never collide on path.
func (u *Uploader) objectPath(in UploadInput) string {
	name := in.FileName
	if name == "" {
		name = in.Kind
	}
	ext := filepath.Ext(name)
	base := SanitizeBaseName(strings.TrimSuffix(name, ext))
	if base == "" {
		base = in.Kind
	}

	object := fmt.Sprintf("%s_%d%s", base, u.now().Unix(), ext)
	return fmt.Sprintf("%s/%s/%s", in.SenderID, in.ReceiverID, object)
}

func (u *Uploader) url(bucket, path string) string {
	if signed, err := u.store.SignedURL(bucket, path, u.signTTL); err == nil {
		return signed
	}
	return u.store.PublicURL(bucket, path)
}
