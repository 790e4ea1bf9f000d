package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LocalStorage stores blobs on disk under basePath/<bucket>/<path>. A bucket
// is just a provisioned subdirectory; uploading into an unprovisioned bucket
// fails with ErrBucketNotFound, which mirrors the hosted platform's
// "Bucket not found" behavior instead of silently creating targets.
type LocalStorage struct {
	basePath   string
	baseURL    string
	signSecret string
}

func NewLocalStorage(basePath, baseURL, signSecret string) *LocalStorage {
	return &LocalStorage{
		basePath:   basePath,
		baseURL:    strings.TrimRight(baseURL, "/"),
		signSecret: signSecret,
	}
}

// Provision creates a bucket directory. Called from cmd/migrate, never from
// the request path.
func (s *LocalStorage) Provision(bucket string) error {
	return os.MkdirAll(filepath.Join(s.basePath, bucket), 0755)
}

func (s *LocalStorage) Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) error {
	bucketDir := filepath.Join(s.basePath, bucket)
	if info, err := os.Stat(bucketDir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}

	dstPath := filepath.Join(bucketDir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return err
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		// Remove the partial object; orphans from interrupted copies are an
		// accepted limitation, but this one we can clean up cheaply.
		_ = os.Remove(dstPath)
		return err
	}
	return nil
}

func (s *LocalStorage) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/uploads/%s/%s", s.baseURL, bucket, path)
}

// SignedURL issues a time-limited download URL backed by a JWT token that the
// file controller redeems. Returns an error when no signing secret is
// configured, in which case callers fall back to PublicURL.
func (s *LocalStorage) SignedURL(bucket, path string, ttl time.Duration) (string, error) {
	if s.signSecret == "" {
		return "", fmt.Errorf("url signing is not configured")
	}

	claims := jwt.MapClaims{
		"bucket": bucket,
		"path":   path,
		"exp":    time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.signSecret))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/api/files/signed?token=%s", s.baseURL, token), nil
}

// ResolveSigned validates a signed-download token and returns the filesystem
// path of the object it references.
func (s *LocalStorage) ResolveSigned(tokenStr string) (string, error) {
	if s.signSecret == "" {
		return "", fmt.Errorf("url signing is not configured")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(s.signSecret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid download token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid download token claims")
	}
	bucket, _ := claims["bucket"].(string)
	path, _ := claims["path"].(string)
	if bucket == "" || path == "" {
		return "", fmt.Errorf("invalid download token claims")
	}

	full := filepath.Join(s.basePath, bucket, filepath.FromSlash(path))
	// Tokens are signed server-side, but keep traversal out anyway.
	if !strings.HasPrefix(full, filepath.Clean(s.basePath)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid object path")
	}
	return full, nil
}
