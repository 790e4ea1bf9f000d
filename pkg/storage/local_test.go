package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T, buckets ...string) *LocalStorage {
	t.Helper()
	ls := NewLocalStorage(t.TempDir(), "http://localhost:3000", "test-sign-secret")
	for _, b := range buckets {
		require.NoError(t, ls.Provision(b))
	}
	return ls
}

func TestLocalStorageUpload(t *testing.T) {
	ls := newTestStorage(t, "chat-images")

	err := ls.Upload(context.Background(), "chat-images", "a/b/pic_1.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(ls.basePath, "chat-images", "a/b/pic_1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalStorageUploadMissingBucket(t *testing.T) {
	ls := newTestStorage(t)

	err := ls.Upload(context.Background(), "nope", "a/b/x.txt", strings.NewReader("x"), "text/plain")
	assert.ErrorIs(t, err, ErrBucketNotFound)
}

func TestLocalStoragePublicURL(t *testing.T) {
	ls := newTestStorage(t, "chat-files")

	got := ls.PublicURL("chat-files", "s/r/doc_9.pdf")
	assert.Equal(t, "http://localhost:3000/uploads/chat-files/s/r/doc_9.pdf", got)
}

func TestLocalStorageSignedURLRoundTrip(t *testing.T) {
	ls := newTestStorage(t, "chat-files")

	url, err := ls.SignedURL("chat-files", "s/r/doc_9.pdf", time.Minute)
	require.NoError(t, err)
	require.Contains(t, url, "/api/files/signed?token=")

	token := url[strings.Index(url, "token=")+len("token="):]
	full, err := ls.ResolveSigned(token)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ls.basePath, "chat-files", "s/r/doc_9.pdf"), full)
}

func TestLocalStorageSignedURLRejectsTraversal(t *testing.T) {
	ls := newTestStorage(t, "chat-files")

	url, err := ls.SignedURL("chat-files", "../../etc/passwd", time.Minute)
	require.NoError(t, err)

	token := url[strings.Index(url, "token=")+len("token="):]
	_, err = ls.ResolveSigned(token)
	assert.Error(t, err)
}

func TestLocalStorageSignedURLWithoutSecret(t *testing.T) {
	ls := NewLocalStorage(t.TempDir(), "http://localhost:3000", "")

	_, err := ls.SignedURL("chat-files", "s/r/doc.pdf", time.Minute)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrBucketNotFound))
}
