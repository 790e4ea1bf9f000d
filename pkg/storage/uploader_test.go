package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlobStorage struct {
	buckets map[string]bool
	signed  bool
	uploads []string
	failAll error
}

func (f *fakeBlobStorage) Upload(_ context.Context, bucket, path string, _ io.Reader, _ string) error {
	if f.failAll != nil {
		return f.failAll
	}
	if !f.buckets[bucket] {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}
	f.uploads = append(f.uploads, bucket+"/"+path)
	return nil
}

func (f *fakeBlobStorage) PublicURL(bucket, path string) string {
	return "http://blob/" + bucket + "/" + path
}

func (f *fakeBlobStorage) SignedURL(bucket, path string, _ time.Duration) (string, error) {
	if !f.signed {
		return "", fmt.Errorf("url signing is not configured")
	}
	return "http://blob/signed/" + bucket + "/" + path, nil
}

func TestSanitizeBaseName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"passthrough", "plan_v2-final", "plan_v2-final"},
		{"spaces and symbols", "my file (1).png", "myfile1png"},
		{"unicode stripped", "тренировка", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeBaseName(tt.in))
		})
	}
}

func TestUploaderObjectPath(t *testing.T) {
	blob := &fakeBlobStorage{buckets: map[string]bool{"chat-files": true}}
	up := NewUploader(blob, "chat-images", "chat-files", "chat-files", time.Minute)
	up.now = func() time.Time { return time.Unix(1700000000, 0) }

	sender := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	receiver := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	_, err := up.Upload(context.Background(), UploadInput{
		SenderID:   sender,
		ReceiverID: receiver,
		FileName:   "session plan (v2).pdf",
		Kind:       "file",
		Body:       strings.NewReader("pdf"),
	})
	require.NoError(t, err)
	require.Len(t, blob.uploads, 1)
	assert.Equal(t,
		"chat-files/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222/sessionplanv2_1700000000.pdf",
		blob.uploads[0])
}

func TestUploaderNamelessVoiceNote(t *testing.T) {
	blob := &fakeBlobStorage{buckets: map[string]bool{"chat-files": true}}
	up := NewUploader(blob, "chat-images", "chat-files", "chat-files", time.Minute)
	up.now = func() time.Time { return time.Unix(1700000000, 0) }

	_, err := up.Upload(context.Background(), UploadInput{
		SenderID:   uuid.New(),
		ReceiverID: uuid.New(),
		Kind:       "voice",
		Body:       strings.NewReader("ogg"),
	})
	require.NoError(t, err)
	require.Len(t, blob.uploads, 1)
	assert.True(t, strings.HasSuffix(blob.uploads[0], "/voice_1700000000"))
}

func TestUploaderImageBucketSelection(t *testing.T) {
	blob := &fakeBlobStorage{buckets: map[string]bool{"chat-images": true}}
	up := NewUploader(blob, "chat-images", "chat-files", "chat-files", time.Minute)

	url, err := up.Upload(context.Background(), UploadInput{
		SenderID:   uuid.New(),
		ReceiverID: uuid.New(),
		FileName:   "pitch.jpg",
		Kind:       "image",
		Body:       strings.NewReader("jpg"),
	})
	require.NoError(t, err)
	assert.Contains(t, url, "/chat-images/")
}

func TestUploaderFallsBackOnceOnMissingBucket(t *testing.T) {
	blob := &fakeBlobStorage{buckets: map[string]bool{"profile-images": true}}
	up := NewUploader(blob, "chat-images", "chat-files", "profile-images", time.Minute)

	url, err := up.Upload(context.Background(), UploadInput{
		SenderID:   uuid.New(),
		ReceiverID: uuid.New(),
		FileName:   "pitch.jpg",
		Kind:       "image",
		Body:       strings.NewReader("jpg"),
	})
	require.NoError(t, err)
	assert.Contains(t, url, "/profile-images/")
	require.Len(t, blob.uploads, 1)
	assert.True(t, strings.HasPrefix(blob.uploads[0], "profile-images/"))
}

func TestUploaderFallbackAlsoMissing(t *testing.T) {
	blob := &fakeBlobStorage{buckets: map[string]bool{}}
	up := NewUploader(blob, "chat-images", "chat-files", "profile-images", time.Minute)

	_, err := up.Upload(context.Background(), UploadInput{
		SenderID:   uuid.New(),
		ReceiverID: uuid.New(),
		FileName:   "pitch.jpg",
		Kind:       "image",
		Body:       strings.NewReader("jpg"),
	})
	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.True(t, ue.MissingTarget)
	assert.Equal(t, "profile-images", ue.Bucket)
	assert.ErrorIs(t, err, ErrBucketNotFound)
}

func TestUploaderNonBucketErrorDoesNotRetry(t *testing.T) {
	boom := errors.New("disk full")
	blob := &fakeBlobStorage{buckets: map[string]bool{"chat-files": true}, failAll: boom}
	up := NewUploader(blob, "chat-images", "chat-files", "profile-images", time.Minute)

	_, err := up.Upload(context.Background(), UploadInput{
		SenderID:   uuid.New(),
		ReceiverID: uuid.New(),
		FileName:   "notes.txt",
		Kind:       "file",
		Body:       strings.NewReader("txt"),
	})
	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.False(t, ue.MissingTarget)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, blob.uploads)
}

func TestUploaderPrefersSignedURL(t *testing.T) {
	blob := &fakeBlobStorage{buckets: map[string]bool{"chat-files": true}, signed: true}
	up := NewUploader(blob, "chat-images", "chat-files", "chat-files", time.Minute)

	url, err := up.Upload(context.Background(), UploadInput{
		SenderID:   uuid.New(),
		ReceiverID: uuid.New(),
		FileName:   "notes.txt",
		Kind:       "file",
		Body:       strings.NewReader("txt"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://blob/signed/"))
}
