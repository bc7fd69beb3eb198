package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ikkim/member-directory/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimits(t *testing.T) {
	tests := []struct {
		name    string
		size    int64
		count   int
		wantErr error
	}{
		{"Within limits", 10 << 20, 10, nil},
		{"File too large", 10<<20 + 1, 1, ErrFileTooLarge},
		{"Too many files", 1, 11, ErrTooManyFiles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DefaultLimits.CheckSize(tt.size)
			if err == nil {
				err = DefaultLimits.CheckCount(tt.count)
			}
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.NoError(t, Limits{}.CheckSize(1<<40), "zero limits are unbounded")
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("gallery", "../../etc/Photo.JPG")
	assert.True(t, strings.HasPrefix(key, "gallery/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotContains(t, key, "..")

	assert.True(t, strings.HasPrefix(ObjectKey("../secrets", "a.png"), FolderMisc+"/"))
}

func TestValidateContentType(t *testing.T) {
	assert.NoError(t, ValidateContentType("image/png", MediaContentTypes))
	assert.NoError(t, ValidateContentType("IMAGE/JPEG; charset=binary", MediaContentTypes))
	assert.ErrorIs(t, ValidateContentType("text/html", MediaContentTypes), ErrInvalidFileType)
	assert.NoError(t, ValidateContentType("text/html", nil))
}

func TestLocalStorage_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	rel, err := store.Save(context.Background(), FolderProfiles, "me.png", strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "uploads/profiles/"))

	onDisk := filepath.Join(dir, strings.TrimPrefix(rel, LocalPrefix+"/"))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Save(ctx, FolderProfiles, "x.png", strings.NewReader(""), 0, "image/png")
	assert.ErrorIs(t, err, context.Canceled)
}

func newTestS3(t *testing.T, handler http.HandlerFunc) *S3Storage {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewS3Storage(context.Background(), config.S3Config{
		Region:          "ap-south-1",
		Bucket:          "media",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		BaseURL:         "https://cdn.example.com",
	}, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(srv.URL)
		o.UsePathStyle = true
	})
}

func TestS3Storage_Save(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
	)
	store := newTestS3(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		method, path = r.Method, r.URL.Path
		mu.Unlock()
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	})

	key, err := store.Save(context.Background(), FolderGallery, "clip.mp4", bytes.NewReader([]byte("video")), 5, "video/mp4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "gallery/"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/media/"+key, path)
}

func TestS3Storage_SaveError(t *testing.T) {
	store := newTestS3(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := store.Save(context.Background(), FolderGallery, "a.jpg", bytes.NewReader([]byte("x")), 1, "image/jpeg")
	assert.Error(t, err)
}

func TestS3Storage_Presign(t *testing.T) {
	store := newTestS3(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("presigning must not call the endpoint")
	})

	resp, err := store.Presign(context.Background(), "logo.png", "image/png", FolderBusinesses)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Key, "businesses/"))
	assert.Equal(t, "https://cdn.example.com/"+resp.Key, resp.FileURL)
	assert.Contains(t, resp.UploadURL, "X-Amz-Signature")
}
