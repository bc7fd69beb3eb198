package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/ikkim/member-directory/pkg/logger"
)

// LocalPrefix is the URL path local files are served under.
const LocalPrefix = "uploads"

type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Dir is the directory served at /uploads.
func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Save(ctx context.Context, folder, filename string, body io.Reader, size int64, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := ObjectKey(folder, filename)
	dst := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	written, err := io.Copy(f, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
		logger.Error("Failed to write uploaded file", err, map[string]interface{}{
			"key": key,
		})
		return "", err
	}

	logger.Debug("Stored file on local disk", map[string]interface{}{
		"key":          key,
		"bytes":        written,
		"content_type": contentType,
	})
	return path.Join(LocalPrefix, key), nil
}
