package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultMaxFileBytes    int64 = 10 << 20
	DefaultMaxGalleryFiles       = 10

	FolderProfiles   = "profiles"
	FolderBusinesses = "businesses"
	FolderGallery    = "gallery"
	FolderMisc       = "misc"
)

var (
	ErrFileTooLarge       = errors.New("file exceeds the maximum allowed size")
	ErrTooManyFiles       = errors.New("too many files")
	ErrInvalidFileType    = errors.New("file type is not allowed")
	ErrPresignUnsupported = errors.New("presigned uploads require the s3 driver")
)

// FileStore persists an uploaded file and returns its path relative to the
// media base URL.
type FileStore interface {
	Save(ctx context.Context, folder, filename string, body io.Reader, size int64, contentType string) (string, error)
}

// Presigner is implemented by stores that let clients upload directly.
type Presigner interface {
	Presign(ctx context.Context, filename, contentType, folder string) (*PresignedURLResponse, error)
}

type PresignedURLResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
}

// Limits bounds a single upload request.
type Limits struct {
	MaxFileBytes int64
	MaxFiles     int
}

// DefaultLimits is 10 MB per file and 10 files per gallery.
var DefaultLimits = Limits{MaxFileBytes: DefaultMaxFileBytes, MaxFiles: DefaultMaxGalleryFiles}

func (l Limits) CheckSize(size int64) error {
	if l.MaxFileBytes > 0 && size > l.MaxFileBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, size, l.MaxFileBytes)
	}
	return nil
}

func (l Limits) CheckCount(n int) error {
	if l.MaxFiles > 0 && n > l.MaxFiles {
		return fmt.Errorf("%w: %d files, limit %d", ErrTooManyFiles, n, l.MaxFiles)
	}
	return nil
}

var allowedFolders = map[string]bool{
	FolderProfiles:   true,
	FolderBusinesses: true,
	FolderGallery:    true,
	FolderMisc:       true,
}

// CleanFolder maps arbitrary client input onto a known folder.
func CleanFolder(folder string) string {
	folder = strings.ToLower(strings.TrimSpace(folder))
	if allowedFolders[folder] {
		return folder
	}
	return FolderMisc
}

// ObjectKey names a stored file "<folder>/<uuid><ext>". The original name
// only contributes its extension.
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	return path.Join(CleanFolder(folder), uuid.New().String()+ext)
}

// ValidateContentType checks contentType against allowed. An empty allowed
// list admits anything.
func ValidateContentType(contentType string, allowed []string) error {
	if len(allowed) == 0 {
		return nil
	}
	base := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	for _, a := range allowed {
		if strings.EqualFold(base, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidFileType, contentType)
}

// MediaContentTypes are accepted for profile images and gallery items.
var MediaContentTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
	"video/mp4",
	"video/quicktime",
	"video/webm",
	"application/pdf",
	"application/octet-stream",
}
