package controller

import (
	"context"
	"mime/multipart"

	"github.com/ikkim/member-directory/internal/storage"
)

// Uploader validates multipart files and hands them to the configured store.
type Uploader struct {
	store  storage.FileStore
	limits storage.Limits
}

func NewUploader(store storage.FileStore, limits storage.Limits) *Uploader {
	return &Uploader{store: store, limits: limits}
}

// Check validates count and sizes without storing anything.
func (u *Uploader) Check(files ...*multipart.FileHeader) error {
	if err := u.limits.CheckCount(len(files)); err != nil {
		return err
	}
	for _, fh := range files {
		if err := u.limits.CheckSize(fh.Size); err != nil {
			return err
		}
		if err := storage.ValidateContentType(contentTypeOf(fh), storage.MediaContentTypes); err != nil {
			return err
		}
	}
	return nil
}

// Save stores one file and returns its relative path.
func (u *Uploader) Save(ctx context.Context, folder string, fh *multipart.FileHeader) (string, error) {
	if err := u.Check(fh); err != nil {
		return "", err
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return u.store.Save(ctx, folder, fh.Filename, f, fh.Size, contentTypeOf(fh))
}

// SaveAll validates every file before storing any of them.
func (u *Uploader) SaveAll(ctx context.Context, folder string, files []*multipart.FileHeader) ([]string, error) {
	if err := u.Check(files...); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		p, err := u.Save(ctx, folder, fh)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func contentTypeOf(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
