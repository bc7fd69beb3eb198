package controller

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadController_Upload(t *testing.T) {
	env := setupControllerTest(t)
	member := env.register(t, "Anand", "anand@example.com", model.StatusApproved)
	token := memberToken(t, member)

	t.Run("stores the file", func(t *testing.T) {
		w := env.doMultipart(t, http.MethodPost, "/api/upload", token, map[string]string{"folder": "gallery"},
			formFileSpec{field: "file", name: "clip.mp4", contentType: "video/mp4", content: []byte("mp4")})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		body := decodeBody(t, w)
		assert.Equal(t, true, body["success"])
		p := body["filePath"].(string)
		assert.True(t, strings.HasPrefix(p, "uploads/gallery/"))
		assert.True(t, strings.HasSuffix(p, ".mp4"))

		stored, err := os.ReadFile(filepath.Join(env.uploads, strings.TrimPrefix(p, "uploads/")))
		require.NoError(t, err)
		assert.Equal(t, []byte("mp4"), stored)
	})

	t.Run("unknown folder falls back to misc", func(t *testing.T) {
		w := env.doMultipart(t, http.MethodPost, "/api/upload", token, map[string]string{"folder": "../etc"},
			formFileSpec{field: "file", name: "a.png", contentType: "image/png", content: []byte("png")})
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.HasPrefix(decodeBody(t, w)["filePath"].(string), "uploads/misc/"))
	})

	t.Run("too large", func(t *testing.T) {
		big := bytes.Repeat([]byte("x"), int(storage.DefaultMaxFileBytes)+1)
		w := env.doMultipart(t, http.MethodPost, "/api/upload", token, nil,
			formFileSpec{field: "file", name: "big.jpg", contentType: "image/jpeg", content: big})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "UPLOAD_FILE_TOO_LARGE", decodeBody(t, w)["error"])
	})

	t.Run("missing file", func(t *testing.T) {
		w := env.doMultipart(t, http.MethodPost, "/api/upload", token, map[string]string{"folder": "misc"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_REQUIRED", decodeBody(t, w)["error"])
	})

	t.Run("requires login", func(t *testing.T) {
		w := env.doMultipart(t, http.MethodPost, "/api/upload", "", nil,
			formFileSpec{field: "file", name: "a.png", contentType: "image/png", content: []byte("png")})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUploadController_PresignedURLNeedsS3(t *testing.T) {
	env := setupControllerTest(t)
	member := env.register(t, "Anand", "anand@example.com", model.StatusApproved)

	w := env.doJSON(http.MethodPost, "/api/upload/presigned-url", memberToken(t, member), GeneratePresignedURLRequest{
		Filename:    "a.jpg",
		ContentType: "image/jpeg",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UPLOAD_NOT_SUPPORTED", decodeBody(t, w)["error"])
}
