package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/member-directory/internal/errors"
	"github.com/ikkim/member-directory/internal/middleware"
	"github.com/ikkim/member-directory/internal/storage"
)

type UploadController struct {
	uploader  *Uploader
	presigner storage.Presigner
}

// NewUploadController accepts a nil presigner for the local driver.
func NewUploadController(uploader *Uploader, presigner storage.Presigner) *UploadController {
	return &UploadController{
		uploader:  uploader,
		presigner: presigner,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"`
}

// Upload stores a single file
// POST /api/upload
func (ctrl *UploadController) Upload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fh := formFile(c, "file")
	if fh == nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "file is required")
		return
	}

	path, err := ctrl.uploader.Save(c.Request.Context(), storage.CleanFolder(c.PostForm("folder")), fh)
	if err != nil {
		respondServiceError(c, log, err, "upload")
		return
	}

	log.Info("File uploaded", map[string]interface{}{
		"path":  path,
		"bytes": fh.Size,
	})
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"filePath": path,
	})
}

// GeneratePresignedURL lets clients upload straight to S3
// POST /api/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.presigner == nil {
		respondServiceError(c, log, storage.ErrPresignUnsupported, "presign")
		return
	}

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "filename and content_type are required")
		return
	}

	if err := storage.ValidateContentType(req.ContentType, storage.MediaContentTypes); err != nil {
		respondServiceError(c, log, err, "presign")
		return
	}

	resp, err := ctrl.presigner.Presign(c.Request.Context(), req.Filename, req.ContentType, req.Folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to generate presigned URL")
		return
	}

	respondData(c, resp)
}
