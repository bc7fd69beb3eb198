package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/member-directory/internal/app/service"
	"github.com/ikkim/member-directory/internal/directory"
	apperrors "github.com/ikkim/member-directory/internal/errors"
	"github.com/ikkim/member-directory/internal/middleware"
)

type DirectoryController struct {
	directoryService service.DirectoryService
}

func NewDirectoryController(directoryService service.DirectoryService) *DirectoryController {
	return &DirectoryController{directoryService: directoryService}
}

// Browse runs the viewer-scoped directory pipeline
// GET /api/directory?field=&q=&pages=
func (ctrl *DirectoryController) Browse(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	viewerID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	field, err := directory.ParseFieldGroup(c.Query("field"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	pages := 1
	if raw := c.Query("pages"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "pages must be a positive integer")
			return
		}
		pages = n
	}

	result, err := ctrl.directoryService.Browse(viewerID, directory.Query{Field: field, Text: c.Query("q")}, pages)
	if err != nil {
		respondServiceError(c, log, err, "directory")
		return
	}
	respondData(c, result)
}
