package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/member-directory/internal/app/service"
	apperrors "github.com/ikkim/member-directory/internal/errors"
	"github.com/ikkim/member-directory/internal/middleware"
	"github.com/ikkim/member-directory/internal/storage"
	"github.com/ikkim/member-directory/pkg/logger"
)

// respondData writes the read envelope.
func respondData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondMutation writes the write envelope. data may be nil.
func respondMutation(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// requireSelfOrAdmin lets admins and member mid through.
func requireSelfOrAdmin(c *gin.Context, mid uint) bool {
	if middleware.IsAdmin(c) || middleware.IsMember(c, mid) {
		return true
	}
	apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You can only change your own records")
	return false
}

// errorMapping pairs a service sentinel with its HTTP response.
type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var serviceErrors = []errorMapping{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password"},
	{service.ErrEmailAlreadyExists, http.StatusConflict, apperrors.AuthEmailAlreadyExists, "Email is already registered"},
	{service.ErrMemberNotFound, http.StatusNotFound, apperrors.MemberNotFound, "Member not found"},
	{service.ErrInvalidStatus, http.StatusBadRequest, apperrors.MemberInvalidStatus, "Status must be Pending, Approved or Rejected"},
	{service.ErrStatusNotAllowed, http.StatusForbidden, apperrors.AuthzAdminOnly, "Only admins can change member status"},
	{service.ErrBusinessNotFound, http.StatusNotFound, apperrors.BusinessNotFound, "Business profile not found"},
	{service.ErrFamilyNotFound, http.StatusNotFound, apperrors.FamilyNotFound, "Family details not found"},
	{service.ErrFamilyAlreadyExists, http.StatusConflict, apperrors.FamilyAlreadyExists, "Family details already exist for this member"},
	{service.ErrRatingNotFound, http.StatusNotFound, apperrors.RatingNotFound, "Rating not found"},
	{service.ErrInvalidRatingValue, http.StatusBadRequest, apperrors.RatingInvalidValue, "Rating must be between 0 and 5"},
	{service.ErrInvalidRatingStatus, http.StatusBadRequest, apperrors.RatingInvalidStatus, "Status must be pending, approved or rejected"},
	{service.ErrSelfView, http.StatusBadRequest, apperrors.ValidationInvalidInput, "You cannot record a view of your own profile"},
	{storage.ErrFileTooLarge, http.StatusBadRequest, apperrors.UploadFileTooLarge, "File exceeds the 10MB limit"},
	{storage.ErrTooManyFiles, http.StatusBadRequest, apperrors.UploadTooManyFiles, "Too many files"},
	{storage.ErrInvalidFileType, http.StatusBadRequest, apperrors.UploadInvalidFileType, "File type is not allowed"},
	{storage.ErrPresignUnsupported, http.StatusBadRequest, apperrors.UploadNotSupported, "Presigned uploads are not available"},
}

// respondServiceError maps known service errors and falls back to the
// database error parser.
func respondServiceError(c *gin.Context, log *logger.Logger, err error, context string) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		log.Warn("Validation failed", map[string]interface{}{
			"context": context,
			"fields":  verr.Fields,
		})
		apperrors.RespondWithValidationError(c, verr.Fields)
		return
	}

	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			log.Warn("Request rejected", map[string]interface{}{
				"context": context,
				"error":   err.Error(),
			})
			apperrors.RespondWithError(c, m.status, m.code, m.message)
			return
		}
	}

	log.Error("Request failed", err, map[string]interface{}{
		"context": context,
	})
	apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
}
