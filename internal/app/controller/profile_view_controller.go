package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/member-directory/internal/app/service"
	apperrors "github.com/ikkim/member-directory/internal/errors"
	"github.com/ikkim/member-directory/internal/middleware"
	"github.com/ikkim/member-directory/internal/websocket"
)

type ProfileViewController struct {
	profileViewService service.ProfileViewService
	hub                *websocket.Hub
}

func NewProfileViewController(profileViewService service.ProfileViewService, hub *websocket.Hub) *ProfileViewController {
	return &ProfileViewController{
		profileViewService: profileViewService,
		hub:                hub,
	}
}

type RecordViewRequest struct {
	ViewedID uint `json:"viewed_mid" binding:"required"`
}

// Record stores a profile view and notifies the owner
// POST /api/profileview
func (ctrl *ProfileViewController) Record(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	viewerID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req RecordViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "viewed_mid is required")
		return
	}

	if err := ctrl.profileViewService.Record(viewerID, req.ViewedID); err != nil {
		respondServiceError(c, log, err, "record profile view")
		return
	}
	respondMutation(c, http.StatusCreated, "Profile view recorded", nil)
}

// Connect upgrades to a websocket carrying profile-view notifications
// GET /api/ws
func (ctrl *ProfileViewController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	memberID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := websocket.Serve(ctrl.hub, c.Writer, c.Request, memberID); err != nil {
		// The upgrader has already written the HTTP error.
		log.Warn("WebSocket upgrade failed", map[string]interface{}{
			"member_id": memberID,
			"error":     err.Error(),
		})
	}
}
