package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/member-directory/internal/app/service"
	apperrors "github.com/ikkim/member-directory/internal/errors"
	"github.com/ikkim/member-directory/internal/middleware"
)

type FamilyController struct {
	familyService service.FamilyService
}

func NewFamilyController(familyService service.FamilyService) *FamilyController {
	return &FamilyController{familyService: familyService}
}

// Create adds family details to a member
// POST /api/family-details/:mid
func (ctrl *FamilyController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	mid, ok := parseIDParam(c, "mid")
	if !ok {
		return
	}
	if !requireSelfOrAdmin(c, mid) {
		return
	}

	var input service.FamilyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	family, err := ctrl.familyService.Create(mid, input)
	if err != nil {
		respondServiceError(c, log, err, "create family details")
		return
	}
	respondMutation(c, http.StatusCreated, "Family details added successfully", family)
}

// Update replaces family details
// PUT /api/family-details/update/:id
func (ctrl *FamilyController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if !middleware.IsAdmin(c) {
		family, err := ctrl.familyService.Get(id)
		if err != nil {
			respondServiceError(c, log, err, "family details")
			return
		}
		if !requireSelfOrAdmin(c, family.MemberID) {
			return
		}
	}

	var input service.FamilyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	family, err := ctrl.familyService.Update(id, input)
	if err != nil {
		respondServiceError(c, log, err, "update family details")
		return
	}
	respondMutation(c, http.StatusOK, "Family details updated successfully", family)
}
