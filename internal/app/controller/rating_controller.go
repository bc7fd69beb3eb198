package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/internal/app/service"
	apperrors "github.com/ikkim/member-directory/internal/errors"
	"github.com/ikkim/member-directory/internal/middleware"
)

type RatingController struct {
	ratingService service.RatingService
}

func NewRatingController(ratingService service.RatingService) *RatingController {
	return &RatingController{ratingService: ratingService}
}

type CreateRatingRequest struct {
	BusinessID uint     `json:"business_id" binding:"required"`
	Rating     *float64 `json:"rating" binding:"required"`
	Message    string   `json:"message"`
}

type RatingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListAll returns every rating for moderation
// GET /api/ratings/all
func (ctrl *RatingController) ListAll(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ratings, err := ctrl.ratingService.ListAll()
	if err != nil {
		respondServiceError(c, log, err, "fetch ratings")
		return
	}
	respondData(c, ratings)
}

// ListByBusiness returns a business's ratings with their average
// GET /api/ratings/:businessId
func (ctrl *RatingController) ListByBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	businessID, ok := parseIDParam(c, "businessId")
	if !ok {
		return
	}

	ratings, summary, err := ctrl.ratingService.ListByBusiness(businessID)
	if err != nil {
		respondServiceError(c, log, err, "fetch ratings")
		return
	}
	respondData(c, gin.H{
		"ratings": ratings,
		"average": summary.Average,
		"count":   summary.Count,
	})
}

// Create stores a rating authored by the caller
// POST /api/ratings
func (ctrl *RatingController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	authorID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "business_id and rating are required")
		return
	}

	rating, err := ctrl.ratingService.Create(authorID, req.BusinessID, *req.Rating, req.Message)
	if err != nil {
		respondServiceError(c, log, err, "create rating")
		return
	}
	respondMutation(c, http.StatusCreated, "Rating submitted successfully", rating)
}

// ChangeStatus moderates a rating
// PATCH /api/:id/status
func (ctrl *RatingController) ChangeStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RatingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "status is required")
		return
	}

	rating, err := ctrl.ratingService.ChangeStatus(id, model.RatingStatus(req.Status))
	if err != nil {
		respondServiceError(c, log, err, "update rating")
		return
	}
	respondMutation(c, http.StatusOK, "Rating status updated successfully", rating)
}
