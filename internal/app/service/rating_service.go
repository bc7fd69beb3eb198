package service

import (
	"errors"
	"strings"

	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/internal/app/repository"
	"github.com/ikkim/member-directory/internal/directory"
	"github.com/ikkim/member-directory/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrRatingNotFound      = errors.New("rating not found")
	ErrInvalidRatingValue  = errors.New("rating must be between 0 and 5")
	ErrInvalidRatingStatus = errors.New("invalid rating status")
)

// RatingSummary is the aggregate shown next to a business.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type RatingService interface {
	ListAll() ([]model.Rating, error)
	ListByBusiness(businessID uint) ([]model.Rating, RatingSummary, error)
	Create(authorID, businessID uint, value float64, message string) (*model.Rating, error)
	ChangeStatus(id uint, status model.RatingStatus) (*model.Rating, error)
	Fetcher() directory.RatingsFetcher
}

type ratingService struct {
	ratingRepo   repository.RatingRepository
	businessRepo repository.BusinessRepository
}

func NewRatingService(ratingRepo repository.RatingRepository, businessRepo repository.BusinessRepository) RatingService {
	return &ratingService{
		ratingRepo:   ratingRepo,
		businessRepo: businessRepo,
	}
}

func (s *ratingService) ListAll() ([]model.Rating, error) {
	return s.ratingRepo.FindAll()
}

func (s *ratingService) ListByBusiness(businessID uint) ([]model.Rating, RatingSummary, error) {
	ratings, err := s.ratingRepo.FindByBusinessID(businessID)
	if err != nil {
		return nil, RatingSummary{}, err
	}

	values := make([]float64, len(ratings))
	for i, r := range ratings {
		values[i] = r.Rating
	}
	avg, count := directory.Summarize(values)
	return ratings, RatingSummary{Average: avg, Count: count}, nil
}

func (s *ratingService) Create(authorID, businessID uint, value float64, message string) (*model.Rating, error) {
	if value < model.MinRating || value > model.MaxRating {
		return nil, ErrInvalidRatingValue
	}

	if _, err := s.businessRepo.FindByID(businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	rating := &model.Rating{
		BusinessID: businessID,
		MemberID:   authorID,
		Rating:     value,
		Message:    strings.TrimSpace(message),
		Status:     model.RatingPending,
	}
	if err := s.ratingRepo.Create(rating); err != nil {
		return nil, err
	}

	logger.Info("Rating submitted", map[string]interface{}{
		"rating_id":   rating.ID,
		"business_id": businessID,
		"member_id":   authorID,
	})
	return rating, nil
}

func (s *ratingService) ChangeStatus(id uint, status model.RatingStatus) (*model.Rating, error) {
	status = model.RatingStatus(strings.ToLower(string(status)))
	if !status.Valid() {
		return nil, ErrInvalidRatingStatus
	}

	if err := s.ratingRepo.UpdateStatus(id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}

	rating, err := s.ratingRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	logger.Info("Rating status changed", map[string]interface{}{
		"rating_id": id,
		"status":    status,
	})
	return rating, nil
}

// Fetcher exposes rating values to the profile aggregator.
func (s *ratingService) Fetcher() directory.RatingsFetcher {
	return s.ratingRepo.ValuesByBusinessID
}
