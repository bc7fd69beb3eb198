package repository

import (
	"context"

	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/pkg/logger"
	"gorm.io/gorm"
)

type RatingRepository interface {
	Create(rating *model.Rating) error
	FindByID(id uint) (*model.Rating, error)
	FindAll() ([]model.Rating, error)
	FindByBusinessID(businessID uint) ([]model.Rating, error)
	ValuesByBusinessID(ctx context.Context, businessID uint) ([]float64, error)
	UpdateStatus(id uint, status model.RatingStatus) error
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(rating *model.Rating) error {
	if err := r.db.Create(rating).Error; err != nil {
		logger.Error("Failed to create rating in database", err, map[string]interface{}{
			"business_id": rating.BusinessID,
			"member_id":   rating.MemberID,
		})
		return err
	}
	return nil
}

func (r *ratingRepository) FindByID(id uint) (*model.Rating, error) {
	var rating model.Rating
	if err := r.db.First(&rating, id).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// FindAll is the moderation queue: newest first, with author and business.
func (r *ratingRepository) FindAll() ([]model.Rating, error) {
	var ratings []model.Rating
	err := r.db.Preload("Author").Preload("Business").
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		logger.Error("Failed to find ratings in database", err)
		return nil, err
	}
	return ratings, nil
}

func (r *ratingRepository) FindByBusinessID(businessID uint) ([]model.Rating, error) {
	var ratings []model.Rating
	err := r.db.Preload("Author").
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		logger.Error("Failed to find ratings by business in database", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}
	return ratings, nil
}

// ValuesByBusinessID returns only the rating values, for averaging.
func (r *ratingRepository) ValuesByBusinessID(ctx context.Context, businessID uint) ([]float64, error) {
	var values []float64
	err := r.db.WithContext(ctx).Model(&model.Rating{}).
		Where("business_id = ?", businessID).
		Order("id ASC").
		Pluck("rating", &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (r *ratingRepository) UpdateStatus(id uint, status model.RatingStatus) error {
	result := r.db.Model(&model.Rating{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update rating status in database", result.Error, map[string]interface{}{
			"rating_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
