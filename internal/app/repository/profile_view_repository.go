package repository

import (
	"time"

	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/pkg/logger"
	"gorm.io/gorm"
)

type ProfileViewRepository interface {
	Create(view *model.ProfileView) error
	CountForViewed(viewedID uint, since time.Time) (int64, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type profileViewRepository struct {
	db *gorm.DB
}

func NewProfileViewRepository(db *gorm.DB) ProfileViewRepository {
	return &profileViewRepository{db: db}
}

func (r *profileViewRepository) Create(view *model.ProfileView) error {
	if err := r.db.Create(view).Error; err != nil {
		logger.Error("Failed to record profile view in database", err, map[string]interface{}{
			"viewer_mid": view.ViewerID,
			"viewed_mid": view.ViewedID,
		})
		return err
	}
	return nil
}

func (r *profileViewRepository) CountForViewed(viewedID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.ProfileView{}).
		Where("viewed_mid = ? AND created_at >= ?", viewedID, since).
		Count(&count).Error
	return count, err
}

func (r *profileViewRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&model.ProfileView{})
	if result.Error != nil {
		logger.Error("Failed to purge profile views", result.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
