package repository

import (
	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/pkg/logger"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	Create(profile *model.BusinessProfile) error
	FindByID(id uint) (*model.BusinessProfile, error)
	FindByMemberID(memberID uint) ([]model.BusinessProfile, error)
	Update(profile *model.BusinessProfile) error
	Delete(id uint) error
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(profile *model.BusinessProfile) error {
	if err := r.db.Create(profile).Error; err != nil {
		logger.Error("Failed to create business profile in database", err, map[string]interface{}{
			"member_id": profile.MemberID,
		})
		return err
	}

	logger.Debug("Business profile created in database", map[string]interface{}{
		"business_id": profile.ID,
		"member_id":   profile.MemberID,
	})
	return nil
}

func (r *businessRepository) FindByID(id uint) (*model.BusinessProfile, error) {
	var profile model.BusinessProfile
	if err := r.db.First(&profile, id).Error; err != nil {
		logger.Error("Failed to find business profile by ID in database", err, map[string]interface{}{
			"business_id": id,
		})
		return nil, err
	}
	return &profile, nil
}

func (r *businessRepository) FindByMemberID(memberID uint) ([]model.BusinessProfile, error) {
	var profiles []model.BusinessProfile
	if err := r.db.Where("mid = ?", memberID).Order("id ASC").Find(&profiles).Error; err != nil {
		logger.Error("Failed to find business profiles by member in database", err, map[string]interface{}{
			"member_id": memberID,
		})
		return nil, err
	}
	return profiles, nil
}

func (r *businessRepository) Update(profile *model.BusinessProfile) error {
	if err := r.db.Save(profile).Error; err != nil {
		logger.Error("Failed to update business profile in database", err, map[string]interface{}{
			"business_id": profile.ID,
		})
		return err
	}

	logger.Debug("Business profile updated in database", map[string]interface{}{
		"business_id": profile.ID,
	})
	return nil
}

// Delete removes the profile and the ratings written about it.
func (r *businessRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ?", id).Delete(&model.Rating{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.BusinessProfile{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete business profile from database", err, map[string]interface{}{
			"business_id": id,
		})
		return err
	}

	logger.Debug("Business profile deleted from database", map[string]interface{}{
		"business_id": id,
	})
	return nil
}
