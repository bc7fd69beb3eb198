package repository

import (
	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepository interface {
	Create(member *model.Member) error
	FindAll() ([]model.Member, error)
	FindByID(id uint) (*model.Member, error)
	FindByEmail(email string) (*model.Member, error)
	Update(member *model.Member) error
	UpdateStatus(id uint, status model.MemberStatus) error
	Delete(id uint) error
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// withAssociations preloads everything the directory screens read.
func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("BusinessProfiles", func(db *gorm.DB) *gorm.DB {
			return db.Order("business_profiles.id ASC")
		}).
		Preload("MemberFamily").
		Preload("Referral")
}

// Create inserts the member together with any business profiles, family
// and referral set on it, in one transaction.
func (r *memberRepository) Create(member *model.Member) error {
	logger.Debug("Creating member in database", map[string]interface{}{
		"email":          member.Email,
		"business_count": len(member.BusinessProfiles),
		"has_family":     member.MemberFamily != nil,
		"has_referral":   member.Referral != nil,
	})

	if err := r.db.Create(member).Error; err != nil {
		logger.Error("Failed to create member in database", err, map[string]interface{}{
			"email": member.Email,
		})
		return err
	}

	logger.Debug("Member created in database", map[string]interface{}{
		"member_id": member.ID,
		"email":     member.Email,
	})
	return nil
}

func (r *memberRepository) FindAll() ([]model.Member, error) {
	logger.Debug("Finding all members in database")

	var members []model.Member
	if err := withAssociations(r.db).Order("mid ASC").Find(&members).Error; err != nil {
		logger.Error("Failed to find members in database", err)
		return nil, err
	}

	logger.Debug("Members found in database", map[string]interface{}{
		"count": len(members),
	})
	return members, nil
}

func (r *memberRepository) FindByID(id uint) (*model.Member, error) {
	logger.Debug("Finding member by ID in database", map[string]interface{}{
		"member_id": id,
	})

	var member model.Member
	if err := withAssociations(r.db).First(&member, "mid = ?", id).Error; err != nil {
		logger.Error("Failed to find member by ID in database", err, map[string]interface{}{
			"member_id": id,
		})
		return nil, err
	}

	logger.Debug("Member found by ID in database", map[string]interface{}{
		"member_id":      member.ID,
		"business_count": len(member.BusinessProfiles),
	})
	return &member, nil
}

func (r *memberRepository) FindByEmail(email string) (*model.Member, error) {
	logger.Debug("Finding member by email in database", map[string]interface{}{
		"email": email,
	})

	var member model.Member
	if err := r.db.Where("email = ?", email).First(&member).Error; err != nil {
		logger.Error("Failed to find member by email in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	return &member, nil
}

// Update saves the member's own columns. Associations have their own
// repositories and are left untouched.
func (r *memberRepository) Update(member *model.Member) error {
	logger.Debug("Updating member in database", map[string]interface{}{
		"member_id": member.ID,
	})

	if err := r.db.Omit(clause.Associations).Save(member).Error; err != nil {
		logger.Error("Failed to update member in database", err, map[string]interface{}{
			"member_id": member.ID,
		})
		return err
	}

	logger.Debug("Member updated in database", map[string]interface{}{
		"member_id": member.ID,
		"status":    member.Status,
	})
	return nil
}

// UpdateStatus writes status and its derived access level together.
func (r *memberRepository) UpdateStatus(id uint, status model.MemberStatus) error {
	logger.Debug("Updating member status in database", map[string]interface{}{
		"member_id": id,
		"status":    status,
	})

	result := r.db.Model(&model.Member{}).Where("mid = ?", id).Updates(map[string]interface{}{
		"status":       status,
		"access_level": model.AccessLevelFor(status),
	})
	if result.Error != nil {
		logger.Error("Failed to update member status in database", result.Error, map[string]interface{}{
			"member_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the member and everything it owns: ratings it wrote,
// ratings on its businesses, business profiles, family, referral and
// profile views in either direction.
func (r *memberRepository) Delete(id uint) error {
	logger.Debug("Deleting member from database", map[string]interface{}{
		"member_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var member model.Member
		if err := tx.Select("mid").First(&member, "mid = ?", id).Error; err != nil {
			return err
		}

		businessIDs := tx.Model(&model.BusinessProfile{}).Select("id").Where("mid = ?", id)
		steps := []func() error{
			func() error { return tx.Where("business_id IN (?)", businessIDs).Delete(&model.Rating{}).Error },
			func() error { return tx.Where("member_id = ?", id).Delete(&model.Rating{}).Error },
			func() error { return tx.Where("mid = ?", id).Delete(&model.BusinessProfile{}).Error },
			func() error { return tx.Where("mid = ?", id).Delete(&model.MemberFamily{}).Error },
			func() error { return tx.Where("mid = ?", id).Delete(&model.Referral{}).Error },
			func() error {
				return tx.Where("viewer_mid = ? OR viewed_mid = ?", id, id).Delete(&model.ProfileView{}).Error
			},
			func() error { return tx.Where("mid = ?", id).Delete(&model.Member{}).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete member from database", err, map[string]interface{}{
			"member_id": id,
		})
		return err
	}

	logger.Debug("Member deleted from database", map[string]interface{}{
		"member_id": id,
	})
	return nil
}
