package repository

import (
	"github.com/ikkim/member-directory/internal/app/model"
	"gorm.io/gorm"
)

type FamilyRepository interface {
	Create(family *model.MemberFamily) error
	FindByID(id uint) (*model.MemberFamily, error)
	FindByMemberID(memberID uint) (*model.MemberFamily, error)
	Update(family *model.MemberFamily) error
}

type familyRepository struct {
	db *gorm.DB
}

func NewFamilyRepository(db *gorm.DB) FamilyRepository {
	return &familyRepository{db: db}
}

func (r *familyRepository) Create(family *model.MemberFamily) error {
	return r.db.Create(family).Error
}

func (r *familyRepository) FindByID(id uint) (*model.MemberFamily, error) {
	var family model.MemberFamily
	if err := r.db.First(&family, id).Error; err != nil {
		return nil, err
	}
	return &family, nil
}

// FindByMemberID returns gorm.ErrRecordNotFound when the member has no
// family record.
func (r *familyRepository) FindByMemberID(memberID uint) (*model.MemberFamily, error) {
	var family model.MemberFamily
	if err := r.db.Where("mid = ?", memberID).First(&family).Error; err != nil {
		return nil, err
	}
	return &family, nil
}

func (r *familyRepository) Update(family *model.MemberFamily) error {
	return r.db.Save(family).Error
}
