package service

import (
	"errors"

	"github.com/ikkim/member-directory/internal/app/dto"
	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/internal/app/repository"
	"github.com/ikkim/member-directory/internal/directory"
	"github.com/ikkim/member-directory/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrFamilyNotFound      = errors.New("family details not found")
	ErrFamilyAlreadyExists = errors.New("family details already exist for member")
)

type FamilyInput = dto.FamilyInput

func familyModel(f FamilyInput) *model.MemberFamily {
	fam := &model.MemberFamily{}
	applyFamily(f, fam)
	return fam
}

func applyFamily(f FamilyInput, fam *model.MemberFamily) {
	fam.FatherName = f.FatherName
	fam.FatherContact = f.FatherContact
	fam.MotherName = f.MotherName
	fam.MotherContact = f.MotherContact
	fam.SpouseName = f.SpouseName
	fam.SpouseContact = f.SpouseContact
	fam.NumberOfChildren = f.NumberOfChildren
	fam.ChildrenNames = directory.EncodeChildren(f.ChildrenNames)
	fam.Address = f.Address
}

type FamilyService interface {
	Create(memberID uint, input FamilyInput) (*model.MemberFamily, error)
	Get(id uint) (*model.MemberFamily, error)
	Update(id uint, input FamilyInput) (*model.MemberFamily, error)
}

type familyService struct {
	familyRepo repository.FamilyRepository
	memberRepo repository.MemberRepository
}

func NewFamilyService(familyRepo repository.FamilyRepository, memberRepo repository.MemberRepository) FamilyService {
	return &familyService{
		familyRepo: familyRepo,
		memberRepo: memberRepo,
	}
}

func validateFamily(f FamilyInput) error {
	v := newValidator()
	v.check(f.NumberOfChildren >= 0, "number_of_children", "must not be negative")
	return v.err()
}

func (s *familyService) Create(memberID uint, input FamilyInput) (*model.MemberFamily, error) {
	if err := validateFamily(input); err != nil {
		return nil, err
	}

	if _, err := s.memberRepo.FindByID(memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if _, err := s.familyRepo.FindByMemberID(memberID); err == nil {
		logger.Warn("Family details already exist", map[string]interface{}{
			"member_id": memberID,
		})
		return nil, ErrFamilyAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	family := familyModel(input)
	family.MemberID = memberID
	if err := s.familyRepo.Create(family); err != nil {
		return nil, err
	}

	logger.Info("Family details created", map[string]interface{}{
		"family_id": family.ID,
		"member_id": memberID,
	})
	return family, nil
}

func (s *familyService) Get(id uint) (*model.MemberFamily, error) {
	family, err := s.familyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFamilyNotFound
		}
		return nil, err
	}
	return family, nil
}

func (s *familyService) Update(id uint, input FamilyInput) (*model.MemberFamily, error) {
	if err := validateFamily(input); err != nil {
		return nil, err
	}

	family, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	applyFamily(input, family)
	if err := s.familyRepo.Update(family); err != nil {
		return nil, err
	}

	logger.Info("Family details updated", map[string]interface{}{
		"family_id": id,
	})
	return family, nil
}
