package service

import (
	"errors"
	"strings"

	"github.com/ikkim/member-directory/internal/app/dto"
	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/internal/app/repository"
	"github.com/ikkim/member-directory/internal/directory"
	"github.com/ikkim/member-directory/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrBusinessNotFound = errors.New("business profile not found")
	ErrTooManyFiles     = errors.New("too many gallery files")
)

// MaxGalleryFiles caps a business profile's media gallery.
const MaxGalleryFiles = 10

type BusinessInput = dto.BusinessInput

func validateBusiness(b BusinessInput, v *validator) {
	v.required(b.CompanyName, "company_name")
	v.email(b.Email, "business_email")
	v.check(len(b.Gallery) <= MaxGalleryFiles, "media_gallery", ErrTooManyFiles.Error())
}

func businessModel(b BusinessInput) model.BusinessProfile {
	p := model.BusinessProfile{
		CompanyName:    strings.TrimSpace(b.CompanyName),
		BusinessType:   strings.TrimSpace(b.BusinessType),
		Role:           b.Role,
		CompanyAddress: b.CompanyAddress,
		City:           b.City,
		State:          b.State,
		ZipCode:        b.ZipCode,
		Experience:     b.Experience,
		StaffSize:      b.StaffSize,
		Contact:        b.Contact,
		Email:          strings.TrimSpace(b.Email),
		Source:         b.Source,
		MediaGallery:   directory.JoinGallery(b.Gallery),
	}
	if b.ProfileImage != "" {
		img := b.ProfileImage
		p.BusinessProfileImage = &img
	}
	return p
}

// BusinessUpdate replaces the gallery only when Gallery is non-nil.
type BusinessUpdate struct {
	Fields       map[string]string
	ProfileImage *string
	Gallery      []string
}

type BusinessService interface {
	Create(memberID uint, input BusinessInput) (*model.BusinessProfile, error)
	Get(id uint) (*model.BusinessProfile, error)
	Update(id uint, input BusinessUpdate) (*model.BusinessProfile, error)
	Delete(id uint) error
}

type businessService struct {
	businessRepo repository.BusinessRepository
	memberRepo   repository.MemberRepository
}

func NewBusinessService(businessRepo repository.BusinessRepository, memberRepo repository.MemberRepository) BusinessService {
	return &businessService{
		businessRepo: businessRepo,
		memberRepo:   memberRepo,
	}
}

func (s *businessService) Create(memberID uint, input BusinessInput) (*model.BusinessProfile, error) {
	v := newValidator()
	validateBusiness(input, v)
	if err := v.err(); err != nil {
		return nil, err
	}

	if _, err := s.memberRepo.FindByID(memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	profile := businessModel(input)
	profile.MemberID = memberID
	if err := s.businessRepo.Create(&profile); err != nil {
		return nil, err
	}

	logger.Info("Business profile created", map[string]interface{}{
		"business_id": profile.ID,
		"member_id":   memberID,
	})
	return &profile, nil
}

func (s *businessService) Get(id uint) (*model.BusinessProfile, error) {
	profile, err := s.businessRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return profile, nil
}

var businessSetters = map[string]func(p *model.BusinessProfile, v string){
	"company_name":    func(p *model.BusinessProfile, v string) { p.CompanyName = strings.TrimSpace(v) },
	"business_type":   func(p *model.BusinessProfile, v string) { p.BusinessType = strings.TrimSpace(v) },
	"role":            func(p *model.BusinessProfile, v string) { p.Role = v },
	"company_address": func(p *model.BusinessProfile, v string) { p.CompanyAddress = v },
	"city":            func(p *model.BusinessProfile, v string) { p.City = v },
	"state":           func(p *model.BusinessProfile, v string) { p.State = v },
	"zip_code":        func(p *model.BusinessProfile, v string) { p.ZipCode = v },
	"experience":      func(p *model.BusinessProfile, v string) { p.Experience = v },
	"staff_size":      func(p *model.BusinessProfile, v string) { p.StaffSize = v },
	"contact":         func(p *model.BusinessProfile, v string) { p.Contact = v },
	"email":           func(p *model.BusinessProfile, v string) { p.Email = strings.TrimSpace(v) },
	"source":          func(p *model.BusinessProfile, v string) { p.Source = v },
}

// BusinessFieldNames lists the keys BusinessUpdate.Fields understands.
func BusinessFieldNames() []string {
	names := make([]string, 0, len(businessSetters))
	for k := range businessSetters {
		names = append(names, k)
	}
	return names
}

func (s *businessService) Update(id uint, input BusinessUpdate) (*model.BusinessProfile, error) {
	v := newValidator()
	if name, ok := input.Fields["company_name"]; ok {
		v.required(name, "company_name")
	}
	v.email(input.Fields["email"], "email")
	v.check(len(input.Gallery) <= MaxGalleryFiles, "media_gallery", ErrTooManyFiles.Error())
	if err := v.err(); err != nil {
		return nil, err
	}

	profile, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	for k, val := range input.Fields {
		if set, ok := businessSetters[k]; ok {
			set(profile, val)
		}
	}
	if input.ProfileImage != nil {
		profile.BusinessProfileImage = input.ProfileImage
	}
	if input.Gallery != nil {
		profile.MediaGallery = directory.JoinGallery(input.Gallery)
	}

	if err := s.businessRepo.Update(profile); err != nil {
		return nil, err
	}

	logger.Info("Business profile updated", map[string]interface{}{
		"business_id":      id,
		"gallery_replaced": input.Gallery != nil,
	})
	return profile, nil
}

func (s *businessService) Delete(id uint) error {
	if err := s.businessRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusinessNotFound
		}
		return err
	}
	logger.Info("Business profile deleted", map[string]interface{}{
		"business_id": id,
	})
	return nil
}
