package service

import (
	"errors"
	"strings"

	"github.com/ikkim/member-directory/internal/app/dto"
	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/internal/app/repository"
	"github.com/ikkim/member-directory/internal/directory"
	"github.com/ikkim/member-directory/pkg/logger"
	"github.com/ikkim/member-directory/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidStatus      = errors.New("invalid member status")
	ErrStatusNotAllowed   = errors.New("only admins can change member status")
)

type MemberFields = dto.MemberFields

type RegisterInput struct {
	MemberFields
	Password        string
	ConfirmPassword string
	// Status is honored only for admin registrations.
	Status       model.MemberStatus
	ProfileImage string
	Businesses   []BusinessInput
	Family       *FamilyInput
	ReferralName string
	ReferralCode string
}

// MemberUpdate carries only the attributes the caller actually sent.
type MemberUpdate struct {
	Fields       map[string]string
	Status       *model.MemberStatus
	ProfileImage *string
}

type MemberService interface {
	List() ([]model.Member, error)
	Get(id uint) (*model.Member, error)
	Register(input RegisterInput, byAdmin bool) (*model.Member, error)
	Update(id uint, input MemberUpdate, byAdmin bool) (*model.Member, error)
	ChangeStatus(id uint, status model.MemberStatus) (*model.Member, error)
	UpdateCredentials(id uint, email, password, confirm string) error
	Delete(id uint) error
}

type memberService struct {
	memberRepo repository.MemberRepository
}

func NewMemberService(memberRepo repository.MemberRepository) MemberService {
	return &memberService{memberRepo: memberRepo}
}

func (s *memberService) List() ([]model.Member, error) {
	return s.memberRepo.FindAll()
}

func (s *memberService) Get(id uint) (*model.Member, error) {
	member, err := s.memberRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

func (s *memberService) Register(input RegisterInput, byAdmin bool) (*model.Member, error) {
	input.Email = normalizeEmail(input.Email)
	logger.Info("Registering member", map[string]interface{}{
		"email":          input.Email,
		"by_admin":       byAdmin,
		"business_count": len(input.Businesses),
	})

	v := newValidator()
	v.required(input.FirstName, "first_name")
	v.required(input.Email, "email")
	v.email(input.Email, "email")
	v.email(input.SecondaryEmail, "secondary_email")
	if err := util.CheckPasswordPair(input.Password, input.ConfirmPassword); err != nil {
		v.check(false, "password", err.Error())
	}
	if byAdmin && input.Status != "" {
		v.check(input.Status.Valid(), "status", ErrInvalidStatus.Error())
	}
	for _, b := range input.Businesses {
		validateBusiness(b, v)
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if _, err := s.memberRepo.FindByEmail(input.Email); err == nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": input.Email,
		})
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, err
	}

	member := &model.Member{PasswordHash: hash}
	applyMemberFields(input.MemberFields, member)
	if input.ProfileImage != "" {
		member.ProfileImage = &input.ProfileImage
	}

	status := model.StatusPending
	if byAdmin && input.Status != "" {
		status = input.Status
	}
	member.SetStatus(status)

	for _, b := range input.Businesses {
		member.BusinessProfiles = append(member.BusinessProfiles, businessModel(b))
	}
	if input.Family != nil {
		member.MemberFamily = familyModel(*input.Family)
	}
	if name, code := strings.TrimSpace(input.ReferralName), strings.TrimSpace(input.ReferralCode); name != "" || code != "" {
		member.Referral = &model.Referral{ReferralName: name, ReferralCode: code}
	}

	if err := s.memberRepo.Create(member); err != nil {
		logger.Error("Failed to register member", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, err
	}

	logger.Info("Member registered", map[string]interface{}{
		"member_id": member.ID,
		"status":    member.Status,
	})
	return member, nil
}

func (s *memberService) Update(id uint, input MemberUpdate, byAdmin bool) (*model.Member, error) {
	if input.Status != nil && !byAdmin {
		return nil, ErrStatusNotAllowed
	}

	member, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	v := newValidator()
	for field, value := range input.Fields {
		switch field {
		case "first_name", "email":
			v.required(value, field)
		}
		if field == "email" || field == "secondary_email" {
			v.email(value, field)
		}
	}
	if input.Status != nil {
		v.check(input.Status.Valid(), "status", ErrInvalidStatus.Error())
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if email, ok := input.Fields["email"]; ok {
		email = normalizeEmail(email)
		if email != member.Email {
			if err := s.ensureEmailFree(email, id); err != nil {
				return nil, err
			}
		}
		input.Fields["email"] = email
	}

	applyFields(member, input.Fields)
	if input.ProfileImage != nil {
		member.ProfileImage = input.ProfileImage
	}
	if input.Status != nil {
		s.transition(member, *input.Status)
	}

	if err := s.memberRepo.Update(member); err != nil {
		logger.Error("Failed to update member", err, map[string]interface{}{
			"member_id": id,
		})
		return nil, err
	}

	logger.Info("Member updated", map[string]interface{}{
		"member_id":    id,
		"fields":       len(input.Fields),
		"status_given": input.Status != nil,
	})
	return member, nil
}

func (s *memberService) ChangeStatus(id uint, status model.MemberStatus) (*model.Member, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	member, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	s.transition(member, status)
	if err := s.memberRepo.UpdateStatus(id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// transition is the single path through which a member's status moves.
func (s *memberService) transition(member *model.Member, status model.MemberStatus) {
	previous := member.Status
	if status == model.StatusPending && previous != model.StatusPending {
		logger.Warn("Member moved back to pending", map[string]interface{}{
			"member_id": member.ID,
			"previous":  previous,
		})
	}
	member.SetStatus(status)
	logger.Info("Member status changed", map[string]interface{}{
		"member_id":    member.ID,
		"previous":     previous,
		"status":       member.Status,
		"access_level": member.AccessLevel,
	})
}

func (s *memberService) UpdateCredentials(id uint, email, password, confirm string) error {
	email = normalizeEmail(email)

	v := newValidator()
	v.email(email, "email")
	if password != "" || confirm != "" {
		if err := util.CheckPasswordPair(password, confirm); err != nil {
			v.check(false, "password", err.Error())
		}
	}
	if email == "" && password == "" && confirm == "" {
		v.check(false, "email", "email or password is required")
	}
	if err := v.err(); err != nil {
		return err
	}

	member, err := s.Get(id)
	if err != nil {
		return err
	}

	if email != "" && email != member.Email {
		if err := s.ensureEmailFree(email, id); err != nil {
			return err
		}
		member.Email = email
	}
	if password != "" {
		hash, err := util.HashPassword(password)
		if err != nil {
			logger.Error("Failed to hash password", err)
			return err
		}
		member.PasswordHash = hash
	}

	if err := s.memberRepo.Update(member); err != nil {
		logger.Error("Failed to update member credentials", err, map[string]interface{}{
			"member_id": id,
		})
		return err
	}

	logger.Info("Member credentials updated", map[string]interface{}{
		"member_id":        id,
		"password_changed": password != "",
	})
	return nil
}

func (s *memberService) Delete(id uint) error {
	if err := s.memberRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		logger.Error("Failed to delete member", err, map[string]interface{}{
			"member_id": id,
		})
		return err
	}
	logger.Info("Member deleted", map[string]interface{}{
		"member_id": id,
	})
	return nil
}

func (s *memberService) ensureEmailFree(email string, self uint) error {
	existing, err := s.memberRepo.FindByEmail(email)
	if err == nil && existing.ID != self {
		return ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func applyMemberFields(f MemberFields, m *model.Member) {
	m.FirstName = strings.TrimSpace(f.FirstName)
	m.LastName = strings.TrimSpace(f.LastName)
	m.Email = normalizeEmail(f.Email)
	m.SecondaryEmail = strings.TrimSpace(f.SecondaryEmail)
	m.ContactNo = strings.TrimSpace(f.ContactNo)
	m.Address = f.Address
	m.City = f.City
	m.State = f.State
	m.ZipCode = f.ZipCode
	m.Country = f.Country
	m.Website = f.Website
	m.Facebook = f.Facebook
	m.Instagram = f.Instagram
	m.LinkedIn = f.LinkedIn
	m.Twitter = f.Twitter
	m.Kootam = strings.TrimSpace(f.Kootam)
	m.MaritalStatus = strings.TrimSpace(f.MaritalStatus)
	m.JoinDate = strings.TrimSpace(f.JoinDate)
}

// memberSetters maps wire field names onto the model. Keys not listed are
// ignored by Update.
var memberSetters = map[string]func(m *model.Member, v string){
	"first_name":      func(m *model.Member, v string) { m.FirstName = strings.TrimSpace(v) },
	"last_name":       func(m *model.Member, v string) { m.LastName = strings.TrimSpace(v) },
	"email":           func(m *model.Member, v string) { m.Email = v },
	"secondary_email": func(m *model.Member, v string) { m.SecondaryEmail = strings.TrimSpace(v) },
	"contact_no":      func(m *model.Member, v string) { m.ContactNo = strings.TrimSpace(v) },
	"address":         func(m *model.Member, v string) { m.Address = v },
	"city":            func(m *model.Member, v string) { m.City = v },
	"state":           func(m *model.Member, v string) { m.State = v },
	"zip_code":        func(m *model.Member, v string) { m.ZipCode = v },
	"country":         func(m *model.Member, v string) { m.Country = v },
	"website":         func(m *model.Member, v string) { m.Website = v },
	"facebook":        func(m *model.Member, v string) { m.Facebook = v },
	"instagram":       func(m *model.Member, v string) { m.Instagram = v },
	"linkedin":        func(m *model.Member, v string) { m.LinkedIn = v },
	"twitter":         func(m *model.Member, v string) { m.Twitter = v },
	"kootam":          func(m *model.Member, v string) { m.Kootam = strings.TrimSpace(v) },
	"marital_status":  func(m *model.Member, v string) { m.MaritalStatus = strings.TrimSpace(v) },
	"join_date":       func(m *model.Member, v string) { m.JoinDate = strings.TrimSpace(v) },
}

// MemberFieldNames lists the keys MemberUpdate.Fields understands.
func MemberFieldNames() []string {
	names := make([]string, 0, len(memberSetters))
	for k := range memberSetters {
		names = append(names, k)
	}
	return names
}

func applyFields(m *model.Member, fields map[string]string) {
	for k, v := range fields {
		if set, ok := memberSetters[k]; ok {
			set(m, v)
		}
	}
}

// toRecord is shared by services that hand members to the directory core.
func toRecord(m *model.Member) directory.Record {
	return directory.FromModel(m)
}
