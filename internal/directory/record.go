// Package directory shapes member snapshots for the directory screens:
// normalization, viewer-scoped visibility, search, sorting, incremental
// paging and detail aggregation. Nothing here touches the database or the
// network; callers hand in snapshots and get plain values back.
package directory

import (
	"encoding/json"
	"strings"

	"github.com/ikkim/member-directory/internal/app/model"
)

// Business is the canonical business-profile shape used by every screen.
type Business struct {
	ID             uint   `json:"id"`
	MemberID       uint   `json:"mid"`
	CompanyName    string `json:"company_name"`
	BusinessType   string `json:"business_type"`
	Role           string `json:"role"`
	CompanyAddress string `json:"company_address"`
	City           string `json:"city"`
	State          string `json:"state"`
	ZipCode        string `json:"zip_code"`
	Experience     string `json:"experience"`
	StaffSize      string `json:"staff_size"`
	Contact        string `json:"contact"`
	Email          string `json:"email"`
	Source         string `json:"source"`
	ProfileImage   string `json:"business_profile_image"`
	MediaGallery   string `json:"media_gallery"`

	present bool
}

// NoBusiness is the primary business of a member without business profiles.
var NoBusiness = Business{}

// Present is false only for NoBusiness.
func (b Business) Present() bool {
	return b.present
}

type Family struct {
	FatherName       string `json:"father_name"`
	FatherContact    string `json:"father_contact"`
	MotherName       string `json:"mother_name"`
	MotherContact    string `json:"mother_contact"`
	SpouseName       string `json:"spouse_name"`
	SpouseContact    string `json:"spouse_contact"`
	NumberOfChildren int    `json:"number_of_children"`
	ChildrenNames    string `json:"children_names"` // JSON-encoded array
	Address          string `json:"address"`
}

type Referral struct {
	Name string `json:"referral_name"`
	Code string `json:"referral_code"`
}

// Record is a normalized member. Businesses is never nil; Family and
// Referral are nil when the member has none.
type Record struct {
	ID             uint               `json:"mid"`
	FirstName      string             `json:"first_name"`
	LastName       string             `json:"last_name"`
	DisplayName    string             `json:"display_name"`
	Email          string             `json:"email"`
	SecondaryEmail string             `json:"secondary_email"`
	ContactNo      string             `json:"contact_no"`
	Status         model.MemberStatus `json:"status"`
	AccessLevel    model.AccessLevel  `json:"access_level"`
	ProfileImage   string             `json:"profile_image"`
	JoinDate       string             `json:"join_date"`
	Address        string             `json:"address"`
	City           string             `json:"city"`
	State          string             `json:"state"`
	ZipCode        string             `json:"zip_code"`
	Country        string             `json:"country"`
	Website        string             `json:"website"`
	Facebook       string             `json:"facebook"`
	Instagram      string             `json:"instagram"`
	LinkedIn       string             `json:"linkedin"`
	Twitter        string             `json:"twitter"`
	Kootam         string             `json:"kootam"`
	MaritalStatus  string             `json:"marital_status"`

	PrimaryBusiness Business   `json:"-"`
	Businesses      []Business `json:"businesses"`
	Family          *Family    `json:"family"`
	Referral        *Referral  `json:"referral"`
}

// MarshalJSON renders the none sentinel as a null primary_business.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	out := struct {
		plain
		PrimaryBusiness *Business `json:"primary_business"`
	}{plain: plain(r)}
	if r.PrimaryBusiness.Present() {
		b := r.PrimaryBusiness
		out.PrimaryBusiness = &b
	}
	return json.Marshal(out)
}

// HasBusinessType reports whether any business profile names a business type.
func (r Record) HasBusinessType() bool {
	for _, b := range r.Businesses {
		if strings.TrimSpace(b.BusinessType) != "" {
			return true
		}
	}
	return false
}

// IsMarried reports whether the family spouse/children fields apply.
func (r Record) IsMarried() bool {
	return strings.EqualFold(strings.TrimSpace(r.MaritalStatus), model.MaritalStatusMarried)
}

func displayName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

func withBusinesses(r Record, businesses []Business) Record {
	if businesses == nil {
		businesses = []Business{}
	}
	r.Businesses = businesses
	r.PrimaryBusiness = NoBusiness
	if len(businesses) > 0 {
		r.PrimaryBusiness = businesses[0]
	}
	return r
}

// FromModel normalizes a persisted member. m is not modified.
func FromModel(m *model.Member) Record {
	if m == nil {
		return withBusinesses(Record{}, nil)
	}

	r := Record{
		ID:             m.ID,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		DisplayName:    displayName(m.FirstName, m.LastName),
		Email:          m.Email,
		SecondaryEmail: m.SecondaryEmail,
		ContactNo:      m.ContactNo,
		Status:         m.Status,
		AccessLevel:    m.AccessLevel,
		ProfileImage:   deref(m.ProfileImage),
		JoinDate:       m.JoinDate,
		Address:        m.Address,
		City:           m.City,
		State:          m.State,
		ZipCode:        m.ZipCode,
		Country:        m.Country,
		Website:        m.Website,
		Facebook:       m.Facebook,
		Instagram:      m.Instagram,
		LinkedIn:       m.LinkedIn,
		Twitter:        m.Twitter,
		Kootam:         m.Kootam,
		MaritalStatus:  m.MaritalStatus,
	}

	businesses := make([]Business, 0, len(m.BusinessProfiles))
	for _, bp := range m.BusinessProfiles {
		businesses = append(businesses, Business{
			ID:             bp.ID,
			MemberID:       bp.MemberID,
			CompanyName:    bp.CompanyName,
			BusinessType:   bp.BusinessType,
			Role:           bp.Role,
			CompanyAddress: bp.CompanyAddress,
			City:           bp.City,
			State:          bp.State,
			ZipCode:        bp.ZipCode,
			Experience:     bp.Experience,
			StaffSize:      bp.StaffSize,
			Contact:        bp.Contact,
			Email:          bp.Email,
			Source:         bp.Source,
			ProfileImage:   deref(bp.BusinessProfileImage),
			MediaGallery:   bp.MediaGallery,
			present:        true,
		})
	}

	if f := m.MemberFamily; f != nil {
		r.Family = &Family{
			FatherName:       f.FatherName,
			FatherContact:    f.FatherContact,
			MotherName:       f.MotherName,
			MotherContact:    f.MotherContact,
			SpouseName:       f.SpouseName,
			SpouseContact:    f.SpouseContact,
			NumberOfChildren: f.NumberOfChildren,
			ChildrenNames:    f.ChildrenNames,
			Address:          f.Address,
		}
	}
	if ref := m.Referral; ref != nil {
		r.Referral = &Referral{Name: ref.ReferralName, Code: ref.ReferralCode}
	}

	return withBusinesses(r, businesses)
}

// FromModels normalizes a member list, preserving order.
func FromModels(members []model.Member) []Record {
	records := make([]Record, 0, len(members))
	for i := range members {
		records = append(records, FromModel(&members[i]))
	}
	return records
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
