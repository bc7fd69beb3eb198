package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type MemberStatus string

const (
	StatusPending  MemberStatus = "Pending"
	StatusApproved MemberStatus = "Approved"
	StatusRejected MemberStatus = "Rejected"
)

// Valid reports whether s is one of the known member statuses.
func (s MemberStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type AccessLevel string

const (
	AccessBasic    AccessLevel = "Basic"
	AccessAdvanced AccessLevel = "Advanced"
)

// AccessLevelFor is the only place access levels are derived from status.
func AccessLevelFor(status MemberStatus) AccessLevel {
	if status == StatusApproved {
		return AccessAdvanced
	}
	return AccessBasic
}

const MaritalStatusMarried = "married"

type Member struct {
	ID             uint         `gorm:"column:mid;primarykey" json:"mid"`
	FirstName      string       `gorm:"not null" json:"first_name"`
	LastName       string       `json:"last_name"`
	Email          string       `gorm:"uniqueIndex;not null" json:"email"`
	SecondaryEmail string       `json:"secondary_email"`
	ContactNo      string       `gorm:"type:varchar(30)" json:"contact_no"`
	PasswordHash   string       `json:"-"`
	Status         MemberStatus `gorm:"type:varchar(20);default:'Pending';index" json:"status"`
	AccessLevel    AccessLevel  `gorm:"type:varchar(20);default:'Basic'" json:"access_level"`
	ProfileImage   *string      `json:"profile_image"`
	JoinDate       string       `gorm:"type:varchar(10)" json:"join_date"`

	Address string `gorm:"type:text" json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `gorm:"type:varchar(12)" json:"zip_code"`
	Country string `json:"country"`

	Website   string `json:"website"`
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	LinkedIn  string `json:"linkedin"`
	Twitter   string `json:"twitter"`

	Kootam        string `gorm:"index" json:"kootam"`
	MaritalStatus string `gorm:"type:varchar(20)" json:"marital_status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	BusinessProfiles []BusinessProfile `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"BusinessProfiles,omitempty"`
	MemberFamily     *MemberFamily     `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"MemberFamily,omitempty"`
	Referral         *Referral         `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"Referral,omitempty"`
}

func (Member) TableName() string {
	return "members"
}

// SetStatus transitions the member and re-derives its access level.
func (m *Member) SetStatus(status MemberStatus) {
	m.Status = status
	m.AccessLevel = AccessLevelFor(status)
}

// FullName joins first and last name, trimmed.
func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// IsMarried reports whether spouse and children data are meaningful.
func (m *Member) IsMarried() bool {
	return strings.EqualFold(strings.TrimSpace(m.MaritalStatus), MaritalStatusMarried)
}

// BeforeSave keeps access_level consistent for writes that set Status directly.
func (m *Member) BeforeSave(tx *gorm.DB) error {
	if m.Status == "" {
		m.Status = StatusPending
	}
	m.AccessLevel = AccessLevelFor(m.Status)
	if m.JoinDate == "" {
		m.JoinDate = time.Now().Format("2006-01-02")
	}
	return nil
}
