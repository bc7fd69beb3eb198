package model

import "time"

// MemberFamily is at most one per member. Spouse and children fields only
// mean something when the owning member is married.
type MemberFamily struct {
	ID               uint   `gorm:"primarykey" json:"id"`
	MemberID         uint   `gorm:"column:mid;not null;uniqueIndex" json:"mid"`
	FatherName       string `json:"father_name"`
	FatherContact    string `gorm:"type:varchar(30)" json:"father_contact"`
	MotherName       string `json:"mother_name"`
	MotherContact    string `gorm:"type:varchar(30)" json:"mother_contact"`
	SpouseName       string `json:"spouse_name"`
	SpouseContact    string `gorm:"type:varchar(30)" json:"spouse_contact"`
	NumberOfChildren int    `gorm:"default:0" json:"number_of_children"`
	// ChildrenNames holds a JSON-encoded array of strings.
	ChildrenNames string `gorm:"type:text" json:"children_names"`
	Address       string `gorm:"type:text" json:"address"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (MemberFamily) TableName() string {
	return "member_families"
}

// Referral records who referred the member at registration.
type Referral struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	MemberID     uint      `gorm:"column:mid;not null;uniqueIndex" json:"mid"`
	ReferralName string    `json:"referral_name"`
	ReferralCode string    `gorm:"type:varchar(64);index" json:"referral_code"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Referral) TableName() string {
	return "referrals"
}
