package model

import "time"

// BusinessProfile is owned by exactly one member.
type BusinessProfile struct {
	ID                   uint    `gorm:"primarykey" json:"id"`
	MemberID             uint    `gorm:"column:mid;not null;index" json:"mid"`
	CompanyName          string  `gorm:"not null" json:"company_name"`
	BusinessType         string  `gorm:"index" json:"business_type"`
	Role                 string  `json:"role"`
	CompanyAddress       string  `gorm:"type:text" json:"company_address"`
	City                 string  `json:"city"`
	State                string  `json:"state"`
	ZipCode              string  `gorm:"type:varchar(12)" json:"zip_code"`
	Experience           string  `json:"experience"`
	StaffSize            string  `json:"staff_size"`
	Contact              string  `gorm:"type:varchar(30)" json:"contact"`
	Email                string  `json:"email"`
	Source               string  `json:"source"`
	BusinessProfileImage *string `json:"business_profile_image"`
	// MediaGallery is a comma-joined list of relative file paths.
	MediaGallery string `gorm:"type:text" json:"media_gallery"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (BusinessProfile) TableName() string {
	return "business_profiles"
}
