package model

import (
	"time"

	"github.com/lib/pq"
)

// Admin permissions carried into the admin's access token.
const (
	PermMembersWrite    = "members:write"
	PermMembersDelete   = "members:delete"
	PermMembersExport   = "members:export"
	PermRatingsModerate = "ratings:moderate"
)

// AllPermissions is granted to the bootstrap admin.
var AllPermissions = []string{
	PermMembersWrite,
	PermMembersDelete,
	PermMembersExport,
	PermRatingsModerate,
}

type Admin struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `json:"name"`
	Permissions  pq.StringArray `gorm:"type:text[]" json:"permissions"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (Admin) TableName() string {
	return "admins"
}

// ProfileView is written each time a member opens another member's profile.
type ProfileView struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ViewerID  uint      `gorm:"column:viewer_mid;not null;index" json:"viewer_mid"`
	ViewedID  uint      `gorm:"column:viewed_mid;not null;index" json:"viewed_mid"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (ProfileView) TableName() string {
	return "profile_views"
}
