package model

import "time"

type RatingStatus string

const (
	RatingPending  RatingStatus = "pending"
	RatingApproved RatingStatus = "approved"
	RatingRejected RatingStatus = "rejected"
)

func (s RatingStatus) Valid() bool {
	switch s {
	case RatingPending, RatingApproved, RatingRejected:
		return true
	}
	return false
}

const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Rating is written by a member about a business profile.
type Rating struct {
	ID         uint         `gorm:"primarykey" json:"id"`
	BusinessID uint         `gorm:"not null;index" json:"business_id"`
	MemberID   uint         `gorm:"column:member_id;not null;index" json:"member_id"`
	Rating     float64      `gorm:"not null" json:"rating"`
	Message    string       `gorm:"type:text" json:"message"`
	Status     RatingStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`

	Author   *Member          `gorm:"foreignKey:MemberID;references:ID" json:"Member,omitempty"`
	Business *BusinessProfile `gorm:"foreignKey:BusinessID" json:"BusinessProfile,omitempty"`
}

func (Rating) TableName() string {
	return "ratings"
}
