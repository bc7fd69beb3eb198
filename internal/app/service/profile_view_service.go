package service

import (
	"errors"
	"time"

	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/internal/app/repository"
	"github.com/ikkim/member-directory/pkg/logger"
	"gorm.io/gorm"
)

var ErrSelfView = errors.New("members cannot record views of their own profile")

// ProfileViewEvent is pushed to the owner of a viewed profile.
type ProfileViewEvent struct {
	Type       string    `json:"type"`
	ViewerID   uint      `json:"viewer_mid"`
	ViewerName string    `json:"viewer_name"`
	ViewedAt   time.Time `json:"viewed_at"`
}

const EventProfileViewed = "profile_viewed"

// Notifier delivers events to a connected member. The websocket hub
// implements it.
type Notifier interface {
	Notify(memberID uint, event interface{})
}

type ProfileViewService interface {
	Record(viewerID, viewedID uint) error
	PurgeOlderThan(retention time.Duration) (int64, error)
}

type profileViewService struct {
	viewRepo   repository.ProfileViewRepository
	memberRepo repository.MemberRepository
	notifier   Notifier
	now        func() time.Time
}

// NewProfileViewService accepts a nil notifier; views are then only stored.
func NewProfileViewService(
	viewRepo repository.ProfileViewRepository,
	memberRepo repository.MemberRepository,
	notifier Notifier,
) ProfileViewService {
	return &profileViewService{
		viewRepo:   viewRepo,
		memberRepo: memberRepo,
		notifier:   notifier,
		now:        time.Now,
	}
}

func (s *profileViewService) Record(viewerID, viewedID uint) error {
	if viewerID == viewedID {
		return ErrSelfView
	}

	viewer, err := s.memberRepo.FindByID(viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	if _, err := s.memberRepo.FindByID(viewedID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	view := &model.ProfileView{
		ViewerID:  viewerID,
		ViewedID:  viewedID,
		CreatedAt: s.now(),
	}
	if err := s.viewRepo.Create(view); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.Notify(viewedID, ProfileViewEvent{
			Type:       EventProfileViewed,
			ViewerID:   viewerID,
			ViewerName: viewer.FullName(),
			ViewedAt:   view.CreatedAt,
		})
	}
	return nil
}

func (s *profileViewService) PurgeOlderThan(retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention)
	deleted, err := s.viewRepo.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, err
	}
	logger.Info("Purged profile views", map[string]interface{}{
		"cutoff":  cutoff,
		"deleted": deleted,
	})
	return deleted, nil
}
