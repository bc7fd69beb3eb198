package scheduler

import (
	"time"

	"github.com/ikkim/member-directory/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Purger is satisfied by the profile view service.
type Purger interface {
	PurgeOlderThan(retention time.Duration) (int64, error)
}

// ProfileViewScheduler prunes old profile views on a cron schedule.
type ProfileViewScheduler struct {
	cron      *cron.Cron
	purger    Purger
	spec      string
	retention time.Duration
}

func NewProfileViewScheduler(purger Purger, spec string, retention time.Duration) *ProfileViewScheduler {
	return &ProfileViewScheduler{
		cron:      cron.New(),
		purger:    purger,
		spec:      spec,
		retention: retention,
	}
}

// RunOnce performs a single purge.
func (s *ProfileViewScheduler) RunOnce() {
	logger.Info("Starting scheduled profile view cleanup", map[string]interface{}{
		"retention": s.retention.String(),
	})

	deleted, err := s.purger.PurgeOlderThan(s.retention)
	if err != nil {
		logger.Error("Failed to purge profile views from scheduler", err)
		return
	}

	logger.Info("Profile view cleanup finished", map[string]interface{}{
		"deleted": deleted,
	})
}

func (s *ProfileViewScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for profile view cleanup", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Profile view scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// Stop waits for a running purge to finish.
func (s *ProfileViewScheduler) Stop() {
	logger.Info("Stopping profile view scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Profile view scheduler stopped")
}
