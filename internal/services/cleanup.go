package services

import (
	"time"

	"github.com/AliiiBenn/mini-auth/internal/config"
	"github.com/AliiiBenn/mini-auth/internal/models"
	"github.com/AliiiBenn/mini-auth/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// TokenCleanupService hard-deletes refresh tokens that have been expired
// or revoked for longer than the retention window. Read paths filter
// dead rows themselves; this sweep is pure housekeeping and nothing
// depends on when it runs.
type TokenCleanupService struct {
	db        *gorm.DB
	cfg       *config.CleanupConfig
	scheduler *cron.Cron
	now       func() time.Time
}

func NewTokenCleanupService(db *gorm.DB, cfg *config.CleanupConfig) *TokenCleanupService {
	return &TokenCleanupService{db: db, cfg: cfg, now: time.Now}
}

// StartScheduler begins the periodic sweep. Disabled when retention is
// zero or negative.
func (s *TokenCleanupService) StartScheduler() {
	if s.cfg.RetentionDays <= 0 {
		logger.Info().Msg("refresh token cleanup disabled (retention_days <= 0)")
		return
	}

	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc(s.cfg.Schedule, func() {
		s.runCleanup()
	})
	if err != nil {
		logger.Error().Err(err).Str("schedule", s.cfg.Schedule).Msg("invalid cleanup schedule")
		return
	}
	s.scheduler.Start()
	logger.Info().Str("schedule", s.cfg.Schedule).Int("retention_days", s.cfg.RetentionDays).
		Msg("refresh token cleanup scheduler started")
}

// StopScheduler stops the sweep; a run in flight finishes.
func (s *TokenCleanupService) StopScheduler() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *TokenCleanupService) runCleanup() {
	deleted, err := s.CleanupDeadTokens(s.cfg.RetentionDays)
	if err != nil {
		logger.Error().Err(err).Msg("refresh token cleanup failed")
		return
	}
	if deleted > 0 {
		logger.Info().Int64("deleted", deleted).Msg("cleaned up dead refresh tokens")
	}
}

// CleanupDeadTokens deletes rows expired or revoked before the cutoff
// and returns how many went away.
func (s *TokenCleanupService) CleanupDeadTokens(retentionDays int) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -retentionDays)
	res := s.db.Where("expires_at < ? OR revoked_at < ?", cutoff, cutoff).
		Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}
