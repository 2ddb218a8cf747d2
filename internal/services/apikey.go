package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/AliiiBenn/mini-auth/internal/models"
	"github.com/AliiiBenn/mini-auth/pkg/logger"
	"gorm.io/gorm"
)

// APIKeyService verifies project API keys and manages their lifecycle.
type APIKeyService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAPIKeyService(db *gorm.DB) *APIKeyService {
	return &APIKeyService{db: db, now: time.Now}
}

// WithTx returns the service bound to tx so key writes can join an
// enclosing transaction.
func (s *APIKeyService) WithTx(tx *gorm.DB) *APIKeyService {
	return &APIKeyService{db: tx, now: s.now}
}

// Validate resolves a key value to its active parent project. A missing
// key, an inactive key and an inactive project all fail identically so
// the endpoint cannot be used to enumerate keys. A successful hit
// updates last_used_at best-effort; that write failing never fails the
// request.
func (s *APIKeyService) Validate(keyValue string) (*models.Project, error) {
	if keyValue == "" {
		return nil, ErrAuthenticationFailed
	}

	var key models.ProjectApiKey
	err := s.db.Where("key = ?", keyValue).First(&key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}
	if !key.IsActive {
		return nil, ErrAuthenticationFailed
	}

	var project models.Project
	err = s.db.Where("id = ? AND is_active = ?", key.ProjectID, true).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	if err := s.db.Model(&key).Update("last_used_at", s.now()).Error; err != nil {
		logger.Warn().Err(err).Str("key_id", key.ID).Msg("failed to record api key usage")
	}

	return &project, nil
}

// Create issues a new key for a project. Key material follows the
// ma_<unix>_<random> format and is only meaningful by exact match.
func (s *APIKeyService) Create(projectID, name string) (*models.ProjectApiKey, error) {
	value, err := s.generateKey()
	if err != nil {
		return nil, err
	}

	key := models.ProjectApiKey{
		ProjectID: projectID,
		Key:       value,
		Name:      name,
	}
	if err := s.db.Create(&key).Error; err != nil {
		return nil, err
	}
	return &key, nil
}

// List returns a project's keys, active only unless includeInactive.
func (s *APIKeyService) List(projectID string, includeInactive bool) ([]models.ProjectApiKey, error) {
	query := s.db.Where("project_id = ?", projectID)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var keys []models.ProjectApiKey
	if err := query.Order("created_at").Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// Deactivate soft-disables a key within a project. Deactivation is
// forward-only: new client logins and registrations through the key stop
// working, but refresh tokens already issued under it stay valid until
// they expire or are revoked explicitly.
func (s *APIKeyService) Deactivate(projectID, keyID string) error {
	res := s.db.Model(&models.ProjectApiKey{}).
		Where("id = ? AND project_id = ?", keyID, projectID).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateAll disables every key of a project, used when the project
// itself is deleted.
func (s *APIKeyService) DeactivateAll(tx *gorm.DB, projectID string) error {
	return tx.Model(&models.ProjectApiKey{}).
		Where("project_id = ?", projectID).
		Update("is_active", false).Error
}

func (s *APIKeyService) generateKey() (string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	random := base64.RawURLEncoding.EncodeToString(randomBytes)
	return fmt.Sprintf("ma_%d_%s", s.now().Unix(), random), nil
}
