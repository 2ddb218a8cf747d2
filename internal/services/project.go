package services

import (
	"errors"

	"github.com/AliiiBenn/mini-auth/internal/models"
	"gorm.io/gorm"
)

// ProjectService manages tenant projects. Every read is scoped to the
// caller: a project that exists but is owned by someone else looks
// exactly like a project that does not exist.
type ProjectService struct {
	db   *gorm.DB
	keys *APIKeyService
}

func NewProjectService(db *gorm.DB, keys *APIKeyService) *ProjectService {
	return &ProjectService{db: db, keys: keys}
}

// Create makes a project owned by ownerID together with its default API
// key, in one transaction. The key value is only returned here.
func (s *ProjectService) Create(ownerID, name, description string) (*models.Project, *models.ProjectApiKey, error) {
	project := models.Project{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		IsActive:    true,
	}

	var defaultKey *models.ProjectApiKey
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		key, err := s.keys.WithTx(tx).Create(project.ID, "Default")
		if err != nil {
			return err
		}
		defaultKey = key
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &project, defaultKey, nil
}

// Get loads a project regardless of caller.
func (s *ProjectService) Get(projectID string) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// GetOwned loads a project only if ownerID owns it. Absent and
// foreign-owned both come back as ErrNotFound.
func (s *ProjectService) GetOwned(projectID, ownerID string) (*models.Project, error) {
	var project models.Project
	err := s.db.Where("id = ? AND owner_id = ?", projectID, ownerID).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// ListOwned returns the caller's projects with offset/limit pagination.
func (s *ProjectService) ListOwned(ownerID string, offset, limit int) ([]models.Project, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := s.db.Model(&models.Project{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	err := query.Order("created_at").Offset(offset).Limit(limit).Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// Update changes name/description on a project the caller owns. Nil
// pointers leave fields untouched.
func (s *ProjectService) Update(projectID, ownerID string, name, description *string) (*models.Project, error) {
	project, err := s.GetOwned(projectID, ownerID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		project.Name = *name
	}
	if description != nil {
		project.Description = *description
	}

	if err := s.db.Save(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// Delete soft-deletes a project the caller owns and cascades: all of its
// API keys go inactive and its member rows are removed, in the same
// transaction.
func (s *ProjectService) Delete(projectID, ownerID string) error {
	project, err := s.GetOwned(projectID, ownerID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(project).Update("is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Delete(project).Error; err != nil {
			return err
		}
		if err := s.keys.DeactivateAll(tx, project.ID); err != nil {
			return err
		}
		return tx.Where("project_id = ?", project.ID).
			Delete(&models.ProjectMember{}).Error
	})
}
