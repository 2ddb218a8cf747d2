package services

import (
	"errors"

	"github.com/AliiiBenn/mini-auth/internal/models"
	"gorm.io/gorm"
)

// MemberService manages project membership. Policy, re-derived on every
// call rather than cached: only the owner mutates membership; any member
// may list; the owner is implicit and can never be removed or re-roled
// through this service.
type MemberService struct {
	db *gorm.DB
}

func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{db: db}
}

// Add puts a platform user into a project with a role. Caller must own
// the project; the owner themself cannot be added as a member row.
func (s *MemberService) Add(caller *models.User, projectID, userID, role string) (*models.ProjectMember, error) {
	project, err := s.getProject(projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != caller.ID {
		return nil, ErrAuthorizationDenied
	}
	if userID == project.OwnerID {
		return nil, ErrAuthorizationDenied
	}

	var user models.User
	err = s.db.Where("id = ? AND project_id IS NULL", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	member := models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.ProjectMember{}).
			Where("project_id = ? AND user_id = ?", projectID, userID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return &ConflictError{Field: "user_id"}
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Field: "user_id"}
		}
		return nil, err
	}

	member.User = &user
	return &member, nil
}

// List returns a project's members. Callers must be the owner or a
// member themselves.
func (s *MemberService) List(caller *models.User, projectID string) ([]models.ProjectMember, error) {
	project, err := s.getProject(projectID)
	if err != nil {
		return nil, err
	}

	if project.OwnerID != caller.ID {
		isMember, err := s.isMember(projectID, caller.ID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, ErrAuthorizationDenied
		}
	}

	var members []models.ProjectMember
	err = s.db.Where("project_id = ?", projectID).
		Preload("User").
		Order("created_at").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// Remove deletes a member row. Owner only; the owner is not a member row
// and any attempt to target them is denied outright.
func (s *MemberService) Remove(caller *models.User, projectID, userID string) error {
	project, err := s.getProject(projectID)
	if err != nil {
		return err
	}
	if project.OwnerID != caller.ID {
		return ErrAuthorizationDenied
	}
	if userID == project.OwnerID {
		return ErrAuthorizationDenied
	}

	res := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRole changes a member's role. Owner only; the owner's implicit
// role is untouchable.
func (s *MemberService) UpdateRole(caller *models.User, projectID, userID, role string) (*models.ProjectMember, error) {
	project, err := s.getProject(projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != caller.ID {
		return nil, ErrAuthorizationDenied
	}
	if userID == project.OwnerID {
		return nil, ErrAuthorizationDenied
	}

	var member models.ProjectMember
	err = s.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	member.Role = role
	if err := s.db.Save(&member).Error; err != nil {
		return nil, err
	}

	s.db.Preload("User").First(&member, "id = ?", member.ID)
	return &member, nil
}

func (s *MemberService) getProject(projectID string) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (s *MemberService) isMember(projectID, userID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}
