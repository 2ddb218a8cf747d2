package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member roles. The project owner is implicit and never stored as a row,
// which is what keeps the owner out of reach of member removal and
// role-update operations.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// ProjectMember links a platform user to a project with a role.
type ProjectMember struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string    `gorm:"uniqueIndex:idx_project_user;size:36;not null" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UserID    string    `gorm:"uniqueIndex:idx_project_user;size:36;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      string    `gorm:"size:20;default:member" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProjectMember) TableName() string { return "project_members" }

func (m *ProjectMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ValidRole reports whether role is assignable through the member API.
func ValidRole(role string) bool {
	return role == RoleMember || role == RoleAdmin
}
