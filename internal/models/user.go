package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a principal. Platform users (dashboard owners) have a
// nil ProjectID; project end-users are scoped to exactly one project.
// Email is unique per (email, project_id) pair, so the same address can
// exist once per project and once in the platform namespace.
type User struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	Email          string         `gorm:"uniqueIndex:idx_users_email_project;size:255;not null" json:"email"`
	ProjectID      *string        `gorm:"uniqueIndex:idx_users_email_project;index;size:36" json:"project_id,omitempty"`
	HashedPassword string         `gorm:"size:255;not null" json:"-"`
	FullName       string         `gorm:"size:100" json:"full_name"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsPlatform reports whether the user belongs to the platform namespace
// rather than to a single project.
func (u *User) IsPlatform() bool { return u.ProjectID == nil }
