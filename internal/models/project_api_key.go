package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectApiKey is an opaque secret that lets a client application act on
// behalf of a project. Keys are soft-deactivated, never deleted, so the
// audit trail survives.
type ProjectApiKey struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	ProjectID  string     `gorm:"index;size:36;not null" json:"project_id"`
	Project    *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Key        string     `gorm:"uniqueIndex;size:100;not null" json:"key"`
	Name       string     `gorm:"size:50;not null" json:"name"`
	IsActive   bool       `gorm:"default:true" json:"is_active"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (ProjectApiKey) TableName() string { return "project_api_keys" }

func (k *ProjectApiKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.NewString()
	}
	return nil
}
