package services

import (
	"testing"

	"github.com/AliiiBenn/mini-auth/internal/config"
	"github.com/AliiiBenn/mini-auth/internal/models"
	"github.com/AliiiBenn/mini-auth/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testPassword = "Password1"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:              "test-secret",
		AccessExpireMinutes: 30,
		RefreshExpireDays:   7,
	}
}

func createPlatformUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		Email:          email,
		HashedPassword: hash,
		FullName:       "Test User",
		IsActive:       true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create platform user: %v", err)
	}
	return &user
}

func createClientUser(t *testing.T, db *gorm.DB, projectID, email string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		Email:          email,
		ProjectID:      &projectID,
		HashedPassword: hash,
		IsActive:       true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create client user: %v", err)
	}
	return &user
}

func createProject(t *testing.T, db *gorm.DB, ownerID, name string) *models.Project {
	t.Helper()
	project := models.Project{
		Name:     name,
		OwnerID:  ownerID,
		IsActive: true,
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	return &project
}
