package models

import (
	"fmt"

	"github.com/AliiiBenn/mini-auth/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

// Migrate runs the schema migration on db.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Project{},
		&ProjectApiKey{},
		&ProjectMember{},
		&RefreshToken{},
	)
	if err != nil {
		return err
	}
	return createPlatformEmailIndex(db)
}

func AutoMigrate() error {
	return Migrate(DB)
}

// createPlatformEmailIndex guards the platform namespace. The composite
// unique index on (email, project_id) treats NULL project_id rows as
// distinct, so without this two platform users could share an email.
func createPlatformEmailIndex(db *gorm.DB) error {
	if db.Migrator().HasIndex(&User{}, "idx_users_platform_email") {
		return nil
	}
	if db.Dialector.Name() == "mysql" {
		// No partial indexes in MySQL; a functional index over
		// COALESCE collapses the NULL rows into one namespace.
		return db.Exec(
			"CREATE UNIQUE INDEX idx_users_platform_email ON users ((COALESCE(project_id, '')), email)",
		).Error
	}
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_platform_email ON users (email) WHERE project_id IS NULL",
	).Error
}

func GetDB() *gorm.DB {
	return DB
}
