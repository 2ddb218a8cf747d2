package main

import (
	"github.com/AliiiBenn/mini-auth/internal/config"
	"github.com/AliiiBenn/mini-auth/internal/handlers"
	"github.com/AliiiBenn/mini-auth/internal/models"
	"github.com/AliiiBenn/mini-auth/internal/services"
	"github.com/AliiiBenn/mini-auth/pkg/logger"
)

// appServices holds the initialized services and handlers the router
// needs.
type appServices struct {
	tokens  *services.TokenService
	users   *services.UserService
	keys    *services.APIKeyService
	cleanup *services.TokenCleanupService

	authHandler    *handlers.AuthHandler
	clientHandler  *handlers.ClientAuthHandler
	userHandler    *handlers.UserHandler
	projectHandler *handlers.ProjectHandler
	keyHandler     *handlers.APIKeyHandler
	memberHandler  *handlers.ProjectMemberHandler
	healthHandler  *handlers.HealthHandler
}

// bootstrap initializes the database, services and schedulers.
func bootstrap(cfg *config.Config) *appServices {
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	tokens := services.NewTokenService(db, &cfg.JWT)
	users := services.NewUserService(db)
	keys := services.NewAPIKeyService(db)
	auth := services.NewAuthService(db, users, tokens)
	projects := services.NewProjectService(db, keys)
	members := services.NewMemberService(db)

	cleanup := services.NewTokenCleanupService(db, &cfg.Cleanup)
	cleanup.StartScheduler()

	return &appServices{
		tokens:  tokens,
		users:   users,
		keys:    keys,
		cleanup: cleanup,

		authHandler:    handlers.NewAuthHandler(auth, users, &cfg.JWT),
		clientHandler:  handlers.NewClientAuthHandler(auth, users),
		userHandler:    handlers.NewUserHandler(users),
		projectHandler: handlers.NewProjectHandler(projects),
		keyHandler:     handlers.NewAPIKeyHandler(projects, keys),
		memberHandler:  handlers.NewProjectMemberHandler(members),
		healthHandler:  handlers.NewHealthHandler(db),
	}
}

// shutdown stops background schedulers.
func (s *appServices) shutdown() {
	s.cleanup.StopScheduler()
	logger.Info().Msg("All schedulers stopped")
}
