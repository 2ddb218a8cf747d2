package main

import (
	"github.com/AliiiBenn/mini-auth/internal/middleware"
	"github.com/AliiiBenn/mini-auth/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())
	r.Use(middleware.Authenticate(svc.tokens, svc.users, svc.keys))

	// Credential-guessing endpoints share one per-IP limiter.
	authLimiter := middleware.NewRateLimiter(5, 10)

	r.GET("/health", svc.healthHandler.Check)

	api := r.Group("/api/v1")
	{
		// Platform authentication
		auth := api.Group("/auth")
		{
			auth.POST("/register", authLimiter.Middleware(), svc.authHandler.Register)
			auth.POST("/login", authLimiter.Middleware(), svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
			auth.POST("/logout", svc.authHandler.Logout)
			auth.POST("/logout-all", middleware.RequirePlatform(), svc.authHandler.LogoutAll)
		}

		// Platform user profile
		users := api.Group("/users", middleware.RequirePlatform())
		{
			users.GET("/me", svc.userHandler.Me)
			users.PUT("/me", svc.userHandler.UpdateMe)
			users.POST("/me/change-password", svc.userHandler.ChangePassword)
		}

		// Projects, API keys, members
		projects := api.Group("/projects", middleware.RequirePlatform())
		{
			projects.POST("", svc.projectHandler.Create)
			projects.GET("", svc.projectHandler.List)
			projects.GET("/:id", svc.projectHandler.Get)
			projects.PUT("/:id", svc.projectHandler.Update)
			projects.DELETE("/:id", svc.projectHandler.Delete)

			projects.POST("/:id/api-keys", svc.keyHandler.Create)
			projects.GET("/:id/api-keys", svc.keyHandler.List)
			projects.DELETE("/:id/api-keys/:keyID", svc.keyHandler.Deactivate)

			projects.POST("/:id/members", svc.memberHandler.Add)
			projects.GET("/:id/members", svc.memberHandler.List)
			projects.DELETE("/:id/members/:userID", svc.memberHandler.Remove)
			projects.PUT("/:id/members/:userID/role", svc.memberHandler.UpdateRole)
		}

		// End-user authentication, behind a project API key
		client := api.Group("/client/auth", middleware.RequireProjectKey())
		{
			client.POST("/register", authLimiter.Middleware(), svc.clientHandler.Register)
			client.POST("/login", authLimiter.Middleware(), svc.clientHandler.Login)
			client.POST("/refresh", svc.clientHandler.Refresh)
			client.POST("/logout", svc.clientHandler.Logout)
		}
		api.GET("/client/auth/user", middleware.RequireClient(), svc.clientHandler.CurrentUser)
	}
}
