package handlers

import (
	"github.com/AliiiBenn/mini-auth/internal/middleware"
	"github.com/AliiiBenn/mini-auth/internal/services"
	"github.com/AliiiBenn/mini-auth/internal/utils"
	"github.com/AliiiBenn/mini-auth/pkg/response"
	"github.com/gin-gonic/gin"
)

// ClientAuthHandler serves the end-user authentication endpoints. Every
// route here sits behind a project API key, so the project is taken from
// the request, never from user input. Tokens travel in the body only;
// cookies are a platform concern.
type ClientAuthHandler struct {
	auth  *services.AuthService
	users *services.UserService
}

func NewClientAuthHandler(auth *services.AuthService, users *services.UserService) *ClientAuthHandler {
	return &ClientAuthHandler{auth: auth, users: users}
}

// Register creates an end-user inside the key's project.
// POST /api/v1/client/auth/register
func (h *ClientAuthHandler) Register(c *gin.Context) {
	project := middleware.GetProject(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.Password != req.ConfirmPassword {
		response.BadRequest(c, "passwords do not match")
		return
	}
	if !utils.IsPasswordStrong(req.Password) {
		response.BadRequest(c, "password is not strong enough")
		return
	}

	user, err := h.users.RegisterClient(project, req.Email, req.Password, req.FullName)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, user)
}

// Login authenticates an end-user of the key's project.
// POST /api/v1/client/auth/login
func (h *ClientAuthHandler) Login(c *gin.Context) {
	project := middleware.GetProject(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.auth.ClientLogin(project, req.Email, req.Password, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, TokenResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		TokenType:    "bearer",
	})
}

// Refresh rotates an end-user session. A refresh token minted under a
// different project is rejected, not rotated.
// POST /api/v1/client/auth/refresh
func (h *ClientAuthHandler) Refresh(c *gin.Context) {
	project := middleware.GetProject(c)

	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		response.BadRequest(c, "refresh_token is required")
		return
	}

	result, err := h.auth.ClientRefresh(project, req.RefreshToken, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, TokenResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		TokenType:    "bearer",
	})
}

// Logout revokes an end-user refresh token. Unknown or foreign tokens
// are ignored so the endpoint leaks nothing about other tenants.
// POST /api/v1/client/auth/logout
func (h *ClientAuthHandler) Logout(c *gin.Context) {
	project := middleware.GetProject(c)

	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		response.BadRequest(c, "refresh_token is required")
		return
	}

	if err := h.auth.ClientLogout(project, req.RefreshToken); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"detail": "successfully logged out"})
}

// CurrentUser returns the end-user resolved from the access token.
// GET /api/v1/client/auth/user
func (h *ClientAuthHandler) CurrentUser(c *gin.Context) {
	response.Success(c, middleware.GetUser(c))
}
