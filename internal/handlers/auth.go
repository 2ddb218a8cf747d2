package handlers

import (
	"github.com/AliiiBenn/mini-auth/internal/config"
	"github.com/AliiiBenn/mini-auth/internal/middleware"
	"github.com/AliiiBenn/mini-auth/internal/services"
	"github.com/AliiiBenn/mini-auth/internal/utils"
	"github.com/AliiiBenn/mini-auth/pkg/response"
	"github.com/gin-gonic/gin"
)

// AuthHandler serves the platform (dashboard) authentication endpoints.
// Platform sessions travel both ways: HTTP-only cookies for browsers and
// a token body for API clients.
type AuthHandler struct {
	auth   *services.AuthService
	users  *services.UserService
	jwtCfg *config.JWTConfig
}

func NewAuthHandler(auth *services.AuthService, users *services.UserService, jwtCfg *config.JWTConfig) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, jwtCfg: jwtCfg}
}

type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FullName        string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Register creates a platform user.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
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

	user, err := h.users.RegisterPlatform(req.Email, req.Password, req.FullName)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, user)
}

// Login authenticates a platform user and starts a session.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Login(req.Email, req.Password, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookies(c, result.AccessToken, result.RefreshToken)
	response.Success(c, TokenResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		TokenType:    "bearer",
	})
}

// Refresh rotates the session: new access token, replacement refresh
// token, old one revoked. The refresh value comes from the cookie or
// the body.
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshValue := h.refreshValueFrom(c)
	if refreshValue == "" {
		response.Unauthorized(c, "authentication failed")
		return
	}

	result, err := h.auth.Refresh(refreshValue, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookies(c, result.AccessToken, result.RefreshToken)
	response.Success(c, TokenResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		TokenType:    "bearer",
	})
}

// Logout revokes the presented refresh token and clears cookies. It
// succeeds even with nothing to revoke.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(h.refreshValueFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	h.clearSessionCookies(c)
	response.Success(c, gin.H{"detail": "successfully logged out"})
}

// LogoutAll revokes every session of the authenticated user.
// POST /api/v1/auth/logout-all
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	user := middleware.GetUser(c)
	if err := h.auth.LogoutAll(user.ID); err != nil {
		respondError(c, err)
		return
	}
	h.clearSessionCookies(c)
	response.Success(c, gin.H{"detail": "successfully logged out from all devices"})
}

func (h *AuthHandler) refreshValueFrom(c *gin.Context) string {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	if cookie, err := c.Cookie(middleware.CookieRefreshToken); err == nil {
		return cookie
	}
	return ""
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetCookie(middleware.CookieAccessToken, accessToken,
		h.jwtCfg.AccessExpireMinutes*60, "/", "", true, true)
	c.SetCookie(middleware.CookieRefreshToken, refreshToken,
		h.jwtCfg.RefreshExpireDays*24*3600, "/", "", true, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	c.SetCookie(middleware.CookieAccessToken, "", -1, "/", "", true, true)
	c.SetCookie(middleware.CookieRefreshToken, "", -1, "/", "", true, true)
}
