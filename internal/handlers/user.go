package handlers

import (
	"github.com/AliiiBenn/mini-auth/internal/middleware"
	"github.com/AliiiBenn/mini-auth/internal/services"
	"github.com/AliiiBenn/mini-auth/internal/utils"
	"github.com/AliiiBenn/mini-auth/pkg/response"
	"github.com/gin-gonic/gin"
)

// UserHandler serves the platform user's own profile.
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type UpdateProfileRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	FullName *string `json:"full_name"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// Me returns the authenticated user.
// GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	response.Success(c, middleware.GetUser(c))
}

// UpdateMe changes email and/or full name. Omitted fields are left
// untouched.
// PUT /api/v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user := middleware.GetUser(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.users.UpdateProfile(user.ID, req.Email, req.FullName)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, updated)
}

// ChangePassword verifies the current password before accepting the new
// one.
// POST /api/v1/users/me/change-password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	user := middleware.GetUser(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !utils.IsPasswordStrong(req.NewPassword) {
		response.BadRequest(c, "password is not strong enough")
		return
	}

	if err := h.users.ChangePassword(user.ID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"detail": "password changed"})
}
