package handlers

import (
	"github.com/AliiiBenn/mini-auth/internal/middleware"
	"github.com/AliiiBenn/mini-auth/internal/models"
	"github.com/AliiiBenn/mini-auth/internal/services"
	"github.com/AliiiBenn/mini-auth/pkg/response"
	"github.com/gin-gonic/gin"
)

// ProjectMemberHandler manages project collaborators. Mutations are
// owner-only; listing is open to owner and members.
type ProjectMemberHandler struct {
	members *services.MemberService
}

func NewProjectMemberHandler(members *services.MemberService) *ProjectMemberHandler {
	return &ProjectMemberHandler{members: members}
}

type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// Add attaches a platform user to the project.
// POST /api/v1/projects/:id/members
func (h *ProjectMemberHandler) Add(c *gin.Context) {
	caller := middleware.GetUser(c)

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !models.ValidRole(req.Role) {
		response.BadRequest(c, "role must be member or admin")
		return
	}

	member, err := h.members.Add(caller, c.Param("id"), req.UserID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, member)
}

// List returns the project's members.
// GET /api/v1/projects/:id/members
func (h *ProjectMemberHandler) List(c *gin.Context) {
	caller := middleware.GetUser(c)

	members, err := h.members.List(caller, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, members)
}

// Remove detaches a member. The owner is not a member row and cannot
// be removed.
// DELETE /api/v1/projects/:id/members/:userID
func (h *ProjectMemberHandler) Remove(c *gin.Context) {
	caller := middleware.GetUser(c)

	if err := h.members.Remove(caller, c.Param("id"), c.Param("userID")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"detail": "member removed"})
}

// UpdateRole switches a member between member and admin.
// PUT /api/v1/projects/:id/members/:userID/role
func (h *ProjectMemberHandler) UpdateRole(c *gin.Context) {
	caller := middleware.GetUser(c)

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !models.ValidRole(req.Role) {
		response.BadRequest(c, "role must be member or admin")
		return
	}

	member, err := h.members.UpdateRole(caller, c.Param("id"), c.Param("userID"), req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, member)
}
