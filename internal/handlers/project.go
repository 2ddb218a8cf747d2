package handlers

import (
	"strconv"

	"github.com/AliiiBenn/mini-auth/internal/middleware"
	"github.com/AliiiBenn/mini-auth/internal/services"
	"github.com/AliiiBenn/mini-auth/pkg/response"
	"github.com/gin-gonic/gin"
)

// ProjectHandler serves project CRUD for platform users. Every lookup
// is owner-scoped: a project that exists but belongs to someone else
// responds exactly like one that does not exist.
type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Create registers a project and mints its default API key. The key
// value is only returned here.
// POST /api/v1/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	user := middleware.GetUser(c)

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, defaultKey, err := h.projects.Create(user.ID, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, gin.H{
		"project":         project,
		"default_api_key": defaultKey,
	})
}

// List returns the caller's projects, newest first.
// GET /api/v1/projects
func (h *ProjectHandler) List(c *gin.Context) {
	user := middleware.GetUser(c)
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	projects, total, err := h.projects.ListOwned(user.ID, offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"items": projects,
		"total": total,
	})
}

// Get returns one owned project.
// GET /api/v1/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	user := middleware.GetUser(c)

	project, err := h.projects.GetOwned(c.Param("id"), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, project)
}

// Update changes name and/or description of an owned project.
// PUT /api/v1/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	user := middleware.GetUser(c)

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projects.Update(c.Param("id"), user.ID, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, project)
}

// Delete retires a project: the record is soft-deleted, its API keys
// deactivated and its memberships removed.
// DELETE /api/v1/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	user := middleware.GetUser(c)

	if err := h.projects.Delete(c.Param("id"), user.ID); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"detail": "project deleted"})
}
