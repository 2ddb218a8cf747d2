package handlers

import (
	"strconv"

	"github.com/AliiiBenn/mini-auth/internal/middleware"
	"github.com/AliiiBenn/mini-auth/internal/services"
	"github.com/AliiiBenn/mini-auth/pkg/response"
	"github.com/gin-gonic/gin"
)

// APIKeyHandler manages the API keys of an owned project. Ownership is
// re-checked on every call, so a foreign project id yields not-found
// before any key is touched.
type APIKeyHandler struct {
	projects *services.ProjectService
	keys     *services.APIKeyService
}

func NewAPIKeyHandler(projects *services.ProjectService, keys *services.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{projects: projects, keys: keys}
}

type CreateAPIKeyRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create mints a new key for the project.
// POST /api/v1/projects/:id/api-keys
func (h *APIKeyHandler) Create(c *gin.Context) {
	user := middleware.GetUser(c)
	projectID := c.Param("id")

	if _, err := h.projects.GetOwned(projectID, user.ID); err != nil {
		respondError(c, err)
		return
	}

	var req CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	key, err := h.keys.Create(projectID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, key)
}

// List returns the project's keys. Deactivated keys are included only
// on request.
// GET /api/v1/projects/:id/api-keys
func (h *APIKeyHandler) List(c *gin.Context) {
	user := middleware.GetUser(c)
	projectID := c.Param("id")

	if _, err := h.projects.GetOwned(projectID, user.ID); err != nil {
		respondError(c, err)
		return
	}

	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("include_inactive", "false"))
	keys, err := h.keys.List(projectID, includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, keys)
}

// Deactivate permanently disables one key. There is no reactivation.
// DELETE /api/v1/projects/:id/api-keys/:keyID
func (h *APIKeyHandler) Deactivate(c *gin.Context) {
	user := middleware.GetUser(c)
	projectID := c.Param("id")

	if _, err := h.projects.GetOwned(projectID, user.ID); err != nil {
		respondError(c, err)
		return
	}

	if err := h.keys.Deactivate(projectID, c.Param("keyID")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"detail": "api key deactivated"})
}
