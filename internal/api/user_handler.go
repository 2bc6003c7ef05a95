package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/member-admin-api/internal/models"
	"github.com/member-admin-api/internal/service"
)

// UserHandler handles the customized user list and inline edits
type UserHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(services *service.Services, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		services: services,
		log:      log.With().Str("handler", "users").Logger(),
	}
}

// ListUsers handles GET /v1/users?role=&q=&sort=&order=&page=&per_page=
func (h *UserHandler) ListUsers(c *gin.Context) {
	query := models.ListQuery{
		Role:    c.Query("role"),
		Keyword: c.Query("q"),
		SortKey: c.Query("sort"),
		Desc:    c.Query("order") == "desc",
	}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))

	result, err := h.services.List.ListUsers(c.Request.Context(), currentActor(c), query)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateField handles PATCH /v1/users/:id/fields/:key
func (h *UserHandler) UpdateField(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req struct {
		Value interface{} `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.services.List.UpdateField(c.Request.Context(), currentActor(c), userID, c.Param("key"), req.Value)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !result.Valid {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
