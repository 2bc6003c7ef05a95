package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/member-admin-api/internal/service"
)

// SettingsHandler handles field-picker and column-settings endpoints
type SettingsHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(services *service.Services, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		services: services,
		log:      log.With().Str("handler", "settings").Logger(),
	}
}

// AvailableFields handles GET /v1/fields
// Returns every selectable field plus the currently enabled keys.
func (h *SettingsHandler) AvailableFields(c *gin.Context) {
	available, err := h.services.Settings.Available(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, available)
}

// UpdateColumns handles PUT /v1/settings/columns
func (h *SettingsHandler) UpdateColumns(c *gin.Context) {
	var req struct {
		EnabledFields []string `json:"enabled_fields"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	settings, err := h.services.Settings.Update(c.Request.Context(), currentActor(c), req.EnabledFields)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
