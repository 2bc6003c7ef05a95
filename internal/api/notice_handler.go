package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/member-admin-api/internal/service"
)

// NoticeHandler handles admin notice endpoints
type NoticeHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewNoticeHandler creates a new NoticeHandler
func NewNoticeHandler(services *service.Services, log zerolog.Logger) *NoticeHandler {
	return &NoticeHandler{
		services: services,
		log:      log.With().Str("handler", "notices").Logger(),
	}
}

// Pending handles GET /v1/notices
func (h *NoticeHandler) Pending(c *gin.Context) {
	notices, err := h.services.Notice.Pending(c.Request.Context(), currentActor(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notices": notices})
}

// Dismiss handles POST /v1/notices/:id/dismiss
func (h *NoticeHandler) Dismiss(c *gin.Context) {
	if err := h.services.Notice.Dismiss(c.Request.Context(), currentActor(c), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dismissed": c.Param("id")})
}
