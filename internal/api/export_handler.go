package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/member-admin-api/internal/models"
	"github.com/member-admin-api/internal/service"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// ExportUsers handles GET /v1/exports/users?fields=&custom_fields=&roles=&delimiter=&charset=
// Streams the CSV directly to the response.
func (h *ExportHandler) ExportUsers(c *gin.Context) {
	req := models.ExportRequest{
		HostFields:   splitParam(c.Query("fields")),
		CustomFields: splitParam(c.Query("custom_fields")),
		Roles:        splitParam(c.Query("roles")),
		Delimiter:    models.ParseDelimiter(c.Query("delimiter")),
		Charset:      models.CharsetUTF8,
	}
	if strings.EqualFold(c.Query("charset"), models.CharsetLatin1) {
		req.Charset = models.CharsetLatin1
	}

	err := h.services.Export.ExportUsers(c.Request.Context(), currentActor(c), req, c.Writer)
	if err == service.ErrUnauthorized || err == service.ErrEmptyExport {
		respondError(c, h.log, err)
		return
	}
	if err != nil {
		// Headers are out the door once streaming starts; log and stop.
		h.log.Error().Err(err).Msg("Export failed")
	}
}

// splitParam splits a comma-separated query value, dropping empty entries.
func splitParam(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
