package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/member-admin-api/internal/fieldvalue"
	"github.com/member-admin-api/internal/models"
	"github.com/member-admin-api/internal/repository"
)

const registeredLayout = "2006-01-02 15:04:05"

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos     *repository.Repositories
	catalog   fieldCatalog
	formatter *fieldvalue.Formatter
	log       zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, cat fieldCatalog, log zerolog.Logger) *exportService {
	return &exportService{
		repos:     repos,
		catalog:   cat,
		formatter: fieldvalue.NewFormatter(repos.Ref),
		log:       log.With().Str("service", "export").Logger(),
	}
}

// ExportUsers streams one CSV row per matching user. Rows are produced one
// at a time so exports never hold the full user set in memory. Admin only.
func (s *exportService) ExportUsers(ctx context.Context, actor models.Actor, req models.ExportRequest, w http.ResponseWriter) error {
	if !actor.IsAdmin() {
		return ErrUnauthorized
	}
	if req.Empty() {
		return ErrEmptyExport
	}
	if req.Delimiter == 0 {
		req.Delimiter = ','
	}

	// Selected custom fields are resolved up front; keys the catalog no
	// longer knows are skipped rather than failing the export.
	defs := make([]models.FieldDefinition, 0, len(req.CustomFields))
	for _, key := range req.CustomFields {
		if def, ok := s.catalog.Lookup(ctx, key); ok {
			defs = append(defs, def)
		}
	}

	filename := fmt.Sprintf("users-%s.csv", time.Now().Format("20060102-150405"))
	charsetTag := "utf-8"
	if req.Charset == models.CharsetLatin1 {
		charsetTag = "iso-8859-1"
	}
	w.Header().Set("Content-Type", "text/csv; charset="+charsetTag)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	out := io.Writer(w)
	var transformer *transform.Writer
	if req.Charset == models.CharsetLatin1 {
		// Unsupported runes are substituted, never dropped, so columns
		// stay aligned.
		enc := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
		transformer = transform.NewWriter(w, enc.Transformer)
		out = transformer
	}

	writer := csv.NewWriter(out)
	writer.Comma = req.Delimiter

	header := make([]string, 0, len(req.HostFields)+len(defs))
	for _, key := range req.HostFields {
		header = append(header, models.HostFieldLabel(key))
	}
	for i := range defs {
		header = append(header, columnLabel(&defs[i]))
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	var roles []string
	if !req.AllRoles() {
		roles = req.Roles
	}

	count := 0
	err := s.repos.User.StreamByRoles(ctx, roles, func(u *models.User) error {
		record := make([]string, 0, len(header))
		for _, key := range req.HostFields {
			value, err := s.hostValue(ctx, u, key)
			if err != nil {
				return err
			}
			record = append(record, value)
		}
		for i := range defs {
			raw, err := s.repos.Meta.Get(ctx, u.ID, metaKey(&defs[i]))
			if err != nil {
				return err
			}
			decoded := fieldvalue.DecodeMeta(raw)
			record = append(record, s.formatter.FormatExport(ctx, decoded, &defs[i]))
		}
		count++
		return writer.Write(record)
	})
	if err != nil {
		return err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	if transformer != nil {
		if err := transformer.Close(); err != nil {
			return err
		}
	}

	s.log.Info().Int("count", count).Str("filename", filename).Msg("Users export completed")
	return nil
}

// hostValue reads one host attribute of a user. Attributes without a direct
// column (first name, locale and so on) fall back to the per-user attribute
// store, reading as "" when unset.
func (s *exportService) hostValue(ctx context.Context, u *models.User, key string) (string, error) {
	switch key {
	case "id":
		return strconv.FormatInt(u.ID, 10), nil
	case "login":
		return u.Login, nil
	case "email":
		return u.Email, nil
	case "nicename":
		return u.Nicename, nil
	case "url":
		return u.URL, nil
	case "registered":
		return u.Registered.Format(registeredLayout), nil
	case "status":
		return strconv.Itoa(u.Status), nil
	case "display_name":
		return u.DisplayName, nil
	case "roles":
		return strings.Join(u.Roles, ", "), nil
	default:
		return s.repos.Meta.Get(ctx, u.ID, key)
	}
}
