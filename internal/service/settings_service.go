package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/member-admin-api/internal/models"
	"github.com/member-admin-api/internal/repository"
)

// fieldCatalog is the slice of the catalog the services need. Satisfied by
// *catalog.Catalog.
type fieldCatalog interface {
	Fields(ctx context.Context) []models.FieldDefinition
	Lookup(ctx context.Context, key string) (models.FieldDefinition, bool)
	Invalidate()
	SourceAvailable() bool
}

// settingsService is the concrete implementation of SettingsService
type settingsService struct {
	repos   *repository.Repositories
	catalog fieldCatalog
	log     zerolog.Logger
}

// newSettingsService creates a new SettingsService
func newSettingsService(repos *repository.Repositories, cat fieldCatalog, log zerolog.Logger) *settingsService {
	return &settingsService{
		repos:   repos,
		catalog: cat,
		log:     log.With().Str("service", "settings").Logger(),
	}
}

// Available returns every selectable field plus the currently enabled keys.
func (s *settingsService) Available(ctx context.Context) (*AvailableFields, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &AvailableFields{
		Fields:  s.catalog.Fields(ctx),
		Enabled: settings.EnabledFields,
	}, nil
}

// Get reads the stored column settings. A missing or unreadable settings row
// reads as empty settings, never an error surface to the list.
func (s *settingsService) Get(ctx context.Context) (*models.Settings, error) {
	raw, found, err := s.repos.Option.Get(ctx, models.SettingsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	settings := &models.Settings{EnabledFields: []string{}}
	if !found || raw == "" {
		return settings, nil
	}
	if err := json.Unmarshal([]byte(raw), settings); err != nil {
		s.log.Warn().Err(err).Msg("Stored settings are malformed, treating as empty")
		return &models.Settings{EnabledFields: []string{}}, nil
	}
	if settings.EnabledFields == nil {
		settings.EnabledFields = []string{}
	}
	return settings, nil
}

// Update replaces the enabled-column set. Admin only. The field catalog is
// invalidated synchronously so the next list render sees the new columns.
func (s *settingsService) Update(ctx context.Context, actor models.Actor, enabled []string) (*models.Settings, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}

	settings := &models.Settings{EnabledFields: enabled}
	settings.EnabledFields = settings.Dedupe()

	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := s.repos.Option.Set(ctx, models.SettingsKey, string(raw)); err != nil {
		return nil, fmt.Errorf("failed to store settings: %w", err)
	}

	s.catalog.Invalidate()
	s.log.Info().Int("enabled", len(settings.EnabledFields)).Msg("Column settings updated")
	return settings, nil
}
