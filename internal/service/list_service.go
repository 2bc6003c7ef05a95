package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/member-admin-api/internal/fieldvalue"
	"github.com/member-admin-api/internal/models"
	"github.com/member-admin-api/internal/repository"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// listService is the concrete implementation of ListService
type listService struct {
	repos     *repository.Repositories
	catalog   fieldCatalog
	settings  SettingsService
	formatter *fieldvalue.Formatter
	log       zerolog.Logger
}

// newListService creates a new ListService
func newListService(repos *repository.Repositories, cat fieldCatalog, log zerolog.Logger) *listService {
	return &listService{
		repos:     repos,
		catalog:   cat,
		settings:  newSettingsService(repos, cat, log),
		formatter: fieldvalue.NewFormatter(repos.Ref),
		log:       log.With().Str("service", "list").Logger(),
	}
}

// Columns returns the custom-field columns of the user list: one column per
// enabled field still present in the catalog, in configured order. Enabled
// keys whose field has disappeared are skipped silently.
func (s *listService) Columns(ctx context.Context) []models.Column {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read column settings")
		return []models.Column{}
	}

	columns := make([]models.Column, 0, len(settings.EnabledFields))
	for _, key := range settings.EnabledFields {
		def, ok := s.catalog.Lookup(ctx, key)
		if !ok {
			continue
		}
		columns = append(columns, models.Column{
			Key:      models.ColumnKey(def.Key),
			Label:    columnLabel(&def),
			Type:     def.RawType,
			Sortable: def.Type.Sortable(),
			Editable: def.Type.Editable(),
			Choices:  def.Choices,
		})
	}
	return columns
}

// ListUsers returns one page of the customized list with rendered cells.
func (s *listService) ListUsers(ctx context.Context, actor models.Actor, query models.ListQuery) (*models.ListResult, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 {
		query.PerPage = defaultPerPage
	}
	if query.PerPage > maxPerPage {
		query.PerPage = maxPerPage
	}

	opts := repository.ListOptions{
		Keyword: query.Keyword,
		Sort:    s.resolveSort(ctx, query.SortKey, query.Desc),
		Offset:  (query.Page - 1) * query.PerPage,
		Limit:   query.PerPage,
	}
	if query.Role != "" && query.Role != "all" {
		opts.Roles = []string{query.Role}
	}

	users, err := s.repos.User.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	total, err := s.repos.User.Count(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	columns := s.Columns(ctx)
	rows := make([]models.UserRow, 0, len(users))
	for _, u := range users {
		row := models.UserRow{User: u, Cells: make([]models.Cell, 0, len(columns))}
		for _, col := range columns {
			fieldKey, _ := models.FieldKeyFromColumn(col.Key)
			def, ok := s.catalog.Lookup(ctx, fieldKey)
			if !ok {
				continue
			}
			cell, err := s.renderCell(ctx, u.ID, col.Key, &def)
			if err != nil {
				return nil, err
			}
			cell.Editable = col.Editable && actor.CanEditUser(u.ID)
			if cell.Editable {
				cell.State = models.EditorDisplaying
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}

	return &models.ListResult{
		Columns: columns,
		Rows:    rows,
		Total:   total,
		Page:    query.Page,
		PerPage: query.PerPage,
	}, nil
}

// UpdateField applies one inline edit: authorize, sanitize, validate,
// persist, then re-read through the display path so the caller gets exactly
// what the list will render. A validation failure persists nothing.
func (s *listService) UpdateField(ctx context.Context, actor models.Actor, userID int64, columnKey string, input interface{}) (*models.FieldUpdateResult, error) {
	fieldKey, ok := models.FieldKeyFromColumn(columnKey)
	if !ok {
		return nil, ErrUnknownField
	}
	def, ok := s.catalog.Lookup(ctx, fieldKey)
	if !ok {
		return nil, ErrUnknownField
	}
	if !def.Type.Editable() {
		return nil, ErrNotEditable
	}
	if !actor.CanEditUser(userID) {
		return nil, ErrUnauthorized
	}

	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	clean := fieldvalue.Sanitize(input, def.Type)
	if result := fieldvalue.Validate(clean, &def); !result.Valid {
		current, err := s.renderCell(ctx, userID, columnKey, &def)
		if err != nil {
			return nil, err
		}
		return &models.FieldUpdateResult{
			Valid:   false,
			Message: result.Message,
			Value:   current.Value,
		}, nil
	}

	if err := s.repos.Meta.Set(ctx, userID, metaKey(&def), fieldvalue.EncodeMeta(clean)); err != nil {
		return nil, fmt.Errorf("failed to store field value: %w", err)
	}
	s.log.Info().Int64("user_id", userID).Str("field", def.Key).Msg("Field value updated")

	cell, err := s.renderCell(ctx, userID, columnKey, &def)
	if err != nil {
		return nil, err
	}
	return &models.FieldUpdateResult{Valid: true, Value: cell.Value}, nil
}

// renderCell reads a stored value fresh and display-formats it.
func (s *listService) renderCell(ctx context.Context, userID int64, columnKey string, def *models.FieldDefinition) (models.Cell, error) {
	raw, err := s.repos.Meta.Get(ctx, userID, metaKey(def))
	if err != nil {
		return models.Cell{}, fmt.Errorf("failed to read field value: %w", err)
	}
	decoded := fieldvalue.DecodeMeta(raw)
	return models.Cell{
		Key:   columnKey,
		Value: s.formatter.Format(ctx, decoded, def),
		Raw:   decoded,
	}, nil
}

// resolveSort maps a requested sort key to a typed sort spec. Keys that are
// not enabled-and-sortable custom-field columns fall back to the default
// ordering rather than erroring.
func (s *listService) resolveSort(ctx context.Context, sortKey string, desc bool) *repository.SortSpec {
	if sortKey == "" {
		return nil
	}
	fieldKey, ok := models.FieldKeyFromColumn(sortKey)
	if !ok {
		return nil
	}
	def, ok := s.catalog.Lookup(ctx, fieldKey)
	if !ok || !def.Type.Sortable() {
		return nil
	}
	return &repository.SortSpec{
		MetaKey: metaKey(&def),
		Numeric: def.Type == models.TypeNumber || def.Type == models.TypeTrueFalse,
		Desc:    desc,
	}
}

// metaKey is the per-user attribute key a field's values are stored under.
func metaKey(def *models.FieldDefinition) string {
	if def.Name != "" {
		return def.Name
	}
	return def.Key
}

// columnLabel renders "Label (Group)", degrading when either part is blank.
func columnLabel(def *models.FieldDefinition) string {
	label := def.Label
	if label == "" {
		label = def.Name
	}
	if def.Group == "" {
		return label
	}
	return fmt.Sprintf("%s (%s)", label, def.Group)
}
