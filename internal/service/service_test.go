package service_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/member-admin-api/internal/catalog"
	"github.com/member-admin-api/internal/mocks"
	"github.com/member-admin-api/internal/models"
	"github.com/member-admin-api/internal/repository"
	"github.com/member-admin-api/internal/service"
)

var (
	admin  = models.Actor{UserID: 1, Roles: []string{"administrator"}}
	member = models.Actor{UserID: 2, Roles: []string{"subscriber"}}
)

type fixture struct {
	repos    *repository.Repositories
	users    *mocks.MockUserRepository
	meta     *mocks.MockMetaRepository
	options  *mocks.MockOptionRepository
	fields   *mocks.MockFieldRepository
	catalog  *catalog.Catalog
	services *service.Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos, users, meta, options, fields := mocks.NewRepositories()

	fields.Groups = []models.FieldGroup{
		{
			Key:      "group_members",
			Title:    "Members",
			Location: []models.LocationRule{{Param: "user_form", Operator: "==", Value: "all"}},
		},
	}
	fields.Fields["group_members"] = []models.FieldDefinition{
		{Key: "field_phone", Name: "phone", Label: "Phone", Type: models.TypeText, RawType: "text"},
		{Key: "field_points", Name: "points", Label: "Points", Type: models.TypeNumber, RawType: "number"},
		{Key: "field_contact", Name: "contact", Label: "Contact Email", Type: models.TypeEmail, RawType: "email", Required: true},
		{Key: "field_newsletter", Name: "newsletter", Label: "Newsletter", Type: models.TypeTrueFalse, RawType: "true_false"},
		{Key: "field_avatar", Name: "avatar", Label: "Avatar", Type: models.TypeImage, RawType: "image"},
	}

	users.Users[1] = &models.User{ID: 1, Login: "alice", Email: "alice@example.com", DisplayName: "Alice", Roles: []string{"administrator"}, Registered: time.Date(2023, 5, 1, 9, 30, 0, 0, time.UTC)}
	users.Users[2] = &models.User{ID: 2, Login: "bob", Email: "bob@example.com", DisplayName: "Bob", Roles: []string{"subscriber"}, Registered: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)}

	options.Options[models.SettingsKey] = `{"enabled_fields":["field_phone","field_points","field_avatar"]}`

	cat := catalog.New(repos.Field, time.Minute)
	return &fixture{
		repos:    repos,
		users:    users,
		meta:     meta,
		options:  options,
		fields:   fields,
		catalog:  cat,
		services: service.NewServices(repos, cat, zerolog.Nop()),
	}
}

func (f *fixture) setMeta(t *testing.T, userID int64, key, value string) {
	t.Helper()
	if err := f.repos.Meta.Set(context.Background(), userID, key, value); err != nil {
		t.Fatal(err)
	}
}

func TestColumns(t *testing.T) {
	f := newFixture(t)

	columns := f.services.List.Columns(context.Background())
	if len(columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(columns))
	}

	phone := columns[0]
	if phone.Key != "cf_field_phone" {
		t.Errorf("expected cf_field_phone, got %s", phone.Key)
	}
	if phone.Label != "Phone (Members)" {
		t.Errorf("expected group-qualified label, got %q", phone.Label)
	}
	if !phone.Sortable || !phone.Editable {
		t.Errorf("text column should be sortable and editable")
	}

	avatar := columns[2]
	if avatar.Sortable || avatar.Editable {
		t.Errorf("image column must be neither sortable nor editable")
	}
}

func TestColumnsSkipsVanishedFields(t *testing.T) {
	f := newFixture(t)
	f.options.Options[models.SettingsKey] = `{"enabled_fields":["field_gone","field_phone"]}`

	columns := f.services.List.Columns(context.Background())
	if len(columns) != 1 || columns[0].Key != "cf_field_phone" {
		t.Errorf("expected only the surviving field, got %+v", columns)
	}
}

func TestColumnsEmptyWhenSourceDown(t *testing.T) {
	f := newFixture(t)
	f.fields.Err = context.DeadlineExceeded

	if columns := f.services.List.Columns(context.Background()); len(columns) != 0 {
		t.Errorf("expected no custom columns while source is down, got %d", len(columns))
	}
}

func TestListUsersEditableGating(t *testing.T) {
	f := newFixture(t)
	f.setMeta(t, 2, "phone", "555-0100")

	tests := []struct {
		name          string
		actor         models.Actor
		wantAliceEdit bool
		wantBobEdit   bool
	}{
		{"administrator edits anyone", admin, true, true},
		{"member edits only self", member, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.services.List.ListUsers(context.Background(), tt.actor, models.ListQuery{})
			if err != nil {
				t.Fatal(err)
			}
			if len(result.Rows) != 2 {
				t.Fatalf("expected 2 rows, got %d", len(result.Rows))
			}
			aliceCell := result.Rows[0].Cells[0]
			bobCell := result.Rows[1].Cells[0]
			if aliceCell.Editable != tt.wantAliceEdit {
				t.Errorf("alice phone editable = %v, want %v", aliceCell.Editable, tt.wantAliceEdit)
			}
			if bobCell.Editable != tt.wantBobEdit {
				t.Errorf("bob phone editable = %v, want %v", bobCell.Editable, tt.wantBobEdit)
			}
			if bobCell.Value != "555-0100" {
				t.Errorf("expected formatted phone, got %q", bobCell.Value)
			}
			// An absent value renders the placeholder.
			if aliceCell.Value != "—" {
				t.Errorf("expected placeholder for missing value, got %q", aliceCell.Value)
			}
		})
	}
}

func TestListUsersImageNeverEditable(t *testing.T) {
	f := newFixture(t)

	result, err := f.services.List.ListUsers(context.Background(), admin, models.ListQuery{})
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range result.Rows {
		for _, cell := range row.Cells {
			if cell.Key == "cf_field_avatar" && cell.Editable {
				t.Errorf("image cell marked editable for user %d", row.User.ID)
			}
		}
	}
}

// Sorting requests travel from the query down to the repository as a typed
// spec. Unsortable and unknown columns must reach the repository without one.
func TestListUsersSortReachesRepository(t *testing.T) {
	tests := []struct {
		name    string
		sortKey string
		desc    bool
		want    *repository.SortSpec
	}{
		{"points sorts numerically", "cf_field_points", true, &repository.SortSpec{MetaKey: "points", Numeric: true, Desc: true}},
		{"phone sorts as text", "cf_field_phone", false, &repository.SortSpec{MetaKey: "phone"}},
		{"true_false sorts numerically", "cf_field_newsletter", false, &repository.SortSpec{MetaKey: "newsletter", Numeric: true}},
		{"image is not sortable", "cf_field_avatar", false, nil},
		{"unknown keys are ignored", "cf_field_gone", false, nil},
		{"host keys are ignored", "login", false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			query := models.ListQuery{SortKey: tt.sortKey, Desc: tt.desc}
			if _, err := f.services.List.ListUsers(context.Background(), admin, query); err != nil {
				t.Fatal(err)
			}
			if len(f.users.ListCalls) == 0 {
				t.Fatal("expected a repository list call")
			}
			got := f.users.ListCalls[len(f.users.ListCalls)-1].Sort
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected no sort spec, got %+v", got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Errorf("repository received sort %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUpdateField(t *testing.T) {
	f := newFixture(t)

	result, err := f.services.List.UpdateField(context.Background(), admin, 2, "cf_field_phone", "  555-0199  ")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Valid {
		t.Fatalf("expected valid update, got %q", result.Message)
	}
	if result.Value != "555-0199" {
		t.Errorf("expected sanitized re-rendered value, got %q", result.Value)
	}
	if got := f.meta.Values["2/phone"]; got != "555-0199" {
		t.Errorf("expected persisted value, got %q", got)
	}
}

func TestUpdateFieldValidationFailurePersistsNothing(t *testing.T) {
	f := newFixture(t)
	f.setMeta(t, 2, "contact", "bob@example.com")
	setCallsBefore := f.meta.SetCalls

	result, err := f.services.List.UpdateField(context.Background(), admin, 2, "cf_field_contact", "not-an-email")
	if err != nil {
		t.Fatal(err)
	}
	if result.Valid {
		t.Fatal("expected validation failure")
	}
	if result.Message == "" {
		t.Error("expected a validation message")
	}
	if f.meta.SetCalls != setCallsBefore {
		t.Error("validation failure must not persist")
	}
	// The caller still gets what the list displays now.
	if result.Value != "bob@example.com" {
		t.Errorf("expected current stored value, got %q", result.Value)
	}
}

func TestUpdateFieldErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name      string
		actor     models.Actor
		userID    int64
		columnKey string
		wantErr   error
	}{
		{"unknown column", admin, 2, "cf_field_gone", service.ErrUnknownField},
		{"host column", admin, 2, "login", service.ErrUnknownField},
		{"image is not editable", admin, 2, "cf_field_avatar", service.ErrNotEditable},
		{"member cannot edit others", member, 1, "cf_field_phone", service.ErrUnauthorized},
		{"missing user", admin, 99, "cf_field_phone", service.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.services.List.UpdateField(context.Background(), tt.actor, tt.userID, tt.columnKey, "x")
			if err != tt.wantErr {
				t.Errorf("UpdateField() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateFieldTrueFalseRoundTrip(t *testing.T) {
	f := newFixture(t)

	result, err := f.services.List.UpdateField(context.Background(), member, 2, "cf_field_newsletter", true)
	if err != nil {
		t.Fatal(err)
	}
	if result.Value != "Yes" {
		t.Errorf("expected Yes, got %q", result.Value)
	}

	result, err = f.services.List.UpdateField(context.Background(), member, 2, "cf_field_newsletter", false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Value != "No" {
		t.Errorf("expected No, got %q", result.Value)
	}
}

func TestSettingsUpdateInvalidatesCatalog(t *testing.T) {
	f := newFixture(t)

	f.catalog.Fields(context.Background())
	callsBefore := f.fields.GroupCalls

	if _, err := f.services.Settings.Update(context.Background(), admin, []string{"field_points", "field_phone", "field_points"}); err != nil {
		t.Fatal(err)
	}

	f.catalog.Fields(context.Background())
	if f.fields.GroupCalls != callsBefore+1 {
		t.Error("expected settings update to invalidate the catalog")
	}

	settings, err := f.services.Settings.Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(settings.EnabledFields) != 2 || settings.EnabledFields[0] != "field_points" {
		t.Errorf("expected deduped ordered keys, got %v", settings.EnabledFields)
	}
}

func TestSettingsUpdateRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	if _, err := f.services.Settings.Update(context.Background(), member, []string{"field_phone"}); err != service.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSettingsMalformedStoredValueReadsEmpty(t *testing.T) {
	f := newFixture(t)
	f.options.Options[models.SettingsKey] = "{not json"

	settings, err := f.services.Settings.Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(settings.EnabledFields) != 0 {
		t.Errorf("expected empty settings, got %v", settings.EnabledFields)
	}
}

func TestExportUsers(t *testing.T) {
	f := newFixture(t)
	f.setMeta(t, 1, "phone", "555-0100")
	f.setMeta(t, 1, "first_name", "Alice")
	f.setMeta(t, 2, "phone", "555-0200")

	rec := httptest.NewRecorder()
	req := models.ExportRequest{
		HostFields:   []string{"login", "first_name", "roles", "registered"},
		CustomFields: []string{"field_phone"},
		Delimiter:    ';',
		Charset:      models.CharsetUTF8,
	}
	if err := f.services.Export.ExportUsers(context.Background(), admin, req, rec); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Username;First Name;Roles;Registration Date;Phone (Members)" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != "alice;Alice;administrator;2023-05-01 09:30:00;555-0100" {
		t.Errorf("unexpected first row: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "bob;;subscriber;") {
		t.Errorf("expected empty meta fallback for bob, got %q", lines[2])
	}

	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "attachment; filename=users-") || !strings.HasSuffix(disposition, ".csv") {
		t.Errorf("unexpected disposition: %q", disposition)
	}
}

func TestExportUsersRoleFilter(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		roles    []string
		wantRows int
	}{
		{"no filter", nil, 2},
		{"all bypasses filtering", []string{"all"}, 2},
		{"single role", []string{"subscriber"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := models.ExportRequest{HostFields: []string{"login"}, Roles: tt.roles, Delimiter: ','}
			if err := f.services.Export.ExportUsers(context.Background(), admin, req, rec); err != nil {
				t.Fatal(err)
			}
			lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
			if got := len(lines) - 1; got != tt.wantRows {
				t.Errorf("expected %d rows, got %d", tt.wantRows, got)
			}
		})
	}
}

func TestExportUsersLatin1SubstitutesUnsupportedRunes(t *testing.T) {
	f := newFixture(t)
	f.setMeta(t, 1, "phone", "café → ok")

	rec := httptest.NewRecorder()
	req := models.ExportRequest{
		HostFields:   []string{"login"},
		CustomFields: []string{"field_phone"},
		Delimiter:    ',',
		Charset:      models.CharsetLatin1,
	}
	if err := f.services.Export.ExportUsers(context.Background(), admin, req, rec); err != nil {
		t.Fatal(err)
	}

	body := rec.Body.Bytes()
	if !bytes.Contains(body, []byte{0xE9}) {
		t.Error("expected é encoded as latin-1 0xE9")
	}
	if bytes.Contains(body, []byte("→")) {
		t.Error("expected the arrow to be transcoded away")
	}
	if !bytes.Contains(body, []byte{0x1A}) {
		t.Error("expected unsupported rune substituted, not dropped")
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv; charset=iso-8859-1" {
		t.Errorf("unexpected content type %q", got)
	}
}

func TestExportUsersErrors(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	if err := f.services.Export.ExportUsers(context.Background(), member, models.ExportRequest{HostFields: []string{"login"}}, rec); err != service.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if err := f.services.Export.ExportUsers(context.Background(), admin, models.ExportRequest{}, rec); err != service.ErrEmptyExport {
		t.Errorf("expected ErrEmptyExport, got %v", err)
	}
}

func TestNoticesMissingFieldSource(t *testing.T) {
	f := newFixture(t)
	f.fields.Err = context.DeadlineExceeded
	f.catalog.Invalidate()

	notices, err := f.services.Notice.Pending(context.Background(), admin)
	if err != nil {
		t.Fatal(err)
	}
	if !hasNotice(notices, models.NoticeMissingFieldSource) {
		t.Error("expected missing-source notice while the source is down")
	}

	f.fields.Err = nil
	f.catalog.Invalidate()
	notices, err = f.services.Notice.Pending(context.Background(), admin)
	if err != nil {
		t.Fatal(err)
	}
	if hasNotice(notices, models.NoticeMissingFieldSource) {
		t.Error("expected missing-source notice to clear on recovery")
	}
}

func TestNoticeDismissalRecordsStampAndHides(t *testing.T) {
	f := newFixture(t)

	notices, err := f.services.Notice.Pending(context.Background(), member)
	if err != nil {
		t.Fatal(err)
	}
	if !hasNotice(notices, models.NoticeFeedback) {
		t.Fatal("expected feedback notice before dismissal")
	}

	if err := f.services.Notice.Dismiss(context.Background(), member, models.NoticeFeedback); err != nil {
		t.Fatal(err)
	}

	stamp := f.meta.Values["2/"+models.NoticeDismissalPrefix+models.NoticeFeedback]
	if _, err := strconv.ParseInt(stamp, 10, 64); err != nil {
		t.Fatalf("expected a unix stamp, got %q", stamp)
	}

	notices, _ = f.services.Notice.Pending(context.Background(), member)
	if hasNotice(notices, models.NoticeFeedback) {
		t.Error("expected notice hidden right after dismissal")
	}
}

func TestNoticeReappearsAfterOldDismissal(t *testing.T) {
	f := newFixture(t)
	stale := time.Now().AddDate(0, -3, 0)
	f.setMeta(t, 2, models.NoticeDismissalPrefix+models.NoticeFeedback, strconv.FormatInt(stale.Unix(), 10))

	notices, err := f.services.Notice.Pending(context.Background(), member)
	if err != nil {
		t.Fatal(err)
	}
	if !hasNotice(notices, models.NoticeFeedback) {
		t.Error("expected notice back once the dismissal has aged out")
	}
}

func TestDismissUnknownNotice(t *testing.T) {
	f := newFixture(t)
	if err := f.services.Notice.Dismiss(context.Background(), member, "nope"); err != service.ErrUnknownNotice {
		t.Errorf("expected ErrUnknownNotice, got %v", err)
	}
}

func hasNotice(notices []models.Notice, id string) bool {
	for _, n := range notices {
		if n.ID == id {
			return true
		}
	}
	return false
}
