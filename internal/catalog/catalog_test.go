package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/member-admin-api/internal/models"
)

type fakeFieldRepo struct {
	groups     []models.FieldGroup
	fields     map[string][]models.FieldDefinition
	groupCalls int
	groupErr   error
	fieldErr   error
}

func (f *fakeFieldRepo) ListGroups(ctx context.Context) ([]models.FieldGroup, error) {
	f.groupCalls++
	if f.groupErr != nil {
		return nil, f.groupErr
	}
	return f.groups, nil
}

func (f *fakeFieldRepo) ListFields(ctx context.Context, groupKey string) ([]models.FieldDefinition, error) {
	if f.fieldErr != nil {
		return nil, f.fieldErr
	}
	return f.fields[groupKey], nil
}

func userGroupRepo() *fakeFieldRepo {
	return &fakeFieldRepo{
		groups: []models.FieldGroup{
			{
				Key:      "group_members",
				Title:    "Members",
				Location: []models.LocationRule{{Param: "user_form", Operator: "==", Value: "all"}},
			},
			{
				Key:      "group_pages",
				Title:    "Pages",
				Location: []models.LocationRule{{Param: "post_type", Operator: "==", Value: "page"}},
			},
		},
		fields: map[string][]models.FieldDefinition{
			"group_members": {
				{Key: "field_phone", Name: "phone", Label: "Phone", Type: models.TypeText, RawType: "text"},
				{Key: "field_city", Name: "city", Label: "City", Type: models.TypeText, RawType: "text"},
			},
			"group_pages": {
				{Key: "field_layout", Name: "layout", Label: "Layout", Type: models.TypeSelect, RawType: "select"},
			},
		},
	}
}

func TestFieldsFiltersToUserGroups(t *testing.T) {
	repo := userGroupRepo()
	c := New(repo, time.Minute)

	defs := c.Fields(context.Background())
	if len(defs) != 2 {
		t.Fatalf("expected 2 user fields, got %d", len(defs))
	}
	if defs[0].Key != "field_phone" || defs[1].Key != "field_city" {
		t.Errorf("unexpected field order: %s, %s", defs[0].Key, defs[1].Key)
	}
	if defs[0].Group != "Members" {
		t.Errorf("expected group title Members, got %q", defs[0].Group)
	}
}

func TestFieldsCachesWithinTTL(t *testing.T) {
	repo := userGroupRepo()
	c := New(repo, time.Minute)

	c.Fields(context.Background())
	c.Fields(context.Background())
	if _, ok := c.Lookup(context.Background(), "field_phone"); !ok {
		t.Error("expected field_phone in snapshot")
	}
	if repo.groupCalls != 1 {
		t.Errorf("expected single source read, got %d", repo.groupCalls)
	}
}

func TestFieldsRecomputesAfterTTL(t *testing.T) {
	repo := userGroupRepo()
	c := New(repo, time.Millisecond)

	c.Fields(context.Background())
	time.Sleep(5 * time.Millisecond)
	c.Fields(context.Background())
	if repo.groupCalls != 2 {
		t.Errorf("expected recompute after expiry, got %d source reads", repo.groupCalls)
	}
}

func TestInvalidateForcesRecompute(t *testing.T) {
	repo := userGroupRepo()
	c := New(repo, time.Hour)

	c.Fields(context.Background())
	c.Invalidate()
	c.Fields(context.Background())
	if repo.groupCalls != 2 {
		t.Errorf("expected recompute after invalidate, got %d source reads", repo.groupCalls)
	}
}

func TestSourceFailureServesEmptySnapshot(t *testing.T) {
	repo := userGroupRepo()
	repo.groupErr = errors.New("source down")
	c := New(repo, time.Hour)

	defs := c.Fields(context.Background())
	if len(defs) != 0 {
		t.Errorf("expected empty snapshot on source failure, got %d fields", len(defs))
	}
	if c.SourceAvailable() {
		t.Error("expected source to be reported unavailable")
	}

	// The next read after recovery flips the health flag back.
	repo.groupErr = nil
	c.Invalidate()
	c.Fields(context.Background())
	if !c.SourceAvailable() {
		t.Error("expected source to be reported available after recovery")
	}
}

func TestFieldListingFailureServesEmptySnapshot(t *testing.T) {
	repo := userGroupRepo()
	repo.fieldErr = errors.New("source down")
	c := New(repo, time.Hour)

	if defs := c.Fields(context.Background()); len(defs) != 0 {
		t.Errorf("expected empty snapshot, got %d fields", len(defs))
	}
	if c.SourceAvailable() {
		t.Error("expected source to be reported unavailable")
	}
}
