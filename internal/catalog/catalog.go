package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/member-admin-api/internal/models"
	"github.com/member-admin-api/internal/repository"
)

// Catalog is the in-process snapshot cache of user-targeted field
// definitions. The snapshot is cached whole: it is either entirely valid or
// absent, never partially stale. A read after the TTL recomputes it from the
// field-definition source.
type Catalog struct {
	fields repository.FieldRepository
	ttl    time.Duration
	log    zerolog.Logger

	mu        sync.Mutex
	snapshot  []models.FieldDefinition
	byKey     map[string]models.FieldDefinition
	fetchedAt time.Time
	healthy   bool
}

// New creates a catalog over the given field-definition source. ttl bounds
// how long a snapshot is served before it is recomputed.
func New(fields repository.FieldRepository, ttl time.Duration) *Catalog {
	return &Catalog{
		fields:  fields,
		ttl:     ttl,
		log:     log.With().Str("component", "catalog").Logger(),
		healthy: true,
	}
}

// Fields returns the current snapshot in display order, computing it first
// if none is cached or the cached one has expired. A source failure degrades
// to an empty snapshot rather than an error so that list screens still
// render their host columns; SourceAvailable flips until the next
// successful refresh.
func (c *Catalog) Fields(ctx context.Context) []models.FieldDefinition {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.snapshot
	}
	c.refreshLocked(ctx)
	return c.snapshot
}

// Lookup resolves one field definition by key from the current snapshot.
func (c *Catalog) Lookup(ctx context.Context, key string) (models.FieldDefinition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot == nil || time.Since(c.fetchedAt) >= c.ttl {
		c.refreshLocked(ctx)
	}
	def, ok := c.byKey[key]
	return def, ok
}

// Invalidate discards the cached snapshot so the next read recomputes it.
// Called synchronously whenever column settings change.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	c.byKey = nil
}

// SourceAvailable reports whether the last snapshot computation reached the
// field-definition source. Used to surface the missing-dependency notice.
func (c *Catalog) SourceAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.healthy
}

// refreshLocked recomputes the snapshot. Caller holds c.mu.
func (c *Catalog) refreshLocked(ctx context.Context) {
	groups, err := c.fields.ListGroups(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to list field groups, serving empty catalog")
		c.storeLocked(nil, false)
		return
	}

	var defs []models.FieldDefinition
	for _, g := range groups {
		if !g.TargetsUsers() {
			continue
		}
		fields, err := c.fields.ListFields(ctx, g.Key)
		if err != nil {
			c.log.Error().Err(err).Str("group", g.Key).Msg("Failed to list group fields, serving empty catalog")
			c.storeLocked(nil, false)
			return
		}
		for _, f := range fields {
			f.Group = g.Title
			defs = append(defs, f)
		}
	}

	c.storeLocked(defs, true)
	c.log.Debug().Int("fields", len(defs)).Msg("Field catalog refreshed")
}

func (c *Catalog) storeLocked(defs []models.FieldDefinition, healthy bool) {
	if defs == nil {
		defs = []models.FieldDefinition{}
	}
	byKey := make(map[string]models.FieldDefinition, len(defs))
	for _, d := range defs {
		byKey[d.Key] = d
	}
	c.snapshot = defs
	c.byKey = byKey
	c.fetchedAt = time.Now()
	c.healthy = healthy
}
