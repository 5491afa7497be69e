package controllers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"ramesh-admin/api"
	"ramesh-admin/models"
	"ramesh-admin/notify"
	"ramesh-admin/store"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FeaturedController manages the homepage featured slots. State is
// partitioned by display type into three independently ordered lists, each
// with its own dirty flag and a snapshot taken at load time. Reordering is
// the one local-first mutation in the dashboard: moves edit the cache
// immediately and only an explicit save persists the partition.
type FeaturedController struct {
	mu sync.Mutex

	client   *api.Client
	notifier notify.Notifier
	store    *store.Store
	log      *logrus.Entry

	// reload forces a full dashboard reload after the given delay. Used
	// when the server hits a hard cap or swaps an item, where local
	// reconciliation risks state drift.
	reload func(after time.Duration)

	partitions map[models.DisplayType][]models.FeaturedItem
	originals  map[models.DisplayType][]models.FeaturedItem
	dirty      map[models.DisplayType]bool
	limits     models.FeaturedLimits

	loading bool
	err     string
}

const featuredPath = "/api/admin/featured"

func NewFeaturedController(client *api.Client, notifier notify.Notifier, st *store.Store, reload func(after time.Duration)) *FeaturedController {
	if reload == nil {
		reload = func(time.Duration) {}
	}
	return &FeaturedController{
		client:     client,
		notifier:   notifier,
		store:      st,
		log:        logrus.WithField("controller", "featured"),
		reload:     reload,
		partitions: emptyPartitions(),
		originals:  emptyPartitions(),
		dirty:      map[models.DisplayType]bool{},
	}
}

func emptyPartitions() map[models.DisplayType][]models.FeaturedItem {
	m := make(map[models.DisplayType][]models.FeaturedItem, len(models.DisplayTypes))
	for _, t := range models.DisplayTypes {
		m[t] = []models.FeaturedItem{}
	}
	return m
}

// ---- state accessors ----

// Items returns a copy of one partition in display order.
func (c *FeaturedController) Items(t models.DisplayType) []models.FeaturedItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.FeaturedItem(nil), c.partitions[t]...)
}

// HasChanges reports whether a partition has unsaved reordering.
func (c *FeaturedController) HasChanges(t models.DisplayType) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty[t]
}

// Limits returns the per-type caps from the last load.
func (c *FeaturedController) Limits() models.FeaturedLimits {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.limits
}

// Loading reports whether a request is in flight.
func (c *FeaturedController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last operation's error message, empty at rest.
func (c *FeaturedController) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// ---- loading ----

// Load populates all three partitions plus the limits record. A fresh
// store cache short-circuits the network; force bypasses it.
func (c *FeaturedController) Load(ctx context.Context, force bool) bool {
	if !force && c.store != nil {
		if items, limits, ok := c.store.LoadFeaturedCache(); ok {
			c.install(items, limits)
			return true
		}
	}
	return c.fetchAll(ctx)
}

func (c *FeaturedController) fetchAll(ctx context.Context) bool {
	c.begin()
	defer c.end()

	env, err := c.client.Get(ctx, featuredPath, nil)
	if err != nil {
		return c.fail(err, "Failed to load featured items")
	}

	var payload struct {
		Items  []models.FeaturedItem `json:"items"`
		Limits models.FeaturedLimits `json:"limits"`
	}
	if err := env.DecodeData(&payload); err != nil {
		return c.fail(err, "Failed to load featured items")
	}

	parts := emptyPartitions()
	for _, it := range payload.Items {
		parts[it.DisplayType] = append(parts[it.DisplayType], it)
	}
	c.install(parts, payload.Limits)

	if c.store != nil {
		if err := c.store.SaveFeaturedCache(parts, payload.Limits); err != nil {
			c.log.WithError(err).Warn("failed to cache featured items")
		}
	}
	return true
}

// install replaces all partitions, retakes snapshots and clears dirty flags.
func (c *FeaturedController) install(parts map[models.DisplayType][]models.FeaturedItem, limits models.FeaturedLimits) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.partitions = emptyPartitions()
	c.originals = emptyPartitions()
	for _, t := range models.DisplayTypes {
		c.partitions[t] = append([]models.FeaturedItem(nil), parts[t]...)
		c.originals[t] = append([]models.FeaturedItem(nil), parts[t]...)
		c.dirty[t] = false
	}
	c.limits = limits
}

// ---- local reordering ----

// MoveItemUp swaps an item with its predecessor and renumbers the whole
// partition 1..N. Returns false if the item is first or absent. No network
// call is made.
func (c *FeaturedController) MoveItemUp(id uuid.UUID, t models.DisplayType) bool {
	return c.move(id, t, -1)
}

// MoveItemDown is the mirror of MoveItemUp.
func (c *FeaturedController) MoveItemDown(id uuid.UUID, t models.DisplayType) bool {
	return c.move(id, t, +1)
}

func (c *FeaturedController) move(id uuid.UUID, t models.DisplayType, dir int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	part := c.partitions[t]
	idx := -1
	for i := range part {
		if part[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	swap := idx + dir
	if swap < 0 || swap >= len(part) {
		return false
	}

	part[idx], part[swap] = part[swap], part[idx]
	renumber(part)
	c.dirty[t] = true
	return true
}

// renumber assigns dense 1..N ranks in array order.
func renumber(part []models.FeaturedItem) {
	for i := range part {
		part[i].DisplayOrder = i + 1
		part[i].Position = i + 1
	}
}

// DiscardChanges restores a partition from its load-time snapshot.
func (c *FeaturedController) DiscardChanges(t models.DisplayType) {
	c.mu.Lock()
	c.partitions[t] = append([]models.FeaturedItem(nil), c.originals[t]...)
	c.dirty[t] = false
	c.mu.Unlock()
}

// ---- persistence ----

// SaveDisplayOrder persists one partition's order as a batch of tuples. On
// success all partitions are re-fetched to reconcile server-side
// constraints; on failure the partition rolls back to its snapshot.
func (c *FeaturedController) SaveDisplayOrder(ctx context.Context, t models.DisplayType) bool {
	c.mu.Lock()
	part := c.partitions[t]
	tuples := make([]models.OrderTuple, len(part))
	for i := range part {
		tuples[i] = models.OrderTuple{ID: part[i].ID, DisplayOrder: part[i].DisplayOrder, Position: part[i].Position}
	}
	c.mu.Unlock()

	c.begin()
	_, err := c.client.Put(ctx, featuredPath+"/reorder", map[string]interface{}{
		"display_type": t,
		"items":        tuples,
	})
	c.end()

	if err != nil {
		c.mu.Lock()
		c.partitions[t] = append([]models.FeaturedItem(nil), c.originals[t]...)
		c.dirty[t] = false
		c.mu.Unlock()
		return c.fail(err, "Failed to save display order")
	}

	if c.store != nil {
		if err := c.store.InvalidateFeaturedCache(); err != nil {
			c.log.WithError(err).Warn("failed to invalidate featured cache")
		}
	}
	c.notifier.Success("Display order saved")
	return c.fetchAll(ctx)
}

// AddFeaturedItem pins a new entity. If the server reports its hard cap the
// dashboard reloads after a short delay instead of reconciling locally.
func (c *FeaturedController) AddFeaturedItem(ctx context.Context, entityID uuid.UUID, t models.DisplayType, title, description string) bool {
	c.begin()
	defer c.end()

	_, err := c.client.Post(ctx, featuredPath, map[string]interface{}{
		"entity_id":    entityID,
		"display_type": t,
		"title":        title,
		"description":  description,
	})
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && strings.Contains(apiErr.Message, "Maximum limit") {
			c.notifier.Error(apiErr.Message)
			c.reload(2 * time.Second)
			return false
		}
		return c.fail(err, "Failed to add featured item")
	}

	if c.store != nil {
		if err := c.store.InvalidateFeaturedCache(); err != nil {
			c.log.WithError(err).Warn("failed to invalidate featured cache")
		}
	}
	c.notifier.Success("Featured item added")
	return c.fetchAll(ctx)
}

// ReplaceFeaturedItem swaps one slot in place, preserving its position. The
// dashboard reloads shortly after success.
func (c *FeaturedController) ReplaceFeaturedItem(ctx context.Context, oldID, newEntityID uuid.UUID, t models.DisplayType) bool {
	c.begin()
	defer c.end()

	_, err := c.client.Put(ctx, featuredPath+"/"+oldID.String()+"/replace", map[string]interface{}{
		"entity_id":    newEntityID,
		"display_type": t,
	})
	if err != nil {
		return c.fail(err, "Failed to replace featured item")
	}

	if c.store != nil {
		if err := c.store.InvalidateFeaturedCache(); err != nil {
			c.log.WithError(err).Warn("failed to invalidate featured cache")
		}
	}
	c.notifier.Success("Featured item replaced")
	c.reload(1 * time.Second)
	return true
}

// RemoveFeaturedItem unpins an entity and drops it from the cached
// partition.
func (c *FeaturedController) RemoveFeaturedItem(ctx context.Context, id uuid.UUID, t models.DisplayType) bool {
	c.begin()
	defer c.end()

	if _, err := c.client.Delete(ctx, featuredPath+"/"+id.String()); err != nil {
		return c.fail(err, "Failed to remove featured item")
	}

	c.mu.Lock()
	part := c.partitions[t]
	kept := part[:0]
	for i := range part {
		if part[i].ID != id {
			kept = append(kept, part[i])
		}
	}
	renumber(kept)
	c.partitions[t] = kept
	c.originals[t] = append([]models.FeaturedItem(nil), kept...)
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.InvalidateFeaturedCache(); err != nil {
			c.log.WithError(err).Warn("failed to invalidate featured cache")
		}
	}
	c.notifier.Success("Featured item removed")
	return true
}

// ---- internals ----

func (c *FeaturedController) begin() {
	c.mu.Lock()
	c.loading = true
	c.err = ""
	c.mu.Unlock()
}

func (c *FeaturedController) end() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
}

func (c *FeaturedController) fail(err error, fallback string) bool {
	if errors.Is(err, api.ErrSessionExpired) {
		return false
	}
	msg := fallback
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	c.mu.Lock()
	c.err = msg
	c.mu.Unlock()
	c.notifier.Error(msg)
	return false
}
