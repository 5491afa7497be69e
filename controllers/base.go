package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"time"

	"ramesh-admin/api"
	"ramesh-admin/models"
	"ramesh-admin/notify"
	"ramesh-admin/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Controller is the generic list/detail CRUD controller every resource
// instantiates. It owns its collection cache exclusively; no cross-controller
// locking exists. Exactly one request per operation is expected in flight;
// out-of-order responses resolve last-response-wins.
type Controller[E any] struct {
	mu sync.Mutex

	client   *api.Client
	notifier notify.Notifier
	log      *logrus.Entry

	path     string // e.g. "/api/admin/coupons"
	label    string // plural, for default error messages
	singular string // for notification messages
	soft     bool   // soft-delete resource
	idOf     func(*E) uuid.UUID

	items      []E
	selected   *E
	loading    bool
	err        string
	filters    map[string]string
	pagination models.Pagination
	lastMeta   *models.Meta

	// restoreGate, when set, is checked before Restore touches the network.
	restoreGate func() error
	// afterRestore runs after a successful restore (activity logging).
	afterRestore func(ctx context.Context, id uuid.UUID)

	// searchDebounce coalesces keystrokes into one list reload.
	searchDebounce *utils.Debouncer
}

type config[E any] struct {
	path     string
	label    string
	singular string
	soft     bool
	idOf     func(*E) uuid.UUID
	defaults map[string]string
}

func newController[E any](client *api.Client, notifier notify.Notifier, cfg config[E]) *Controller[E] {
	filters := make(map[string]string, len(cfg.defaults))
	for k, v := range cfg.defaults {
		filters[k] = v
	}
	return &Controller[E]{
		client:         client,
		notifier:       notifier,
		log:            logrus.WithField("controller", cfg.label),
		path:           cfg.path,
		label:          cfg.label,
		singular:       cfg.singular,
		soft:           cfg.soft,
		idOf:           cfg.idOf,
		filters:        filters,
		pagination:     models.Pagination{CurrentPage: 1, PerPage: 10},
		searchDebounce: utils.NewDebouncer(utils.DefaultSearchDelay),
	}
}

// ---- state accessors ----

// Items returns a copy of the cached collection.
func (c *Controller[E]) Items() []E {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]E(nil), c.items...)
}

// Selected returns the current single-entity selection, or nil.
func (c *Controller[E]) Selected() *E {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return nil
	}
	copied := *c.selected
	return &copied
}

// Loading reports whether a request is in flight.
func (c *Controller[E]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last operation's error message, empty at rest.
func (c *Controller[E]) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Filters returns a copy of the effective filter set.
func (c *Controller[E]) Filters() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.filters))
	for k, v := range c.filters {
		out[k] = v
	}
	return out
}

// Pagination returns the current pagination state.
func (c *Controller[E]) Pagination() models.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

// Meta returns the meta block from the last successful list call, if any.
func (c *Controller[E]) Meta() *models.Meta {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastMeta
}

// ClearSelected drops the single-entity selection.
func (c *Controller[E]) ClearSelected() {
	c.mu.Lock()
	c.selected = nil
	c.mu.Unlock()
}

// ClearError resets the error state.
func (c *Controller[E]) ClearError() {
	c.mu.Lock()
	c.err = ""
	c.mu.Unlock()
}

// ---- operations ----

// List merges filterOverrides into the current filters (last-write-wins per
// key) and replaces the collection from the server. Pagination meta falls
// back to previous values field by field.
func (c *Controller[E]) List(ctx context.Context, overrides map[string]string) bool {
	c.mu.Lock()
	for k, v := range overrides {
		c.filters[k] = v
	}
	query := url.Values{}
	for k, v := range c.filters {
		if v != "" {
			query.Set(k, v)
		}
	}
	c.mu.Unlock()

	c.begin()
	defer c.end()

	env, err := c.client.Get(ctx, c.path, query)
	if err != nil {
		return c.fail(err, "Failed to load "+c.label)
	}

	items := []E{}
	if err := env.DecodeData(&items); err != nil {
		return c.fail(err, "Failed to load "+c.label)
	}

	c.mu.Lock()
	c.items = items
	c.pagination.ApplyMeta(env.Meta)
	c.lastMeta = env.Meta
	c.mu.Unlock()
	return true
}

// ChangePage is shorthand for List with only the page override.
func (c *Controller[E]) ChangePage(ctx context.Context, page int) bool {
	return c.List(ctx, map[string]string{"page": strconv.Itoa(page)})
}

// Search schedules a list reload with the given free-text query, reset to
// page 1. Rapid successive calls coalesce: only the last query goes out, one
// quiet period after the final keystroke.
func (c *Controller[E]) Search(ctx context.Context, query string) {
	c.searchDebounce.Do(func() {
		c.List(ctx, map[string]string{"search": query, "page": "1"})
	})
}

// Get fetches one entity into the selection.
func (c *Controller[E]) Get(ctx context.Context, id uuid.UUID) bool {
	c.begin()
	defer c.end()

	env, err := c.client.Get(ctx, c.path+"/"+id.String(), nil)
	if err != nil {
		return c.fail(err, "Failed to load "+c.singular)
	}

	var item E
	if err := env.DecodeData(&item); err != nil {
		return c.fail(err, "Failed to load "+c.singular)
	}

	c.mu.Lock()
	c.selected = &item
	c.mu.Unlock()
	return true
}

// Create submits a new entity. It does not re-fetch the list; the caller
// decides when to reload.
func (c *Controller[E]) Create(ctx context.Context, payload interface{}) bool {
	c.begin()
	defer c.end()

	if _, err := c.client.Post(ctx, c.path, payload); err != nil {
		return c.fail(err, "Failed to create "+c.singular)
	}
	c.notifier.Success(capitalize(c.singular) + " created successfully")
	return true
}

// Update submits changes and patches the cached selection and matching list
// row (merge, not replace).
func (c *Controller[E]) Update(ctx context.Context, id uuid.UUID, payload interface{}) bool {
	c.begin()
	defer c.end()

	env, err := c.client.Put(ctx, c.path+"/"+id.String(), payload)
	if err != nil {
		return c.fail(err, "Failed to update "+c.singular)
	}

	// Prefer the server's echo of the updated entity; fall back to the
	// submitted payload for the local merge.
	patch := env.Data
	if len(patch) == 0 && payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			patch = b
		}
	}

	c.mu.Lock()
	if c.selected != nil && c.idOf(c.selected) == id {
		mergeJSON(c.selected, patch)
	}
	for i := range c.items {
		if c.idOf(&c.items[i]) == id {
			mergeJSON(&c.items[i], patch)
			break
		}
	}
	c.mu.Unlock()

	c.notifier.Success(capitalize(c.singular) + " updated successfully")
	return true
}

// Delete removes an entity. Soft-delete resources mark the cached row
// deleted with the client's clock; hard-delete resources drop it from the
// collection.
func (c *Controller[E]) Delete(ctx context.Context, id uuid.UUID) bool {
	c.begin()
	defer c.end()

	if _, err := c.client.Delete(ctx, c.path+"/"+id.String()); err != nil {
		return c.fail(err, "Failed to delete "+c.singular)
	}

	now := time.Now()
	c.mu.Lock()
	if c.soft {
		for i := range c.items {
			if c.idOf(&c.items[i]) == id {
				if sd, ok := any(&c.items[i]).(models.SoftDeletable); ok {
					sd.MarkDeleted(now)
				}
				break
			}
		}
		if c.selected != nil && c.idOf(c.selected) == id {
			if sd, ok := any(c.selected).(models.SoftDeletable); ok {
				sd.MarkDeleted(now)
			}
		}
	} else {
		kept := c.items[:0]
		for i := range c.items {
			if c.idOf(&c.items[i]) != id {
				kept = append(kept, c.items[i])
			}
		}
		c.items = kept
		if c.selected != nil && c.idOf(c.selected) == id {
			c.selected = nil
		}
	}
	c.mu.Unlock()

	c.notifier.Success(capitalize(c.singular) + " deleted successfully")
	return true
}

// Restore un-deletes a soft-deleted entity in both the collection and the
// selection. Restoring an already-live entity is a no-op on the cache.
func (c *Controller[E]) Restore(ctx context.Context, id uuid.UUID) bool {
	if c.restoreGate != nil {
		if err := c.restoreGate(); err != nil {
			return c.deny(err.Error())
		}
	}

	c.begin()
	defer c.end()

	if _, err := c.client.Post(ctx, c.path+"/"+id.String()+"/restore", nil); err != nil {
		return c.fail(err, "Failed to restore "+c.singular)
	}

	c.mu.Lock()
	for i := range c.items {
		if c.idOf(&c.items[i]) == id {
			if sd, ok := any(&c.items[i]).(models.SoftDeletable); ok {
				sd.MarkRestored()
			}
			break
		}
	}
	if c.selected != nil && c.idOf(c.selected) == id {
		if sd, ok := any(c.selected).(models.SoftDeletable); ok {
			sd.MarkRestored()
		}
	}
	c.mu.Unlock()

	c.notifier.Success(capitalize(c.singular) + " restored successfully")
	if c.afterRestore != nil {
		c.afterRestore(ctx, id)
	}
	return true
}

// ---- internals ----

func (c *Controller[E]) begin() {
	c.mu.Lock()
	c.loading = true
	c.err = ""
	c.mu.Unlock()
}

func (c *Controller[E]) end() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
}

// fail converts an operation error into controller state plus a transient
// notification. Session expiry bypasses the local error path entirely: the
// transport has already run the global teardown.
func (c *Controller[E]) fail(err error, fallback string) bool {
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

// deny records a client-side permission failure. No network call was made.
func (c *Controller[E]) deny(msg string) bool {
	c.mu.Lock()
	c.err = msg
	c.mu.Unlock()
	c.notifier.Error(msg)
	return false
}

// mergeJSON patches dst with the fields present in raw, leaving the rest
// untouched.
func mergeJSON[E any](dst *E, raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logrus.WithError(err).Debug("merge patch failed")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
