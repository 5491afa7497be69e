package controllers

import (
	"context"

	"ramesh-admin/api"
	"ramesh-admin/models"
	"ramesh-admin/notify"
	"ramesh-admin/session"

	"github.com/google/uuid"
)

// CategoryController manages the category collection. Categories soft-delete;
// restore and permanent deletion are super-admin operations.
type CategoryController struct {
	*Controller[models.Category]
	session *session.Controller
}

func NewCategoryController(client *api.Client, notifier notify.Notifier, sess *session.Controller) *CategoryController {
	c := &CategoryController{
		Controller: newController(client, notifier, config[models.Category]{
			path:     "/api/admin/categories",
			label:    "categories",
			singular: "category",
			soft:     true,
			idOf:     func(e *models.Category) uuid.UUID { return e.ID },
			defaults: map[string]string{
				"page":     "1",
				"per_page": "10",
				"sort":     "name",
				"order":    "asc",
			},
		}),
		session: sess,
	}
	c.restoreGate = c.requireSuperAdmin
	return c
}

func (c *CategoryController) requireSuperAdmin() error {
	if !c.session.IsSuperAdmin() {
		return &api.PermissionError{Reason: "Only a super admin can restore categories"}
	}
	return nil
}

// PermanentDelete irreversibly removes a category. Super admin only; the
// check fails without touching the network.
func (c *CategoryController) PermanentDelete(ctx context.Context, id uuid.UUID) bool {
	if !c.session.IsSuperAdmin() {
		return c.deny("Only a super admin can permanently delete categories")
	}

	c.begin()
	defer c.end()

	if _, err := c.client.Delete(ctx, c.path+"/"+id.String()+"/permanent"); err != nil {
		return c.fail(err, "Failed to permanently delete category")
	}

	c.mu.Lock()
	kept := c.items[:0]
	for i := range c.items {
		if c.items[i].ID != id {
			kept = append(kept, c.items[i])
		}
	}
	c.items = kept
	if c.selected != nil && c.selected.ID == id {
		c.selected = nil
	}
	c.mu.Unlock()

	c.notifier.Success("Category permanently deleted")
	return true
}
