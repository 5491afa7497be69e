package controllers

import (
	"context"

	"ramesh-admin/api"
	"ramesh-admin/models"
	"ramesh-admin/notify"
	"ramesh-admin/session"

	"github.com/google/uuid"
)

// SubcategoryController manages subcategories. Restores additionally append
// an audit entry through the activity-log collaborator.
type SubcategoryController struct {
	*Controller[models.Subcategory]
	session  *session.Controller
	activity ActivityLogger
}

func NewSubcategoryController(client *api.Client, notifier notify.Notifier, sess *session.Controller, activity ActivityLogger) *SubcategoryController {
	c := &SubcategoryController{
		Controller: newController(client, notifier, config[models.Subcategory]{
			path:     "/api/admin/subcategories",
			label:    "subcategories",
			singular: "subcategory",
			soft:     true,
			idOf:     func(e *models.Subcategory) uuid.UUID { return e.ID },
			defaults: map[string]string{
				"page":        "1",
				"per_page":    "10",
				"sort":        "name",
				"order":       "asc",
				"category_id": "",
			},
		}),
		session:  sess,
		activity: activity,
	}
	c.restoreGate = c.requireSuperAdmin
	c.afterRestore = func(ctx context.Context, id uuid.UUID) {
		if c.activity != nil {
			c.activity.LogActivity(ctx, "restore", "subcategory", id, "Subcategory restored from trash")
		}
	}
	return c
}

func (c *SubcategoryController) requireSuperAdmin() error {
	if !c.session.IsSuperAdmin() {
		return &api.PermissionError{Reason: "Only a super admin can restore subcategories"}
	}
	return nil
}

// PermanentDelete irreversibly removes a subcategory. Super admin only.
func (c *SubcategoryController) PermanentDelete(ctx context.Context, id uuid.UUID) bool {
	if !c.session.IsSuperAdmin() {
		return c.deny("Only a super admin can permanently delete subcategories")
	}

	c.begin()
	defer c.end()

	if _, err := c.client.Delete(ctx, c.path+"/"+id.String()+"/permanent"); err != nil {
		return c.fail(err, "Failed to permanently delete subcategory")
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

	c.notifier.Success("Subcategory permanently deleted")
	return true
}
