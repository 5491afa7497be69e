package controllers

import (
	"context"

	"ramesh-admin/api"
	"ramesh-admin/models"
	"ramesh-admin/notify"

	"github.com/google/uuid"
)

// UserController manages customer accounts. Users hard-delete; there is no
// restore.
type UserController struct {
	*Controller[models.User]
}

func NewUserController(client *api.Client, notifier notify.Notifier) *UserController {
	return &UserController{
		Controller: newController(client, notifier, config[models.User]{
			path:     "/api/admin/users",
			label:    "users",
			singular: "user",
			soft:     false,
			idOf:     func(e *models.User) uuid.UUID { return e.ID },
			defaults: map[string]string{
				"page":     "1",
				"per_page": "10",
				"sort":     "created_at",
				"order":    "desc",
				"search":   "",
				"blocked":  "",
			},
		}),
	}
}

// Block prevents a customer from ordering. The cached row is patched in
// place.
func (c *UserController) Block(ctx context.Context, id uuid.UUID) bool {
	return c.setBlocked(ctx, id, true)
}

// Unblock reverses Block.
func (c *UserController) Unblock(ctx context.Context, id uuid.UUID) bool {
	return c.setBlocked(ctx, id, false)
}

func (c *UserController) setBlocked(ctx context.Context, id uuid.UUID, blocked bool) bool {
	action, fallback, toast := "unblock", "Failed to unblock user", "User unblocked"
	if blocked {
		action, fallback, toast = "block", "Failed to block user", "User blocked"
	}

	c.begin()
	defer c.end()

	if _, err := c.client.Post(ctx, c.path+"/"+id.String()+"/"+action, nil); err != nil {
		return c.fail(err, fallback)
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].IsBlocked = blocked
			break
		}
	}
	if c.selected != nil && c.selected.ID == id {
		c.selected.IsBlocked = blocked
	}
	c.mu.Unlock()

	c.notifier.Success(toast)
	return true
}
