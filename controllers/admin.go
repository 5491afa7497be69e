package controllers

import (
	"context"

	"ramesh-admin/api"
	"ramesh-admin/models"
	"ramesh-admin/notify"
	"ramesh-admin/session"

	"github.com/google/uuid"
)

// AdminController manages admin accounts. Listing and deleting are super
// admin operations; fetching and updating follow the self-or-super-admin
// pattern, checked before any network call.
type AdminController struct {
	*Controller[models.Admin]
	session *session.Controller
}

func NewAdminController(client *api.Client, notifier notify.Notifier, sess *session.Controller) *AdminController {
	return &AdminController{
		Controller: newController(client, notifier, config[models.Admin]{
			path:     "/api/admin/admins",
			label:    "admins",
			singular: "admin",
			soft:     false,
			idOf:     func(e *models.Admin) uuid.UUID { return e.ID },
			defaults: map[string]string{
				"page":     "1",
				"per_page": "10",
				"sort":     "name",
				"order":    "asc",
			},
		}),
		session: sess,
	}
}

func (c *AdminController) canAccess(id uuid.UUID) bool {
	return c.session.IsSuperAdmin() || c.session.UserID() == id
}

// ListAdmins is restricted to super admins.
func (c *AdminController) ListAdmins(ctx context.Context, overrides map[string]string) bool {
	if !c.session.IsSuperAdmin() {
		return c.deny("Only a super admin can list admin accounts")
	}
	return c.List(ctx, overrides)
}

// GetAdmin fetches one admin. Non-super admins may only fetch themselves.
func (c *AdminController) GetAdmin(ctx context.Context, id uuid.UUID) bool {
	if !c.canAccess(id) {
		return c.deny("You can only view your own admin account")
	}
	return c.Get(ctx, id)
}

// CreateAdmin provisions a new admin account. Super admin only.
func (c *AdminController) CreateAdmin(ctx context.Context, payload interface{}) bool {
	if !c.session.IsSuperAdmin() {
		return c.deny("Only a super admin can create admin accounts")
	}
	return c.Create(ctx, payload)
}

// UpdateAdmin follows the self-or-super-admin pattern.
func (c *AdminController) UpdateAdmin(ctx context.Context, id uuid.UUID, payload interface{}) bool {
	if !c.canAccess(id) {
		return c.deny("You can only update your own admin account")
	}
	return c.Update(ctx, id, payload)
}

// DeleteAdmin removes an admin account. Super admin only, and never the
// actor's own account.
func (c *AdminController) DeleteAdmin(ctx context.Context, id uuid.UUID) bool {
	if !c.session.IsSuperAdmin() {
		return c.deny("Only a super admin can delete admin accounts")
	}
	if c.session.UserID() == id {
		return c.deny("You cannot delete your own account")
	}
	return c.Delete(ctx, id)
}
