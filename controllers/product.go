package controllers

import (
	"context"
	"net/url"
	"time"

	"ramesh-admin/api"
	"ramesh-admin/models"
	"ramesh-admin/notify"
	"ramesh-admin/session"
	"ramesh-admin/store"

	"github.com/google/uuid"
)

// ProductController manages the product catalog. Products soft-delete;
// permanent deletion is allowed for super admins, or for anyone once the
// product is already soft-deleted.
type ProductController struct {
	*Controller[models.Product]
	session *session.Controller
	store   *store.Store
}

func NewProductController(client *api.Client, notifier notify.Notifier, sess *session.Controller, st *store.Store) *ProductController {
	c := &ProductController{
		Controller: newController(client, notifier, config[models.Product]{
			path:     "/api/admin/products",
			label:    "products",
			singular: "product",
			soft:     true,
			idOf:     func(e *models.Product) uuid.UUID { return e.ID },
			defaults: map[string]string{
				"page":           "1",
				"per_page":       "10",
				"sort":           "created_at",
				"order":          "desc",
				"search":         "",
				"status":         "",
				"product_type":   "",
				"category_id":    "",
				"subcategory_id": "",
			},
		}),
		session: sess,
		store:   st,
	}
	c.restoreGate = c.requireSuperAdmin
	return c
}

func (c *ProductController) requireSuperAdmin() error {
	if !c.session.IsSuperAdmin() {
		return &api.PermissionError{Reason: "Only a super admin can restore products"}
	}
	return nil
}

// PermanentDelete irreversibly removes a product. A super admin may always
// do this; other admins only once the product is already soft-deleted.
func (c *ProductController) PermanentDelete(ctx context.Context, id uuid.UUID) bool {
	if !c.session.IsSuperAdmin() && !c.isCachedDeleted(id) {
		return c.deny("Only a super admin can permanently delete a live product")
	}

	c.begin()
	defer c.end()

	if _, err := c.client.Delete(ctx, c.path+"/"+id.String()+"/permanent"); err != nil {
		return c.fail(err, "Failed to permanently delete product")
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

	c.notifier.Success("Product permanently deleted")
	return true
}

func (c *ProductController) isCachedDeleted(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected != nil && c.selected.ID == id {
		return c.selected.IsDeleted
	}
	for i := range c.items {
		if c.items[i].ID == id {
			return c.items[i].IsDeleted
		}
	}
	return false
}

// SKUCheck is the server's answer to a SKU uniqueness probe.
type SKUCheck struct {
	SKU       string     `json:"sku"`
	Available bool       `json:"available"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
}

// CheckSKU asks the server whether a SKU is free, optionally excluding the
// product being edited. Each lookup is recorded in the bounded search
// history.
func (c *ProductController) CheckSKU(ctx context.Context, sku string, excludeProductID *uuid.UUID) (*SKUCheck, error) {
	query := url.Values{}
	query.Set("sku", sku)
	if excludeProductID != nil {
		query.Set("exclude_product_id", excludeProductID.String())
	}

	env, err := c.client.Get(ctx, c.path+"/check-sku", query)
	if err != nil {
		c.fail(err, "Failed to check SKU availability")
		return nil, err
	}

	var check SKUCheck
	if err := env.DecodeData(&check); err != nil {
		c.fail(err, "Failed to check SKU availability")
		return nil, err
	}

	if c.store != nil {
		if err := c.store.AddSKUSearch(sku); err != nil {
			c.log.WithError(err).Warn("failed to record sku search")
		}
	}
	return &check, nil
}

// SKUSearchHistory returns recent SKU lookups, newest first.
func (c *ProductController) SKUSearchHistory() []string {
	if c.store == nil {
		return nil
	}
	return c.store.SKUSearchHistory()
}

// CopyProduct stages a duplicate of an existing product for the creation
// form. IDs, SKUs and timestamps are stripped so the copy submits as a new
// product; the staged data is consumed exactly once by TakeCopiedProduct.
func (c *ProductController) CopyProduct(ctx context.Context, id uuid.UUID) bool {
	if !c.Get(ctx, id) {
		return false
	}

	c.mu.Lock()
	src := *c.selected
	c.mu.Unlock()

	dup := src
	dup.ID = uuid.Nil
	dup.Name = src.Name + " (Copy)"
	dup.Status = models.ProductStatusDraft
	dup.CreatedAt = time.Time{}
	dup.UpdatedAt = time.Time{}
	dup.DeletedAt.Valid = false
	dup.IsDeleted = false
	dup.CanRestore = false

	dup.Variants = append([]models.Variant(nil), src.Variants...)
	for i := range dup.Variants {
		dup.Variants[i].ID = uuid.Nil
		dup.Variants[i].ProductID = uuid.Nil
		dup.Variants[i].SKU = ""
	}
	dup.Images = append([]models.ProductImage(nil), src.Images...)
	for i := range dup.Images {
		dup.Images[i].ID = uuid.Nil
		dup.Images[i].ProductID = uuid.Nil
	}
	dup.Tags = append([]models.Tag(nil), src.Tags...)

	if err := c.store.SetCopyProductData(&dup); err != nil {
		c.log.WithError(err).Warn("failed to stage product copy")
		return c.deny("Failed to stage product copy")
	}
	c.notifier.Success("Product copied. Opening creation form")
	return true
}

// TakeCopiedProduct returns staged copy data, if any, and clears it.
func (c *ProductController) TakeCopiedProduct() *models.Product {
	var p models.Product
	if !c.store.TakeCopyProductData(&p) {
		return nil
	}
	return &p
}
