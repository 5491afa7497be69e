package controllers

import (
	"context"
	"net/url"
	"time"

	"ramesh-admin/api"
	"ramesh-admin/models"
	"ramesh-admin/notify"

	"github.com/google/uuid"
)

// CouponController manages coupons. Unlike other resources, coupon
// permissions are server-driven: the list meta carries is_super_admin and
// the controller exposes it verbatim instead of consulting the session.
type CouponController struct {
	*Controller[models.Coupon]
}

func NewCouponController(client *api.Client, notifier notify.Notifier) *CouponController {
	return &CouponController{
		Controller: newController(client, notifier, config[models.Coupon]{
			path:     "/api/admin/coupons",
			label:    "coupons",
			singular: "coupon",
			soft:     true,
			idOf:     func(e *models.Coupon) uuid.UUID { return e.ID },
			defaults: map[string]string{
				"page":         "1",
				"per_page":     "10",
				"sort":         "created_at",
				"order":        "desc",
				"search":       "",
				"status":       "",
				"show_deleted": "",
			},
		}),
	}
}

// IsSuperAdmin reports the server-supplied flag from the last list call.
// False until a list has completed.
func (c *CouponController) IsSuperAdmin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastMeta == nil || c.lastMeta.IsSuperAdmin == nil {
		return false
	}
	return *c.lastMeta.IsSuperAdmin
}

// CreateCoupon validates locally before any network call, then returns the
// raw envelope so the coupon form can surface field-level feedback itself.
func (c *CouponController) CreateCoupon(ctx context.Context, coupon *models.Coupon) (*models.Envelope, error) {
	if err := coupon.Validate(); err != nil {
		c.mu.Lock()
		c.err = err.Error()
		c.mu.Unlock()
		return nil, err
	}

	c.begin()
	defer c.end()

	env, err := c.client.Post(ctx, c.path, coupon)
	if err != nil {
		c.fail(err, "Failed to create coupon")
		return env, err
	}
	c.notifier.Success("Coupon created successfully")
	return env, nil
}

// UpdateCoupon mirrors CreateCoupon's validate-then-raw-envelope contract
// and patches the cached copies on success.
func (c *CouponController) UpdateCoupon(ctx context.Context, id uuid.UUID, coupon *models.Coupon) (*models.Envelope, error) {
	if err := coupon.Validate(); err != nil {
		c.mu.Lock()
		c.err = err.Error()
		c.mu.Unlock()
		return nil, err
	}

	c.begin()
	defer c.end()

	env, err := c.client.Put(ctx, c.path+"/"+id.String(), coupon)
	if err != nil {
		c.fail(err, "Failed to update coupon")
		return env, err
	}

	patch := env.Data
	c.mu.Lock()
	if c.selected != nil && c.selected.ID == id {
		mergeJSON(c.selected, patch)
	}
	for i := range c.items {
		if c.items[i].ID == id {
			mergeJSON(&c.items[i], patch)
			break
		}
	}
	c.mu.Unlock()

	c.notifier.Success("Coupon updated successfully")
	return env, nil
}

// FetchStatistics retrieves usage statistics for one coupon over a reporting
// period. A custom period requires explicit bounds, enforced before the
// request is issued.
func (c *CouponController) FetchStatistics(ctx context.Context, id uuid.UUID, period string, start, end *time.Time) (*models.CouponStats, error) {
	if err := models.ValidateStatsRange(period, start, end); err != nil {
		c.mu.Lock()
		c.err = err.Error()
		c.mu.Unlock()
		c.notifier.Error(err.Error())
		return nil, err
	}

	query := url.Values{}
	query.Set("period", period)
	if start != nil {
		query.Set("start_date", start.Format("2006-01-02"))
	}
	if end != nil {
		query.Set("end_date", end.Format("2006-01-02"))
	}

	c.begin()
	defer c.end()

	env, err := c.client.Get(ctx, c.path+"/"+id.String()+"/statistics", query)
	if err != nil {
		c.fail(err, "Failed to load coupon statistics")
		return nil, err
	}

	var stats models.CouponStats
	if err := env.DecodeData(&stats); err != nil {
		c.fail(err, "Failed to load coupon statistics")
		return nil, err
	}
	return &stats, nil
}
