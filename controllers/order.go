package controllers

import (
	"context"
	"errors"

	"ramesh-admin/api"
	"ramesh-admin/models"
	"ramesh-admin/notify"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderController manages orders. Orders are never deleted from the
// dashboard; they move through named status transitions instead. Unlike the
// boolean CRUD operations, transitions return the error so the calling form
// can keep itself open and react.
type OrderController struct {
	*Controller[models.Order]
}

func NewOrderController(client *api.Client, notifier notify.Notifier) *OrderController {
	return &OrderController{
		Controller: newController(client, notifier, config[models.Order]{
			path:     "/api/admin/orders",
			label:    "orders",
			singular: "order",
			soft:     false,
			idOf:     func(e *models.Order) uuid.UUID { return e.ID },
			defaults: map[string]string{
				"page":           "1",
				"per_page":       "10",
				"sort":           "created_at",
				"order":          "desc",
				"search":         "",
				"status":         "",
				"payment_status": "",
				"date_from":      "",
				"date_to":        "",
			},
		}),
	}
}

// transition issues one status-changing call and patches the cached order
// from the server's echo. The error is returned as well as recorded so the
// caller can react.
func (c *OrderController) transition(ctx context.Context, id uuid.UUID, method, suffix string, payload interface{}, fallback, toast string) error {
	c.begin()
	defer c.end()

	env, err := c.client.Do(ctx, method, c.path+"/"+id.String()+suffix, nil, payload)
	if err != nil {
		c.fail(err, fallback)
		if errors.Is(err, api.ErrSessionExpired) {
			return err
		}
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return errors.New(apiErr.Message)
		}
		return errors.New(fallback)
	}

	var updated models.Order
	if err := env.DecodeData(&updated); err == nil && updated.ID == id {
		c.applyOrder(&updated)
	}

	c.notifier.Success(toast)
	return nil
}

func (c *OrderController) applyOrder(updated *models.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected != nil && c.selected.ID == updated.ID {
		*c.selected = *updated
	}
	for i := range c.items {
		if c.items[i].ID == updated.ID {
			c.items[i] = *updated
			break
		}
	}
}

// UpdateOrderStatus moves an order to a new status.
func (c *OrderController) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, note string) error {
	return c.transition(ctx, id, "PUT", "/status", map[string]interface{}{
		"status": status,
		"note":   note,
	}, "Failed to update order status", "Order status updated")
}

// CancelOrder cancels an order. The cached copy is set to cancelled
// immediately; the server echo then overwrites it.
func (c *OrderController) CancelOrder(ctx context.Context, id uuid.UUID, reason string) error {
	c.mu.Lock()
	if c.selected != nil && c.selected.ID == id {
		c.selected.Status = models.OrderStatusCancelled
		c.selected.CancelReason = reason
	}
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Status = models.OrderStatusCancelled
			c.items[i].CancelReason = reason
			break
		}
	}
	c.mu.Unlock()

	return c.transition(ctx, id, "POST", "/cancel", map[string]string{
		"reason": reason,
	}, "Failed to cancel order", "Order cancelled")
}

// ProcessRefund records a refund against an order.
func (c *OrderController) ProcessRefund(ctx context.Context, id uuid.UUID, amount decimal.Decimal, reason string) error {
	return c.transition(ctx, id, "POST", "/refund", map[string]interface{}{
		"amount": amount,
		"reason": reason,
	}, "Failed to process refund", "Refund processed")
}

// UpdateShipping sets carrier and tracking details.
func (c *OrderController) UpdateShipping(ctx context.Context, id uuid.UUID, carrier, trackingNumber string) error {
	return c.transition(ctx, id, "PUT", "/shipping", map[string]string{
		"carrier":         carrier,
		"tracking_number": trackingNumber,
	}, "Failed to update shipping details", "Shipping details updated")
}

// MarkPaymentReceived confirms payment for an order.
func (c *OrderController) MarkPaymentReceived(ctx context.Context, id uuid.UUID) error {
	return c.transition(ctx, id, "POST", "/payment-received", nil,
		"Failed to mark payment as received", "Payment marked as received")
}

// MarkOrderReturn records a customer return.
func (c *OrderController) MarkOrderReturn(ctx context.Context, id uuid.UUID, reason string) error {
	return c.transition(ctx, id, "POST", "/return", map[string]string{
		"reason": reason,
	}, "Failed to mark order as returned", "Order marked as returned")
}
