package dtos

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ramesh-admin/models"
)

type CouponRequest struct {
	Code                  string          `json:"code" binding:"required,min=3,max=50"`
	Description           string          `json:"description"`
	DiscountType          string          `json:"discount_type" binding:"required,oneof=percentage fixed_amount"`
	DiscountValue         decimal.Decimal `json:"discount_value" binding:"required"`
	MinimumOrderValue     decimal.Decimal `json:"minimum_order_value"`
	MaximumDiscountAmount decimal.Decimal `json:"maximum_discount_amount"`
	UsageLimit            int             `json:"usage_limit" binding:"gte=0"`
	PerUserLimit          int             `json:"per_user_limit" binding:"gte=0"`
	StartDate             time.Time       `json:"start_date" binding:"required"`
	EndDate               *time.Time      `json:"end_date"`
	IsActive              *bool           `json:"is_active"`
}

type FeaturedItemRequest struct {
	EntityID    uuid.UUID          `json:"entity_id" binding:"required"`
	DisplayType models.DisplayType `json:"display_type" binding:"required,oneof=featured_product featured_category quick_pick"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	ImageURL    string             `json:"image_url"`
}

type ReorderRequest struct {
	DisplayType models.DisplayType  `json:"display_type" binding:"required,oneof=featured_product featured_category quick_pick"`
	Items       []models.OrderTuple `json:"items" binding:"required,min=1,dive"`
}

type ReplaceFeaturedRequest struct {
	EntityID    uuid.UUID          `json:"entity_id" binding:"required"`
	DisplayType models.DisplayType `json:"display_type" binding:"required,oneof=featured_product featured_category quick_pick"`
}

type OrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type RefundRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason"`
}

type ShippingRequest struct {
	Carrier        string `json:"carrier" binding:"required"`
	TrackingNumber string `json:"tracking_number" binding:"required"`
}

type ReturnRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ActivityLogRequest struct {
	Action       string    `json:"action" binding:"required"`
	ResourceType string    `json:"resource_type" binding:"required"`
	ResourceID   uuid.UUID `json:"resource_id" binding:"required"`
	Note         string    `json:"note"`
}
