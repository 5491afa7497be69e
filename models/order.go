package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
	OrderStatusReturned   OrderStatus = "returned"
)

// StatusInfo is the label/color tuple the dashboard renders for a status.
type StatusInfo struct {
	Code  OrderStatus `json:"code"`
	Label string      `json:"label"`
	Color string      `json:"color"`
}

var statusInfo = map[OrderStatus]StatusInfo{
	OrderStatusPending:    {OrderStatusPending, "Pending", "amber"},
	OrderStatusProcessing: {OrderStatusProcessing, "Processing", "blue"},
	OrderStatusShipped:    {OrderStatusShipped, "Shipped", "indigo"},
	OrderStatusDelivered:  {OrderStatusDelivered, "Delivered", "green"},
	OrderStatusCancelled:  {OrderStatusCancelled, "Cancelled", "red"},
	OrderStatusRefunded:   {OrderStatusRefunded, "Refunded", "purple"},
	OrderStatusReturned:   {OrderStatusReturned, "Returned", "orange"},
}

// Info returns the display tuple for a status. Unknown codes come back with
// the raw code as label so server-side additions still render.
func (s OrderStatus) Info() StatusInfo {
	if info, ok := statusInfo[s]; ok {
		return info
	}
	return StatusInfo{Code: s, Label: string(s), Color: "gray"}
}

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentReceived = "received"
	PaymentRefunded = "refunded"
	PaymentFailed   = "failed"
)

type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber string    `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Status        OrderStatus `gorm:"default:pending;index" json:"status"`
	PaymentStatus string      `gorm:"default:pending" json:"payment_status"`
	PaymentMethod string      `json:"payment_method"`

	Subtotal decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Total    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`

	ShippingAddress string     `gorm:"type:text" json:"shipping_address"`
	Carrier         string     `json:"carrier"`
	TrackingNumber  string     `json:"tracking_number"`
	ShippedAt       *time.Time `json:"shipped_at,omitempty"`

	CancelReason string           `json:"cancel_reason,omitempty"`
	RefundAmount *decimal.Decimal `gorm:"type:decimal(10,2)" json:"refund_amount,omitempty"`
	ReturnReason string           `json:"return_reason,omitempty"`

	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	VariantID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"variant_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = "RAM" + time.Now().Format("20060102150405") + o.ID.String()[:8]
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// AllowedTransitions defines the valid order status state machine.
var AllowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusReturned},
	OrderStatusDelivered:  {OrderStatusReturned, OrderStatusRefunded},
	OrderStatusCancelled:  {OrderStatusRefunded},
	OrderStatusReturned:   {OrderStatusRefunded},
	OrderStatusRefunded:   {},
}

// IsValidTransition checks if a status transition is allowed.
func IsValidTransition(from, to OrderStatus) bool {
	allowed, exists := AllowedTransitions[from]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
