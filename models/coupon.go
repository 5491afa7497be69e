package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DiscountTypePercentage  = "percentage"
	DiscountTypeFixedAmount = "fixed_amount"
)

var percentCap = decimal.NewFromInt(100)

type Coupon struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string    `gorm:"uniqueIndex;not null" json:"code"`
	Description string    `gorm:"type:text" json:"description"`

	DiscountType  string          `gorm:"not null" json:"discount_type"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount_value"`

	// Zero means unlimited for both caps below.
	MinimumOrderValue     decimal.Decimal `gorm:"type:decimal(10,2)" json:"minimum_order_value"`
	MaximumDiscountAmount decimal.Decimal `gorm:"type:decimal(10,2)" json:"maximum_discount_amount"`

	UsageLimit   int `gorm:"default:0" json:"usage_limit"`
	PerUserLimit int `gorm:"default:0" json:"per_user_limit"`
	UsageCount   int `gorm:"default:0" json:"usage_count"`

	StartDate time.Time  `gorm:"not null" json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`

	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at"`
	IsDeleted  bool           `gorm:"-" json:"is_deleted"`
	CanRestore bool           `gorm:"-" json:"can_restore"`
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *Coupon) AfterFind(tx *gorm.DB) error {
	c.IsDeleted = c.DeletedAt.Valid
	c.CanRestore = c.DeletedAt.Valid
	return nil
}

// Validate applies the coupon business rules before any network call is made.
func (c *Coupon) Validate() error {
	if n := len(c.Code); n < 3 || n > 50 {
		return errors.New("coupon code must be between 3 and 50 characters")
	}
	switch c.DiscountType {
	case DiscountTypePercentage, DiscountTypeFixedAmount:
	default:
		return fmt.Errorf("invalid discount type %q", c.DiscountType)
	}
	if !c.DiscountValue.IsPositive() {
		return errors.New("discount value must be greater than zero")
	}
	if c.DiscountType == DiscountTypePercentage && c.DiscountValue.GreaterThan(percentCap) {
		return errors.New("percentage discount cannot exceed 100%")
	}
	if c.MinimumOrderValue.IsNegative() {
		return errors.New("minimum order value cannot be negative")
	}
	if c.MaximumDiscountAmount.IsNegative() {
		return errors.New("maximum discount amount cannot be negative")
	}
	if c.UsageLimit < 0 || c.PerUserLimit < 0 {
		return errors.New("usage limits cannot be negative")
	}
	if c.StartDate.IsZero() {
		return errors.New("start date is required")
	}
	if c.EndDate != nil && c.EndDate.Before(c.StartDate) {
		return errors.New("end date cannot be before start date")
	}
	return nil
}

// Reporting periods for coupon statistics.
const (
	StatsPeriodToday  = "today"
	StatsPeriodWeek   = "week"
	StatsPeriodMonth  = "month"
	StatsPeriodYear   = "year"
	StatsPeriodAll    = "all"
	StatsPeriodCustom = "custom"
)

// ValidateStatsRange checks a statistics request before it is issued. A
// custom period requires both bounds with start not after end.
func ValidateStatsRange(period string, start, end *time.Time) error {
	switch period {
	case StatsPeriodToday, StatsPeriodWeek, StatsPeriodMonth, StatsPeriodYear, StatsPeriodAll:
		return nil
	case StatsPeriodCustom:
		if start == nil || end == nil {
			return errors.New("custom period requires both start and end dates")
		}
		if start.After(*end) {
			return errors.New("start date must not be after end date")
		}
		return nil
	default:
		return fmt.Errorf("invalid statistics period %q", period)
	}
}

// CouponStats is the read-only statistics payload for one coupon.
type CouponStats struct {
	CouponID      uuid.UUID       `json:"coupon_id"`
	Period        string          `json:"period"`
	UsageCount    int             `json:"usage_count"`
	UniqueUsers   int             `json:"unique_users"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	StartDate     *time.Time      `json:"start_date,omitempty"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
}
