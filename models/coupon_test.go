package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validCoupon() *Coupon {
	return &Coupon{
		Code:          "DIWALI10",
		DiscountType:  DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		StartDate:     time.Now(),
	}
}

func TestCouponValidate(t *testing.T) {
	if err := validCoupon().Validate(); err != nil {
		t.Fatalf("valid coupon rejected: %v", err)
	}

	c := validCoupon()
	c.Code = "AB"
	if err := c.Validate(); err == nil {
		t.Error("short code should be rejected")
	}

	c = validCoupon()
	c.DiscountType = "bogo"
	if err := c.Validate(); err == nil {
		t.Error("unknown discount type should be rejected")
	}

	c = validCoupon()
	c.DiscountValue = decimal.Zero
	if err := c.Validate(); err == nil {
		t.Error("zero discount should be rejected")
	}
}

func TestCouponValidatePercentageCap(t *testing.T) {
	c := validCoupon()
	c.DiscountValue = decimal.NewFromInt(150)
	err := c.Validate()
	if err == nil {
		t.Fatal("150% discount should be rejected")
	}
	if err.Error() != "percentage discount cannot exceed 100%" {
		t.Errorf("unexpected message %q", err.Error())
	}

	// The cap only applies to percentage coupons.
	c.DiscountType = DiscountTypeFixedAmount
	if err := c.Validate(); err != nil {
		t.Errorf("fixed amount of 150 should be fine: %v", err)
	}
}

func TestCouponValidateDateRange(t *testing.T) {
	c := validCoupon()
	before := c.StartDate.Add(-time.Hour)
	c.EndDate = &before
	err := c.Validate()
	if err == nil {
		t.Fatal("end before start should be rejected")
	}
	if err.Error() != "end date cannot be before start date" {
		t.Errorf("unexpected message %q", err.Error())
	}

	after := c.StartDate.Add(time.Hour)
	c.EndDate = &after
	if err := c.Validate(); err != nil {
		t.Errorf("end after start should be fine: %v", err)
	}
}

func TestValidateStatsRange(t *testing.T) {
	for _, period := range []string{StatsPeriodToday, StatsPeriodWeek, StatsPeriodMonth, StatsPeriodYear, StatsPeriodAll} {
		if err := ValidateStatsRange(period, nil, nil); err != nil {
			t.Errorf("period %q should not need bounds: %v", period, err)
		}
	}

	if err := ValidateStatsRange(StatsPeriodCustom, nil, nil); err == nil {
		t.Error("custom period without bounds should be rejected")
	}

	start := time.Now()
	end := start.Add(-time.Hour)
	if err := ValidateStatsRange(StatsPeriodCustom, &start, &end); err == nil {
		t.Error("start after end should be rejected")
	}

	end = start.Add(time.Hour)
	if err := ValidateStatsRange(StatsPeriodCustom, &start, &end); err != nil {
		t.Errorf("valid custom range rejected: %v", err)
	}

	if err := ValidateStatsRange("fortnight", nil, nil); err == nil {
		t.Error("unknown period should be rejected")
	}
}
