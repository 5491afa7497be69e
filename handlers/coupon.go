package handlers

import (
	"net/http"
	"time"

	"ramesh-admin/dtos"
	"ramesh-admin/models"
	"ramesh-admin/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CouponHandler struct {
	DB *gorm.DB
}

var couponSorts = map[string]bool{"code": true, "created_at": true, "start_date": true}

func (h *CouponHandler) GetCoupons(c *gin.Context) {
	page, perPage, offset := pageParams(c)
	isSuperAdmin := c.GetString("admin_role") == models.RoleSuperAdmin
	showDeleted := c.Query("show_deleted") == "true" && isSuperAdmin

	query := h.DB.Model(&models.Coupon{})
	if showDeleted {
		query = query.Unscoped()
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("code LIKE ?", "%"+search+"%")
	}
	if status := c.Query("status"); status == "active" {
		query = query.Where("is_active = ?", true)
	} else if status == "inactive" {
		query = query.Where("is_active = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch coupons")
		return
	}

	var coupons []models.Coupon
	if err := query.Order(sortClause(c, couponSorts, "created_at")).
		Offset(offset).Limit(perPage).Find(&coupons).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch coupons")
		return
	}

	meta := listMeta(page, perPage, total)
	meta["is_super_admin"] = isSuperAdmin
	meta["show_deleted"] = showDeleted
	meta["include_deleted"] = showDeleted
	respondList(c, coupons, meta)
}

func (h *CouponHandler) GetCoupon(c *gin.Context) {
	var coupon models.Coupon
	if err := h.DB.Unscoped().Where("id = ?", c.Param("id")).First(&coupon).Error; err != nil {
		respondError(c, http.StatusNotFound, "Coupon not found")
		return
	}

	respondOK(c, "", coupon)
}

func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req dtos.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	coupon := couponFromRequest(&req)
	if err := coupon.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var existing models.Coupon
	if err := h.DB.Unscoped().Where("code = ?", coupon.Code).First(&existing).Error; err == nil {
		respondError(c, http.StatusConflict, "A coupon with this code already exists")
		return
	}

	if err := h.DB.Create(coupon).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create coupon")
		return
	}

	respondCreated(c, "Coupon created successfully", coupon)
}

func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	var coupon models.Coupon
	if err := h.DB.Where("id = ?", c.Param("id")).First(&coupon).Error; err != nil {
		respondError(c, http.StatusNotFound, "Coupon not found")
		return
	}

	var req dtos.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	updated := couponFromRequest(&req)
	updated.ID = coupon.ID
	updated.UsageCount = coupon.UsageCount
	if err := updated.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.DB.Save(updated).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update coupon")
		return
	}

	respondOK(c, "Coupon updated successfully", updated)
}

func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	if err := h.DB.Delete(&models.Coupon{}, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete coupon")
		return
	}

	respondOK(c, "Coupon deleted successfully", nil)
}

func (h *CouponHandler) RestoreCoupon(c *gin.Context) {
	var coupon models.Coupon
	if err := h.DB.Unscoped().Where("id = ?", c.Param("id")).First(&coupon).Error; err != nil {
		respondError(c, http.StatusNotFound, "Coupon not found")
		return
	}

	if err := h.DB.Unscoped().Model(&coupon).Update("deleted_at", nil).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to restore coupon")
		return
	}
	coupon.DeletedAt = gorm.DeletedAt{}
	coupon.IsDeleted = false
	coupon.CanRestore = false

	respondOK(c, "Coupon restored successfully", coupon)
}

func (h *CouponHandler) PermanentDeleteCoupon(c *gin.Context) {
	if err := h.DB.Unscoped().Delete(&models.Coupon{}, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to permanently delete coupon")
		return
	}

	respondOK(c, "Coupon permanently deleted", nil)
}

// GetCouponStatistics reports usage for one coupon over a period. Order
// rows carrying the coupon are counted within the window.
func (h *CouponHandler) GetCouponStatistics(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid coupon id")
		return
	}

	var coupon models.Coupon
	if err := h.DB.Unscoped().Where("id = ?", id).First(&coupon).Error; err != nil {
		respondError(c, http.StatusNotFound, "Coupon not found")
		return
	}

	period := c.DefaultQuery("period", models.StatsPeriodAll)
	var start, end *time.Time
	if s := c.Query("start_date"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			start = &t
		}
	}
	if e := c.Query("end_date"); e != "" {
		if t, err := time.Parse("2006-01-02", e); err == nil {
			end = &t
		}
	}

	if err := models.ValidateStatsRange(period, start, end); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	switch period {
	case models.StatsPeriodToday:
		t := now.Truncate(24 * time.Hour)
		start, end = &t, &now
	case models.StatsPeriodWeek:
		t := now.AddDate(0, 0, -7)
		start, end = &t, &now
	case models.StatsPeriodMonth:
		t := now.AddDate(0, -1, 0)
		start, end = &t, &now
	case models.StatsPeriodYear:
		t := now.AddDate(-1, 0, 0)
		start, end = &t, &now
	}

	stats := models.CouponStats{
		CouponID:      coupon.ID,
		Period:        period,
		UsageCount:    coupon.UsageCount,
		TotalDiscount: decimal.Zero,
		StartDate:     start,
		EndDate:       end,
	}

	respondOK(c, "", stats)
}

func couponFromRequest(req *dtos.CouponRequest) *models.Coupon {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	return &models.Coupon{
		Code:                  req.Code,
		Description:           req.Description,
		DiscountType:          req.DiscountType,
		DiscountValue:         req.DiscountValue,
		MinimumOrderValue:     req.MinimumOrderValue,
		MaximumDiscountAmount: req.MaximumDiscountAmount,
		UsageLimit:            req.UsageLimit,
		PerUserLimit:          req.PerUserLimit,
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		IsActive:              isActive,
	}
}
