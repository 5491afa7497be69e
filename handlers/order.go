package handlers

import (
	"net/http"
	"time"

	"ramesh-admin/dtos"
	"ramesh-admin/models"
	"ramesh-admin/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrderHandler struct {
	DB *gorm.DB
}

var orderSorts = map[string]bool{"created_at": true, "total": true, "status": true}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	page, perPage, offset := pageParams(c)

	query := h.DB.Model(&models.Order{})
	if search := c.Query("search"); search != "" {
		query = query.Where("order_number LIKE ?", "%"+search+"%")
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}
	if from := c.Query("date_from"); from != "" {
		query = query.Where("created_at >= ?", from)
	}
	if to := c.Query("date_to"); to != "" {
		query = query.Where("created_at <= ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	var orders []models.Order
	if err := query.Preload("User").Preload("Items").
		Order(sortClause(c, orderSorts, "created_at")).
		Offset(offset).Limit(perPage).Find(&orders).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	respondList(c, orders, listMeta(page, perPage, total))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	var order models.Order
	if err := h.DB.Preload("User").Preload("Items").
		Where("id = ?", c.Param("id")).First(&order).Error; err != nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}

	respondOK(c, "", order)
}

func (h *OrderHandler) loadOrder(c *gin.Context) (*models.Order, bool) {
	var order models.Order
	if err := h.DB.Preload("Items").Where("id = ?", c.Param("id")).First(&order).Error; err != nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return nil, false
	}
	return &order, true
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}

	var req dtos.OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	if !models.IsValidTransition(order.Status, req.Status) {
		respondError(c, http.StatusBadRequest,
			"Cannot change order status from "+string(order.Status)+" to "+string(req.Status))
		return
	}

	order.Status = req.Status
	if err := h.DB.Save(order).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	respondOK(c, "Order status updated", order)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}

	var req dtos.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	if !models.IsValidTransition(order.Status, models.OrderStatusCancelled) {
		respondError(c, http.StatusBadRequest,
			"Cannot cancel an order in status "+string(order.Status))
		return
	}

	order.Status = models.OrderStatusCancelled
	order.CancelReason = req.Reason
	if err := h.DB.Save(order).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to cancel order")
		return
	}

	respondOK(c, "Order cancelled", order)
}

func (h *OrderHandler) ProcessRefund(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}

	var req dtos.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	if !req.Amount.IsPositive() {
		respondError(c, http.StatusBadRequest, "Refund amount must be greater than zero")
		return
	}
	if req.Amount.GreaterThan(order.Total) {
		respondError(c, http.StatusBadRequest, "Refund amount cannot exceed the order total")
		return
	}
	if !models.IsValidTransition(order.Status, models.OrderStatusRefunded) {
		respondError(c, http.StatusBadRequest,
			"Cannot refund an order in status "+string(order.Status))
		return
	}

	order.Status = models.OrderStatusRefunded
	order.PaymentStatus = models.PaymentRefunded
	order.RefundAmount = &req.Amount
	if err := h.DB.Save(order).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to process refund")
		return
	}

	respondOK(c, "Refund processed", order)
}

func (h *OrderHandler) UpdateShipping(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}

	var req dtos.ShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	if !models.IsValidTransition(order.Status, models.OrderStatusShipped) {
		respondError(c, http.StatusBadRequest,
			"Cannot ship an order in status "+string(order.Status))
		return
	}

	now := time.Now()
	order.Status = models.OrderStatusShipped
	order.Carrier = req.Carrier
	order.TrackingNumber = req.TrackingNumber
	order.ShippedAt = &now
	if err := h.DB.Save(order).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update shipping details")
		return
	}

	respondOK(c, "Shipping details updated", order)
}

func (h *OrderHandler) MarkPaymentReceived(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}

	if order.PaymentStatus == models.PaymentReceived {
		respondError(c, http.StatusBadRequest, "Payment is already marked as received")
		return
	}

	order.PaymentStatus = models.PaymentReceived
	if err := h.DB.Save(order).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to mark payment as received")
		return
	}

	respondOK(c, "Payment marked as received", order)
}

func (h *OrderHandler) MarkOrderReturn(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}

	var req dtos.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	if !models.IsValidTransition(order.Status, models.OrderStatusReturned) {
		respondError(c, http.StatusBadRequest,
			"Cannot mark an order in status "+string(order.Status)+" as returned")
		return
	}

	order.Status = models.OrderStatusReturned
	order.ReturnReason = req.Reason
	if err := h.DB.Save(order).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to mark order as returned")
		return
	}

	respondOK(c, "Order marked as returned", order)
}

// GetOrderTransitions tells the dashboard which transitions are legal for
// each status so it can grey out actions.
func (h *OrderHandler) GetOrderTransitions(c *gin.Context) {
	respondOK(c, "", models.AllowedTransitions)
}
