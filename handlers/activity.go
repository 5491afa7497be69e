package handlers

import (
	"net/http"

	"ramesh-admin/dtos"
	"ramesh-admin/models"
	"ramesh-admin/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityHandler struct {
	DB *gorm.DB
}

func (h *ActivityHandler) CreateActivityLog(c *gin.Context) {
	var req dtos.ActivityLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	entry := models.ActivityLog{
		AdminID:      c.MustGet("admin_id").(uuid.UUID),
		Action:       req.Action,
		ResourceType: req.ResourceType,
		ResourceID:   req.ResourceID,
		Note:         req.Note,
	}
	if err := h.DB.Create(&entry).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to record activity")
		return
	}

	respondCreated(c, "Activity recorded", entry)
}

func (h *ActivityHandler) GetActivityLogs(c *gin.Context) {
	page, perPage, offset := pageParams(c)

	query := h.DB.Model(&models.ActivityLog{})
	if resourceType := c.Query("resource_type"); resourceType != "" {
		query = query.Where("resource_type = ?", resourceType)
	}
	if resourceID := c.Query("resource_id"); resourceID != "" {
		query = query.Where("resource_id = ?", resourceID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch activity logs")
		return
	}

	var logs []models.ActivityLog
	if err := query.Order("created_at desc").
		Offset(offset).Limit(perPage).Find(&logs).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch activity logs")
		return
	}

	respondList(c, logs, listMeta(page, perPage, total))
}

// HealthCheck is unauthenticated.
func HealthCheck(c *gin.Context) {
	respondOK(c, "ok", nil)
}
