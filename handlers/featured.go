package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"ramesh-admin/config"
	"ramesh-admin/dtos"
	"ramesh-admin/models"
	"ramesh-admin/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FeaturedHandler struct {
	DB *gorm.DB
}

func featuredLimits() models.FeaturedLimits {
	atoi := func(key string, fallback int) int {
		if n, err := strconv.Atoi(config.GetEnv(key, "")); err == nil && n > 0 {
			return n
		}
		return fallback
	}
	return models.FeaturedLimits{
		FeaturedProducts:   atoi("FEATURED_PRODUCT_LIMIT", 8),
		FeaturedCategories: atoi("FEATURED_CATEGORY_LIMIT", 6),
		QuickPicks:         atoi("QUICK_PICK_LIMIT", 10),
	}
}

// GetFeatured returns all three partitions in one payload along with the
// per-type caps, ordered by rank within each type.
func (h *FeaturedHandler) GetFeatured(c *gin.Context) {
	var items []models.FeaturedItem
	if err := h.DB.Order("display_type, display_order").Find(&items).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch featured items")
		return
	}

	respondOK(c, "", gin.H{
		"items":  items,
		"limits": featuredLimits(),
	})
}

func (h *FeaturedHandler) AddFeaturedItem(c *gin.Context) {
	var req dtos.FeaturedItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	limits := featuredLimits()
	var count int64
	if err := h.DB.Model(&models.FeaturedItem{}).
		Where("display_type = ?", req.DisplayType).Count(&count).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to add featured item")
		return
	}
	if limit := limits.For(req.DisplayType); count >= int64(limit) {
		// The "Maximum limit" prefix is load bearing: clients substring
		// match it to decide on a full reload.
		respondError(c, http.StatusConflict,
			fmt.Sprintf("Maximum limit of %d %s items reached", limit, req.DisplayType))
		return
	}

	item := models.FeaturedItem{
		EntityID:     req.EntityID,
		DisplayType:  req.DisplayType,
		Title:        req.Title,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		DisplayOrder: int(count) + 1,
		Position:     int(count) + 1,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to add featured item")
		return
	}

	respondCreated(c, "Featured item added", item)
}

// Reorder persists one partition's full order in a single batch.
func (h *FeaturedHandler) Reorder(c *gin.Context) {
	var req dtos.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		for _, tuple := range req.Items {
			result := tx.Model(&models.FeaturedItem{}).
				Where("id = ? AND display_type = ?", tuple.ID, req.DisplayType).
				Updates(map[string]interface{}{
					"display_order": tuple.DisplayOrder,
					"position":      tuple.Position,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
	if err == gorm.ErrRecordNotFound {
		respondError(c, http.StatusBadRequest, "One or more items do not belong to this display type")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save display order")
		return
	}

	respondOK(c, "Display order saved", nil)
}

// Replace swaps the entity in one slot while preserving its rank.
func (h *FeaturedHandler) Replace(c *gin.Context) {
	var item models.FeaturedItem
	if err := h.DB.Where("id = ?", c.Param("id")).First(&item).Error; err != nil {
		respondError(c, http.StatusNotFound, "Featured item not found")
		return
	}

	var req dtos.ReplaceFeaturedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}
	if req.DisplayType != item.DisplayType {
		respondError(c, http.StatusBadRequest, "Display type does not match the slot being replaced")
		return
	}

	item.EntityID = req.EntityID
	if err := h.DB.Save(&item).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to replace featured item")
		return
	}

	respondOK(c, "Featured item replaced", item)
}

func (h *FeaturedHandler) RemoveFeaturedItem(c *gin.Context) {
	var item models.FeaturedItem
	if err := h.DB.Where("id = ?", c.Param("id")).First(&item).Error; err != nil {
		respondError(c, http.StatusNotFound, "Featured item not found")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		// Close the gap so ranks stay dense 1..N.
		var rest []models.FeaturedItem
		if err := tx.Where("display_type = ?", item.DisplayType).
			Order("display_order").Find(&rest).Error; err != nil {
			return err
		}
		for i := range rest {
			if err := tx.Model(&rest[i]).Updates(map[string]interface{}{
				"display_order": i + 1,
				"position":      i + 1,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to remove featured item")
		return
	}

	respondOK(c, "Featured item removed", nil)
}
