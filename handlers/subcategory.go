package handlers

import (
	"net/http"

	"ramesh-admin/dtos"
	"ramesh-admin/models"
	"ramesh-admin/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SubcategoryHandler struct {
	DB *gorm.DB
}

var subcategorySorts = map[string]bool{"name": true, "created_at": true}

func (h *SubcategoryHandler) GetSubcategories(c *gin.Context) {
	page, perPage, offset := pageParams(c)

	query := h.DB.Model(&models.Subcategory{})
	if c.Query("show_deleted") == "true" {
		query = query.Unscoped()
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch subcategories")
		return
	}

	var subcategories []models.Subcategory
	if err := query.Preload("Category").Order(sortClause(c, subcategorySorts, "name")).
		Offset(offset).Limit(perPage).Find(&subcategories).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch subcategories")
		return
	}

	respondList(c, subcategories, listMeta(page, perPage, total))
}

func (h *SubcategoryHandler) GetSubcategory(c *gin.Context) {
	var subcategory models.Subcategory
	if err := h.DB.Unscoped().Preload("Category").
		Where("id = ?", c.Param("id")).First(&subcategory).Error; err != nil {
		respondError(c, http.StatusNotFound, "Subcategory not found")
		return
	}

	respondOK(c, "", subcategory)
}

func (h *SubcategoryHandler) CreateSubcategory(c *gin.Context) {
	var req dtos.SubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	var parent models.Category
	if err := h.DB.Where("id = ?", req.CategoryID).First(&parent).Error; err != nil {
		respondError(c, http.StatusBadRequest, "Parent category not found")
		return
	}

	subcategory := models.Subcategory{
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if err := h.DB.Create(&subcategory).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create subcategory")
		return
	}

	respondCreated(c, "Subcategory created successfully", subcategory)
}

func (h *SubcategoryHandler) UpdateSubcategory(c *gin.Context) {
	var subcategory models.Subcategory
	if err := h.DB.Where("id = ?", c.Param("id")).First(&subcategory).Error; err != nil {
		respondError(c, http.StatusNotFound, "Subcategory not found")
		return
	}

	var req dtos.SubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	subcategory.Name = req.Name
	subcategory.CategoryID = req.CategoryID
	subcategory.Description = req.Description
	subcategory.ImageURL = req.ImageURL
	if err := h.DB.Save(&subcategory).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update subcategory")
		return
	}

	respondOK(c, "Subcategory updated successfully", subcategory)
}

func (h *SubcategoryHandler) DeleteSubcategory(c *gin.Context) {
	id := c.Param("id")

	var productCount int64
	if err := h.DB.Model(&models.Product{}).Where("subcategory_id = ?", id).Count(&productCount).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check subcategory dependencies")
		return
	}
	if productCount > 0 {
		respondError(c, http.StatusBadRequest, "Cannot delete subcategory with associated products")
		return
	}

	if err := h.DB.Delete(&models.Subcategory{}, "id = ?", id).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete subcategory")
		return
	}

	respondOK(c, "Subcategory deleted successfully", nil)
}

func (h *SubcategoryHandler) RestoreSubcategory(c *gin.Context) {
	var subcategory models.Subcategory
	if err := h.DB.Unscoped().Where("id = ?", c.Param("id")).First(&subcategory).Error; err != nil {
		respondError(c, http.StatusNotFound, "Subcategory not found")
		return
	}

	if err := h.DB.Unscoped().Model(&subcategory).Update("deleted_at", nil).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to restore subcategory")
		return
	}
	subcategory.DeletedAt = gorm.DeletedAt{}
	subcategory.IsDeleted = false
	subcategory.CanRestore = false

	respondOK(c, "Subcategory restored successfully", subcategory)
}

func (h *SubcategoryHandler) PermanentDeleteSubcategory(c *gin.Context) {
	if err := h.DB.Unscoped().Delete(&models.Subcategory{}, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to permanently delete subcategory")
		return
	}

	respondOK(c, "Subcategory permanently deleted", nil)
}
