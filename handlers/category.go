package handlers

import (
	"net/http"

	"ramesh-admin/dtos"
	"ramesh-admin/models"
	"ramesh-admin/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	DB *gorm.DB
}

var categorySorts = map[string]bool{"name": true, "created_at": true}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	page, perPage, offset := pageParams(c)

	query := h.DB.Model(&models.Category{})
	if c.Query("show_deleted") == "true" {
		query = query.Unscoped()
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	var categories []models.Category
	if err := query.Order(sortClause(c, categorySorts, "name")).
		Offset(offset).Limit(perPage).Find(&categories).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	respondList(c, categories, listMeta(page, perPage, total))
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	var category models.Category
	if err := h.DB.Unscoped().Preload("Subcategories").
		Where("id = ?", c.Param("id")).First(&category).Error; err != nil {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}

	respondOK(c, "", category)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dtos.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if err := h.DB.Create(&category).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create category")
		return
	}

	respondCreated(c, "Category created successfully", category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var category models.Category
	if err := h.DB.Where("id = ?", c.Param("id")).First(&category).Error; err != nil {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}

	var req dtos.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	category.Name = req.Name
	category.Description = req.Description
	category.ImageURL = req.ImageURL
	if err := h.DB.Save(&category).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update category")
		return
	}

	respondOK(c, "Category updated successfully", category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id := c.Param("id")

	var productCount int64
	if err := h.DB.Model(&models.Product{}).Where("category_id = ?", id).Count(&productCount).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check category dependencies")
		return
	}
	if productCount > 0 {
		respondError(c, http.StatusBadRequest, "Cannot delete category with associated products")
		return
	}

	if err := h.DB.Delete(&models.Category{}, "id = ?", id).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	respondOK(c, "Category deleted successfully", nil)
}

func (h *CategoryHandler) RestoreCategory(c *gin.Context) {
	var category models.Category
	if err := h.DB.Unscoped().Where("id = ?", c.Param("id")).First(&category).Error; err != nil {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}

	if err := h.DB.Unscoped().Model(&category).Update("deleted_at", nil).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to restore category")
		return
	}
	category.DeletedAt = gorm.DeletedAt{}
	category.IsDeleted = false
	category.CanRestore = false

	respondOK(c, "Category restored successfully", category)
}

func (h *CategoryHandler) PermanentDeleteCategory(c *gin.Context) {
	if err := h.DB.Unscoped().Delete(&models.Category{}, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to permanently delete category")
		return
	}

	respondOK(c, "Category permanently deleted", nil)
}
