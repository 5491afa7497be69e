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

type ProductHandler struct {
	DB *gorm.DB
}

var productSorts = map[string]bool{"name": true, "created_at": true, "status": true}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	page, perPage, offset := pageParams(c)

	query := h.DB.Model(&models.Product{})
	if c.Query("show_deleted") == "true" {
		query = query.Unscoped()
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if productType := c.Query("product_type"); productType != "" {
		query = query.Where("product_type = ?", productType)
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if subcategoryID := c.Query("subcategory_id"); subcategoryID != "" {
		query = query.Where("subcategory_id = ?", subcategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	var products []models.Product
	if err := query.Preload("Category").Preload("Variants").Preload("Images").Preload("Tags").
		Order(sortClause(c, productSorts, "created_at")).
		Offset(offset).Limit(perPage).Find(&products).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	respondList(c, products, listMeta(page, perPage, total))
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	var product models.Product
	if err := h.DB.Unscoped().
		Preload("Category").Preload("Subcategory").
		Preload("Variants").Preload("Images").Preload("Tags").
		Where("id = ?", c.Param("id")).First(&product).Error; err != nil {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}

	respondOK(c, "", product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req dtos.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	if msg := h.checkSKUConflicts(req.Variants, nil); msg != "" {
		respondError(c, http.StatusConflict, msg)
		return
	}

	product := productFromRequest(&req)

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		return h.attachTags(tx, product, req.Tags)
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	h.DB.Preload("Variants").Preload("Images").Preload("Tags").First(product, "id = ?", product.ID)
	respondCreated(c, "Product created successfully", product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := h.DB.Where("id = ?", c.Param("id")).First(&product).Error; err != nil {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}

	var req dtos.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	if msg := h.checkSKUConflicts(req.Variants, &product.ID); msg != "" {
		respondError(c, http.StatusConflict, msg)
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		applyScalarFields(&product, &req)
		if err := tx.Save(&product).Error; err != nil {
			return err
		}
		if err := h.replaceVariants(tx, &product, req.Variants); err != nil {
			return err
		}
		if err := h.applyImageDeltas(tx, &product, &req); err != nil {
			return err
		}
		if err := tx.Model(&product).Association("Tags").Clear(); err != nil {
			return err
		}
		return h.attachTags(tx, &product, req.Tags)
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	h.DB.Preload("Variants").Preload("Images").Preload("Tags").First(&product, "id = ?", product.ID)
	respondOK(c, "Product updated successfully", product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.DB.Delete(&models.Product{}, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	respondOK(c, "Product deleted successfully", nil)
}

func (h *ProductHandler) RestoreProduct(c *gin.Context) {
	var product models.Product
	if err := h.DB.Unscoped().Where("id = ?", c.Param("id")).First(&product).Error; err != nil {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}

	if err := h.DB.Unscoped().Model(&product).Update("deleted_at", nil).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to restore product")
		return
	}
	product.DeletedAt = gorm.DeletedAt{}
	product.IsDeleted = false
	product.CanRestore = false

	respondOK(c, "Product restored successfully", product)
}

// PermanentDeleteProduct is irreversible. Super admins may always call it;
// other admins only for products already in the trash.
func (h *ProductHandler) PermanentDeleteProduct(c *gin.Context) {
	var product models.Product
	if err := h.DB.Unscoped().Where("id = ?", c.Param("id")).First(&product).Error; err != nil {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}

	role := c.GetString("admin_role")
	if role != models.RoleSuperAdmin && !product.DeletedAt.Valid {
		respondError(c, http.StatusForbidden, "Only a super admin can permanently delete a live product")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.Variant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&product).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Unscoped().Delete(&product).Error
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to permanently delete product")
		return
	}

	respondOK(c, "Product permanently deleted", nil)
}

// CheckSKU answers SKU uniqueness probes from the product form.
func (h *ProductHandler) CheckSKU(c *gin.Context) {
	sku := c.Query("sku")
	if sku == "" {
		respondError(c, http.StatusBadRequest, "sku query parameter is required")
		return
	}

	query := h.DB.Model(&models.Variant{}).Where("sku = ?", sku)
	if exclude := c.Query("exclude_product_id"); exclude != "" {
		query = query.Where("product_id <> ?", exclude)
	}

	var variant models.Variant
	result := gin.H{"sku": sku, "available": true}
	if err := query.First(&variant).Error; err == nil {
		result["available"] = false
		result["product_id"] = variant.ProductID
	}

	respondOK(c, "", result)
}

// ---- helpers ----

func productFromRequest(req *dtos.ProductRequest) *models.Product {
	product := &models.Product{}
	applyScalarFields(product, req)

	for i, v := range req.Variants {
		product.Variants = append(product.Variants, models.Variant{
			SKU:         v.SKU,
			Price:       v.Price,
			SalePrice:   v.SalePrice,
			Weight:      v.Weight,
			WeightUnit:  v.WeightUnit,
			MinOrderQty: v.MinOrderQty,
			MaxOrderQty: v.MaxOrderQty,
			Status:      v.Status,
			Position:    i + 1,
		})
	}
	for i, img := range req.Images {
		product.Images = append(product.Images, models.ProductImage{
			ImageURL:     img.ImageURL,
			IsPrimary:    img.IsPrimary,
			DisplayOrder: i + 1,
		})
	}
	ensurePrimaryImage(product.Images)
	return product
}

func applyScalarFields(product *models.Product, req *dtos.ProductRequest) {
	product.Name = req.Name
	product.Description = req.Description
	product.CategoryID = req.CategoryID
	product.SubcategoryID = req.SubcategoryID
	if req.ProductType != "" {
		product.ProductType = req.ProductType
	}
	if req.Status != "" {
		product.Status = req.Status
	}
	product.HSNCode = req.HSNCode
	product.TaxRate = req.TaxRate
	product.CGSTRate = req.CGSTRate
	product.SGSTRate = req.SGSTRate
	product.IGSTRate = req.IGSTRate
	product.ShelfLife = req.ShelfLife
	product.IsVegetarian = req.IsVegetarian
	product.Ingredients = req.Ingredients
	product.NutritionInfo = req.NutritionInfo
}

// ensurePrimaryImage keeps the exactly-one-primary invariant: the first
// image wins if none or several are flagged.
func ensurePrimaryImage(images []models.ProductImage) {
	if len(images) == 0 {
		return
	}
	primary := -1
	for i := range images {
		if images[i].IsPrimary {
			if primary == -1 {
				primary = i
			} else {
				images[i].IsPrimary = false
			}
		}
	}
	if primary == -1 {
		images[0].IsPrimary = true
	}
}

func (h *ProductHandler) checkSKUConflicts(variants []dtos.VariantRequest, excludeProduct *uuid.UUID) string {
	for _, v := range variants {
		query := h.DB.Model(&models.Variant{}).Where("sku = ?", v.SKU)
		if excludeProduct != nil {
			query = query.Where("product_id <> ?", *excludeProduct)
		}
		if v.ID != nil {
			query = query.Where("id <> ?", *v.ID)
		}
		var count int64
		query.Count(&count)
		if count > 0 {
			return "SKU " + v.SKU + " is already in use by another variant"
		}
	}
	return ""
}

func (h *ProductHandler) replaceVariants(tx *gorm.DB, product *models.Product, variants []dtos.VariantRequest) error {
	keep := make([]uuid.UUID, 0, len(variants))
	for i, v := range variants {
		if v.ID != nil {
			keep = append(keep, *v.ID)
			updates := map[string]interface{}{
				"sku":           v.SKU,
				"price":         v.Price,
				"sale_price":    v.SalePrice,
				"weight":        v.Weight,
				"weight_unit":   v.WeightUnit,
				"min_order_qty": v.MinOrderQty,
				"max_order_qty": v.MaxOrderQty,
				"status":        v.Status,
				"position":      i + 1,
			}
			if err := tx.Model(&models.Variant{}).
				Where("id = ? AND product_id = ?", *v.ID, product.ID).
				Updates(updates).Error; err != nil {
				return err
			}
			continue
		}

		variant := models.Variant{
			ProductID:   product.ID,
			SKU:         v.SKU,
			Price:       v.Price,
			SalePrice:   v.SalePrice,
			Weight:      v.Weight,
			WeightUnit:  v.WeightUnit,
			MinOrderQty: v.MinOrderQty,
			MaxOrderQty: v.MaxOrderQty,
			Status:      v.Status,
			Position:    i + 1,
		}
		if err := tx.Create(&variant).Error; err != nil {
			return err
		}
		keep = append(keep, variant.ID)
	}

	return tx.Where("product_id = ? AND id NOT IN ?", product.ID, keep).
		Delete(&models.Variant{}).Error
}

// applyImageDeltas applies the form's image operations. Existing images are
// always kept unless individually listed in delete_image_ids; wiping every
// image in one call is not expressible.
func (h *ProductHandler) applyImageDeltas(tx *gorm.DB, product *models.Product, req *dtos.ProductRequest) error {
	for _, id := range req.DeleteImageIDs {
		if err := tx.Where("id = ? AND product_id = ?", id, product.ID).
			Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
	}

	for _, img := range req.Images {
		if img.ID != nil {
			continue // existing image, handled by order/primary passes
		}
		image := models.ProductImage{
			ProductID: product.ID,
			ImageURL:  img.ImageURL,
			IsPrimary: img.IsPrimary,
		}
		if err := tx.Create(&image).Error; err != nil {
			return err
		}
	}

	for i, id := range req.ImageOrder {
		if err := tx.Model(&models.ProductImage{}).
			Where("id = ? AND product_id = ?", id, product.ID).
			Update("display_order", i+1).Error; err != nil {
			return err
		}
	}

	if req.PrimaryImageID != nil {
		if err := tx.Model(&models.ProductImage{}).
			Where("product_id = ?", product.ID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ProductImage{}).
			Where("id = ? AND product_id = ?", *req.PrimaryImageID, product.ID).
			Update("is_primary", true).Error; err != nil {
			return err
		}
	}

	var remaining int64
	tx.Model(&models.ProductImage{}).Where("product_id = ?", product.ID).Count(&remaining)
	if remaining == 0 {
		return gorm.ErrInvalidData
	}
	return nil
}

func (h *ProductHandler) attachTags(tx *gorm.DB, product *models.Product, names []string) error {
	for _, name := range names {
		if name == "" {
			continue
		}
		var tag models.Tag
		if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
			tag = models.Tag{Name: name}
			if err := tx.Create(&tag).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(product).Association("Tags").Append(&tag); err != nil {
			return err
		}
	}
	return nil
}
