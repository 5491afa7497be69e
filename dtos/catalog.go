package dtos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ramesh-admin/models"
)

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type SubcategoryRequest struct {
	Name        string    `json:"name" binding:"required"`
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
}

type VariantRequest struct {
	ID          *uuid.UUID       `json:"id"`
	SKU         string           `json:"sku" binding:"required"`
	Price       decimal.Decimal  `json:"price" binding:"required"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	Weight      decimal.Decimal  `json:"weight"`
	WeightUnit  string           `json:"weight_unit"`
	MinOrderQty int              `json:"min_order_qty"`
	MaxOrderQty int              `json:"max_order_qty"`
	Status      string           `json:"status"`
}

type ImageRequest struct {
	ID           *uuid.UUID `json:"id"`
	ImageURL     string     `json:"image_url" binding:"required"`
	IsPrimary    bool       `json:"is_primary"`
	DisplayOrder int        `json:"display_order"`
}

type ProductRequest struct {
	Name          string            `json:"name" binding:"required"`
	Description   string            `json:"description"`
	CategoryID    uuid.UUID         `json:"category_id" binding:"required"`
	SubcategoryID *uuid.UUID        `json:"subcategory_id"`
	ProductType   string            `json:"product_type" binding:"omitempty,oneof=global local takeaway"`
	Status        string            `json:"status" binding:"omitempty,oneof=active inactive draft"`
	HSNCode       string            `json:"hsn_code"`
	TaxRate       decimal.Decimal   `json:"tax_rate"`
	CGSTRate      decimal.Decimal   `json:"cgst_rate"`
	SGSTRate      decimal.Decimal   `json:"sgst_rate"`
	IGSTRate      decimal.Decimal   `json:"igst_rate"`
	ShelfLife     string            `json:"shelf_life"`
	IsVegetarian  bool              `json:"is_vegetarian"`
	Ingredients   models.StringList `json:"ingredients"`
	NutritionInfo models.NumericMap `json:"nutrition_info"`
	Variants      []VariantRequest  `json:"variants" binding:"required,min=1,dive"`
	Tags          []string          `json:"tags"`
	Images        []ImageRequest    `json:"images" binding:"required,min=1,dive"`

	KeepExistingImages bool        `json:"keep_existing_images"`
	DeleteImageIDs     []uuid.UUID `json:"delete_image_ids"`
	ImageOrder         []uuid.UUID `json:"image_order"`
	PrimaryImageID     *uuid.UUID  `json:"primary_image_id"`
}
