package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product types supported by the catalog.
const (
	ProductTypeGlobal   = "global"
	ProductTypeLocal    = "local"
	ProductTypeTakeaway = "takeaway"
)

// Product statuses.
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
	ProductStatusDraft    = "draft"
)

type Product struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string     `gorm:"not null;index" json:"name"`
	Description   string     `gorm:"type:text" json:"description"`
	CategoryID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"category_id"`
	Category      *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	SubcategoryID *uuid.UUID `gorm:"type:uuid;index" json:"subcategory_id,omitempty"`
	Subcategory   *Subcategory `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
	ProductType   string     `gorm:"default:global;index" json:"product_type"`
	Status        string     `gorm:"default:draft;index" json:"status"`

	// Tax fields
	HSNCode  string          `json:"hsn_code"`
	TaxRate  decimal.Decimal `gorm:"type:decimal(5,2)" json:"tax_rate"`
	CGSTRate decimal.Decimal `gorm:"type:decimal(5,2)" json:"cgst_rate"`
	SGSTRate decimal.Decimal `gorm:"type:decimal(5,2)" json:"sgst_rate"`
	IGSTRate decimal.Decimal `gorm:"type:decimal(5,2)" json:"igst_rate"`

	ShelfLife     string     `json:"shelf_life"`
	IsVegetarian  bool       `gorm:"default:true" json:"is_vegetarian"`
	Ingredients   StringList `gorm:"type:text" json:"ingredients"`
	NutritionInfo NumericMap `gorm:"type:text" json:"nutrition_info"`

	Variants []Variant      `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
	Images   []ProductImage `gorm:"foreignKey:ProductID" json:"images,omitempty"`
	Tags     []Tag          `gorm:"many2many:product_tags" json:"tags,omitempty"`

	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at"`
	IsDeleted  bool           `gorm:"-" json:"is_deleted"`
	CanRestore bool           `gorm:"-" json:"can_restore"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Product) AfterFind(tx *gorm.DB) error {
	p.IsDeleted = p.DeletedAt.Valid
	p.CanRestore = p.DeletedAt.Valid
	return nil
}

// Variant is a sellable unit of a product. SKUs are unique across the whole
// catalog, not just within one product.
type Variant struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"product_id"`
	SKU         string           `gorm:"uniqueIndex;not null" json:"sku"`
	Price       decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	SalePrice   *decimal.Decimal `gorm:"type:decimal(10,2)" json:"sale_price,omitempty"`
	Weight      decimal.Decimal  `gorm:"type:decimal(10,3)" json:"weight"`
	WeightUnit  string           `gorm:"default:g" json:"weight_unit"`
	MinOrderQty int              `gorm:"default:1" json:"min_order_qty"`
	MaxOrderQty int              `gorm:"default:0" json:"max_order_qty"`
	Status      string           `gorm:"default:active" json:"status"`
	Position    int              `gorm:"default:0" json:"position"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (v *Variant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// ProductImage records an image URL. Exactly one image per product should be
// primary; DisplayOrder defines the render order.
type ProductImage struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ImageURL     string    `gorm:"not null" json:"image_url"`
	IsPrimary    bool      `gorm:"default:false" json:"is_primary"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
