package controllers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ramesh-admin/models"
	"ramesh-admin/notify"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Form tabs, used for error focusing.
const (
	TabBasic    = "basic"
	TabVariants = "variants"
	TabImages   = "images"
	TabTax      = "tax"
	TabDetails  = "details"
)

// VariantInput is one sellable unit in the submitted form.
type VariantInput struct {
	ID          *uuid.UUID       `json:"id,omitempty"`
	SKU         string           `json:"sku"`
	Price       decimal.Decimal  `json:"price"`
	SalePrice   *decimal.Decimal `json:"sale_price,omitempty"`
	Weight      decimal.Decimal  `json:"weight"`
	WeightUnit  string           `json:"weight_unit"`
	MinOrderQty int              `json:"min_order_qty"`
	MaxOrderQty int              `json:"max_order_qty"`
	Status      string           `json:"status"`
}

// ImageInput is one image reference in the submitted form.
type ImageInput struct {
	ID           *uuid.UUID `json:"id,omitempty"`
	ImageURL     string     `json:"image_url"`
	IsPrimary    bool       `json:"is_primary"`
	DisplayOrder int        `json:"display_order"`
}

// Dimensions is the optional packaging size block.
type Dimensions struct {
	Length decimal.Decimal `json:"length"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
	Unit   string          `json:"unit"`
}

// ProductForm is the single aggregate submitted by the tabbed product
// creation/edit screen. Image edits are expressed as deltas against the
// stored set; existing images are always kept unless individually listed
// for deletion, so a full wipe cannot be expressed.
type ProductForm struct {
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	CategoryID    uuid.UUID          `json:"category_id"`
	SubcategoryID *uuid.UUID         `json:"subcategory_id,omitempty"`
	ProductType   string             `json:"product_type"`
	Status        string             `json:"status"`
	HSNCode       string             `json:"hsn_code"`
	TaxRate       decimal.Decimal    `json:"tax_rate"`
	CGSTRate      decimal.Decimal    `json:"cgst_rate"`
	SGSTRate      decimal.Decimal    `json:"sgst_rate"`
	IGSTRate      decimal.Decimal    `json:"igst_rate"`
	ShelfLife     string             `json:"shelf_life"`
	IsVegetarian  bool               `json:"is_vegetarian"`
	Ingredients   models.StringList  `json:"ingredients"`
	NutritionInfo models.NumericMap  `json:"nutrition_info"`
	Dimensions    *Dimensions        `json:"dimensions,omitempty"`
	Variants      []VariantInput     `json:"variants"`
	Tags          []string           `json:"tags"`
	Images        []ImageInput       `json:"images"`

	// Image-operation deltas for edits.
	KeepExistingImages bool        `json:"keep_existing_images"`
	DeleteImageIDs     []uuid.UUID `json:"delete_image_ids,omitempty"`
	ImageIDs           []uuid.UUID `json:"image_ids,omitempty"`
	ImageOrder         []uuid.UUID `json:"image_order,omitempty"`
	PrimaryImageID     *uuid.UUID  `json:"primary_image_id,omitempty"`
}

// FormError carries the failing tab alongside the message so the UI can
// focus it.
type FormError struct {
	Tab     string
	Message string
}

func (e *FormError) Error() string { return e.Message }

var taxCap = decimal.NewFromInt(100)

// Validate runs the synchronous local checks. The first failure wins and
// names the tab to focus.
func (f *ProductForm) Validate() *FormError {
	if strings.TrimSpace(f.Name) == "" {
		return &FormError{Tab: TabBasic, Message: "product name is required"}
	}
	if f.CategoryID == uuid.Nil {
		return &FormError{Tab: TabBasic, Message: "category is required"}
	}
	switch f.ProductType {
	case models.ProductTypeGlobal, models.ProductTypeLocal, models.ProductTypeTakeaway:
	default:
		return &FormError{Tab: TabBasic, Message: fmt.Sprintf("invalid product type %q", f.ProductType)}
	}
	if f.TaxRate.IsNegative() || f.TaxRate.GreaterThan(taxCap) {
		return &FormError{Tab: TabTax, Message: "tax rate must be between 0 and 100"}
	}
	if len(f.Variants) == 0 {
		return &FormError{Tab: TabVariants, Message: "at least one variant is required"}
	}
	seen := make(map[string]bool, len(f.Variants))
	for _, v := range f.Variants {
		sku := strings.TrimSpace(v.SKU)
		if sku == "" {
			return &FormError{Tab: TabVariants, Message: "every variant needs a SKU"}
		}
		if seen[sku] {
			return &FormError{Tab: TabVariants, Message: fmt.Sprintf("duplicate SKU %q in variants", sku)}
		}
		seen[sku] = true
		if !v.Price.IsPositive() {
			return &FormError{Tab: TabVariants, Message: fmt.Sprintf("variant %q needs a price greater than zero", sku)}
		}
	}
	if len(f.Images) == 0 {
		return &FormError{Tab: TabImages, Message: "at least one image is required"}
	}
	return nil
}

// TabForError maps a server error message to the form tab most likely at
// fault, by keyword. Falls back to the basic tab.
func TabForError(message string) string {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "sku") || strings.Contains(m, "variant"):
		return TabVariants
	case strings.Contains(m, "image"):
		return TabImages
	case strings.Contains(m, "hsn") || strings.Contains(m, "tax"):
		return TabTax
	case strings.Contains(m, "shelf") || strings.Contains(m, "vegetarian"):
		return TabDetails
	case strings.Contains(m, "name") || strings.Contains(m, "category"):
		return TabBasic
	}
	return TabBasic
}

// Progress tracks the synthetic multi-step indicator shown during submit.
// The steps model perceived phases of what is one network call: create,
// one per variant, one per tag, one per image, finalize.
type Progress struct {
	mu        sync.Mutex
	total     int
	completed int
}

func newProgress(f *ProductForm) *Progress {
	return &Progress{total: 1 + len(f.Variants) + len(f.Tags) + len(f.Images) + 1}
}

func (p *Progress) step() {
	p.mu.Lock()
	if p.completed < p.total {
		p.completed++
	}
	p.mu.Unlock()
}

func (p *Progress) finish() {
	p.mu.Lock()
	p.completed = p.total
	p.mu.Unlock()
}

// Percent reports completion as 0..100.
func (p *Progress) Percent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.total == 0 {
		return 0
	}
	return p.completed * 100 / p.total
}

// ProductFormController orchestrates product creation and editing on top of
// the product controller's transport.
type ProductFormController struct {
	products *ProductController
	notifier notify.Notifier

	mu       sync.Mutex
	progress *Progress
	errTab   string
	err      string
}

func NewProductFormController(products *ProductController, notifier notify.Notifier) *ProductFormController {
	return &ProductFormController{products: products, notifier: notifier}
}

// Progress returns the live progress indicator for the current submit, or
// nil when idle.
func (c *ProductFormController) Progress() *Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// Err returns the last submit failure and the tab it points at.
func (c *ProductFormController) Err() (tab, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errTab, c.err
}

// ValidateAllSKUs round-trips each variant SKU for global uniqueness,
// excluding the product's own id when editing. The first taken SKU aborts
// with a variants-tab error.
func (c *ProductFormController) ValidateAllSKUs(ctx context.Context, f *ProductForm, editingID *uuid.UUID) *FormError {
	for _, v := range f.Variants {
		check, err := c.products.CheckSKU(ctx, v.SKU, editingID)
		if err != nil {
			return &FormError{Tab: TabVariants, Message: "Failed to verify SKU " + v.SKU}
		}
		if !check.Available {
			return &FormError{Tab: TabVariants, Message: fmt.Sprintf("SKU %q is already in use", v.SKU)}
		}
	}
	return nil
}

// Submit validates locally, verifies SKUs against the server, then creates
// or updates the product. editingID nil means create. Returns false with
// the error recorded on any failure; no create call is issued when local
// validation fails.
func (c *ProductFormController) Submit(ctx context.Context, f *ProductForm, editingID *uuid.UUID) bool {
	c.mu.Lock()
	c.err, c.errTab = "", ""
	c.mu.Unlock()

	f.KeepExistingImages = true

	if ferr := f.Validate(); ferr != nil {
		return c.failForm(ferr)
	}
	if ferr := c.ValidateAllSKUs(ctx, f, editingID); ferr != nil {
		return c.failForm(ferr)
	}

	prog := newProgress(f)
	c.mu.Lock()
	c.progress = prog
	c.mu.Unlock()
	prog.step()

	var ok bool
	if editingID == nil {
		ok = c.products.Create(ctx, f)
	} else {
		ok = c.products.Update(ctx, *editingID, f)
	}
	if !ok {
		c.mu.Lock()
		c.progress = nil
		c.mu.Unlock()
		msg := c.products.Err()
		if msg == "" {
			// Session teardown already ran; nothing to surface locally.
			return false
		}
		return c.failForm(&FormError{Tab: TabForError(msg), Message: msg})
	}

	prog.finish()
	return true
}

func (c *ProductFormController) failForm(ferr *FormError) bool {
	c.mu.Lock()
	c.errTab = ferr.Tab
	c.err = ferr.Message
	c.mu.Unlock()
	c.notifier.Error(ferr.Message)
	return false
}
