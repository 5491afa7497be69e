package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DisplayType partitions featured items into three independently ordered
// lists.
type DisplayType string

const (
	DisplayFeaturedProduct  DisplayType = "featured_product"
	DisplayFeaturedCategory DisplayType = "featured_category"
	DisplayQuickPick        DisplayType = "quick_pick"
)

// DisplayTypes lists the partitions in their fixed dashboard order.
var DisplayTypes = []DisplayType{DisplayFeaturedProduct, DisplayFeaturedCategory, DisplayQuickPick}

// FeaturedItem pins an entity (product or category) to a homepage slot.
// Ranks are dense 1..N within each display type.
type FeaturedItem struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	EntityID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"entity_id"`
	DisplayType  DisplayType `gorm:"not null;index" json:"display_type"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	ImageURL     string      `json:"image_url"`
	DisplayOrder int         `gorm:"not null" json:"display_order"`
	Position     int         `gorm:"not null" json:"position"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (f *FeaturedItem) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// FeaturedLimits caps how many items each display type may hold.
type FeaturedLimits struct {
	FeaturedProducts   int `json:"featured_products"`
	FeaturedCategories int `json:"featured_categories"`
	QuickPicks         int `json:"quick_picks"`
}

// For returns the cap for one display type.
func (l FeaturedLimits) For(t DisplayType) int {
	switch t {
	case DisplayFeaturedProduct:
		return l.FeaturedProducts
	case DisplayFeaturedCategory:
		return l.FeaturedCategories
	case DisplayQuickPick:
		return l.QuickPicks
	}
	return 0
}

// OrderTuple is the wire shape used to persist one partition's order.
type OrderTuple struct {
	ID           uuid.UUID `json:"id"`
	DisplayOrder int       `json:"display_order"`
	Position     int       `json:"position"`
}
