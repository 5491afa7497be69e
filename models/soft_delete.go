package models

import (
	"time"

	"gorm.io/gorm"
)

// SoftDeletable is implemented by the four soft-deletable entities so list
// controllers can patch cached rows without a re-fetch.
type SoftDeletable interface {
	MarkDeleted(at time.Time)
	MarkRestored()
}

func (p *Product) MarkDeleted(at time.Time) {
	p.DeletedAt = gorm.DeletedAt{Time: at, Valid: true}
	p.IsDeleted = true
	p.CanRestore = true
}

func (p *Product) MarkRestored() {
	p.DeletedAt = gorm.DeletedAt{}
	p.IsDeleted = false
	p.CanRestore = false
}

func (c *Category) MarkDeleted(at time.Time) {
	c.DeletedAt = gorm.DeletedAt{Time: at, Valid: true}
	c.IsDeleted = true
	c.CanRestore = true
}

func (c *Category) MarkRestored() {
	c.DeletedAt = gorm.DeletedAt{}
	c.IsDeleted = false
	c.CanRestore = false
}

func (s *Subcategory) MarkDeleted(at time.Time) {
	s.DeletedAt = gorm.DeletedAt{Time: at, Valid: true}
	s.IsDeleted = true
	s.CanRestore = true
}

func (s *Subcategory) MarkRestored() {
	s.DeletedAt = gorm.DeletedAt{}
	s.IsDeleted = false
	s.CanRestore = false
}

func (c *Coupon) MarkDeleted(at time.Time) {
	c.DeletedAt = gorm.DeletedAt{Time: at, Valid: true}
	c.IsDeleted = true
	c.CanRestore = true
}

func (c *Coupon) MarkRestored() {
	c.DeletedAt = gorm.DeletedAt{}
	c.IsDeleted = false
	c.CanRestore = false
}
