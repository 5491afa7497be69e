package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityLog records an audit trail entry for dashboard actions that need
// one (currently subcategory restores).
type ActivityLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AdminID      uuid.UUID `gorm:"type:uuid;index" json:"admin_id"`
	Action       string    `gorm:"not null" json:"action"`
	ResourceType string    `gorm:"not null;index" json:"resource_type"`
	ResourceID   uuid.UUID `gorm:"type:uuid;index" json:"resource_id"`
	Note         string    `gorm:"type:text" json:"note"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
