package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// PricingClass is a named fleet tier (standard, premium, elite) used as one
// axis of the rate table.
type PricingClass struct {
	ID          snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID   `gorm:"not null;index" json:"organization_id"`
	Code        string         `gorm:"type:text;not null;index" json:"code"`
	Label       string         `gorm:"type:text;not null" json:"label"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Color       *string        `gorm:"type:text" json:"color,omitempty"`
	SortOrder   int            `gorm:"not null;default:0" json:"sort_order"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PricingClass) TableName() string { return "pricing_classes" }
