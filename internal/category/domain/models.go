package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Category is a bike category (city, mtb, road, ebike) used as one axis of
// the rate table and referenced by bikes and discount rules.
type Category struct {
	ID          snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID   `gorm:"not null;index" json:"organization_id"`
	Code        string         `gorm:"type:text;not null;index" json:"code"`
	Label       string         `gorm:"type:text;not null" json:"label"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	SortOrder   int            `gorm:"not null;default:0" json:"sort_order"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Category) TableName() string { return "categories" }
