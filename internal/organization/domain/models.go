package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Organization is a tenant: one rental shop (or chain) with its own
// fleet, pricing configuration and customers. Everything else in the
// schema hangs off an org id.
type Organization struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Slug      string       `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Organization) TableName() string { return "organizations" }
