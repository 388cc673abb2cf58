package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Customer is a rental customer record. Email is unique per
// organization among non-deleted rows.
type Customer struct {
	ID        snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID   `gorm:"not null;index" json:"organization_id"`
	FirstName string         `gorm:"type:text;not null" json:"first_name"`
	LastName  string         `gorm:"type:text;not null" json:"last_name"`
	Email     string         `gorm:"type:text;not null;index" json:"email"`
	Phone     string         `gorm:"type:text" json:"phone,omitempty"`
	Address   string         `gorm:"type:text" json:"address,omitempty"`
	City      string         `gorm:"type:text" json:"city,omitempty"`
	Notes     string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Customer) TableName() string { return "customers" }

func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
