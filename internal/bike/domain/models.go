package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const (
	BikeStatusAvailable   = "AVAILABLE"
	BikeStatusRented      = "RENTED"
	BikeStatusMaintenance = "MAINTENANCE"
	BikeStatusRetired     = "RETIRED"
)

// statusTransitions lists the allowed next states per current state.
// Retired is terminal.
var statusTransitions = map[string][]string{
	BikeStatusAvailable:   {BikeStatusRented, BikeStatusMaintenance, BikeStatusRetired},
	BikeStatusRented:      {BikeStatusAvailable, BikeStatusMaintenance},
	BikeStatusMaintenance: {BikeStatusAvailable, BikeStatusRetired},
	BikeStatusRetired:     {},
}

func ValidStatus(status string) bool {
	_, ok := statusTransitions[status]
	return ok
}

func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Bike is one physical unit in the fleet. Category and pricing class
// together decide which rate-table column its rentals price against.
type Bike struct {
	ID             snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrgID          snowflake.ID   `gorm:"not null;index" json:"organization_id"`
	CategoryID     snowflake.ID   `gorm:"not null;index" json:"category_id"`
	PricingClassID snowflake.ID   `gorm:"not null;index" json:"pricing_class_id"`
	Brand          string         `gorm:"type:text" json:"brand,omitempty"`
	Model          string         `gorm:"type:text" json:"model,omitempty"`
	SerialNumber   string         `gorm:"type:text;index" json:"serial_number,omitempty"`
	FrameSize      *string        `gorm:"type:text" json:"frame_size,omitempty"`
	Status         string         `gorm:"not null;default:AVAILABLE" json:"status"`
	Notes          string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Bike) TableName() string { return "bikes" }
