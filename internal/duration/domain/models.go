package domain

import (
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// DurationDefinition is a named rental-length bucket (half_day, full_day,
// week, custom). Exactly one of DurationHours, DurationDays or IsCustom
// determines its length; custom buckets carry no fixed length and take the
// day count per calculation.
type DurationDefinition struct {
	ID            snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrgID         snowflake.ID   `gorm:"not null;index" json:"organization_id"`
	Code          string         `gorm:"type:text;not null;index" json:"code"`
	Label         string         `gorm:"type:text;not null" json:"label"`
	DurationHours *int           `gorm:"" json:"duration_hours,omitempty"`
	DurationDays  *int           `gorm:"" json:"duration_days,omitempty"`
	IsCustom      bool           `gorm:"not null;default:false" json:"is_custom"`
	SortOrder     int            `gorm:"not null;default:0" json:"sort_order"`
	IsActive      bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (DurationDefinition) TableName() string { return "duration_definitions" }

// TotalHours returns the bucket length in hours, 0 for custom buckets.
func (d DurationDefinition) TotalHours() int {
	switch {
	case d.DurationDays != nil:
		return *d.DurationDays * 24
	case d.DurationHours != nil:
		return *d.DurationHours
	default:
		return 0
	}
}

// ApproximateDays returns the bucket length in fractional days, 0 for
// custom buckets.
func (d DurationDefinition) ApproximateDays() float64 {
	switch {
	case d.DurationDays != nil:
		return float64(*d.DurationDays)
	case d.DurationHours != nil:
		return float64(*d.DurationHours) / 24
	default:
		return 0
	}
}

// BillableDays returns the whole-day count charged for the bucket. Buckets
// shorter than a day bill as one day. Returns 0 for custom buckets.
func (d DurationDefinition) BillableDays() int {
	if d.IsCustom {
		return 0
	}
	days := int(math.Ceil(d.ApproximateDays()))
	if days < 1 {
		days = 1
	}
	return days
}
