package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PricingRate is one cell of the rate table: the configured price for a
// (category, pricing class, duration) triple. Price is the full period
// price for the duration bucket; for custom durations the calculator
// treats it as a daily rate.
type PricingRate struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID          snowflake.ID `gorm:"not null;index" json:"organization_id"`
	CategoryID     snowflake.ID `gorm:"not null;index:idx_rates_dimensions" json:"category_id"`
	PricingClassID snowflake.ID `gorm:"not null;index:idx_rates_dimensions" json:"pricing_class_id"`
	DurationID     snowflake.ID `gorm:"not null;index:idx_rates_dimensions" json:"duration_id"`
	Price          float64      `gorm:"not null" json:"price"`
	IsActive       bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (PricingRate) TableName() string { return "pricing_rates" }

// PriceForDays returns price × days, the daily-rate interpretation used
// for custom durations.
func (r PricingRate) PriceForDays(days int) float64 {
	return r.Price * float64(days)
}
