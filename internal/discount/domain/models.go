package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const (
	DiscountTypePercentage = "PERCENTAGE"
	DiscountTypeFixed      = "FIXED"
)

// DiscountRule describes one discount in an organization's rule set.
// Nil CategoryID or PricingClassID means the rule matches any value on
// that dimension. MinDays and MinDurationID are independent duration
// thresholds; when both are set the stricter one governs.
type DiscountRule struct {
	ID             snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrgID          snowflake.ID   `gorm:"not null;index" json:"organization_id"`
	Label          string         `gorm:"not null" json:"label"`
	Description    string         `json:"description,omitempty"`
	CategoryID     *snowflake.ID  `gorm:"index" json:"category_id,omitempty"`
	PricingClassID *snowflake.ID  `gorm:"index" json:"pricing_class_id,omitempty"`
	MinDays        *int           `json:"min_days,omitempty"`
	MinDurationID  *snowflake.ID  `json:"min_duration_id,omitempty"`
	DiscountType   string         `gorm:"not null" json:"discount_type"`
	DiscountValue  float64        `gorm:"not null" json:"discount_value"`
	IsCumulative   bool           `gorm:"not null;default:false" json:"is_cumulative"`
	Priority       int            `gorm:"not null;default:0" json:"priority"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (DiscountRule) TableName() string { return "discount_rules" }

// CalculateDiscount returns the amount this rule takes off the given
// price. Percentage rules apply against the price as passed in, which
// under stacking is the running price after earlier rules. Fixed rules
// never discount below zero.
func (r DiscountRule) CalculateDiscount(price float64) float64 {
	switch r.DiscountType {
	case DiscountTypePercentage:
		return price * r.DiscountValue / 100
	case DiscountTypeFixed:
		if r.DiscountValue > price {
			return price
		}
		return r.DiscountValue
	default:
		return 0
	}
}

// MeetsDurationThreshold reports whether a rental of the given length
// satisfies the rule's duration requirements. minDurationDays is the
// billable-day length of the duration referenced by MinDurationID,
// resolved by the caller; it is ignored when MinDurationID is nil.
func (r DiscountRule) MeetsDurationThreshold(rentalDays, minDurationDays int) bool {
	if r.MinDays != nil && rentalDays < *r.MinDays {
		return false
	}
	if r.MinDurationID != nil && rentalDays < minDurationDays {
		return false
	}
	return true
}
