package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RentalStatusReserved   = "RESERVED"
	RentalStatusCheckedIn  = "CHECKED_IN"
	RentalStatusActive     = "ACTIVE"
	RentalStatusCheckedOut = "CHECKED_OUT"
	RentalStatusCompleted  = "COMPLETED"
	RentalStatusCancelled  = "CANCELLED"
)

var statusTransitions = map[string][]string{
	RentalStatusReserved:   {RentalStatusCheckedIn, RentalStatusCancelled},
	RentalStatusCheckedIn:  {RentalStatusActive, RentalStatusCancelled},
	RentalStatusActive:     {RentalStatusCheckedOut},
	RentalStatusCheckedOut: {RentalStatusCompleted},
	RentalStatusCompleted:  {},
	RentalStatusCancelled:  {},
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

// Rental is one booking of a bike by a customer. Its pricing snapshot is
// written in the same transaction as the rental row, so a rental never
// exists without the record of how it was priced.
type Rental struct {
	ID         snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID   `gorm:"not null;index" json:"organization_id"`
	CustomerID snowflake.ID   `gorm:"not null;index" json:"customer_id"`
	BikeID     snowflake.ID   `gorm:"not null;index" json:"bike_id"`
	Status     string         `gorm:"not null;default:RESERVED" json:"status"`
	StartDate  time.Time      `gorm:"not null" json:"start_date"`
	EndDate    time.Time      `gorm:"not null" json:"end_date"`
	Notes      string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Snapshot *RentalPricingSnapshot `gorm:"foreignKey:RentalID;constraint:OnDelete:CASCADE" json:"pricing_snapshot,omitempty"`
}

func (Rental) TableName() string { return "rentals" }

// RentalPricingSnapshot is the permanent record of how a rental was
// priced at creation time. Written once, never updated; later changes to
// rates or discount rules do not touch it. Reference is a ULID printed
// on invoices and receipts.
type RentalPricingSnapshot struct {
	ID               snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrgID            snowflake.ID   `gorm:"not null;index" json:"organization_id"`
	RentalID         snowflake.ID   `gorm:"not null;uniqueIndex" json:"rental_id"`
	Reference        string         `gorm:"type:text;not null;index" json:"reference"`
	BasePrice        float64        `gorm:"not null" json:"base_price"`
	FinalPrice       float64        `gorm:"not null" json:"final_price"`
	Days             int            `gorm:"not null" json:"days"`
	PricePerDay      float64        `gorm:"not null" json:"price_per_day"`
	Currency         string         `gorm:"type:text;not null" json:"currency"`
	AppliedDiscounts datatypes.JSON `json:"applied_discounts"`
	CategoryID       snowflake.ID   `gorm:"not null" json:"category_id"`
	PricingClassID   snowflake.ID   `gorm:"not null" json:"pricing_class_id"`
	DurationID       snowflake.ID   `gorm:"not null" json:"duration_id"`
	CalculatedAt     time.Time      `gorm:"not null" json:"calculated_at"`
}

func (RentalPricingSnapshot) TableName() string { return "rental_pricing_snapshots" }

// RentalStatusHistory records each transition a rental goes through.
type RentalStatusHistory struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID `gorm:"not null;index" json:"organization_id"`
	RentalID   snowflake.ID `gorm:"not null;index" json:"rental_id"`
	FromStatus string       `gorm:"type:text" json:"from_status,omitempty"`
	ToStatus   string       `gorm:"type:text;not null" json:"to_status"`
	Note       string       `gorm:"type:text" json:"note,omitempty"`
	ChangedAt  time.Time    `gorm:"not null" json:"changed_at"`
}

func (RentalStatusHistory) TableName() string { return "rental_status_histories" }
