package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rate *PricingRate) error
	Update(ctx context.Context, db *gorm.DB, rate *PricingRate) error
	// FindByDimensions returns the single active rate for the triple, or
	// nil when no pricing is configured.
	FindByDimensions(ctx context.Context, db *gorm.DB, orgID, categoryID, classID, durationID snowflake.ID) (*PricingRate, error)
	// FindAnyByDimensions returns the rate row for the triple regardless of
	// its active flag; used by bulk upsert to decide insert vs update.
	FindAnyByDimensions(ctx context.Context, db *gorm.DB, orgID, categoryID, classID, durationID snowflake.ID) (*PricingRate, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListFilter) ([]PricingRate, error)
	Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error
}

type ListFilter struct {
	CategoryID     *snowflake.ID
	PricingClassID *snowflake.ID
	DurationID     *snowflake.ID
}
