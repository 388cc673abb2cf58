package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository excludes soft-deleted rows from every query.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, class *PricingClass) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*PricingClass, error)
	FindByCode(ctx context.Context, db *gorm.DB, orgID snowflake.ID, code string) (*PricingClass, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, includeInactive bool) ([]PricingClass, error)
	Update(ctx context.Context, db *gorm.DB, class *PricingClass) error
	SoftDelete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error
}
