package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rule *DiscountRule) error
	Update(ctx context.Context, db *gorm.DB, rule *DiscountRule) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*DiscountRule, error)
	// FindApplicable returns the active rules matching the category and
	// pricing class, ordered by priority ascending with id as the
	// tie-break. Duration thresholds are evaluated by the caller.
	FindApplicable(ctx context.Context, db *gorm.DB, orgID, categoryID, classID snowflake.ID) ([]DiscountRule, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, includeInactive bool) ([]DiscountRule, error)
	SoftDelete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error
}
