package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository excludes soft-deleted rows from every query.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, def *DurationDefinition) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*DurationDefinition, error)
	FindByCode(ctx context.Context, db *gorm.DB, orgID snowflake.ID, code string) (*DurationDefinition, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, includeInactive bool) ([]DurationDefinition, error)
	Update(ctx context.Context, db *gorm.DB, def *DurationDefinition) error
	SoftDelete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error
}
