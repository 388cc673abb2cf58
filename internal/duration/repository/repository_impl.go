package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	durationdomain "github.com/pedalworks/rentora/internal/duration/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() durationdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, def *durationdomain.DurationDefinition) error {
	return db.WithContext(ctx).Create(def).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*durationdomain.DurationDefinition, error) {
	var def durationdomain.DurationDefinition
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&def).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &def, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, orgID snowflake.ID, code string) (*durationdomain.DurationDefinition, error) {
	var def durationdomain.DurationDefinition
	err := db.WithContext(ctx).
		Where("org_id = ? AND code = ?", orgID, code).
		First(&def).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &def, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, includeInactive bool) ([]durationdomain.DurationDefinition, error) {
	stmt := db.WithContext(ctx).Where("org_id = ?", orgID)
	if !includeInactive {
		stmt = stmt.Where("is_active = ?", true)
	}

	var items []durationdomain.DurationDefinition
	err := stmt.Order("sort_order ASC, id ASC").Find(&items).Error
	return items, err
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, def *durationdomain.DurationDefinition) error {
	return db.WithContext(ctx).Save(def).Error
}

func (r *repo) SoftDelete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&durationdomain.DurationDefinition{}).Error
}
