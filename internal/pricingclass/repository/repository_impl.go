package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	classdomain "github.com/pedalworks/rentora/internal/pricingclass/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() classdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, class *classdomain.PricingClass) error {
	return db.WithContext(ctx).Create(class).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*classdomain.PricingClass, error) {
	var class classdomain.PricingClass
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&class).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &class, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, orgID snowflake.ID, code string) (*classdomain.PricingClass, error) {
	var class classdomain.PricingClass
	err := db.WithContext(ctx).
		Where("org_id = ? AND code = ?", orgID, code).
		First(&class).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &class, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, includeInactive bool) ([]classdomain.PricingClass, error) {
	stmt := db.WithContext(ctx).Where("org_id = ?", orgID)
	if !includeInactive {
		stmt = stmt.Where("is_active = ?", true)
	}

	var items []classdomain.PricingClass
	err := stmt.Order("sort_order ASC, id ASC").Find(&items).Error
	return items, err
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, class *classdomain.PricingClass) error {
	return db.WithContext(ctx).Save(class).Error
}

func (r *repo) SoftDelete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&classdomain.PricingClass{}).Error
}
