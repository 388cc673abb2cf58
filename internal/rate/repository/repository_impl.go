package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/pedalworks/rentora/internal/rate/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rate *domain.PricingRate) error {
	return db.WithContext(ctx).Create(rate).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, rate *domain.PricingRate) error {
	return db.WithContext(ctx).Save(rate).Error
}

func (r *repo) FindByDimensions(ctx context.Context, db *gorm.DB, orgID, categoryID, classID, durationID snowflake.ID) (*domain.PricingRate, error) {
	var rate domain.PricingRate
	err := db.WithContext(ctx).
		Where("org_id = ? AND category_id = ? AND pricing_class_id = ? AND duration_id = ? AND is_active = ?",
			orgID, categoryID, classID, durationID, true).
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *repo) FindAnyByDimensions(ctx context.Context, db *gorm.DB, orgID, categoryID, classID, durationID snowflake.ID) (*domain.PricingRate, error) {
	var rate domain.PricingRate
	err := db.WithContext(ctx).
		Where("org_id = ? AND category_id = ? AND pricing_class_id = ? AND duration_id = ?",
			orgID, categoryID, classID, durationID).
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListFilter) ([]domain.PricingRate, error) {
	query := db.WithContext(ctx).Where("org_id = ?", orgID)
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.PricingClassID != nil {
		query = query.Where("pricing_class_id = ?", *filter.PricingClassID)
	}
	if filter.DurationID != nil {
		query = query.Where("duration_id = ?", *filter.DurationID)
	}

	var rates []domain.PricingRate
	if err := query.Order("category_id ASC, pricing_class_id ASC, duration_id ASC").Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&domain.PricingRate{}).Error
}
