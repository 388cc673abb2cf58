package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/pedalworks/rentora/internal/discount/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rule *domain.DiscountRule) error {
	return db.WithContext(ctx).Create(rule).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, rule *domain.DiscountRule) error {
	return db.WithContext(ctx).Save(rule).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.DiscountRule, error) {
	var rule domain.DiscountRule
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repo) FindApplicable(ctx context.Context, db *gorm.DB, orgID, categoryID, classID snowflake.ID) ([]domain.DiscountRule, error) {
	var rules []domain.DiscountRule
	err := db.WithContext(ctx).
		Where("org_id = ? AND is_active = ?", orgID, true).
		Where("category_id IS NULL OR category_id = ?", categoryID).
		Where("pricing_class_id IS NULL OR pricing_class_id = ?", classID).
		Order("priority ASC, id ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, includeInactive bool) ([]domain.DiscountRule, error) {
	query := db.WithContext(ctx).Where("org_id = ?", orgID)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var rules []domain.DiscountRule
	if err := query.Order("priority ASC, id ASC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repo) SoftDelete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&domain.DiscountRule{}).Error
}
