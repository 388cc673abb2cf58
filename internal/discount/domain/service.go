package domain

import (
	"context"
	"errors"
)

type CreateRequest struct {
	Label          string   `json:"label"`
	Description    string   `json:"description"`
	CategoryID     *string  `json:"category_id"`
	PricingClassID *string  `json:"pricing_class_id"`
	MinDays        *int     `json:"min_days"`
	MinDurationID  *string  `json:"min_duration_id"`
	DiscountType   string   `json:"discount_type"`
	DiscountValue  float64  `json:"discount_value"`
	IsCumulative   *bool    `json:"is_cumulative"`
	Priority       *int     `json:"priority"`
	IsActive       *bool    `json:"is_active"`
}

type UpdateRequest struct {
	Label         *string  `json:"label"`
	Description   *string  `json:"description"`
	MinDays       *int     `json:"min_days"`
	MinDurationID *string  `json:"min_duration_id"`
	DiscountType  *string  `json:"discount_type"`
	DiscountValue *float64 `json:"discount_value"`
	IsCumulative  *bool    `json:"is_cumulative"`
	Priority      *int     `json:"priority"`
	IsActive      *bool    `json:"is_active"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*DiscountRule, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*DiscountRule, error)
	Get(ctx context.Context, id string) (*DiscountRule, error)
	List(ctx context.Context, includeInactive bool) ([]DiscountRule, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidOrganization  = errors.New("invalid_organization")
	ErrInvalidLabel         = errors.New("invalid_label")
	ErrMissingThreshold     = errors.New("missing_duration_threshold")
	ErrInvalidDiscountType  = errors.New("invalid_discount_type")
	ErrInvalidDiscountValue = errors.New("invalid_discount_value")
	ErrInvalidPriority      = errors.New("invalid_priority")
	ErrInvalidMinDays       = errors.New("invalid_min_days")
	ErrInvalidCategory      = errors.New("invalid_category")
	ErrInvalidPricingClass  = errors.New("invalid_pricing_class")
	ErrInvalidMinDuration   = errors.New("invalid_min_duration")
	ErrInvalidID            = errors.New("invalid_id")
	ErrNotFound             = errors.New("not_found")
)
