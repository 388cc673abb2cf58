package domain

import (
	"context"
	"errors"
)

type QuoteRequest struct {
	CategoryID     string `json:"category_id"`
	PricingClassID string `json:"pricing_class_id"`
	DurationID     string `json:"duration_id"`
	CustomDays     *int   `json:"custom_days"`
}

type Service interface {
	// Quote resolves the rate for the requested dimensions, applies the
	// organization's discount rules, and returns the calculation. Pure
	// read plus compute; nothing is persisted.
	Quote(ctx context.Context, req QuoteRequest) (*PriceCalculation, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidCategory     = errors.New("invalid_category")
	ErrInvalidPricingClass = errors.New("invalid_pricing_class")
	ErrInvalidDuration     = errors.New("invalid_duration")
	ErrCustomDaysRequired  = errors.New("custom_days_required")
	ErrInvalidCustomDays   = errors.New("invalid_custom_days")
	ErrNoRateConfigured    = errors.New("no_rate_configured")
)
