package domain

import (
	"context"
	"errors"
)

type UpsertItem struct {
	CategoryID     string  `json:"category_id"`
	PricingClassID string  `json:"pricing_class_id"`
	DurationID     string  `json:"duration_id"`
	Price          float64 `json:"price"`
	IsActive       *bool   `json:"is_active"`
}

type BulkUpsertRequest struct {
	Rates []UpsertItem `json:"rates"`
}

type BulkUpsertResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

type ListRequest struct {
	CategoryID     string
	PricingClassID string
	DurationID     string
}

type Service interface {
	BulkUpsert(ctx context.Context, req BulkUpsertRequest) (*BulkUpsertResponse, error)
	List(ctx context.Context, req ListRequest) ([]PricingRate, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidCategory     = errors.New("invalid_category")
	ErrInvalidPricingClass = errors.New("invalid_pricing_class")
	ErrInvalidDuration     = errors.New("invalid_duration")
	ErrInvalidPrice        = errors.New("invalid_price")
	ErrEmptyBatch          = errors.New("empty_batch")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
