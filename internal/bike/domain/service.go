package domain

import (
	"context"
	"errors"
)

type CreateRequest struct {
	CategoryID     string  `json:"category_id"`
	PricingClassID string  `json:"pricing_class_id"`
	Brand          string  `json:"brand"`
	Model          string  `json:"model"`
	SerialNumber   string  `json:"serial_number"`
	FrameSize      *string `json:"frame_size"`
	Notes          string  `json:"notes"`
}

type UpdateRequest struct {
	CategoryID     *string `json:"category_id"`
	PricingClassID *string `json:"pricing_class_id"`
	Brand          *string `json:"brand"`
	Model          *string `json:"model"`
	SerialNumber   *string `json:"serial_number"`
	FrameSize      *string `json:"frame_size"`
	Notes          *string `json:"notes"`
}

type ListFilter struct {
	CategoryID string
	Status     string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Bike, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Bike, error)
	// ChangeStatus applies one guarded status transition.
	ChangeStatus(ctx context.Context, id, status string) (*Bike, error)
	Get(ctx context.Context, id string) (*Bike, error)
	List(ctx context.Context, filter ListFilter) ([]Bike, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidCategory     = errors.New("invalid_category")
	ErrInvalidPricingClass = errors.New("invalid_pricing_class")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidTransition   = errors.New("invalid_status_transition")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
