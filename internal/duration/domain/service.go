package domain

import (
	"context"
	"errors"
)

type CreateRequest struct {
	Code          string `json:"code"`
	Label         string `json:"label"`
	DurationHours *int   `json:"duration_hours"`
	DurationDays  *int   `json:"duration_days"`
	IsCustom      *bool  `json:"is_custom"`
	SortOrder     *int   `json:"sort_order"`
	IsActive      *bool  `json:"is_active"`
}

type UpdateRequest struct {
	Label     *string `json:"label"`
	SortOrder *int    `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*DurationDefinition, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*DurationDefinition, error)
	List(ctx context.Context, includeInactive bool) ([]DurationDefinition, error)
	Get(ctx context.Context, id string) (*DurationDefinition, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidCode         = errors.New("invalid_code")
	ErrInvalidLabel        = errors.New("invalid_label")
	ErrInvalidLength       = errors.New("invalid_length")
	ErrInvalidID           = errors.New("invalid_id")
	ErrCodeExists          = errors.New("code_exists")
	ErrNotFound            = errors.New("not_found")
)
