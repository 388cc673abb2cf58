package domain

import (
	"context"
	"errors"
)

type CreateRequest struct {
	Code        string `json:"code"`
	Label       string `json:"label"`
	Description string `json:"description"`
	SortOrder   *int   `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

type UpdateRequest struct {
	Label       *string `json:"label"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Category, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Category, error)
	List(ctx context.Context, includeInactive bool) ([]Category, error)
	Get(ctx context.Context, id string) (*Category, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidCode         = errors.New("invalid_code")
	ErrInvalidLabel        = errors.New("invalid_label")
	ErrInvalidID           = errors.New("invalid_id")
	ErrCodeExists          = errors.New("code_exists")
	ErrNotFound            = errors.New("not_found")
)
