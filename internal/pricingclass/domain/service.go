package domain

import (
	"context"
	"errors"
	"regexp"
)

type CreateRequest struct {
	Code        string  `json:"code"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Color       *string `json:"color"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

type UpdateRequest struct {
	Label       *string `json:"label"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*PricingClass, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*PricingClass, error)
	List(ctx context.Context, includeInactive bool) ([]PricingClass, error)
	Get(ctx context.Context, id string) (*PricingClass, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidCode         = errors.New("invalid_code")
	ErrInvalidLabel        = errors.New("invalid_label")
	ErrInvalidColor        = errors.New("invalid_color")
	ErrInvalidID           = errors.New("invalid_id")
	ErrCodeExists          = errors.New("code_exists")
	ErrNotFound            = errors.New("not_found")
)

var (
	codePattern  = regexp.MustCompile(`^[a-z0-9_]+$`)
	colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// ValidCode reports whether code is lowercase alphanumeric with underscores.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// ValidColor reports whether color is a #rrggbb value.
func ValidColor(color string) bool {
	return colorPattern.MatchString(color)
}
