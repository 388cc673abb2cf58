package domain

import (
	"context"
	"errors"

	"github.com/pedalworks/rentora/pkg/db/pagination"
)

type CreateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Notes     string `json:"notes"`
}

type UpdateRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	Notes     *string `json:"notes"`
}

type ListRequest struct {
	pagination.Pagination
	Search string `form:"search"`
}

type ListResponse struct {
	Customers []Customer          `json:"customers"`
	PageInfo  pagination.PageInfo `json:"page_info"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Customer, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Customer, error)
	Get(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidEmail        = errors.New("invalid_email")
	ErrEmailExists         = errors.New("email_exists")
	ErrInvalidPageToken    = errors.New("invalid_page_token")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
