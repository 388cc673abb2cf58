package domain

import (
	"context"
	"errors"
	"time"
)

type CreateRequest struct {
	CustomerID string    `json:"customer_id"`
	BikeID     string    `json:"bike_id"`
	DurationID string    `json:"duration_id"`
	CustomDays *int      `json:"custom_days"`
	StartDate  time.Time `json:"start_date"`
	Notes      string    `json:"notes"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type ListFilter struct {
	CustomerID string
	BikeID     string
	Status     string
}

type Service interface {
	// Create prices the rental against the bike's category and pricing
	// class, then persists the rental and its pricing snapshot in one
	// transaction.
	Create(ctx context.Context, req CreateRequest) (*Rental, error)
	ChangeStatus(ctx context.Context, id string, req ChangeStatusRequest) (*Rental, error)
	Get(ctx context.Context, id string) (*Rental, error)
	History(ctx context.Context, id string) ([]RentalStatusHistory, error)
	List(ctx context.Context, filter ListFilter) ([]Rental, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidCustomer     = errors.New("invalid_customer")
	ErrInvalidBike         = errors.New("invalid_bike")
	ErrBikeUnavailable     = errors.New("bike_unavailable")
	ErrInvalidStartDate    = errors.New("invalid_start_date")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidTransition   = errors.New("invalid_status_transition")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
