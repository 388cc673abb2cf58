package domain

import (
	"context"
	"errors"
)

type OpenRequest struct {
	BikeID      string `json:"bike_id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	// TakeOffline moves the bike to MAINTENANCE immediately instead of
	// waiting for its current rental to finish.
	TakeOffline bool `json:"take_offline"`
}

type CompleteRequest struct {
	Cost *float64 `json:"cost"`
	Note string   `json:"note"`
}

type ListFilter struct {
	BikeID string
	Status string
}

type Service interface {
	Open(ctx context.Context, req OpenRequest) (*MaintenanceRecord, error)
	Start(ctx context.Context, id string) (*MaintenanceRecord, error)
	Complete(ctx context.Context, id string, req CompleteRequest) (*MaintenanceRecord, error)
	Get(ctx context.Context, id string) (*MaintenanceRecord, error)
	List(ctx context.Context, filter ListFilter) ([]MaintenanceRecord, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidBike         = errors.New("invalid_bike")
	ErrInvalidType         = errors.New("invalid_maintenance_type")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidCost         = errors.New("invalid_cost")
	ErrAlreadyCompleted    = errors.New("already_completed")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
