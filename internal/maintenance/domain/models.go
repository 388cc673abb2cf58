package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const (
	MaintenanceTypeInspection = "INSPECTION"
	MaintenanceTypeRepair     = "REPAIR"
	MaintenanceTypeService    = "SERVICE"

	MaintenanceStatusOpen       = "OPEN"
	MaintenanceStatusInProgress = "IN_PROGRESS"
	MaintenanceStatusCompleted  = "COMPLETED"
)

func ValidType(t string) bool {
	switch t {
	case MaintenanceTypeInspection, MaintenanceTypeRepair, MaintenanceTypeService:
		return true
	}
	return false
}

// MaintenanceRecord tracks one service event on a bike, from report to
// resolution.
type MaintenanceRecord struct {
	ID          snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID   `gorm:"not null;index" json:"organization_id"`
	BikeID      snowflake.ID   `gorm:"not null;index" json:"bike_id"`
	Type        string         `gorm:"not null" json:"type"`
	Status      string         `gorm:"not null;default:OPEN" json:"status"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Cost        *float64       `json:"cost,omitempty"`
	ReportedAt  time.Time      `gorm:"not null" json:"reported_at"`
	ResolvedAt  *time.Time     `json:"resolved_at,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (MaintenanceRecord) TableName() string { return "maintenance_records" }
