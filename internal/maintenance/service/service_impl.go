package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	bikedomain "github.com/pedalworks/rentora/internal/bike/domain"
	"github.com/pedalworks/rentora/internal/maintenance/domain"
	"github.com/pedalworks/rentora/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("maintenance.service"),
		genID: p.GenID,
	}
}

func (s *Service) Open(ctx context.Context, req domain.OpenRequest) (*domain.MaintenanceRecord, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	maintenanceType := strings.ToUpper(strings.TrimSpace(req.Type))
	if !domain.ValidType(maintenanceType) {
		return nil, domain.ErrInvalidType
	}

	bikeID, err := snowflake.ParseString(strings.TrimSpace(req.BikeID))
	if err != nil {
		return nil, domain.ErrInvalidBike
	}
	var bike bikedomain.Bike
	if err := s.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, bikeID).
		First(&bike).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidBike
		}
		return nil, err
	}

	now := time.Now().UTC()
	record := &domain.MaintenanceRecord{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		BikeID:      bikeID,
		Type:        maintenanceType,
		Status:      domain.MaintenanceStatusOpen,
		Description: strings.TrimSpace(req.Description),
		ReportedAt:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		if req.TakeOffline && bikedomain.CanTransition(bike.Status, bikedomain.BikeStatusMaintenance) {
			bike.Status = bikedomain.BikeStatusMaintenance
			bike.UpdatedAt = now
			return tx.Save(&bike).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("maintenance opened",
		zap.Int64("org_id", int64(orgID)),
		zap.String("record_id", record.ID.String()),
		zap.String("bike_id", bikeID.String()),
		zap.String("type", maintenanceType),
	)
	return record, nil
}

func (s *Service) Start(ctx context.Context, id string) (*domain.MaintenanceRecord, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.MaintenanceStatusOpen {
		return nil, domain.ErrInvalidStatus
	}

	record.Status = domain.MaintenanceStatusInProgress
	record.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) Complete(ctx context.Context, id string, req domain.CompleteRequest) (*domain.MaintenanceRecord, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status == domain.MaintenanceStatusCompleted {
		return nil, domain.ErrAlreadyCompleted
	}
	if req.Cost != nil && *req.Cost < 0 {
		return nil, domain.ErrInvalidCost
	}

	now := time.Now().UTC()
	record.Status = domain.MaintenanceStatusCompleted
	record.Cost = req.Cost
	record.ResolvedAt = &now
	if note := strings.TrimSpace(req.Note); note != "" {
		if record.Description != "" {
			record.Description += "\n"
		}
		record.Description += note
	}
	record.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(record).Error; err != nil {
			return err
		}

		// Release the bike once nothing else is open against it.
		var open int64
		if err := tx.Model(&domain.MaintenanceRecord{}).
			Where("org_id = ? AND bike_id = ? AND status <> ? AND id <> ?",
				record.OrgID, record.BikeID, domain.MaintenanceStatusCompleted, record.ID).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return nil
		}

		var bike bikedomain.Bike
		if err := tx.Where("org_id = ? AND id = ?", record.OrgID, record.BikeID).First(&bike).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if bike.Status == bikedomain.BikeStatusMaintenance {
			bike.Status = bikedomain.BikeStatusAvailable
			bike.UpdatedAt = now
			return tx.Save(&bike).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("maintenance completed",
		zap.String("record_id", record.ID.String()),
		zap.String("bike_id", record.BikeID.String()),
	)
	return record, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.MaintenanceRecord, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	recordID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var record domain.MaintenanceRecord
	err = s.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, recordID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.MaintenanceRecord, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	query := s.db.WithContext(ctx).Where("org_id = ?", orgID)
	if v := strings.TrimSpace(filter.BikeID); v != "" {
		bikeID, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidBike
		}
		query = query.Where("bike_id = ?", bikeID)
	}
	if v := strings.ToUpper(strings.TrimSpace(filter.Status)); v != "" {
		query = query.Where("status = ?", v)
	}

	var records []domain.MaintenanceRecord
	if err := query.Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
