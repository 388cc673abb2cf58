package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	bikedomain "github.com/pedalworks/rentora/internal/bike/domain"
	"github.com/pedalworks/rentora/internal/config"
	customerdomain "github.com/pedalworks/rentora/internal/customer/domain"
	"github.com/pedalworks/rentora/internal/observability/metrics"
	"github.com/pedalworks/rentora/internal/orgcontext"
	pricingdomain "github.com/pedalworks/rentora/internal/pricing/domain"
	"github.com/pedalworks/rentora/internal/rental/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Pricing *config.PricingConfigHolder
	Quoter  pricingdomain.Service
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	pricing *config.PricingConfigHolder
	quoter  pricingdomain.Service
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("rental.service"),
		genID:   p.GenID,
		pricing: p.Pricing,
		quoter:  p.Quoter,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Rental, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil {
		return nil, domain.ErrInvalidCustomer
	}
	var customerCount int64
	if err := s.db.WithContext(ctx).Model(&customerdomain.Customer{}).
		Where("org_id = ? AND id = ?", orgID, customerID).
		Count(&customerCount).Error; err != nil {
		return nil, err
	}
	if customerCount == 0 {
		return nil, domain.ErrInvalidCustomer
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
	if bike.Status != bikedomain.BikeStatusAvailable {
		return nil, domain.ErrBikeUnavailable
	}

	// The bike's own category and pricing class decide the rate; the
	// caller only picks the duration.
	calc, err := s.quoter.Quote(ctx, pricingdomain.QuoteRequest{
		CategoryID:     bike.CategoryID.String(),
		PricingClassID: bike.PricingClassID.String(),
		DurationID:     req.DurationID,
		CustomDays:     req.CustomDays,
	})
	if err != nil {
		return nil, err
	}

	startDate := req.StartDate
	if startDate.IsZero() {
		startDate = time.Now().UTC()
	}

	data := calc.ToSnapshotData()
	discountsJSON, err := json.Marshal(data.AppliedDiscounts)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rental := &domain.Rental{
		ID:         s.genID.Generate(),
		OrgID:      orgID,
		CustomerID: customerID,
		BikeID:     bikeID,
		Status:     domain.RentalStatusReserved,
		StartDate:  startDate,
		EndDate:    startDate.Add(time.Duration(data.Days) * 24 * time.Hour),
		Notes:      strings.TrimSpace(req.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	snapshot := &domain.RentalPricingSnapshot{
		ID:               s.genID.Generate(),
		OrgID:            orgID,
		RentalID:         rental.ID,
		Reference:        ulid.Make().String(),
		BasePrice:        data.BasePrice,
		FinalPrice:       data.FinalPrice,
		Days:             data.Days,
		PricePerDay:      data.PricePerDay,
		Currency:         s.pricing.Get().Currency,
		AppliedDiscounts: discountsJSON,
		CategoryID:       data.CategoryID,
		PricingClassID:   data.PricingClassID,
		DurationID:       data.DurationID,
		CalculatedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rental).Error; err != nil {
			return err
		}
		if err := tx.Create(snapshot).Error; err != nil {
			return err
		}
		return tx.Create(&domain.RentalStatusHistory{
			ID:        s.genID.Generate(),
			OrgID:     orgID,
			RentalID:  rental.ID,
			ToStatus:  domain.RentalStatusReserved,
			ChangedAt: now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordSnapshotWritten(ctx)
	s.log.Info("rental created",
		zap.Int64("org_id", int64(orgID)),
		zap.String("rental_id", rental.ID.String()),
		zap.String("snapshot_ref", snapshot.Reference),
		zap.Float64("final_price", snapshot.FinalPrice),
	)

	rental.Snapshot = snapshot
	return rental, nil
}

func (s *Service) ChangeStatus(ctx context.Context, id string, req domain.ChangeStatusRequest) (*domain.Rental, error) {
	rental, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	if !domain.CanTransition(rental.Status, status) {
		return nil, domain.ErrInvalidTransition
	}

	fromStatus := rental.Status
	now := time.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rental.Status = status
		rental.UpdatedAt = now
		if err := tx.Save(rental).Error; err != nil {
			return err
		}

		if err := tx.Create(&domain.RentalStatusHistory{
			ID:         s.genID.Generate(),
			OrgID:      rental.OrgID,
			RentalID:   rental.ID,
			FromStatus: fromStatus,
			ToStatus:   status,
			Note:       strings.TrimSpace(req.Note),
			ChangedAt:  now,
		}).Error; err != nil {
			return err
		}

		return s.syncBikeStatus(tx, rental, status, now)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("rental status changed",
		zap.String("rental_id", rental.ID.String()),
		zap.String("from", fromStatus),
		zap.String("to", status),
	)
	return rental, nil
}

// syncBikeStatus mirrors the rental lifecycle onto the bike: the bike is
// held while the rental is active and released when it ends.
func (s *Service) syncBikeStatus(tx *gorm.DB, rental *domain.Rental, status string, now time.Time) error {
	var bikeStatus string
	switch status {
	case domain.RentalStatusActive:
		bikeStatus = bikedomain.BikeStatusRented
	case domain.RentalStatusCompleted, domain.RentalStatusCancelled:
		bikeStatus = bikedomain.BikeStatusAvailable
	default:
		return nil
	}

	var bike bikedomain.Bike
	if err := tx.Where("org_id = ? AND id = ?", rental.OrgID, rental.BikeID).First(&bike).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if bike.Status == bikeStatus || !bikedomain.CanTransition(bike.Status, bikeStatus) {
		return nil
	}

	bike.Status = bikeStatus
	bike.UpdatedAt = now
	return tx.Save(&bike).Error
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Rental, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	rentalID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var rental domain.Rental
	err = s.db.WithContext(ctx).
		Preload("Snapshot").
		Where("org_id = ? AND id = ?", orgID, rentalID).
		First(&rental).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func (s *Service) History(ctx context.Context, id string) ([]domain.RentalStatusHistory, error) {
	rental, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var history []domain.RentalStatusHistory
	err = s.db.WithContext(ctx).
		Where("org_id = ? AND rental_id = ?", rental.OrgID, rental.ID).
		Order("changed_at ASC, id ASC").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.Rental, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	query := s.db.WithContext(ctx).Preload("Snapshot").Where("org_id = ?", orgID)
	if v := strings.TrimSpace(filter.CustomerID); v != "" {
		customerID, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidCustomer
		}
		query = query.Where("customer_id = ?", customerID)
	}
	if v := strings.TrimSpace(filter.BikeID); v != "" {
		bikeID, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidBike
		}
		query = query.Where("bike_id = ?", bikeID)
	}
	if v := strings.ToUpper(strings.TrimSpace(filter.Status)); v != "" {
		if !domain.ValidStatus(v) {
			return nil, domain.ErrInvalidStatus
		}
		query = query.Where("status = ?", v)
	}

	var rentals []domain.Rental
	if err := query.Order("id DESC").Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	rental, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(rental).Error
}
