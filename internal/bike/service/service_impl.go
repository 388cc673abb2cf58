package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	bikedomain "github.com/pedalworks/rentora/internal/bike/domain"
	categorydomain "github.com/pedalworks/rentora/internal/category/domain"
	"github.com/pedalworks/rentora/internal/orgcontext"
	classdomain "github.com/pedalworks/rentora/internal/pricingclass/domain"
	"github.com/pedalworks/rentora/pkg/db/option"
	"github.com/pedalworks/rentora/pkg/repository"
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
	store repository.Repository[bikedomain.Bike]
}

func New(p Params) bikedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("bike.service"),
		genID: p.GenID,
		store: repository.ProvideStore[bikedomain.Bike](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req bikedomain.CreateRequest) (*bikedomain.Bike, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, bikedomain.ErrInvalidOrganization
	}

	categoryID, err := s.resolveCategory(ctx, orgID, req.CategoryID)
	if err != nil {
		return nil, err
	}
	classID, err := s.resolveClass(ctx, orgID, req.PricingClassID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	bike := &bikedomain.Bike{
		ID:             s.genID.Generate(),
		OrgID:          orgID,
		CategoryID:     categoryID,
		PricingClassID: classID,
		Brand:          strings.TrimSpace(req.Brand),
		Model:          strings.TrimSpace(req.Model),
		SerialNumber:   strings.TrimSpace(req.SerialNumber),
		FrameSize:      req.FrameSize,
		Status:         bikedomain.BikeStatusAvailable,
		Notes:          strings.TrimSpace(req.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Create(ctx, bike); err != nil {
		return nil, err
	}

	s.log.Info("bike registered",
		zap.Int64("org_id", int64(orgID)),
		zap.String("bike_id", bike.ID.String()),
	)
	return bike, nil
}

func (s *Service) Update(ctx context.Context, id string, req bikedomain.UpdateRequest) (*bikedomain.Bike, error) {
	bike, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		categoryID, err := s.resolveCategory(ctx, bike.OrgID, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		bike.CategoryID = categoryID
	}
	if req.PricingClassID != nil {
		classID, err := s.resolveClass(ctx, bike.OrgID, *req.PricingClassID)
		if err != nil {
			return nil, err
		}
		bike.PricingClassID = classID
	}
	if req.Brand != nil {
		bike.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.Model != nil {
		bike.Model = strings.TrimSpace(*req.Model)
	}
	if req.SerialNumber != nil {
		bike.SerialNumber = strings.TrimSpace(*req.SerialNumber)
	}
	if req.FrameSize != nil {
		bike.FrameSize = req.FrameSize
	}
	if req.Notes != nil {
		bike.Notes = strings.TrimSpace(*req.Notes)
	}
	bike.UpdatedAt = time.Now().UTC()

	if err := s.db.WithContext(ctx).Save(bike).Error; err != nil {
		return nil, err
	}
	return bike, nil
}

func (s *Service) ChangeStatus(ctx context.Context, id, status string) (*bikedomain.Bike, error) {
	bike, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	status = strings.ToUpper(strings.TrimSpace(status))
	if !bikedomain.ValidStatus(status) {
		return nil, bikedomain.ErrInvalidStatus
	}
	if !bikedomain.CanTransition(bike.Status, status) {
		return nil, bikedomain.ErrInvalidTransition
	}

	bike.Status = status
	bike.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(bike).Error; err != nil {
		return nil, err
	}

	s.log.Info("bike status changed",
		zap.String("bike_id", bike.ID.String()),
		zap.String("status", status),
	)
	return bike, nil
}

func (s *Service) Get(ctx context.Context, id string) (*bikedomain.Bike, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, bikedomain.ErrInvalidOrganization
	}

	bikeID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, bikedomain.ErrInvalidID
	}

	bike, err := s.store.FindOne(ctx, &bikedomain.Bike{OrgID: orgID, ID: bikeID})
	if err != nil {
		return nil, err
	}
	if bike == nil {
		return nil, bikedomain.ErrNotFound
	}
	return bike, nil
}

func (s *Service) List(ctx context.Context, filter bikedomain.ListFilter) ([]bikedomain.Bike, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, bikedomain.ErrInvalidOrganization
	}

	cond := &bikedomain.Bike{OrgID: orgID}
	if v := strings.TrimSpace(filter.CategoryID); v != "" {
		categoryID, err := snowflake.ParseString(v)
		if err != nil {
			return nil, bikedomain.ErrInvalidCategory
		}
		cond.CategoryID = categoryID
	}
	if v := strings.ToUpper(strings.TrimSpace(filter.Status)); v != "" {
		if !bikedomain.ValidStatus(v) {
			return nil, bikedomain.ErrInvalidStatus
		}
		cond.Status = v
	}

	items, err := s.store.Find(ctx, cond, option.WithOrder("id ASC"))
	if err != nil {
		return nil, err
	}

	out := make([]bikedomain.Bike, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	bike, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, bike.ID.String())
}

func (s *Service) resolveCategory(ctx context.Context, orgID snowflake.ID, raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, bikedomain.ErrInvalidCategory
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&categorydomain.Category{}).
		Where("org_id = ? AND id = ?", orgID, id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, bikedomain.ErrInvalidCategory
	}
	return id, nil
}

func (s *Service) resolveClass(ctx context.Context, orgID snowflake.ID, raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, bikedomain.ErrInvalidPricingClass
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&classdomain.PricingClass{}).
		Where("org_id = ? AND id = ?", orgID, id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, bikedomain.ErrInvalidPricingClass
	}
	return id, nil
}
