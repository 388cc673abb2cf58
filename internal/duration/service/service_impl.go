package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	durationdomain "github.com/pedalworks/rentora/internal/duration/domain"
	"github.com/pedalworks/rentora/internal/orgcontext"
	classdomain "github.com/pedalworks/rentora/internal/pricingclass/domain"
	"github.com/pedalworks/rentora/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  durationdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  durationdomain.Repository
}

func New(p Params) durationdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("duration.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req durationdomain.CreateRequest) (*durationdomain.DurationDefinition, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, durationdomain.ErrInvalidOrganization
	}

	code := strings.TrimSpace(req.Code)
	if code == "" || !classdomain.ValidCode(code) {
		return nil, durationdomain.ErrInvalidCode
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, durationdomain.ErrInvalidLabel
	}

	isCustom := req.IsCustom != nil && *req.IsCustom
	if err := validateLength(req.DurationHours, req.DurationDays, isCustom); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByCode(ctx, s.db, orgID, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, durationdomain.ErrCodeExists
	}

	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	now := time.Now().UTC()
	entity := &durationdomain.DurationDefinition{
		ID:            s.genID.Generate(),
		OrgID:         orgID,
		Code:          code,
		Label:         label,
		DurationHours: req.DurationHours,
		DurationDays:  req.DurationDays,
		IsCustom:      isCustom,
		SortOrder:     sortOrder,
		IsActive:      active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, durationdomain.ErrCodeExists
		}
		return nil, err
	}

	return entity, nil
}

func (s *Service) Update(ctx context.Context, id string, req durationdomain.UpdateRequest) (*durationdomain.DurationDefinition, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, durationdomain.ErrInvalidOrganization
	}

	defID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, durationdomain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, orgID, defID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, durationdomain.ErrNotFound
	}

	if req.Label != nil {
		label := strings.TrimSpace(*req.Label)
		if label == "" {
			return nil, durationdomain.ErrInvalidLabel
		}
		entity.Label = label
	}
	if req.SortOrder != nil {
		entity.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		entity.IsActive = *req.IsActive
	}
	entity.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]durationdomain.DurationDefinition, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, durationdomain.ErrInvalidOrganization
	}
	return s.repo.List(ctx, s.db, orgID, includeInactive)
}

func (s *Service) Get(ctx context.Context, id string) (*durationdomain.DurationDefinition, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, durationdomain.ErrInvalidOrganization
	}

	defID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, durationdomain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, orgID, defID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, durationdomain.ErrNotFound
	}
	return entity, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return durationdomain.ErrInvalidOrganization
	}

	defID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return durationdomain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, orgID, defID)
	if err != nil {
		return err
	}
	if entity == nil {
		return durationdomain.ErrNotFound
	}

	return s.repo.SoftDelete(ctx, s.db, orgID, defID)
}

// Exactly one of hours, days or custom defines the bucket length.
func validateLength(hours, days *int, isCustom bool) error {
	set := 0
	if hours != nil {
		if *hours <= 0 {
			return durationdomain.ErrInvalidLength
		}
		set++
	}
	if days != nil {
		if *days <= 0 {
			return durationdomain.ErrInvalidLength
		}
		set++
	}
	if isCustom {
		set++
	}
	if set != 1 {
		return durationdomain.ErrInvalidLength
	}
	return nil
}
