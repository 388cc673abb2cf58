package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
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
	Repo  classdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  classdomain.Repository
}

func New(p Params) classdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("pricingclass.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req classdomain.CreateRequest) (*classdomain.PricingClass, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, classdomain.ErrInvalidOrganization
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, classdomain.ErrInvalidLabel
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = slug.MakeLang(label, "en")
		code = strings.ReplaceAll(code, "-", "_")
	}
	if !classdomain.ValidCode(code) {
		return nil, classdomain.ErrInvalidCode
	}

	color, err := normalizeColor(req.Color)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByCode(ctx, s.db, orgID, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, classdomain.ErrCodeExists
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
	entity := &classdomain.PricingClass{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Code:        code,
		Label:       label,
		Description: strings.TrimSpace(req.Description),
		Color:       color,
		SortOrder:   sortOrder,
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, classdomain.ErrCodeExists
		}
		return nil, err
	}

	return entity, nil
}

func (s *Service) Update(ctx context.Context, id string, req classdomain.UpdateRequest) (*classdomain.PricingClass, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, classdomain.ErrInvalidOrganization
	}

	classID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, classdomain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, orgID, classID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, classdomain.ErrNotFound
	}

	if req.Label != nil {
		label := strings.TrimSpace(*req.Label)
		if label == "" {
			return nil, classdomain.ErrInvalidLabel
		}
		entity.Label = label
	}
	if req.Description != nil {
		entity.Description = strings.TrimSpace(*req.Description)
	}
	if req.Color != nil {
		color, err := normalizeColor(req.Color)
		if err != nil {
			return nil, err
		}
		entity.Color = color
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

func (s *Service) List(ctx context.Context, includeInactive bool) ([]classdomain.PricingClass, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, classdomain.ErrInvalidOrganization
	}
	return s.repo.List(ctx, s.db, orgID, includeInactive)
}

func (s *Service) Get(ctx context.Context, id string) (*classdomain.PricingClass, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, classdomain.ErrInvalidOrganization
	}

	classID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, classdomain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, orgID, classID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, classdomain.ErrNotFound
	}
	return entity, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return classdomain.ErrInvalidOrganization
	}

	classID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return classdomain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, orgID, classID)
	if err != nil {
		return err
	}
	if entity == nil {
		return classdomain.ErrNotFound
	}

	return s.repo.SoftDelete(ctx, s.db, orgID, classID)
}

func normalizeColor(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	color := strings.TrimSpace(*value)
	if color == "" {
		return nil, nil
	}
	if !classdomain.ValidColor(color) {
		return nil, classdomain.ErrInvalidColor
	}
	return &color, nil
}
