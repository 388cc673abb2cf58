package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	categorydomain "github.com/pedalworks/rentora/internal/category/domain"
	"github.com/pedalworks/rentora/internal/orgcontext"
	classdomain "github.com/pedalworks/rentora/internal/pricingclass/domain"
	"github.com/pedalworks/rentora/pkg/db"
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
	store repository.Repository[categorydomain.Category]
}

func New(p Params) categorydomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("category.service"),
		genID: p.GenID,
		store: repository.ProvideStore[categorydomain.Category](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req categorydomain.CreateRequest) (*categorydomain.Category, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, categorydomain.ErrInvalidOrganization
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, categorydomain.ErrInvalidLabel
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = strings.ReplaceAll(slug.MakeLang(label, "en"), "-", "_")
	}
	if !classdomain.ValidCode(code) {
		return nil, categorydomain.ErrInvalidCode
	}

	existing, err := s.store.FindOne(ctx, &categorydomain.Category{OrgID: orgID, Code: code})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, categorydomain.ErrCodeExists
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
	entity := &categorydomain.Category{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Code:        code,
		Label:       label,
		Description: strings.TrimSpace(req.Description),
		SortOrder:   sortOrder,
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Create(ctx, entity); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, categorydomain.ErrCodeExists
		}
		return nil, err
	}

	return entity, nil
}

func (s *Service) Update(ctx context.Context, id string, req categorydomain.UpdateRequest) (*categorydomain.Category, error) {
	entity, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		label := strings.TrimSpace(*req.Label)
		if label == "" {
			return nil, categorydomain.ErrInvalidLabel
		}
		entity.Label = label
	}
	if req.Description != nil {
		entity.Description = strings.TrimSpace(*req.Description)
	}
	if req.SortOrder != nil {
		entity.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		entity.IsActive = *req.IsActive
	}
	entity.UpdatedAt = time.Now().UTC()

	if err := s.db.WithContext(ctx).Save(entity).Error; err != nil {
		return nil, err
	}

	return entity, nil
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]categorydomain.Category, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, categorydomain.ErrInvalidOrganization
	}

	filter := &categorydomain.Category{OrgID: orgID}
	if !includeInactive {
		filter.IsActive = true
	}

	items, err := s.store.Find(ctx, filter, option.WithOrder("sort_order ASC, id ASC"))
	if err != nil {
		return nil, err
	}

	out := make([]categorydomain.Category, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*categorydomain.Category, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, categorydomain.ErrInvalidOrganization
	}

	categoryID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, categorydomain.ErrInvalidID
	}

	entity, err := s.store.FindOne(ctx, &categorydomain.Category{OrgID: orgID, ID: categoryID})
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, categorydomain.ErrNotFound
	}
	return entity, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	entity, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, entity.ID.String())
}
