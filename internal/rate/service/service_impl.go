package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pedalworks/rentora/internal/cache"
	categorydomain "github.com/pedalworks/rentora/internal/category/domain"
	durationdomain "github.com/pedalworks/rentora/internal/duration/domain"
	"github.com/pedalworks/rentora/internal/orgcontext"
	classdomain "github.com/pedalworks/rentora/internal/pricingclass/domain"
	"github.com/pedalworks/rentora/internal/rate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Cache cache.Invalidator `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	cache cache.Invalidator
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("rate.service"),
		genID: p.GenID,
		repo:  p.Repo,
		cache: p.Cache,
	}
}

// dimensionKey identifies one cell of the rate table within a batch.
type dimensionKey struct {
	categoryID snowflake.ID
	classID    snowflake.ID
	durationID snowflake.ID
}

func (s *Service) BulkUpsert(ctx context.Context, req domain.BulkUpsertRequest) (*domain.BulkUpsertResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}
	if len(req.Rates) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	items := make(map[dimensionKey]domain.UpsertItem, len(req.Rates))
	for _, item := range req.Rates {
		if item.Price <= 0 {
			return nil, domain.ErrInvalidPrice
		}

		categoryID, err := snowflake.ParseString(strings.TrimSpace(item.CategoryID))
		if err != nil {
			return nil, domain.ErrInvalidCategory
		}
		classID, err := snowflake.ParseString(strings.TrimSpace(item.PricingClassID))
		if err != nil {
			return nil, domain.ErrInvalidPricingClass
		}
		durationID, err := snowflake.ParseString(strings.TrimSpace(item.DurationID))
		if err != nil {
			return nil, domain.ErrInvalidDuration
		}

		// Last write wins for duplicate dimensions within one batch.
		items[dimensionKey{categoryID, classID, durationID}] = item
	}

	if err := s.validateDimensions(ctx, orgID, items); err != nil {
		return nil, err
	}

	resp := &domain.BulkUpsertResponse{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, item := range items {
			existing, err := s.repo.FindAnyByDimensions(ctx, tx, orgID, key.categoryID, key.classID, key.durationID)
			if err != nil {
				return err
			}

			active := true
			if item.IsActive != nil {
				active = *item.IsActive
			}

			now := time.Now().UTC()
			if existing == nil {
				rate := &domain.PricingRate{
					ID:             s.genID.Generate(),
					OrgID:          orgID,
					CategoryID:     key.categoryID,
					PricingClassID: key.classID,
					DurationID:     key.durationID,
					Price:          item.Price,
					IsActive:       active,
					CreatedAt:      now,
					UpdatedAt:      now,
				}
				if err := s.repo.Insert(ctx, tx, rate); err != nil {
					return err
				}
				resp.Created++
				continue
			}

			existing.Price = item.Price
			existing.IsActive = active
			existing.UpdatedAt = now
			if err := s.repo.Update(ctx, tx, existing); err != nil {
				return err
			}
			resp.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.Total = resp.Created + resp.Updated
	s.invalidate(orgID)

	s.log.Info("rates upserted",
		zap.Int64("org_id", int64(orgID)),
		zap.Int("created", resp.Created),
		zap.Int("updated", resp.Updated),
	)
	return resp, nil
}

// validateDimensions checks every referenced row exists and is not
// soft-deleted before any write happens, so a bad item rejects the whole
// batch.
func (s *Service) validateDimensions(ctx context.Context, orgID snowflake.ID, items map[dimensionKey]domain.UpsertItem) error {
	seenCategory := make(map[snowflake.ID]bool)
	seenClass := make(map[snowflake.ID]bool)
	seenDuration := make(map[snowflake.ID]bool)

	for key := range items {
		if !seenCategory[key.categoryID] {
			var count int64
			if err := s.db.WithContext(ctx).Model(&categorydomain.Category{}).
				Where("org_id = ? AND id = ?", orgID, key.categoryID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return domain.ErrInvalidCategory
			}
			seenCategory[key.categoryID] = true
		}
		if !seenClass[key.classID] {
			var count int64
			if err := s.db.WithContext(ctx).Model(&classdomain.PricingClass{}).
				Where("org_id = ? AND id = ?", orgID, key.classID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return domain.ErrInvalidPricingClass
			}
			seenClass[key.classID] = true
		}
		if !seenDuration[key.durationID] {
			var count int64
			if err := s.db.WithContext(ctx).Model(&durationdomain.DurationDefinition{}).
				Where("org_id = ? AND id = ?", orgID, key.durationID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return domain.ErrInvalidDuration
			}
			seenDuration[key.durationID] = true
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.PricingRate, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	var filter domain.ListFilter
	if v := strings.TrimSpace(req.CategoryID); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidCategory
		}
		filter.CategoryID = &id
	}
	if v := strings.TrimSpace(req.PricingClassID); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidPricingClass
		}
		filter.PricingClassID = &id
	}
	if v := strings.TrimSpace(req.DurationID); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidDuration
		}
		filter.DurationID = &id
	}

	return s.repo.List(ctx, s.db, orgID, filter)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidOrganization
	}

	rateID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	var rate domain.PricingRate
	if err := s.db.WithContext(ctx).Where("org_id = ? AND id = ?", orgID, rateID).First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, s.db, orgID, rateID); err != nil {
		return err
	}
	s.invalidate(orgID)
	return nil
}

func (s *Service) invalidate(orgID snowflake.ID) {
	if s.cache != nil {
		s.cache.InvalidateOrg(orgID)
	}
}
