package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pedalworks/rentora/internal/cache"
	categorydomain "github.com/pedalworks/rentora/internal/category/domain"
	"github.com/pedalworks/rentora/internal/discount/domain"
	durationdomain "github.com/pedalworks/rentora/internal/duration/domain"
	"github.com/pedalworks/rentora/internal/orgcontext"
	classdomain "github.com/pedalworks/rentora/internal/pricingclass/domain"
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
		log:   p.Log.Named("discount.service"),
		genID: p.GenID,
		repo:  p.Repo,
		cache: p.Cache,
	}
}

func validateTypeAndValue(discountType string, value float64) error {
	switch discountType {
	case domain.DiscountTypePercentage:
		if value <= 0 || value > 100 {
			return domain.ErrInvalidDiscountValue
		}
	case domain.DiscountTypeFixed:
		if value <= 0 {
			return domain.ErrInvalidDiscountValue
		}
	default:
		return domain.ErrInvalidDiscountType
	}
	return nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.DiscountRule, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, domain.ErrInvalidLabel
	}

	discountType := strings.ToUpper(strings.TrimSpace(req.DiscountType))
	if err := validateTypeAndValue(discountType, req.DiscountValue); err != nil {
		return nil, err
	}

	// A rule with no duration threshold would silently apply to every
	// rental, which is never what a one-day walk-in should get.
	if req.MinDays == nil && req.MinDurationID == nil {
		return nil, domain.ErrMissingThreshold
	}

	priority := 0
	if req.Priority != nil {
		if *req.Priority < 0 {
			return nil, domain.ErrInvalidPriority
		}
		priority = *req.Priority
	}
	if req.MinDays != nil && *req.MinDays < 1 {
		return nil, domain.ErrInvalidMinDays
	}

	rule := &domain.DiscountRule{
		ID:            s.genID.Generate(),
		OrgID:         orgID,
		Label:         label,
		Description:   strings.TrimSpace(req.Description),
		MinDays:       req.MinDays,
		DiscountType:  discountType,
		DiscountValue: req.DiscountValue,
		Priority:      priority,
		IsActive:      true,
	}
	if req.IsCumulative != nil {
		rule.IsCumulative = *req.IsCumulative
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if req.CategoryID != nil {
		id, err := s.resolveCategory(ctx, orgID, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		rule.CategoryID = &id
	}
	if req.PricingClassID != nil {
		id, err := s.resolveClass(ctx, orgID, *req.PricingClassID)
		if err != nil {
			return nil, err
		}
		rule.PricingClassID = &id
	}
	if req.MinDurationID != nil {
		id, err := s.resolveMinDuration(ctx, orgID, *req.MinDurationID)
		if err != nil {
			return nil, err
		}
		rule.MinDurationID = &id
	}

	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	if err := s.repo.Insert(ctx, s.db, rule); err != nil {
		return nil, err
	}
	s.invalidate(orgID)

	s.log.Info("discount rule created",
		zap.Int64("org_id", int64(orgID)),
		zap.String("rule_id", rule.ID.String()),
		zap.String("type", rule.DiscountType),
	)
	return rule, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.DiscountRule, error) {
	rule, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	orgID := rule.OrgID

	if req.Label != nil {
		label := strings.TrimSpace(*req.Label)
		if label == "" {
			return nil, domain.ErrInvalidLabel
		}
		rule.Label = label
	}
	if req.Description != nil {
		rule.Description = strings.TrimSpace(*req.Description)
	}
	if req.DiscountType != nil {
		rule.DiscountType = strings.ToUpper(strings.TrimSpace(*req.DiscountType))
	}
	if req.DiscountValue != nil {
		rule.DiscountValue = *req.DiscountValue
	}
	if err := validateTypeAndValue(rule.DiscountType, rule.DiscountValue); err != nil {
		return nil, err
	}
	if req.MinDays != nil {
		if *req.MinDays < 1 {
			return nil, domain.ErrInvalidMinDays
		}
		rule.MinDays = req.MinDays
	}
	if req.MinDurationID != nil {
		durationID, err := s.resolveMinDuration(ctx, orgID, *req.MinDurationID)
		if err != nil {
			return nil, err
		}
		rule.MinDurationID = &durationID
	}
	if req.Priority != nil {
		if *req.Priority < 0 {
			return nil, domain.ErrInvalidPriority
		}
		rule.Priority = *req.Priority
	}
	if req.IsCumulative != nil {
		rule.IsCumulative = *req.IsCumulative
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	rule.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, rule); err != nil {
		return nil, err
	}
	s.invalidate(orgID)
	return rule, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.DiscountRule, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	ruleID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	rule, err := s.repo.FindByID(ctx, s.db, orgID, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, domain.ErrNotFound
	}
	return rule, nil
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]domain.DiscountRule, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}
	return s.repo.List(ctx, s.db, orgID, includeInactive)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	rule, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, s.db, rule.OrgID, rule.ID); err != nil {
		return err
	}
	s.invalidate(rule.OrgID)
	return nil
}

func (s *Service) resolveCategory(ctx context.Context, orgID snowflake.ID, raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.ErrInvalidCategory
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&categorydomain.Category{}).
		Where("org_id = ? AND id = ?", orgID, id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, domain.ErrInvalidCategory
	}
	return id, nil
}

func (s *Service) resolveClass(ctx context.Context, orgID snowflake.ID, raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.ErrInvalidPricingClass
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&classdomain.PricingClass{}).
		Where("org_id = ? AND id = ?", orgID, id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, domain.ErrInvalidPricingClass
	}
	return id, nil
}

// resolveMinDuration rejects custom durations: a rule threshold needs a
// fixed day length to compare against.
func (s *Service) resolveMinDuration(ctx context.Context, orgID snowflake.ID, raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.ErrInvalidMinDuration
	}
	var def durationdomain.DurationDefinition
	if err := s.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&def).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrInvalidMinDuration
		}
		return 0, err
	}
	if def.IsCustom {
		return 0, domain.ErrInvalidMinDuration
	}
	return id, nil
}

func (s *Service) invalidate(orgID snowflake.ID) {
	if s.cache != nil {
		s.cache.InvalidateOrg(orgID)
	}
}
