package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/pedalworks/rentora/internal/cache"
	"github.com/pedalworks/rentora/internal/config"
	discountdomain "github.com/pedalworks/rentora/internal/discount/domain"
	durationdomain "github.com/pedalworks/rentora/internal/duration/domain"
	"github.com/pedalworks/rentora/internal/observability/metrics"
	"github.com/pedalworks/rentora/internal/orgcontext"
	"github.com/pedalworks/rentora/internal/pricing/domain"
	ratedomain "github.com/pedalworks/rentora/internal/rate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Pricing      *config.PricingConfigHolder
	RateRepo     ratedomain.Repository
	DiscountRepo discountdomain.Repository
	Cache        *cache.PricingCache `optional:"true"`
	Metrics      *metrics.Metrics    `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	pricing      *config.PricingConfigHolder
	rateRepo     ratedomain.Repository
	discountRepo discountdomain.Repository
	cache        *cache.PricingCache
	metrics      *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("pricing.service"),
		pricing:      p.Pricing,
		rateRepo:     p.RateRepo,
		discountRepo: p.DiscountRepo,
		cache:        p.Cache,
		metrics:      p.Metrics,
	}
}

func (s *Service) Quote(ctx context.Context, req domain.QuoteRequest) (*domain.PriceCalculation, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	categoryID, err := snowflake.ParseString(strings.TrimSpace(req.CategoryID))
	if err != nil {
		return nil, domain.ErrInvalidCategory
	}
	classID, err := snowflake.ParseString(strings.TrimSpace(req.PricingClassID))
	if err != nil {
		return nil, domain.ErrInvalidPricingClass
	}
	durationID, err := snowflake.ParseString(strings.TrimSpace(req.DurationID))
	if err != nil {
		return nil, domain.ErrInvalidDuration
	}

	duration, err := s.findDuration(ctx, orgID, durationID)
	if err != nil {
		return nil, err
	}

	days, err := s.resolveDays(duration, req.CustomDays)
	if err != nil {
		return nil, err
	}

	periodPrice, err := s.resolveRate(ctx, orgID, categoryID, classID, durationID)
	if err != nil {
		if errors.Is(err, domain.ErrNoRateConfigured) {
			s.metrics.RecordQuoteMiss(ctx)
		}
		return nil, err
	}

	// Non-custom durations carry a negotiated period price per bucket.
	// Custom durations price from a daily rate times the requested days.
	basePrice := periodPrice
	if duration.IsCustom {
		basePrice = periodPrice * float64(days)
	}

	applied, finalPrice, err := s.applyDiscounts(ctx, orgID, categoryID, classID, days, basePrice)
	if err != nil {
		return nil, err
	}

	calc, err := domain.NewPriceCalculation(basePrice, finalPrice, days, applied, categoryID, classID, durationID)
	if err != nil {
		s.log.Error("calculation produced inconsistent values",
			zap.Int64("org_id", int64(orgID)),
			zap.Float64("base_price", basePrice),
			zap.Float64("final_price", finalPrice),
			zap.Int("days", days),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.RecordQuote(ctx, len(applied) > 0)
	return calc, nil
}

func (s *Service) findDuration(ctx context.Context, orgID, durationID snowflake.ID) (*durationdomain.DurationDefinition, error) {
	var def durationdomain.DurationDefinition
	err := s.db.WithContext(ctx).
		Where("org_id = ? AND id = ? AND is_active = ?", orgID, durationID, true).
		First(&def).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvalidDuration
	}
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (s *Service) resolveDays(duration *durationdomain.DurationDefinition, customDays *int) (int, error) {
	if !duration.IsCustom {
		return duration.BillableDays(), nil
	}
	if customDays == nil {
		return 0, domain.ErrCustomDaysRequired
	}
	days := *customDays
	if days < 1 {
		return 0, domain.ErrInvalidCustomDays
	}
	if max := s.pricing.Get().MaxRentalDays; max > 0 && days > max {
		return 0, domain.ErrInvalidCustomDays
	}
	return days, nil
}

// resolveRate returns the configured period price for the triple,
// consulting the per-org cache first. Negative lookups are cached too.
func (s *Service) resolveRate(ctx context.Context, orgID, categoryID, classID, durationID snowflake.ID) (float64, error) {
	if s.cache != nil {
		if price, ok, hit := s.cache.GetRate(orgID, categoryID, classID, durationID); hit {
			if !ok {
				return 0, domain.ErrNoRateConfigured
			}
			return price, nil
		}
	}

	rate, err := s.rateRepo.FindByDimensions(ctx, s.db, orgID, categoryID, classID, durationID)
	if err != nil {
		return 0, err
	}
	if rate == nil {
		if s.cache != nil {
			s.cache.SetRateMiss(orgID, categoryID, classID, durationID)
		}
		return 0, domain.ErrNoRateConfigured
	}

	if s.cache != nil {
		s.cache.SetRate(orgID, categoryID, classID, durationID, rate.Price)
	}
	return rate.Price, nil
}

// applyDiscounts walks the applicable rules in priority order against a
// running price. Cumulative rules always stack; at most one
// non-cumulative rule applies, after which only cumulative rules may
// still contribute.
func (s *Service) applyDiscounts(ctx context.Context, orgID, categoryID, classID snowflake.ID, days int, basePrice float64) ([]domain.AppliedDiscount, float64, error) {
	rules, err := s.discountRepo.FindApplicable(ctx, s.db, orgID, categoryID, classID)
	if err != nil {
		return nil, 0, err
	}

	thresholdDays, err := s.resolveThresholdDays(ctx, orgID, rules)
	if err != nil {
		return nil, 0, err
	}

	applied := make([]domain.AppliedDiscount, 0, len(rules))
	currentPrice := basePrice
	exclusiveApplied := false

	for _, rule := range rules {
		minDurationDays, resolved := thresholdDays[rule.ID]
		if rule.MinDurationID != nil && !resolved {
			// The referenced duration no longer exists, so the
			// threshold can never be satisfied.
			continue
		}
		if !rule.MeetsDurationThreshold(days, minDurationDays) {
			continue
		}
		if !rule.IsCumulative && exclusiveApplied {
			continue
		}

		amount := rule.CalculateDiscount(currentPrice)
		if amount <= 0 {
			// Zero-amount rules are not recorded and do not consume
			// the non-cumulative slot.
			continue
		}

		currentPrice -= amount
		applied = append(applied, domain.AppliedDiscount{
			RuleID: rule.ID,
			Label:  rule.Label,
			Type:   rule.DiscountType,
			Value:  rule.DiscountValue,
			Amount: amount,
		})
		if !rule.IsCumulative {
			exclusiveApplied = true
		}
	}

	// Per-rule clamping already guarantees the bounds; this keeps a
	// misbehaving rule from ever leaking past them.
	if currentPrice < 0 {
		currentPrice = 0
	}
	if currentPrice > basePrice {
		currentPrice = basePrice
	}

	return applied, currentPrice, nil
}

// resolveThresholdDays looks up the billable-day length for every
// duration referenced by a rule's MinDurationID, in one query. Rules
// whose referenced duration has been deleted get no entry.
func (s *Service) resolveThresholdDays(ctx context.Context, orgID snowflake.ID, rules []discountdomain.DiscountRule) (map[snowflake.ID]int, error) {
	ids := make([]snowflake.ID, 0)
	seen := make(map[snowflake.ID]bool)
	for _, rule := range rules {
		if rule.MinDurationID != nil && !seen[*rule.MinDurationID] {
			seen[*rule.MinDurationID] = true
			ids = append(ids, *rule.MinDurationID)
		}
	}
	if len(ids) == 0 {
		return map[snowflake.ID]int{}, nil
	}

	var defs []durationdomain.DurationDefinition
	if err := s.db.WithContext(ctx).
		Where("org_id = ? AND id IN ?", orgID, ids).
		Find(&defs).Error; err != nil {
		return nil, err
	}

	byDuration := make(map[snowflake.ID]int, len(defs))
	for _, def := range defs {
		byDuration[def.ID] = def.BillableDays()
	}

	out := make(map[snowflake.ID]int, len(rules))
	for _, rule := range rules {
		if rule.MinDurationID == nil {
			continue
		}
		if length, ok := byDuration[*rule.MinDurationID]; ok {
			out[rule.ID] = length
		}
	}
	return out, nil
}
