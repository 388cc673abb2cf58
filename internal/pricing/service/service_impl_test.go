package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/pedalworks/rentora/internal/config"
	discountdomain "github.com/pedalworks/rentora/internal/discount/domain"
	discountrepository "github.com/pedalworks/rentora/internal/discount/repository"
	durationdomain "github.com/pedalworks/rentora/internal/duration/domain"
	"github.com/pedalworks/rentora/internal/orgcontext"
	"github.com/pedalworks/rentora/internal/pricing/domain"
	ratedomain "github.com/pedalworks/rentora/internal/rate/domain"
	raterepository "github.com/pedalworks/rentora/internal/rate/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type calcFixture struct {
	db    *gorm.DB
	node  *snowflake.Node
	svc   domain.Service
	ctx   context.Context
	orgID snowflake.ID

	categoryID snowflake.ID
	classID    snowflake.ID
	fullDayID  snowflake.ID
	weekID     snowflake.ID
	customID   snowflake.ID
}

func setupCalcFixture(t *testing.T) *calcFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&durationdomain.DurationDefinition{},
		&ratedomain.PricingRate{},
		&discountdomain.DiscountRule{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		Pricing:      config.NewStaticPricingConfigHolder(config.DefaultPricingConfig()),
		RateRepo:     raterepository.Provide(),
		DiscountRepo: discountrepository.Provide(),
	})

	orgID := node.Generate()
	f := &calcFixture{
		db:         db,
		node:       node,
		svc:        svc,
		ctx:        orgcontext.WithOrgID(context.Background(), int64(orgID)),
		orgID:      orgID,
		categoryID: node.Generate(),
		classID:    node.Generate(),
	}

	one, seven := 1, 7
	f.fullDayID = f.seedDuration("full_day", &one, false)
	f.weekID = f.seedDuration("week", &seven, false)
	f.customID = f.seedDuration("custom", nil, true)

	return f
}

func (f *calcFixture) seedDuration(code string, days *int, custom bool) snowflake.ID {
	id := f.node.Generate()
	f.db.Create(&durationdomain.DurationDefinition{
		ID:           id,
		OrgID:        f.orgID,
		Code:         code,
		Label:        code,
		DurationDays: days,
		IsCustom:     custom,
		IsActive:     true,
	})
	return id
}

func (f *calcFixture) seedRate(durationID snowflake.ID, price float64) {
	f.db.Create(&ratedomain.PricingRate{
		ID:             f.node.Generate(),
		OrgID:          f.orgID,
		CategoryID:     f.categoryID,
		PricingClassID: f.classID,
		DurationID:     durationID,
		Price:          price,
		IsActive:       true,
	})
}

func (f *calcFixture) seedRule(rule discountdomain.DiscountRule) snowflake.ID {
	rule.ID = f.node.Generate()
	rule.OrgID = f.orgID
	rule.IsActive = true
	f.db.Create(&rule)
	return rule.ID
}

func (f *calcFixture) quote(durationID snowflake.ID, customDays *int) (*domain.PriceCalculation, error) {
	return f.svc.Quote(f.ctx, domain.QuoteRequest{
		CategoryID:     f.categoryID.String(),
		PricingClassID: f.classID.String(),
		DurationID:     durationID.String(),
		CustomDays:     customDays,
	})
}

func intPtr(v int) *int { return &v }

func TestQuote_NoDiscounts(t *testing.T) {
	f := setupCalcFixture(t)
	f.seedRate(f.fullDayID, 50.00)

	calc, err := f.quote(f.fullDayID, nil)
	require.NoError(t, err)

	assert.Equal(t, 50.00, calc.BasePrice())
	assert.Equal(t, 50.00, calc.FinalPrice())
	assert.Equal(t, 1, calc.Days())
	assert.Equal(t, 50.00, calc.PricePerDay())
	assert.Empty(t, calc.AppliedDiscounts())
}

func TestQuote_WeekPercentageDiscount(t *testing.T) {
	f := setupCalcFixture(t)
	f.seedRate(f.weekID, 350.00)
	ruleID := f.seedRule(discountdomain.DiscountRule{
		Label:         "weekly 10%",
		MinDays:       intPtr(7),
		DiscountType:  discountdomain.DiscountTypePercentage,
		DiscountValue: 10,
		Priority:      1,
	})

	calc, err := f.quote(f.weekID, nil)
	require.NoError(t, err)

	assert.Equal(t, 350.00, calc.BasePrice())
	assert.Equal(t, 315.00, calc.FinalPrice())
	assert.Equal(t, 7, calc.Days())

	applied := calc.AppliedDiscounts()
	require.Len(t, applied, 1)
	assert.Equal(t, ruleID, applied[0].RuleID)
	assert.Equal(t, 10.00, applied[0].Value)
	assert.Equal(t, 35.00, applied[0].Amount)
}

func TestQuote_CustomDurationMultipliesDailyRate(t *testing.T) {
	f := setupCalcFixture(t)
	f.seedRate(f.customID, 50.00)

	calc, err := f.quote(f.customID, intPtr(5))
	require.NoError(t, err)

	assert.Equal(t, 250.00, calc.BasePrice())
	assert.Equal(t, 5, calc.Days())
	assert.Equal(t, 50.00, calc.PricePerDay())
}

func TestQuote_CustomDurationRequiresDays(t *testing.T) {
	f := setupCalcFixture(t)
	f.seedRate(f.customID, 50.00)

	_, err := f.quote(f.customID, nil)
	assert.ErrorIs(t, err, domain.ErrCustomDaysRequired)

	_, err = f.quote(f.customID, intPtr(0))
	assert.ErrorIs(t, err, domain.ErrInvalidCustomDays)
}

func TestQuote_CustomDaysBoundedByConfig(t *testing.T) {
	f := setupCalcFixture(t)
	f.seedRate(f.customID, 50.00)

	// Default config caps rentals at 90 days.
	_, err := f.quote(f.customID, intPtr(91))
	assert.ErrorIs(t, err, domain.ErrInvalidCustomDays)

	calc, err := f.quote(f.customID, intPtr(90))
	require.NoError(t, err)
	assert.Equal(t, 90, calc.Days())
}

func TestQuote_NoRateConfigured(t *testing.T) {
	f := setupCalcFixture(t)

	_, err := f.quote(f.fullDayID, nil)
	assert.ErrorIs(t, err, domain.ErrNoRateConfigured)
}

func TestQuote_NonCumulativeExclusivity(t *testing.T) {
	f := setupCalcFixture(t)
	f.seedRate(f.weekID, 350.00)

	firstID := f.seedRule(discountdomain.DiscountRule{
		Label:         "weekly 10%",
		MinDays:       intPtr(7),
		DiscountType:  discountdomain.DiscountTypePercentage,
		DiscountValue: 10,
		Priority:      1,
	})
	f.seedRule(discountdomain.DiscountRule{
		Label:         "weekly 20%",
		MinDays:       intPtr(7),
		DiscountType:  discountdomain.DiscountTypePercentage,
		DiscountValue: 20,
		Priority:      2,
	})

	calc, err := f.quote(f.weekID, nil)
	require.NoError(t, err)

	applied := calc.AppliedDiscounts()
	require.Len(t, applied, 1)
	assert.Equal(t, firstID, applied[0].RuleID)
	assert.Equal(t, 315.00, calc.FinalPrice())
}

func TestQuote_CumulativeStacking(t *testing.T) {
	f := setupCalcFixture(t)
	f.seedRate(f.weekID, 350.00)

	f.seedRule(discountdomain.DiscountRule{
		Label:         "weekly 10%",
		MinDays:       intPtr(7),
		DiscountType:  discountdomain.DiscountTypePercentage,
		DiscountValue: 10,
		IsCumulative:  true,
		Priority:      1,
	})
	f.seedRule(discountdomain.DiscountRule{
		Label:         "loyalty 15",
		MinDays:       intPtr(7),
		DiscountType:  discountdomain.DiscountTypeFixed,
		DiscountValue: 15,
		IsCumulative:  true,
		Priority:      2,
	})

	calc, err := f.quote(f.weekID, nil)
	require.NoError(t, err)

	// 350 → -10% = 315 → -15 = 300. The fixed rule sees the running
	// price left by the percentage rule, not the base price.
	applied := calc.AppliedDiscounts()
	require.Len(t, applied, 2)
	assert.Equal(t, 35.00, applied[0].Amount)
	assert.Equal(t, 15.00, applied[1].Amount)
	assert.Equal(t, 300.00, calc.FinalPrice())
}

func TestQuote_CumulativeStacksOnNonCumulative(t *testing.T) {
	f := setupCalcFixture(t)
	f.seedRate(f.weekID, 350.00)

	f.seedRule(discountdomain.DiscountRule{
		Label:         "exclusive 10%",
		MinDays:       intPtr(7),
		DiscountType:  discountdomain.DiscountTypePercentage,
		DiscountValue: 10,
		Priority:      1,
	})
	f.seedRule(discountdomain.DiscountRule{
		Label:         "exclusive 50%",
		MinDays:       intPtr(7),
		DiscountType:  discountdomain.DiscountTypePercentage,
		DiscountValue: 50,
		Priority:      2,
	})
	f.seedRule(discountdomain.DiscountRule{
		Label:         "cumulative 15",
		MinDays:       intPtr(7),
		DiscountType:  discountdomain.DiscountTypeFixed,
		DiscountValue: 15,
		IsCumulative:  true,
		Priority:      3,
	})

	calc, err := f.quote(f.weekID, nil)
	require.NoError(t, err)

	// The first exclusive rule wins, the second exclusive is skipped
	// entirely, the cumulative rule still stacks afterwards.
	applied := calc.AppliedDiscounts()
	require.Len(t, applied, 2)
	assert.Equal(t, "exclusive 10%", applied[0].Label)
	assert.Equal(t, "cumulative 15", applied[1].Label)
	assert.Equal(t, 300.00, calc.FinalPrice())
}

func TestQuote_FixedDiscountClampsAtZero(t *testing.T) {
	f := setupCalcFixture(t)
	f.seedRate(f.weekID, 350.00)

	f.seedRule(discountdomain.DiscountRule{
		Label:         "huge voucher",
		MinDays:       intPtr(7),
		DiscountType:  discountdomain.DiscountTypeFixed,
		DiscountValue: 500,
		Priority:      1,
	})

	calc, err := f.quote(f.weekID, nil)
	require.NoError(t, err)

	applied := calc.AppliedDiscounts()
	require.Len(t, applied, 1)
	assert.Equal(t, 350.00, applied[0].Amount)
	assert.Equal(t, 0.00, calc.FinalPrice())
}

func TestQuote_PriorityTieBrokenByID(t *testing.T) {
	f := setupCalcFixture(t)
	f.seedRate(f.weekID, 350.00)

	olderID := f.seedRule(discountdomain.DiscountRule{
		Label:         "older",
		MinDays:       intPtr(7),
		DiscountType:  discountdomain.DiscountTypePercentage,
		DiscountValue: 10,
		Priority:      1,
	})
	f.seedRule(discountdomain.DiscountRule{
		Label:         "newer",
		MinDays:       intPtr(7),
		DiscountType:  discountdomain.DiscountTypePercentage,
		DiscountValue: 20,
		Priority:      1,
	})

	calc, err := f.quote(f.weekID, nil)
	require.NoError(t, err)

	// Snowflake ids are monotonic, so the earlier-created rule wins ties.
	applied := calc.AppliedDiscounts()
	require.Len(t, applied, 1)
	assert.Equal(t, olderID, applied[0].RuleID)
}

func TestQuote_MinDurationThreshold(t *testing.T) {
	f := setupCalcFixture(t)
	f.seedRate(f.fullDayID, 50.00)
	f.seedRate(f.weekID, 350.00)

	f.seedRule(discountdomain.DiscountRule{
		Label:         "week or longer",
		MinDurationID: &f.weekID,
		DiscountType:  discountdomain.DiscountTypePercentage,
		DiscountValue: 10,
		Priority:      1,
	})

	day, err := f.quote(f.fullDayID, nil)
	require.NoError(t, err)
	assert.Empty(t, day.AppliedDiscounts())
	assert.Equal(t, 50.00, day.FinalPrice())

	week, err := f.quote(f.weekID, nil)
	require.NoError(t, err)
	assert.Len(t, week.AppliedDiscounts(), 1)
	assert.Equal(t, 315.00, week.FinalPrice())
}

func TestQuote_DeletedMinDurationDisablesRule(t *testing.T) {
	f := setupCalcFixture(t)
	f.seedRate(f.fullDayID, 50.00)
	f.seedRule(discountdomain.DiscountRule{
		Label:         "week or longer",
		MinDurationID: &f.weekID,
		DiscountType:  discountdomain.DiscountTypePercentage,
		DiscountValue: 50,
		Priority:      1,
	})

	f.db.Delete(&durationdomain.DurationDefinition{}, "id = ?", f.weekID)

	// With the referenced duration gone the rule must not fall back to
	// a zero threshold and match everything.
	calc, err := f.quote(f.fullDayID, nil)
	require.NoError(t, err)
	assert.Empty(t, calc.AppliedDiscounts())
	assert.Equal(t, 50.00, calc.FinalPrice())
}

func TestQuote_ZeroAmountRuleLeavesNoTrace(t *testing.T) {
	f := setupCalcFixture(t)
	f.seedRate(f.weekID, 350.00)

	voucherID := f.seedRule(discountdomain.DiscountRule{
		Label:         "full voucher",
		MinDays:       intPtr(7),
		DiscountType:  discountdomain.DiscountTypeFixed,
		DiscountValue: 350,
		Priority:      1,
	})
	f.seedRule(discountdomain.DiscountRule{
		Label:         "loyalty 10%",
		MinDays:       intPtr(7),
		DiscountType:  discountdomain.DiscountTypePercentage,
		DiscountValue: 10,
		IsCumulative:  true,
		Priority:      2,
	})

	calc, err := f.quote(f.weekID, nil)
	require.NoError(t, err)

	// The percentage rule computes 10% of a zero running price and is
	// left out of the audit trail.
	applied := calc.AppliedDiscounts()
	require.Len(t, applied, 1)
	assert.Equal(t, voucherID, applied[0].RuleID)
	assert.Equal(t, 0.00, calc.FinalPrice())
}

func TestQuote_StricterThresholdWinsWhenBothSet(t *testing.T) {
	f := setupCalcFixture(t)
	f.seedRate(f.customID, 50.00)

	// minDays=3 but the referenced duration implies 7; both must hold.
	f.seedRule(discountdomain.DiscountRule{
		Label:         "both thresholds",
		MinDays:       intPtr(3),
		MinDurationID: &f.weekID,
		DiscountType:  discountdomain.DiscountTypePercentage,
		DiscountValue: 10,
		Priority:      1,
	})

	five, err := f.quote(f.customID, intPtr(5))
	require.NoError(t, err)
	assert.Empty(t, five.AppliedDiscounts())

	seven, err := f.quote(f.customID, intPtr(7))
	require.NoError(t, err)
	assert.Len(t, seven.AppliedDiscounts(), 1)
}

func TestQuote_ScopedRulesIgnoreOtherDimensions(t *testing.T) {
	f := setupCalcFixture(t)
	f.seedRate(f.weekID, 350.00)

	otherCategory := f.node.Generate()
	f.seedRule(discountdomain.DiscountRule{
		Label:         "other category only",
		CategoryID:    &otherCategory,
		MinDays:       intPtr(7),
		DiscountType:  discountdomain.DiscountTypePercentage,
		DiscountValue: 50,
		Priority:      1,
	})
	f.seedRule(discountdomain.DiscountRule{
		Label:         "all categories",
		MinDays:       intPtr(7),
		DiscountType:  discountdomain.DiscountTypePercentage,
		DiscountValue: 10,
		Priority:      2,
	})

	calc, err := f.quote(f.weekID, nil)
	require.NoError(t, err)

	applied := calc.AppliedDiscounts()
	require.Len(t, applied, 1)
	assert.Equal(t, "all categories", applied[0].Label)
}

func TestQuote_InactiveAndDeletedRulesSkipped(t *testing.T) {
	f := setupCalcFixture(t)
	f.seedRate(f.weekID, 350.00)

	inactiveID := f.node.Generate()
	f.db.Create(&discountdomain.DiscountRule{
		ID:            inactiveID,
		OrgID:         f.orgID,
		Label:         "inactive",
		MinDays:       intPtr(7),
		DiscountType:  discountdomain.DiscountTypePercentage,
		DiscountValue: 50,
		Priority:      1,
		IsActive:      false,
	})

	deletedID := f.seedRule(discountdomain.DiscountRule{
		Label:         "deleted",
		MinDays:       intPtr(7),
		DiscountType:  discountdomain.DiscountTypePercentage,
		DiscountValue: 50,
		Priority:      1,
	})
	f.db.Delete(&discountdomain.DiscountRule{}, "id = ?", deletedID)

	calc, err := f.quote(f.weekID, nil)
	require.NoError(t, err)
	assert.Empty(t, calc.AppliedDiscounts())
	assert.Equal(t, 350.00, calc.FinalPrice())
}

func TestQuote_IdempotentRead(t *testing.T) {
	f := setupCalcFixture(t)
	f.seedRate(f.weekID, 350.00)
	f.seedRule(discountdomain.DiscountRule{
		Label:         "weekly 10%",
		MinDays:       intPtr(7),
		DiscountType:  discountdomain.DiscountTypePercentage,
		DiscountValue: 10,
		Priority:      1,
	})

	first, err := f.quote(f.weekID, nil)
	require.NoError(t, err)
	second, err := f.quote(f.weekID, nil)
	require.NoError(t, err)

	assert.Equal(t, first.ToSnapshotData(), second.ToSnapshotData())
}

func TestQuote_MissingOrganization(t *testing.T) {
	f := setupCalcFixture(t)

	_, err := f.svc.Quote(context.Background(), domain.QuoteRequest{
		CategoryID:     f.categoryID.String(),
		PricingClassID: f.classID.String(),
		DurationID:     f.fullDayID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}
