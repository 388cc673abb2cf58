package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	categorydomain "github.com/pedalworks/rentora/internal/category/domain"
	"github.com/pedalworks/rentora/internal/discount/domain"
	"github.com/pedalworks/rentora/internal/discount/repository"
	durationdomain "github.com/pedalworks/rentora/internal/duration/domain"
	"github.com/pedalworks/rentora/internal/orgcontext"
	classdomain "github.com/pedalworks/rentora/internal/pricingclass/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ruleFixture struct {
	db    *gorm.DB
	node  *snowflake.Node
	svc   domain.Service
	ctx   context.Context
	orgID snowflake.ID

	weekID   snowflake.ID
	customID snowflake.ID
}

func setupRuleFixture(t *testing.T) *ruleFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&categorydomain.Category{},
		&classdomain.PricingClass{},
		&durationdomain.DurationDefinition{},
		&domain.DiscountRule{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})

	orgID := node.Generate()
	f := &ruleFixture{
		db:    db,
		node:  node,
		svc:   svc,
		ctx:   orgcontext.WithOrgID(context.Background(), int64(orgID)),
		orgID: orgID,
	}

	seven := 7
	f.weekID = node.Generate()
	f.db.Create(&durationdomain.DurationDefinition{ID: f.weekID, OrgID: orgID, Code: "week", Label: "Week", DurationDays: &seven, IsActive: true})
	f.customID = node.Generate()
	f.db.Create(&durationdomain.DurationDefinition{ID: f.customID, OrgID: orgID, Code: "custom", Label: "Custom", IsCustom: true, IsActive: true})

	return f
}

func minDaysPtr(v int) *int       { return &v }
func strPtr(v string) *string     { return &v }
func valuePtr(v float64) *float64 { return &v }

func TestCreateRule_Defaults(t *testing.T) {
	f := setupRuleFixture(t)

	rule, err := f.svc.Create(f.ctx, domain.CreateRequest{
		Label:         "  Week discount  ",
		MinDays:       minDaysPtr(7),
		DiscountType:  "percentage",
		DiscountValue: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, "Week discount", rule.Label)
	assert.Equal(t, domain.DiscountTypePercentage, rule.DiscountType)
	assert.False(t, rule.IsCumulative)
	assert.Zero(t, rule.Priority)
	assert.True(t, rule.IsActive)
}

func TestCreateRule_RequiresThreshold(t *testing.T) {
	f := setupRuleFixture(t)

	_, err := f.svc.Create(f.ctx, domain.CreateRequest{
		Label:         "no threshold",
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: 10,
	})
	assert.ErrorIs(t, err, domain.ErrMissingThreshold)
}

func TestCreateRule_ValueBounds(t *testing.T) {
	f := setupRuleFixture(t)

	base := domain.CreateRequest{
		Label:   "bounds",
		MinDays: minDaysPtr(3),
	}

	req := base
	req.DiscountType = domain.DiscountTypePercentage
	req.DiscountValue = 101
	_, err := f.svc.Create(f.ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidDiscountValue)

	req.DiscountValue = 0
	_, err = f.svc.Create(f.ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidDiscountValue)

	req.DiscountType = domain.DiscountTypeFixed
	req.DiscountValue = -5
	_, err = f.svc.Create(f.ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidDiscountValue)

	req.DiscountType = "BOGOF"
	req.DiscountValue = 10
	_, err = f.svc.Create(f.ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidDiscountType)
}

func TestCreateRule_RejectsCustomMinDuration(t *testing.T) {
	f := setupRuleFixture(t)

	_, err := f.svc.Create(f.ctx, domain.CreateRequest{
		Label:         "custom threshold",
		MinDurationID: strPtr(f.customID.String()),
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: 10,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMinDuration)
}

func TestCreateRule_RejectsUnknownDimensions(t *testing.T) {
	f := setupRuleFixture(t)

	_, err := f.svc.Create(f.ctx, domain.CreateRequest{
		Label:         "bad category",
		CategoryID:    strPtr(f.node.Generate().String()),
		MinDays:       minDaysPtr(3),
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: 10,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	_, err = f.svc.Create(f.ctx, domain.CreateRequest{
		Label:          "bad class",
		PricingClassID: strPtr(f.node.Generate().String()),
		MinDays:        minDaysPtr(3),
		DiscountType:   domain.DiscountTypePercentage,
		DiscountValue:  10,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPricingClass)
}

func TestUpdateRule_RevalidatesTypeAndValue(t *testing.T) {
	f := setupRuleFixture(t)

	rule, err := f.svc.Create(f.ctx, domain.CreateRequest{
		Label:         "week discount",
		MinDurationID: strPtr(f.weekID.String()),
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: 10,
	})
	require.NoError(t, err)

	// Raising the value past 100 must fail even though the type is untouched.
	_, err = f.svc.Update(f.ctx, rule.ID.String(), domain.UpdateRequest{
		DiscountValue: valuePtr(150),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDiscountValue)

	updated, err := f.svc.Update(f.ctx, rule.ID.String(), domain.UpdateRequest{
		DiscountValue: valuePtr(25),
	})
	require.NoError(t, err)
	assert.Equal(t, 25.00, updated.DiscountValue)
}

func TestDeleteRule_SoftDeletes(t *testing.T) {
	f := setupRuleFixture(t)

	rule, err := f.svc.Create(f.ctx, domain.CreateRequest{
		Label:         "short lived",
		MinDays:       minDaysPtr(3),
		DiscountType:  domain.DiscountTypeFixed,
		DiscountValue: 5,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(f.ctx, rule.ID.String()))

	_, err = f.svc.Get(f.ctx, rule.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The row survives for audit, only hidden from reads.
	var count int64
	require.NoError(t, f.db.Unscoped().Model(&domain.DiscountRule{}).Where("id = ?", rule.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRuleCalculateDiscount(t *testing.T) {
	percentage := domain.DiscountRule{DiscountType: domain.DiscountTypePercentage, DiscountValue: 10}
	assert.Equal(t, 35.00, percentage.CalculateDiscount(350))

	fixed := domain.DiscountRule{DiscountType: domain.DiscountTypeFixed, DiscountValue: 500}
	assert.Equal(t, 350.00, fixed.CalculateDiscount(350))
}
