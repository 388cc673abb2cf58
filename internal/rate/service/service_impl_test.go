package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	categorydomain "github.com/pedalworks/rentora/internal/category/domain"
	durationdomain "github.com/pedalworks/rentora/internal/duration/domain"
	"github.com/pedalworks/rentora/internal/orgcontext"
	classdomain "github.com/pedalworks/rentora/internal/pricingclass/domain"
	"github.com/pedalworks/rentora/internal/rate/domain"
	"github.com/pedalworks/rentora/internal/rate/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type rateFixture struct {
	db    *gorm.DB
	node  *snowflake.Node
	svc   domain.Service
	ctx   context.Context
	orgID snowflake.ID

	categoryID snowflake.ID
	classID    snowflake.ID
	durationID snowflake.ID
}

func setupRateFixture(t *testing.T) *rateFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&categorydomain.Category{},
		&classdomain.PricingClass{},
		&durationdomain.DurationDefinition{},
		&domain.PricingRate{},
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
	f := &rateFixture{
		db:         db,
		node:       node,
		svc:        svc,
		ctx:        orgcontext.WithOrgID(context.Background(), int64(orgID)),
		orgID:      orgID,
		categoryID: node.Generate(),
		classID:    node.Generate(),
		durationID: node.Generate(),
	}

	one := 1
	f.db.Create(&categorydomain.Category{ID: f.categoryID, OrgID: orgID, Code: "city", Label: "City", IsActive: true})
	f.db.Create(&classdomain.PricingClass{ID: f.classID, OrgID: orgID, Code: "standard", Label: "Standard", IsActive: true})
	f.db.Create(&durationdomain.DurationDefinition{ID: f.durationID, OrgID: orgID, Code: "full_day", Label: "Full day", DurationDays: &one, IsActive: true})

	return f
}

func (f *rateFixture) item(price float64) domain.UpsertItem {
	return domain.UpsertItem{
		CategoryID:     f.categoryID.String(),
		PricingClassID: f.classID.String(),
		DurationID:     f.durationID.String(),
		Price:          price,
	}
}

func TestBulkUpsert_CreatesThenUpdates(t *testing.T) {
	f := setupRateFixture(t)

	resp, err := f.svc.BulkUpsert(f.ctx, domain.BulkUpsertRequest{Rates: []domain.UpsertItem{f.item(50)}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Created)
	assert.Equal(t, 0, resp.Updated)

	resp, err = f.svc.BulkUpsert(f.ctx, domain.BulkUpsertRequest{Rates: []domain.UpsertItem{f.item(60)}})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Created)
	assert.Equal(t, 1, resp.Updated)
	assert.Equal(t, 1, resp.Total)

	var rates []domain.PricingRate
	require.NoError(t, f.db.Find(&rates).Error)
	require.Len(t, rates, 1)
	assert.Equal(t, 60.00, rates[0].Price)
}

func TestBulkUpsert_LastWriteWinsWithinBatch(t *testing.T) {
	f := setupRateFixture(t)

	resp, err := f.svc.BulkUpsert(f.ctx, domain.BulkUpsertRequest{
		Rates: []domain.UpsertItem{f.item(50), f.item(75)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	var rate domain.PricingRate
	require.NoError(t, f.db.First(&rate).Error)
	assert.Equal(t, 75.00, rate.Price)
}

func TestBulkUpsert_RejectsNonPositivePrice(t *testing.T) {
	f := setupRateFixture(t)

	_, err := f.svc.BulkUpsert(f.ctx, domain.BulkUpsertRequest{Rates: []domain.UpsertItem{f.item(0)}})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = f.svc.BulkUpsert(f.ctx, domain.BulkUpsertRequest{Rates: []domain.UpsertItem{f.item(-10)}})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestBulkUpsert_BadReferenceRejectsWholeBatch(t *testing.T) {
	f := setupRateFixture(t)

	bad := f.item(40)
	bad.CategoryID = f.node.Generate().String()

	_, err := f.svc.BulkUpsert(f.ctx, domain.BulkUpsertRequest{
		Rates: []domain.UpsertItem{f.item(50), bad},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	var count int64
	require.NoError(t, f.db.Model(&domain.PricingRate{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestBulkUpsert_EmptyBatch(t *testing.T) {
	f := setupRateFixture(t)

	_, err := f.svc.BulkUpsert(f.ctx, domain.BulkUpsertRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyBatch)
}

func TestBulkUpsert_MissingOrganization(t *testing.T) {
	f := setupRateFixture(t)

	_, err := f.svc.BulkUpsert(context.Background(), domain.BulkUpsertRequest{Rates: []domain.UpsertItem{f.item(50)}})
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestRateDelete(t *testing.T) {
	f := setupRateFixture(t)

	resp, err := f.svc.BulkUpsert(f.ctx, domain.BulkUpsertRequest{Rates: []domain.UpsertItem{f.item(50)}})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Created)

	var rate domain.PricingRate
	require.NoError(t, f.db.First(&rate).Error)

	require.NoError(t, f.svc.Delete(f.ctx, rate.ID.String()))

	err = f.svc.Delete(f.ctx, rate.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRateList_FiltersByDimension(t *testing.T) {
	f := setupRateFixture(t)

	two := 2
	otherDuration := f.node.Generate()
	f.db.Create(&durationdomain.DurationDefinition{ID: otherDuration, OrgID: f.orgID, Code: "weekend", Label: "Weekend", DurationDays: &two, IsActive: true})

	other := f.item(90)
	other.DurationID = otherDuration.String()

	_, err := f.svc.BulkUpsert(f.ctx, domain.BulkUpsertRequest{
		Rates: []domain.UpsertItem{f.item(50), other},
	})
	require.NoError(t, err)

	all, err := f.svc.List(f.ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := f.svc.List(f.ctx, domain.ListRequest{DurationID: otherDuration.String()})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, 90.00, filtered[0].Price)
}
