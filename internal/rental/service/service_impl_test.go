package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	bikedomain "github.com/pedalworks/rentora/internal/bike/domain"
	"github.com/pedalworks/rentora/internal/config"
	customerdomain "github.com/pedalworks/rentora/internal/customer/domain"
	discountdomain "github.com/pedalworks/rentora/internal/discount/domain"
	discountrepository "github.com/pedalworks/rentora/internal/discount/repository"
	durationdomain "github.com/pedalworks/rentora/internal/duration/domain"
	"github.com/pedalworks/rentora/internal/orgcontext"
	pricingservice "github.com/pedalworks/rentora/internal/pricing/service"
	ratedomain "github.com/pedalworks/rentora/internal/rate/domain"
	raterepository "github.com/pedalworks/rentora/internal/rate/repository"
	"github.com/pedalworks/rentora/internal/rental/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type rentalFixture struct {
	db    *gorm.DB
	node  *snowflake.Node
	svc   domain.Service
	ctx   context.Context
	orgID snowflake.ID

	categoryID snowflake.ID
	classID    snowflake.ID
	weekID     snowflake.ID
	customerID snowflake.ID
	bikeID     snowflake.ID
}

func setupRentalFixture(t *testing.T) *rentalFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&durationdomain.DurationDefinition{},
		&ratedomain.PricingRate{},
		&discountdomain.DiscountRule{},
		&customerdomain.Customer{},
		&bikedomain.Bike{},
		&domain.Rental{},
		&domain.RentalPricingSnapshot{},
		&domain.RentalStatusHistory{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	holder := config.NewStaticPricingConfigHolder(config.DefaultPricingConfig())
	quoter := pricingservice.New(pricingservice.Params{
		DB:           db,
		Log:          zap.NewNop(),
		Pricing:      holder,
		RateRepo:     raterepository.Provide(),
		DiscountRepo: discountrepository.Provide(),
	})
	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Pricing: holder,
		Quoter:  quoter,
	})

	orgID := node.Generate()
	f := &rentalFixture{
		db:         db,
		node:       node,
		svc:        svc,
		ctx:        orgcontext.WithOrgID(context.Background(), int64(orgID)),
		orgID:      orgID,
		categoryID: node.Generate(),
		classID:    node.Generate(),
	}

	seven := 7
	f.weekID = node.Generate()
	f.db.Create(&durationdomain.DurationDefinition{ID: f.weekID, OrgID: orgID, Code: "week", Label: "Week", DurationDays: &seven, IsActive: true})

	f.db.Create(&ratedomain.PricingRate{
		ID:             node.Generate(),
		OrgID:          orgID,
		CategoryID:     f.categoryID,
		PricingClassID: f.classID,
		DurationID:     f.weekID,
		Price:          350,
		IsActive:       true,
	})

	f.customerID = node.Generate()
	f.db.Create(&customerdomain.Customer{ID: f.customerID, OrgID: orgID, FirstName: "Nora", LastName: "Visser", Email: "nora@example.com"})

	f.bikeID = node.Generate()
	f.db.Create(&bikedomain.Bike{
		ID:             f.bikeID,
		OrgID:          orgID,
		CategoryID:     f.categoryID,
		PricingClassID: f.classID,
		Brand:          "Gazelle",
		Status:         bikedomain.BikeStatusAvailable,
	})

	return f
}

func (f *rentalFixture) create() (*domain.Rental, error) {
	return f.svc.Create(f.ctx, domain.CreateRequest{
		CustomerID: f.customerID.String(),
		BikeID:     f.bikeID.String(),
		DurationID: f.weekID.String(),
	})
}

func TestCreateRental_WritesSnapshot(t *testing.T) {
	f := setupRentalFixture(t)

	rental, err := f.create()
	require.NoError(t, err)
	require.NotNil(t, rental.Snapshot)

	assert.Equal(t, domain.RentalStatusReserved, rental.Status)
	assert.Equal(t, rental.StartDate.AddDate(0, 0, 7), rental.EndDate)

	snapshot := rental.Snapshot
	assert.NotEmpty(t, snapshot.Reference)
	assert.Equal(t, rental.ID, snapshot.RentalID)
	assert.Equal(t, 350.00, snapshot.BasePrice)
	assert.Equal(t, 350.00, snapshot.FinalPrice)
	assert.Equal(t, 7, snapshot.Days)
	assert.Equal(t, 50.00, snapshot.PricePerDay)
	assert.Equal(t, "EUR", snapshot.Currency)

	history, err := f.svc.History(f.ctx, rental.ID.String())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.RentalStatusReserved, history[0].ToStatus)
}

func TestCreateRental_SnapshotSurvivesRateAndRuleChanges(t *testing.T) {
	f := setupRentalFixture(t)

	rental, err := f.create()
	require.NoError(t, err)
	reference := rental.Snapshot.Reference

	// Rewrite the rate table and add a new rule after the fact.
	require.NoError(t, f.db.Model(&ratedomain.PricingRate{}).
		Where("org_id = ?", f.orgID).
		Update("price", 999).Error)
	seven := 7
	f.db.Create(&discountdomain.DiscountRule{
		ID:            f.node.Generate(),
		OrgID:         f.orgID,
		Label:         "retroactive",
		MinDays:       &seven,
		DiscountType:  discountdomain.DiscountTypePercentage,
		DiscountValue: 50,
		IsActive:      true,
	})

	reloaded, err := f.svc.Get(f.ctx, rental.ID.String())
	require.NoError(t, err)
	require.NotNil(t, reloaded.Snapshot)

	assert.Equal(t, reference, reloaded.Snapshot.Reference)
	assert.Equal(t, 350.00, reloaded.Snapshot.BasePrice)
	assert.Equal(t, 350.00, reloaded.Snapshot.FinalPrice)
}

func TestCreateRental_BikeMustBeAvailable(t *testing.T) {
	f := setupRentalFixture(t)

	require.NoError(t, f.db.Model(&bikedomain.Bike{}).
		Where("id = ?", f.bikeID).
		Update("status", bikedomain.BikeStatusMaintenance).Error)

	_, err := f.create()
	assert.ErrorIs(t, err, domain.ErrBikeUnavailable)
}

func TestCreateRental_UnknownCustomer(t *testing.T) {
	f := setupRentalFixture(t)

	_, err := f.svc.Create(f.ctx, domain.CreateRequest{
		CustomerID: f.node.Generate().String(),
		BikeID:     f.bikeID.String(),
		DurationID: f.weekID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCustomer)
}

func TestChangeRentalStatus_Lifecycle(t *testing.T) {
	f := setupRentalFixture(t)

	rental, err := f.create()
	require.NoError(t, err)
	id := rental.ID.String()

	bikeStatus := func() string {
		var bike bikedomain.Bike
		require.NoError(t, f.db.First(&bike, "id = ?", f.bikeID).Error)
		return bike.Status
	}

	_, err = f.svc.ChangeStatus(f.ctx, id, domain.ChangeStatusRequest{Status: domain.RentalStatusCompleted})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.svc.ChangeStatus(f.ctx, id, domain.ChangeStatusRequest{Status: domain.RentalStatusCheckedIn})
	require.NoError(t, err)

	_, err = f.svc.ChangeStatus(f.ctx, id, domain.ChangeStatusRequest{Status: domain.RentalStatusActive})
	require.NoError(t, err)
	assert.Equal(t, bikedomain.BikeStatusRented, bikeStatus())

	_, err = f.svc.ChangeStatus(f.ctx, id, domain.ChangeStatusRequest{Status: domain.RentalStatusCheckedOut})
	require.NoError(t, err)

	updated, err := f.svc.ChangeStatus(f.ctx, id, domain.ChangeStatusRequest{Status: domain.RentalStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusCompleted, updated.Status)
	assert.Equal(t, bikedomain.BikeStatusAvailable, bikeStatus())

	history, err := f.svc.History(f.ctx, id)
	require.NoError(t, err)
	assert.Len(t, history, 5)
}
