package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	customerdomain "github.com/pedalworks/rentora/internal/customer/domain"
	"github.com/pedalworks/rentora/internal/orgcontext"
	"github.com/pedalworks/rentora/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type customerFixture struct {
	db  *gorm.DB
	svc customerdomain.Service
	ctx context.Context
}

func setupCustomerFixture(t *testing.T) *customerFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&customerdomain.Customer{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{DB: db, Log: zap.NewNop(), GenID: node})
	orgID := node.Generate()

	return &customerFixture{
		db:  db,
		svc: svc,
		ctx: orgcontext.WithOrgID(context.Background(), int64(orgID)),
	}
}

func TestCreateCustomer_NormalizesEmail(t *testing.T) {
	f := setupCustomerFixture(t)

	customer, err := f.svc.Create(f.ctx, customerdomain.CreateRequest{
		FirstName: "Nora",
		LastName:  "Visser",
		Email:     "  Nora.Visser@Example.COM ",
	})
	require.NoError(t, err)
	assert.Equal(t, "nora.visser@example.com", customer.Email)
	assert.Equal(t, "Nora Visser", customer.FullName())
}

func TestCreateCustomer_RejectsBadInput(t *testing.T) {
	f := setupCustomerFixture(t)

	_, err := f.svc.Create(f.ctx, customerdomain.CreateRequest{
		FirstName: " ",
		LastName:  "Visser",
		Email:     "nora@example.com",
	})
	assert.ErrorIs(t, err, customerdomain.ErrInvalidName)

	_, err = f.svc.Create(f.ctx, customerdomain.CreateRequest{
		FirstName: "Nora",
		LastName:  "Visser",
		Email:     "not-an-email",
	})
	assert.ErrorIs(t, err, customerdomain.ErrInvalidEmail)
}

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	f := setupCustomerFixture(t)

	_, err := f.svc.Create(f.ctx, customerdomain.CreateRequest{
		FirstName: "Nora",
		LastName:  "Visser",
		Email:     "nora@example.com",
	})
	require.NoError(t, err)

	_, err = f.svc.Create(f.ctx, customerdomain.CreateRequest{
		FirstName: "Another",
		LastName:  "Nora",
		Email:     "NORA@example.com",
	})
	assert.ErrorIs(t, err, customerdomain.ErrEmailExists)
}

func TestUpdateCustomer_KeepingOwnEmail(t *testing.T) {
	f := setupCustomerFixture(t)

	customer, err := f.svc.Create(f.ctx, customerdomain.CreateRequest{
		FirstName: "Nora",
		LastName:  "Visser",
		Email:     "nora@example.com",
	})
	require.NoError(t, err)

	email := "nora@example.com"
	city := "Utrecht"
	updated, err := f.svc.Update(f.ctx, customer.ID.String(), customerdomain.UpdateRequest{
		Email: &email,
		City:  &city,
	})
	require.NoError(t, err)
	assert.Equal(t, "Utrecht", updated.City)
}

func TestListCustomers_CursorPagination(t *testing.T) {
	f := setupCustomerFixture(t)

	for i := 0; i < 5; i++ {
		_, err := f.svc.Create(f.ctx, customerdomain.CreateRequest{
			FirstName: "Customer",
			LastName:  fmt.Sprintf("Nr%d", i),
			Email:     fmt.Sprintf("customer%d@example.com", i),
		})
		require.NoError(t, err)
	}

	first, err := f.svc.List(f.ctx, customerdomain.ListRequest{
		Pagination: pagination.Pagination{PageSize: 2},
	})
	require.NoError(t, err)
	assert.Len(t, first.Customers, 2)
	assert.True(t, first.PageInfo.HasMore)

	second, err := f.svc.List(f.ctx, customerdomain.ListRequest{
		Pagination: pagination.Pagination{PageSize: 2, PageToken: first.PageInfo.NextPageToken},
	})
	require.NoError(t, err)
	assert.Len(t, second.Customers, 2)
	assert.True(t, second.PageInfo.HasMore)
	assert.NotEqual(t, first.Customers[0].ID, second.Customers[0].ID)

	third, err := f.svc.List(f.ctx, customerdomain.ListRequest{
		Pagination: pagination.Pagination{PageSize: 2, PageToken: second.PageInfo.NextPageToken},
	})
	require.NoError(t, err)
	assert.Len(t, third.Customers, 1)
	assert.False(t, third.PageInfo.HasMore)
}

func TestListCustomers_Search(t *testing.T) {
	f := setupCustomerFixture(t)

	_, err := f.svc.Create(f.ctx, customerdomain.CreateRequest{
		FirstName: "Nora",
		LastName:  "Visser",
		Email:     "nora@example.com",
	})
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx, customerdomain.CreateRequest{
		FirstName: "Jan",
		LastName:  "Bakker",
		Email:     "jan@example.com",
	})
	require.NoError(t, err)

	resp, err := f.svc.List(f.ctx, customerdomain.ListRequest{Search: "visser"})
	require.NoError(t, err)
	require.Len(t, resp.Customers, 1)
	assert.Equal(t, "Nora", resp.Customers[0].FirstName)
}
