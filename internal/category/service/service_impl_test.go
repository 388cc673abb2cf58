package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	categorydomain "github.com/pedalworks/rentora/internal/category/domain"
	"github.com/pedalworks/rentora/internal/orgcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupCategoryService(t *testing.T) (categorydomain.Service, context.Context) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&categorydomain.Category{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
	})

	ctx := orgcontext.WithOrgID(context.Background(), int64(node.Generate()))
	return svc, ctx
}

func TestCreateCategory_DuplicateCode(t *testing.T) {
	svc, ctx := setupCategoryService(t)

	_, err := svc.Create(ctx, categorydomain.CreateRequest{Code: "city", Label: "City"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, categorydomain.CreateRequest{Code: "city", Label: "City again"})
	assert.ErrorIs(t, err, categorydomain.ErrCodeExists)
}

func TestCreateCategory_DerivesCodeFromLabel(t *testing.T) {
	svc, ctx := setupCategoryService(t)

	cat, err := svc.Create(ctx, categorydomain.CreateRequest{Label: "Cargo Bikes"})
	require.NoError(t, err)
	assert.Equal(t, "cargo_bikes", cat.Code)
}
