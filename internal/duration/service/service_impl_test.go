package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	durationdomain "github.com/pedalworks/rentora/internal/duration/domain"
	durationrepository "github.com/pedalworks/rentora/internal/duration/repository"
	"github.com/pedalworks/rentora/internal/orgcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDurationService(t *testing.T) (durationdomain.Service, context.Context) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&durationdomain.DurationDefinition{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  durationrepository.Provide(),
	})

	ctx := orgcontext.WithOrgID(context.Background(), int64(node.Generate()))
	return svc, ctx
}

func daysPtr(v int) *int  { return &v }
func hoursPtr(v int) *int { return &v }
func truePtr() *bool      { v := true; return &v }

func TestCreateDuration_DuplicateCode(t *testing.T) {
	svc, ctx := setupDurationService(t)

	_, err := svc.Create(ctx, durationdomain.CreateRequest{
		Code:         "weekend",
		Label:        "Weekend",
		DurationDays: daysPtr(2),
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, durationdomain.CreateRequest{
		Code:         "weekend",
		Label:        "Weekend again",
		DurationDays: daysPtr(2),
	})
	assert.ErrorIs(t, err, durationdomain.ErrCodeExists)
}

func TestCreateDuration_ExactlyOneLength(t *testing.T) {
	svc, ctx := setupDurationService(t)

	_, err := svc.Create(ctx, durationdomain.CreateRequest{
		Code:          "odd",
		Label:         "Odd",
		DurationHours: hoursPtr(4),
		DurationDays:  daysPtr(1),
	})
	assert.ErrorIs(t, err, durationdomain.ErrInvalidLength)

	_, err = svc.Create(ctx, durationdomain.CreateRequest{
		Code:  "empty",
		Label: "Empty",
	})
	assert.ErrorIs(t, err, durationdomain.ErrInvalidLength)

	_, err = svc.Create(ctx, durationdomain.CreateRequest{
		Code:         "custom_days",
		Label:        "Custom with days",
		DurationDays: daysPtr(3),
		IsCustom:     truePtr(),
	})
	assert.ErrorIs(t, err, durationdomain.ErrInvalidLength)

	def, err := svc.Create(ctx, durationdomain.CreateRequest{
		Code:     "custom",
		Label:    "Custom",
		IsCustom: truePtr(),
	})
	require.NoError(t, err)
	assert.True(t, def.IsCustom)
}
