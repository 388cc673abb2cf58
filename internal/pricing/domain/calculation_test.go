package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPriceCalculation_RejectsInconsistentValues(t *testing.T) {
	cases := []struct {
		name       string
		basePrice  float64
		finalPrice float64
		days       int
	}{
		{"final above base", 100, 120, 1},
		{"negative final", 100, -1, 1},
		{"negative base", -50, -50, 1},
		{"zero days", 100, 100, 0},
		{"negative days", 100, 100, -3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPriceCalculation(tc.basePrice, tc.finalPrice, tc.days, nil, 1, 2, 3)
			assert.ErrorIs(t, err, ErrCalculationInvariant)
		})
	}
}

func TestPriceCalculation_DerivedValues(t *testing.T) {
	discounts := []AppliedDiscount{
		{RuleID: 10, Label: "weekly", Type: "PERCENTAGE", Value: 10, Amount: 35},
	}
	calc, err := NewPriceCalculation(350, 315, 7, discounts, 1, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, 35.00, calc.TotalDiscountAmount())
	assert.Equal(t, 10.00, calc.TotalDiscountPercentage())
	assert.Equal(t, 50.00, calc.PricePerDay())
}

func TestPriceCalculation_ZeroBaseHasZeroDiscountPercentage(t *testing.T) {
	calc, err := NewPriceCalculation(0, 0, 1, nil, 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.00, calc.TotalDiscountPercentage())
}

func TestPriceCalculation_AccessorsReturnCopies(t *testing.T) {
	discounts := []AppliedDiscount{{RuleID: 10, Label: "weekly", Amount: 35}}
	calc, err := NewPriceCalculation(350, 315, 7, discounts, 1, 2, 3)
	require.NoError(t, err)

	// Mutating the input slice or an accessor result must not leak into
	// the calculation.
	discounts[0].Amount = 999
	got := calc.AppliedDiscounts()
	assert.Equal(t, 35.00, got[0].Amount)

	got[0].Amount = 777
	assert.Equal(t, 35.00, calc.AppliedDiscounts()[0].Amount)
}

func TestToSnapshotData_RoundsToTwoDecimals(t *testing.T) {
	discounts := []AppliedDiscount{
		{RuleID: 10, Label: "a", Amount: 11.666666},
		{RuleID: 11, Label: "b", Amount: 5.004},
	}
	calc, err := NewPriceCalculation(100.004999, 83.3333, 3, discounts, 1, 2, 3)
	require.NoError(t, err)

	data := calc.ToSnapshotData()
	assert.Equal(t, 100.00, data.BasePrice)
	assert.Equal(t, 83.33, data.FinalPrice)
	assert.Equal(t, 33.33, data.PricePerDay)
	assert.Equal(t, 11.67, data.AppliedDiscounts[0].Amount)
	assert.Equal(t, 5.00, data.AppliedDiscounts[1].Amount)
	assert.Equal(t, snowflake.ID(1), data.CategoryID)
}
