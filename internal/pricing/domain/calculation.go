package domain

import (
	"errors"
	"math"

	"github.com/bwmarrin/snowflake"
)

// ErrCalculationInvariant is returned when a PriceCalculation is
// constructed with inconsistent values. The calculator never produces
// such values; hitting this error means a calculator bug, so it fails
// fast instead of clamping.
var ErrCalculationInvariant = errors.New("calculation_invariant_violation")

// AppliedDiscount records one rule's contribution to a calculation:
// which rule, what kind, and the amount it took off the running price.
type AppliedDiscount struct {
	RuleID snowflake.ID `json:"id"`
	Label  string       `json:"label"`
	Type   string       `json:"type"`
	Value  float64      `json:"value"`
	Amount float64      `json:"amount"`
}

// PriceCalculation is the immutable result of one pricing run. Fields
// are unexported; the constructor validates the invariants and the
// accessors hand out copies, so a calculation can be passed around and
// serialized without risk of mutation.
type PriceCalculation struct {
	basePrice      float64
	finalPrice     float64
	days           int
	pricePerDay    float64
	discounts      []AppliedDiscount
	categoryID     snowflake.ID
	pricingClassID snowflake.ID
	durationID     snowflake.ID
}

func NewPriceCalculation(basePrice, finalPrice float64, days int, discounts []AppliedDiscount, categoryID, pricingClassID, durationID snowflake.ID) (*PriceCalculation, error) {
	if days < 1 {
		return nil, ErrCalculationInvariant
	}
	if basePrice < 0 || finalPrice < 0 || finalPrice > basePrice {
		return nil, ErrCalculationInvariant
	}

	copied := make([]AppliedDiscount, len(discounts))
	copy(copied, discounts)

	return &PriceCalculation{
		basePrice:      basePrice,
		finalPrice:     finalPrice,
		days:           days,
		pricePerDay:    basePrice / float64(days),
		discounts:      copied,
		categoryID:     categoryID,
		pricingClassID: pricingClassID,
		durationID:     durationID,
	}, nil
}

func (c *PriceCalculation) BasePrice() float64      { return c.basePrice }
func (c *PriceCalculation) FinalPrice() float64     { return c.finalPrice }
func (c *PriceCalculation) Days() int               { return c.days }
func (c *PriceCalculation) PricePerDay() float64    { return c.pricePerDay }
func (c *PriceCalculation) CategoryID() snowflake.ID { return c.categoryID }
func (c *PriceCalculation) PricingClassID() snowflake.ID { return c.pricingClassID }
func (c *PriceCalculation) DurationID() snowflake.ID { return c.durationID }

func (c *PriceCalculation) AppliedDiscounts() []AppliedDiscount {
	out := make([]AppliedDiscount, len(c.discounts))
	copy(out, c.discounts)
	return out
}

func (c *PriceCalculation) TotalDiscountAmount() float64 {
	return c.basePrice - c.finalPrice
}

// TotalDiscountPercentage returns the overall reduction as a percentage
// of the base price, 0 for a free (zero base) calculation.
func (c *PriceCalculation) TotalDiscountPercentage() float64 {
	if c.basePrice == 0 {
		return 0
	}
	return c.TotalDiscountAmount() / c.basePrice * 100
}

// SnapshotData is the serialization form of a calculation: the shape
// persisted on a rental's pricing snapshot and returned from the quote
// endpoint. Money values are rounded to two decimals here, and only
// here; intermediate math keeps full precision.
type SnapshotData struct {
	BasePrice        float64           `json:"base_price"`
	FinalPrice       float64           `json:"final_price"`
	Days             int               `json:"days"`
	PricePerDay      float64           `json:"price_per_day"`
	AppliedDiscounts []AppliedDiscount `json:"applied_discounts"`
	CategoryID       snowflake.ID      `json:"category_id"`
	PricingClassID   snowflake.ID      `json:"pricing_class_id"`
	DurationID       snowflake.ID      `json:"duration_id"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (c *PriceCalculation) ToSnapshotData() SnapshotData {
	discounts := make([]AppliedDiscount, len(c.discounts))
	for i, d := range c.discounts {
		d.Amount = round2(d.Amount)
		discounts[i] = d
	}
	return SnapshotData{
		BasePrice:        round2(c.basePrice),
		FinalPrice:       round2(c.finalPrice),
		Days:             c.days,
		PricePerDay:      round2(c.pricePerDay),
		AppliedDiscounts: discounts,
		CategoryID:       c.categoryID,
		PricingClassID:   c.pricingClassID,
		DurationID:       c.durationID,
	}
}
