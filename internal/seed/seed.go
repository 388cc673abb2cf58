package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	bikedomain "github.com/pedalworks/rentora/internal/bike/domain"
	categorydomain "github.com/pedalworks/rentora/internal/category/domain"
	discountdomain "github.com/pedalworks/rentora/internal/discount/domain"
	durationdomain "github.com/pedalworks/rentora/internal/duration/domain"
	organizationdomain "github.com/pedalworks/rentora/internal/organization/domain"
	pricingclassdomain "github.com/pedalworks/rentora/internal/pricingclass/domain"
	ratedomain "github.com/pedalworks/rentora/internal/rate/domain"
	"gorm.io/gorm"
)

const (
	defaultOrgName = "Main"
	defaultOrgSlug = "main"
)

type Options struct {
	// DefaultOrgID pins the seeded organization to a fixed id so the
	// X-Org-Id fallback in config points at a row that exists.
	DefaultOrgID int64

	// DemoData additionally seeds a small fleet with rates and
	// discount rules, enough to quote against a fresh database.
	DemoData bool
}

// EnsureDefaultOrg seeds the default organization with its pricing
// classes, duration buckets and bike categories for startup bootstrap.
// Every step is idempotent, so restarts are safe.
func EnsureDefaultOrg(db *gorm.DB, opts Options) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := ensureDefaultOrgTx(ctx, tx, node, opts.DefaultOrgID)
		if err != nil {
			return err
		}

		classes, err := ensureClassesTx(ctx, tx, node, org.ID)
		if err != nil {
			return err
		}

		durations, err := ensureDurationsTx(ctx, tx, node, org.ID)
		if err != nil {
			return err
		}

		categories, err := ensureCategoriesTx(ctx, tx, node, org.ID)
		if err != nil {
			return err
		}

		if opts.DemoData {
			return seedDemoTx(ctx, tx, node, org.ID, classes, durations, categories)
		}
		return nil
	})
}

func ensureDefaultOrgTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, fixedID int64) (organizationdomain.Organization, error) {
	var org organizationdomain.Organization
	err := tx.WithContext(ctx).Where("slug = ?", defaultOrgSlug).First(&org).Error
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return org, err
	}

	id := node.Generate()
	if fixedID != 0 {
		id = snowflake.ID(fixedID)
	}
	now := time.Now().UTC()
	org = organizationdomain.Organization{
		ID:        id,
		Name:      defaultOrgName,
		Slug:      slug.Make(defaultOrgName),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&org).Error; err != nil {
		return org, err
	}
	return org, nil
}

func ensureClassesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, orgID snowflake.ID) (map[string]snowflake.ID, error) {
	seeded := []pricingclassdomain.PricingClass{
		{Code: "standard", Label: "Standard", SortOrder: 1},
		{Code: "premium", Label: "Premium", SortOrder: 2},
		{Code: "elite", Label: "Elite", SortOrder: 3},
	}

	ids := make(map[string]snowflake.ID, len(seeded))
	for _, class := range seeded {
		var existing pricingclassdomain.PricingClass
		err := tx.WithContext(ctx).Where("org_id = ? AND code = ?", orgID, class.Code).First(&existing).Error
		if err == nil {
			ids[class.Code] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		now := time.Now().UTC()
		class.ID = node.Generate()
		class.OrgID = orgID
		class.IsActive = true
		class.CreatedAt = now
		class.UpdatedAt = now
		if err := tx.WithContext(ctx).Create(&class).Error; err != nil {
			return nil, err
		}
		ids[class.Code] = class.ID
	}
	return ids, nil
}

func ensureDurationsTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, orgID snowflake.ID) (map[string]snowflake.ID, error) {
	hours := func(h int) *int { return &h }
	days := func(d int) *int { return &d }

	seeded := []durationdomain.DurationDefinition{
		{Code: "half_day", Label: "Half day", DurationHours: hours(4), SortOrder: 1},
		{Code: "full_day", Label: "Full day", DurationDays: days(1), SortOrder: 2},
		{Code: "weekend", Label: "Weekend", DurationDays: days(2), SortOrder: 3},
		{Code: "week", Label: "Week", DurationDays: days(7), SortOrder: 4},
		{Code: "custom", Label: "Custom", IsCustom: true, SortOrder: 5},
	}

	ids := make(map[string]snowflake.ID, len(seeded))
	for _, duration := range seeded {
		var existing durationdomain.DurationDefinition
		err := tx.WithContext(ctx).Where("org_id = ? AND code = ?", orgID, duration.Code).First(&existing).Error
		if err == nil {
			ids[duration.Code] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		now := time.Now().UTC()
		duration.ID = node.Generate()
		duration.OrgID = orgID
		duration.IsActive = true
		duration.CreatedAt = now
		duration.UpdatedAt = now
		if err := tx.WithContext(ctx).Create(&duration).Error; err != nil {
			return nil, err
		}
		ids[duration.Code] = duration.ID
	}
	return ids, nil
}

func ensureCategoriesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, orgID snowflake.ID) (map[string]snowflake.ID, error) {
	seeded := []categorydomain.Category{
		{Code: "city", Label: "City", SortOrder: 1},
		{Code: "mtb", Label: "Mountain", SortOrder: 2},
		{Code: "road", Label: "Road", SortOrder: 3},
		{Code: "ebike", Label: "E-Bike", SortOrder: 4},
		{Code: "cargo", Label: "Cargo", SortOrder: 5},
	}

	ids := make(map[string]snowflake.ID, len(seeded))
	for _, category := range seeded {
		var existing categorydomain.Category
		err := tx.WithContext(ctx).Where("org_id = ? AND code = ?", orgID, category.Code).First(&existing).Error
		if err == nil {
			ids[category.Code] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		now := time.Now().UTC()
		category.ID = node.Generate()
		category.OrgID = orgID
		category.IsActive = true
		category.CreatedAt = now
		category.UpdatedAt = now
		if err := tx.WithContext(ctx).Create(&category).Error; err != nil {
			return nil, err
		}
		ids[category.Code] = category.ID
	}
	return ids, nil
}

// seedDemoTx fills the rate table and adds a few discount rules and
// bikes. Skipped entirely once the org has any rates, so operator
// changes are never overwritten.
func seedDemoTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, orgID snowflake.ID, classes, durations, categories map[string]snowflake.ID) error {
	var rateCount int64
	if err := tx.WithContext(ctx).Model(&ratedomain.PricingRate{}).Where("org_id = ?", orgID).Count(&rateCount).Error; err != nil {
		return err
	}
	if rateCount > 0 {
		return nil
	}

	// Daily base price per category, scaled per class and duration.
	// The custom bucket stores a daily rate; the others store the
	// price of the whole period.
	dailyBase := map[string]float64{
		"city":  25,
		"mtb":   35,
		"road":  40,
		"ebike": 50,
		"cargo": 45,
	}
	classFactor := map[string]float64{
		"standard": 1,
		"premium":  1.3,
		"elite":    1.6,
	}
	durationFactor := map[string]float64{
		"half_day": 0.6,
		"full_day": 1,
		"weekend":  1.8,
		"week":     5.5,
		"custom":   1,
	}

	now := time.Now().UTC()
	for categoryCode, categoryID := range categories {
		for classCode, classID := range classes {
			for durationCode, durationID := range durations {
				rate := ratedomain.PricingRate{
					ID:             node.Generate(),
					OrgID:          orgID,
					CategoryID:     categoryID,
					PricingClassID: classID,
					DurationID:     durationID,
					Price:          dailyBase[categoryCode] * classFactor[classCode] * durationFactor[durationCode],
					IsActive:       true,
					CreatedAt:      now,
					UpdatedAt:      now,
				}
				if err := tx.WithContext(ctx).Create(&rate).Error; err != nil {
					return err
				}
			}
		}
	}

	minDays := func(d int) *int { return &d }
	weekID := durations["week"]
	rules := []discountdomain.DiscountRule{
		{
			ID:            node.Generate(),
			OrgID:         orgID,
			Label:         "Week rental discount",
			Description:   "10% off rentals of a week or longer",
			MinDurationID: &weekID,
			DiscountType:  discountdomain.DiscountTypePercentage,
			DiscountValue: 10,
			Priority:      10,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:            node.Generate(),
			OrgID:         orgID,
			Label:         "Long rental bonus",
			Description:   "5 off any rental of three days or more",
			MinDays:       minDays(3),
			DiscountType:  discountdomain.DiscountTypeFixed,
			DiscountValue: 5,
			IsCumulative:  true,
			Priority:      20,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}
	for _, rule := range rules {
		if err := tx.WithContext(ctx).Create(&rule).Error; err != nil {
			return err
		}
	}

	frameSize := func(s string) *string { return &s }
	bikes := []bikedomain.Bike{
		{
			ID:             node.Generate(),
			OrgID:          orgID,
			CategoryID:     categories["city"],
			PricingClassID: classes["standard"],
			Brand:          "Gazelle",
			Model:          "CityZen",
			SerialNumber:   "DEMO-0001",
			FrameSize:      frameSize("M"),
			Status:         bikedomain.BikeStatusAvailable,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:             node.Generate(),
			OrgID:          orgID,
			CategoryID:     categories["ebike"],
			PricingClassID: classes["premium"],
			Brand:          "Riese & Müller",
			Model:          "Charger4",
			SerialNumber:   "DEMO-0002",
			FrameSize:      frameSize("L"),
			Status:         bikedomain.BikeStatusAvailable,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}
	for _, bike := range bikes {
		if err := tx.WithContext(ctx).Create(&bike).Error; err != nil {
			return err
		}
	}

	return nil
}
