package migration

import (
	bikedomain "github.com/pedalworks/rentora/internal/bike/domain"
	categorydomain "github.com/pedalworks/rentora/internal/category/domain"
	"github.com/pedalworks/rentora/internal/config"
	customerdomain "github.com/pedalworks/rentora/internal/customer/domain"
	discountdomain "github.com/pedalworks/rentora/internal/discount/domain"
	durationdomain "github.com/pedalworks/rentora/internal/duration/domain"
	maintenancedomain "github.com/pedalworks/rentora/internal/maintenance/domain"
	organizationdomain "github.com/pedalworks/rentora/internal/organization/domain"
	pricingclassdomain "github.com/pedalworks/rentora/internal/pricingclass/domain"
	ratedomain "github.com/pedalworks/rentora/internal/rate/domain"
	rentaldomain "github.com/pedalworks/rentora/internal/rental/domain"
	"github.com/pedalworks/rentora/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// The SQL migrations are written for postgres. Other
			// dialects, used for local development, build the schema
			// from the models instead.
			if err := autoMigrate(conn); err != nil {
				return err
			}
		}

		return seed.EnsureDefaultOrg(conn, seed.Options{
			DefaultOrgID: cfg.DefaultOrgID,
			DemoData:     cfg.SeedDemoData,
		})
	}),
)

func autoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&organizationdomain.Organization{},
		&pricingclassdomain.PricingClass{},
		&durationdomain.DurationDefinition{},
		&categorydomain.Category{},
		&ratedomain.PricingRate{},
		&discountdomain.DiscountRule{},
		&bikedomain.Bike{},
		&customerdomain.Customer{},
		&rentaldomain.Rental{},
		&rentaldomain.RentalPricingSnapshot{},
		&rentaldomain.RentalStatusHistory{},
		&maintenancedomain.MaintenanceRecord{},
	)
}
