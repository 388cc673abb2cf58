package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/pedalworks/rentora/internal/bike"
	bikedomain "github.com/pedalworks/rentora/internal/bike/domain"
	"github.com/pedalworks/rentora/internal/cache"
	"github.com/pedalworks/rentora/internal/category"
	categorydomain "github.com/pedalworks/rentora/internal/category/domain"
	"github.com/pedalworks/rentora/internal/config"
	"github.com/pedalworks/rentora/internal/customer"
	customerdomain "github.com/pedalworks/rentora/internal/customer/domain"
	"github.com/pedalworks/rentora/internal/discount"
	discountdomain "github.com/pedalworks/rentora/internal/discount/domain"
	"github.com/pedalworks/rentora/internal/duration"
	durationdomain "github.com/pedalworks/rentora/internal/duration/domain"
	"github.com/pedalworks/rentora/internal/maintenance"
	maintenancedomain "github.com/pedalworks/rentora/internal/maintenance/domain"
	"github.com/pedalworks/rentora/internal/observability"
	obsmiddleware "github.com/pedalworks/rentora/internal/observability/logger"
	obsmetrics "github.com/pedalworks/rentora/internal/observability/metrics"
	obstracing "github.com/pedalworks/rentora/internal/observability/tracing"
	"github.com/pedalworks/rentora/internal/pricing"
	pricingdomain "github.com/pedalworks/rentora/internal/pricing/domain"
	"github.com/pedalworks/rentora/internal/pricingclass"
	classdomain "github.com/pedalworks/rentora/internal/pricingclass/domain"
	"github.com/pedalworks/rentora/internal/rate"
	ratedomain "github.com/pedalworks/rentora/internal/rate/domain"
	"github.com/pedalworks/rentora/internal/ratelimit"
	"github.com/pedalworks/rentora/internal/rental"
	rentaldomain "github.com/pedalworks/rentora/internal/rental/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	cache.Module,
	ratelimit.Module,
	pricingclass.Module,
	duration.Module,
	category.Module,
	rate.Module,
	discount.Module,
	pricing.Module,
	bike.Module,
	customer.Module,
	rental.Module,
	maintenance.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	genID          *snowflake.Node
	classSvc       classdomain.Service
	durationSvc    durationdomain.Service
	categorySvc    categorydomain.Service
	rateSvc        ratedomain.Service
	discountSvc    discountdomain.Service
	pricingSvc     pricingdomain.Service
	bikeSvc        bikedomain.Service
	customerSvc    customerdomain.Service
	rentalSvc      rentaldomain.Service
	maintenanceSvc maintenancedomain.Service
	obsMetrics     *obsmetrics.Metrics
	quoteLimiter   *ratelimit.QuoteLimiter
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	DB             *gorm.DB
	GenID          *snowflake.Node
	ClassSvc       classdomain.Service
	DurationSvc    durationdomain.Service
	CategorySvc    categorydomain.Service
	RateSvc        ratedomain.Service
	DiscountSvc    discountdomain.Service
	PricingSvc     pricingdomain.Service
	BikeSvc        bikedomain.Service
	CustomerSvc    customerdomain.Service
	RentalSvc      rentaldomain.Service
	MaintenanceSvc maintenancedomain.Service
	ObsMetrics     *obsmetrics.Metrics      `optional:"true"`
	QuoteLimiter   *ratelimit.QuoteLimiter  `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		genID:          p.GenID,
		classSvc:       p.ClassSvc,
		durationSvc:    p.DurationSvc,
		categorySvc:    p.CategorySvc,
		rateSvc:        p.RateSvc,
		discountSvc:    p.DiscountSvc,
		pricingSvc:     p.PricingSvc,
		bikeSvc:        p.BikeSvc,
		customerSvc:    p.CustomerSvc,
		rentalSvc:      p.RentalSvc,
		maintenanceSvc: p.MaintenanceSvc,
		obsMetrics:     p.ObsMetrics,
		quoteLimiter:   p.QuoteLimiter,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.OrgRequired())

	// -------- Pricing configuration --------
	api.GET("/pricing_classes", s.ListPricingClasses)
	api.POST("/pricing_classes", s.CreatePricingClass)
	api.GET("/pricing_classes/:id", s.GetPricingClass)
	api.PATCH("/pricing_classes/:id", s.UpdatePricingClass)
	api.DELETE("/pricing_classes/:id", s.DeletePricingClass)

	api.GET("/durations", s.ListDurations)
	api.POST("/durations", s.CreateDuration)
	api.GET("/durations/:id", s.GetDuration)
	api.PATCH("/durations/:id", s.UpdateDuration)
	api.DELETE("/durations/:id", s.DeleteDuration)

	api.GET("/categories", s.ListCategories)
	api.POST("/categories", s.CreateCategory)
	api.GET("/categories/:id", s.GetCategory)
	api.PATCH("/categories/:id", s.UpdateCategory)
	api.DELETE("/categories/:id", s.DeleteCategory)

	// -------- Rates --------
	api.GET("/rates", s.ListRates)
	api.POST("/rates/bulk", s.BulkUpsertRates)
	api.DELETE("/rates/:id", s.DeleteRate)

	// -------- Discount rules --------
	api.GET("/discounts", s.ListDiscounts)
	api.POST("/discounts", s.CreateDiscount)
	api.GET("/discounts/:id", s.GetDiscount)
	api.PATCH("/discounts/:id", s.UpdateDiscount)
	api.DELETE("/discounts/:id", s.DeleteDiscount)

	// -------- Quotes --------
	api.POST("/pricing/quote", s.QuoteRateLimit(), s.QuotePrice)

	// -------- Fleet --------
	api.GET("/bikes", s.ListBikes)
	api.POST("/bikes", s.CreateBike)
	api.GET("/bikes/:id", s.GetBike)
	api.PATCH("/bikes/:id", s.UpdateBike)
	api.POST("/bikes/:id/status", s.ChangeBikeStatus)
	api.DELETE("/bikes/:id", s.DeleteBike)

	// -------- Customers --------
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.PATCH("/customers/:id", s.UpdateCustomer)
	api.DELETE("/customers/:id", s.DeleteCustomer)

	// -------- Rentals --------
	api.GET("/rentals", s.ListRentals)
	api.POST("/rentals", s.CreateRental)
	api.GET("/rentals/:id", s.GetRental)
	api.GET("/rentals/:id/history", s.GetRentalHistory)
	api.POST("/rentals/:id/status", s.ChangeRentalStatus)
	api.DELETE("/rentals/:id", s.DeleteRental)

	// -------- Maintenance --------
	api.GET("/maintenance", s.ListMaintenance)
	api.POST("/maintenance", s.OpenMaintenance)
	api.GET("/maintenance/:id", s.GetMaintenance)
	api.POST("/maintenance/:id/start", s.StartMaintenance)
	api.POST("/maintenance/:id/complete", s.CompleteMaintenance)
}
