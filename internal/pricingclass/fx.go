package pricingclass

import (
	"github.com/pedalworks/rentora/internal/pricingclass/repository"
	"github.com/pedalworks/rentora/internal/pricingclass/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricingclass.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
