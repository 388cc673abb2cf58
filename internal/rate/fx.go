package rate

import (
	"github.com/pedalworks/rentora/internal/rate/repository"
	"github.com/pedalworks/rentora/internal/rate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
