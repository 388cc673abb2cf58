package discount

import (
	"github.com/pedalworks/rentora/internal/discount/repository"
	"github.com/pedalworks/rentora/internal/discount/service"
	"go.uber.org/fx"
)

var Module = fx.Module("discount.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
