package bike

import (
	"github.com/pedalworks/rentora/internal/bike/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bike.service",
	fx.Provide(service.New),
)
