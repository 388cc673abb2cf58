package rental

import (
	"github.com/pedalworks/rentora/internal/rental/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rental.service",
	fx.Provide(service.New),
)
