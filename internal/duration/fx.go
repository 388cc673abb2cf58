package duration

import (
	"github.com/pedalworks/rentora/internal/duration/repository"
	"github.com/pedalworks/rentora/internal/duration/service"
	"go.uber.org/fx"
)

var Module = fx.Module("duration.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
