package category

import (
	"github.com/pedalworks/rentora/internal/category/service"
	"go.uber.org/fx"
)

var Module = fx.Module("category.service",
	fx.Provide(service.New),
)
