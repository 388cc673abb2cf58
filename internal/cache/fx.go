package cache

import "go.uber.org/fx"

var Module = fx.Module("cache",
	fx.Provide(NewPricingCache),
	fx.Provide(func(p *PricingCache) Invalidator { return p }),
)
