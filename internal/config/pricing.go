package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PricingConfig carries presentation defaults for the pricing engine.
// Rounding happens only at serialization boundaries; the engine itself
// keeps full floating precision.
type PricingConfig struct {
	Currency         string `mapstructure:"currency"`
	RoundingDecimals int    `mapstructure:"roundingDecimals"`
	MaxRentalDays    int    `mapstructure:"maxRentalDays"`
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		Currency:         "EUR",
		RoundingDecimals: 2,
		MaxRentalDays:    90,
	}
}

// PricingConfigHolder keeps the current pricing config and hot-reloads it
// when the underlying file changes.
type PricingConfigHolder struct {
	current atomic.Value // holds PricingConfig
}

func NewPricingConfigHolder() (*PricingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("pricing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/rentora/config")
	v.AddConfigPath("/etc/rentora")
	v.AddConfigPath(".")

	v.SetEnvPrefix("RENTORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPricingConfig()
		v.SetDefault("pricing.currency", defaults.Currency)
		v.SetDefault("pricing.roundingDecimals", defaults.RoundingDecimals)
		v.SetDefault("pricing.maxRentalDays", defaults.MaxRentalDays)
	}

	var cfg PricingConfig
	if err := v.UnmarshalKey("pricing", &cfg); err != nil {
		return nil, err
	}
	if err := validatePricingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PricingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PricingConfig
		if err := v.UnmarshalKey("pricing", &updated); err != nil {
			log.Printf("[pricing-config] reload failed: %v", err)
			return
		}
		if err := validatePricingConfig(updated); err != nil {
			log.Printf("[pricing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[pricing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPricingConfigHolder wraps a fixed config with no file
// watching. Useful where hot reload is unwanted, e.g. tests.
func NewStaticPricingConfigHolder(cfg PricingConfig) *PricingConfigHolder {
	holder := &PricingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PricingConfigHolder) Get() PricingConfig {
	return h.current.Load().(PricingConfig)
}

func validatePricingConfig(cfg PricingConfig) error {
	if strings.TrimSpace(cfg.Currency) == "" {
		return errors.New("pricing config: currency is required")
	}
	if cfg.RoundingDecimals < 0 || cfg.RoundingDecimals > 4 {
		return errors.New("pricing config: roundingDecimals must be between 0 and 4")
	}
	if cfg.MaxRentalDays < 1 {
		return errors.New("pricing config: maxRentalDays must be at least 1")
	}
	return nil
}
