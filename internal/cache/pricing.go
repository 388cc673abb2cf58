package cache

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// PricingCache memoizes resolved rate lookups. Configuration writes are
// rare compared to quote traffic, so a short TTL plus per-org
// invalidation keeps quotes cheap without risking stale prices.
type PricingCache struct {
	cache *Cache
}

// Invalidator is the write-side view handed to the rate and discount
// services.
type Invalidator interface {
	InvalidateOrg(orgID snowflake.ID)
}

func NewPricingCache() *PricingCache {
	return &PricingCache{cache: New(30 * time.Second)}
}

func rateKey(orgID, categoryID, classID, durationID snowflake.ID) string {
	return fmt.Sprintf("%d:rate:%d:%d:%d", orgID, categoryID, classID, durationID)
}

// GetRate returns the cached period price for the triple. The second
// return reports a cache hit; a hit with ok=false on the inner flag
// means "no rate configured" was itself cached.
func (p *PricingCache) GetRate(orgID, categoryID, classID, durationID snowflake.ID) (float64, bool, bool) {
	value, hit := p.cache.Get(rateKey(orgID, categoryID, classID, durationID))
	if !hit {
		return 0, false, false
	}
	price, ok := value.(float64)
	return price, ok, true
}

func (p *PricingCache) SetRate(orgID, categoryID, classID, durationID snowflake.ID, price float64) {
	p.cache.Set(rateKey(orgID, categoryID, classID, durationID), price)
}

// SetRateMiss caches a negative lookup so repeated quotes against an
// unconfigured triple do not hammer the database.
func (p *PricingCache) SetRateMiss(orgID, categoryID, classID, durationID snowflake.ID) {
	p.cache.Set(rateKey(orgID, categoryID, classID, durationID), nil)
}

func (p *PricingCache) InvalidateOrg(orgID snowflake.ID) {
	p.cache.DeletePrefix(fmt.Sprintf("%d:", orgID))
}
