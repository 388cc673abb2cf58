package ratelimit

import (
	"context"
	"fmt"
	"strings"

	"github.com/pedalworks/rentora/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const keyQuoteOrg = "quote:org:%s"

// QuoteLimiter throttles the quote endpoint per organization. Quote is
// the only hot read path; everything else is low-volume admin traffic.
// Disabled (nil) when no redis address is configured, in which case all
// requests pass.
type QuoteLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewQuoteLimiter(cfg config.Config) *QuoteLimiter {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
	})

	return &QuoteLimiter{
		bucket: NewTokenBucket(client),
		rate:   cfg.QuoteRate,
		burst:  cfg.QuoteBurst,
	}
}

func (l *QuoteLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// Allow fails open on limiter errors: a redis outage must not take the
// quote endpoint down with it.
func (l *QuoteLimiter) Allow(ctx context.Context, orgID string) bool {
	if !l.Enabled() {
		return true
	}
	allowed, err := l.bucket.Allow(ctx, fmt.Sprintf(keyQuoteOrg, strings.TrimSpace(orgID)), l.rate, l.burst)
	if err != nil {
		return true
	}
	return allowed
}
